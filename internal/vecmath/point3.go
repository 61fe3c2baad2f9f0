package vecmath

import "math"

// KeyPrecision is the number of decimal places point-cache equality keys
// are rounded to (~0.1 micron at millimeter scale).
const KeyPrecision = 4

// RoundTo rounds x to the given number of decimal places. Every cache in
// this module derives its keys through this single routine so storage and
// cache keys never diverge (see DESIGN.md: mutation-then-rehash).
func RoundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}

// Point3 is a 3-component position in millimeters.
type Point3 struct {
	X, Y, Z float64
}

// NewPoint3 builds a Point3 from raw coordinates.
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Key returns the rounded tuple used as this point's identity in
// PointCache: two points are the same point when their keys match.
func (p Point3) Key() [3]float64 {
	return [3]float64{
		RoundTo(p.X, KeyPrecision),
		RoundTo(p.Y, KeyPrecision),
		RoundTo(p.Z, KeyPrecision),
	}
}

// Less orders points lexicographically with Z primary, then Y, then X —
// the reversed-tuple comparison Segment3 canonicalization relies on.
func (p Point3) Less(o Point3) bool {
	if p.Z != o.Z {
		return p.Z < o.Z
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Sub returns the vector from o to p (p - o).
func (p Point3) Sub(o Point3) Vector {
	return NewVector(p.X-o.X, p.Y-o.Y, p.Z-o.Z)
}

// Translate returns p shifted by offset.
func (p Point3) Translate(offset Vector) Point3 {
	return Point3{X: p.X + offset.At(0), Y: p.Y + offset.At(1), Z: p.Z + offset.At(2)}
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point3) DistanceTo(o Point3) float64 {
	return p.Sub(o).Length()
}

// XY projects p onto the XY plane.
func (p Point3) XY() (float64, float64) {
	return p.X, p.Y
}
