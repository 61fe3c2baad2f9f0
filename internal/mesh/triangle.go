// Package mesh implements the insertion-deduplicating point/edge/triangle
// caches and the Mesh type built on them: manifold validation, per-layer
// triangle indexing, and triangle-plane slicing.
package mesh

import (
	"math"

	"github.com/mandoline-go/mandoline/internal/vecmath"
)

// zQuantum is the default snap used by SliceAtZ to avoid landing a slice
// plane exactly on a vertex Z coordinate.
const zQuantum = 1e-3

// Triangle3 is a 3D triangular facet: three vertices in canonical cyclic
// order (lexicographically smallest first) plus a unit outward normal.
// RefCount tracks how many times an identical triangle has been inserted.
type Triangle3 struct {
	Vertices [3]vecmath.Point3
	Normal   vecmath.Vector
	RefCount int
}

// NewTriangle3 builds a canonicalized Triangle3: vertices are rotated so
// the lexicographically smallest comes first, then flipped (if a non-zero
// normal was given) so the winding is counter-clockwise as seen from
// outside. A zero-length normal is recomputed from the vertex order.
func NewTriangle3(v1, v2, v3 vecmath.Point3, normal vecmath.Vector) Triangle3 {
	verts := [3]vecmath.Point3{v1, v2, v3}
	for isLaterThanEither(verts) {
		verts = [3]vecmath.Point3{verts[1], verts[2], verts[0]}
	}
	t := Triangle3{Vertices: verts, Normal: normal, RefCount: 1}
	t.fixupNormal()
	return t
}

// isLaterThanEither reports whether verts[0] sorts after either of its
// neighbors — the rotate-until-smallest-first loop condition.
func isLaterThanEither(verts [3]vecmath.Point3) bool {
	return verts[1].Less(verts[0]) || verts[2].Less(verts[0])
}

// Key returns the canonical vertex-key triple used to identify this
// triangle in a TriangleCache.
func (t Triangle3) Key() [3][3]float64 {
	return [3][3]float64{t.Vertices[0].Key(), t.Vertices[1].Key(), t.Vertices[2].Key()}
}

func (t *Triangle3) isClockwise() bool {
	v1 := t.Vertices[1].Sub(t.Vertices[0])
	v2 := t.Vertices[2].Sub(t.Vertices[0])
	return t.Normal.Dot(v1.Cross(v2)) < 0
}

func (t *Triangle3) fixupNormal() {
	if t.Normal.Length() > 0 {
		if t.isClockwise() {
			t.Vertices[1], t.Vertices[2] = t.Vertices[2], t.Vertices[1]
		}
		return
	}
	v1 := t.Vertices[2].Sub(t.Vertices[0])
	v2 := t.Vertices[1].Sub(t.Vertices[0])
	n := v1.Cross(v2)
	if n.Length() > 1e-6 {
		n = n.Normalize()
	}
	t.Normal = n
}

// Translate returns t with every vertex shifted by offset.
func (t Triangle3) Translate(offset vecmath.Vector) Triangle3 {
	out := t
	for i, v := range t.Vertices {
		out.Vertices[i] = v.Translate(offset)
	}
	return out
}

// ZRange returns the minimum and maximum Z coordinate of the triangle's
// vertices.
func (t Triangle3) ZRange() (minZ, maxZ float64) {
	minZ, maxZ = t.Vertices[0].Z, t.Vertices[0].Z
	for _, v := range t.Vertices[1:] {
		if v.Z < minZ {
			minZ = v.Z
		}
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}
	return
}

// IntersectsZ reports whether the plane z passes through the triangle's
// Z extent.
func (t Triangle3) IntersectsZ(z float64) bool {
	minZ, maxZ := t.ZRange()
	return z >= minZ && z <= maxZ
}

// OverhangAngle returns the angle in degrees of the facet's outward normal
// from horizontal — 90° is a vertical wall, 0° is a horizontal downward
// overhang, negative values are facing upward.
func (t Triangle3) OverhangAngle() float64 {
	down := vecmath.NewVector(0, 0, -1)
	ang := down.Angle(t.Normal) * 180.0 / math.Pi
	return 90.0 - ang
}

// Segment2 is a directed 2D segment, the result of slicing a triangle at
// a Z plane.
type Segment2 struct {
	A, B [2]float64
}

// SliceAtZ intersects the triangle with the horizontal plane at z and
// returns the directed segment walking the solid's outward boundary with
// solid on the left, or ok=false if the plane doesn't cross the triangle's
// interior.
//
// z is first snapped to the nearest quantum center so it can never land
// exactly on a vertex Z coordinate (vertex Z values are themselves snapped
// to quantum boundaries at mesh load time).
func (t Triangle3) SliceAtZ(z float64) (Segment2, bool) {
	z = math.Floor(z/zQuantum+0.5)*zQuantum + zQuantum/2
	minZ, maxZ := t.ZRange()
	if z < minZ || z > maxZ {
		return Segment2{}, false
	}
	if math.Hypot(t.Normal.At(0), t.Normal.At(1)) < 1e-6 {
		return Segment2{}, false
	}
	norm2 := [2]float64{t.Normal.At(0), t.Normal.At(1)}
	vl := t.Vertices

	// Case 1: a full edge lies on the plane.
	for i := 0; i < 3; i++ {
		v1, v2 := vl[i], vl[(i+1)%3]
		if v1.Z == z && v2.Z == z {
			line := clockwiseLine(
				[2][2]float64{{v1.X, v1.Y}, {v2.X, v2.Y}},
				[2]float64{v1.X + norm2[0], v1.Y + norm2[1]},
			)
			return segFromLine(line), true
		}
	}
	if z == minZ || z == maxZ {
		return Segment2{}, false
	}

	// Case 2: exactly one vertex lies on the plane.
	for i := 0; i < 3; i++ {
		v1, v2, v3 := vl[i], vl[(i+1)%3], vl[(i+2)%3]
		if v2.Z == z {
			u := (z - v1.Z) / (v3.Z - v1.Z)
			px := v1.X + u*(v3.X-v1.X)
			py := v1.Y + u*(v3.Y-v1.Y)
			line := clockwiseLine(
				[2][2]float64{{v2.X, v2.Y}, {px, py}},
				[2]float64{v2.X + norm2[0], v2.Y + norm2[1]},
			)
			return segFromLine(line), true
		}
	}

	// Generic case: two edges straddle the plane.
	type isect struct{ v1, v2 vecmath.Point3 }
	var isects []isect
	for i := 0; i < 3; i++ {
		v1, v2 := vl[i], vl[(i+1)%3]
		if v1.Z == v2.Z {
			continue
		}
		u := (z - v1.Z) / (v2.Z - v1.Z)
		if u >= 0.0 && u <= 1.0 {
			isects = append(isects, isect{v1, v2})
		}
	}
	if len(isects) < 2 {
		return Segment2{}, false
	}
	p1, p2 := isects[0].v1, isects[0].v2
	p3, p4 := isects[1].v1, isects[1].v2
	u1 := (z - p1.Z) / (p2.Z - p1.Z)
	u2 := (z - p3.Z) / (p4.Z - p3.Z)
	px := p1.X + u1*(p2.X-p1.X)
	py := p1.Y + u1*(p2.Y-p1.Y)
	qx := p3.X + u2*(p4.X-p3.X)
	qy := p3.Y + u2*(p4.Y-p3.Y)
	line := clockwiseLine(
		[2][2]float64{{px, py}, {qx, qy}},
		[2]float64{px + norm2[0], py + norm2[1]},
	)
	return segFromLine(line), true
}

func sideOfLine(line [2][2]float64, pt [2]float64) float64 {
	return (line[1][0]-line[0][0])*(pt[1]-line[0][1]) - (line[1][1]-line[0][1])*(pt[0]-line[0][0])
}

// clockwiseLine orients line so that pt lies on its right (the original's
// _clockwise_line helper).
func clockwiseLine(line [2][2]float64, pt [2]float64) [2][2]float64 {
	if sideOfLine(line, pt) < 0 {
		return [2][2]float64{line[1], line[0]}
	}
	return line
}

func segFromLine(line [2][2]float64) Segment2 {
	return Segment2{A: line[0], B: line[1]}
}

// Footprint returns the XY outline of the part of the triangle that lies
// above z, oriented counter-clockwise, or nil if the triangle doesn't
// extend above z or the result is degenerate. Used by the support-drop
// accumulation (a triangle's overhang footprint contributes to or
// subtracts from the region needing support).
func (t Triangle3) Footprint(z float64) [][2]float64 {
	verts := t.Vertices
	opath := []vecmath.Point3{verts[0], verts[1], verts[2], verts[0]}
	var path [][2]float64
	for i := 0; i < 3; i++ {
		v1, v2 := opath[i], opath[i+1]
		if v1.Z > z {
			path = append(path, [2]float64{v1.X, v1.Y})
		}
		if (v1.Z > z && v2.Z < z) || (v1.Z < z && v2.Z > z) {
			u := (z - v1.Z) / (v2.Z - v1.Z)
			px := v1.X + u*(v2.X-v1.X)
			py := v1.Y + u*(v2.Y-v1.Y)
			path = append(path, [2]float64{px, py})
		}
	}
	if len(path) == 0 {
		return nil
	}
	a := shoestring(path)
	if a == 0 {
		return nil
	}
	if a > 0 {
		reverse(path)
	}
	return path
}

func shoestring(path [][2]float64) float64 {
	var out float64
	n := len(path)
	for i := 0; i < n; i++ {
		p1 := path[i]
		p2 := path[(i+1)%n]
		out += p1[0]*p2[1] - p2[0]*p1[1]
	}
	return out
}

func reverse(path [][2]float64) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
