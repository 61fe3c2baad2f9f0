package vecmath

// Segment3 is an ordered pair of Point3 endpoints, canonicalized so P1 <=
// P2 under Point3.Less. RefCount tracks how many times a segment with
// these endpoints has been inserted into an EdgeCache.
type Segment3 struct {
	P1, P2   Point3
	RefCount int
}

// NewSegment3 builds a canonicalized Segment3 between a and b.
func NewSegment3(a, b Point3) Segment3 {
	if b.Less(a) {
		a, b = b, a
	}
	return Segment3{P1: a, P2: b, RefCount: 1}
}

// Key returns the canonical endpoint-key pair used to identify this
// segment in an EdgeCache, independent of insertion order.
func (s Segment3) Key() [2][3]float64 {
	return [2][3]float64{s.P1.Key(), s.P2.Key()}
}

// Length returns the 3D length of the segment.
func (s Segment3) Length() float64 {
	return s.P1.DistanceTo(s.P2)
}
