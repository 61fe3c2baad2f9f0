package mesh

import (
	"math"
	"testing"

	"github.com/mandoline-go/mandoline/internal/vecmath"
)

// cubeFacets returns a watertight unit cube's 12 triangles as raw vertex
// triples with zero normals (forcing recomputation).
func cubeFacets() [][3][3]float64 {
	// 8 corners of a 0..1 cube.
	c := func(x, y, z float64) [3]float64 { return [3]float64{x, y, z} }
	p := [8][3]float64{
		c(0, 0, 0), c(1, 0, 0), c(1, 1, 0), c(0, 1, 0),
		c(0, 0, 1), c(1, 0, 1), c(1, 1, 1), c(0, 1, 1),
	}
	quads := [6][4]int{
		{0, 1, 2, 3}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	var tris [][3][3]float64
	for _, q := range quads {
		tris = append(tris, [3][3]float64{p[q[0]], p[q[1]], p[q[2]]})
		tris = append(tris, [3][3]float64{p[q[0]], p[q[2]], p[q[3]]})
	}
	return tris
}

type rawSource struct {
	tris [][3][3]float64
}

func (s rawSource) EachTriangle(fn func(v1, v2, v3, normal [3]float64)) error {
	for _, t := range s.tris {
		fn(t[0], t[1], t[2], [3]float64{})
	}
	return nil
}

func TestManifoldCubeHasNoDefects(t *testing.T) {
	m := NewMesh()
	if err := m.ReadFrom(rawSource{cubeFacets()}); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	report := m.CheckManifold()
	if !report.IsManifold() {
		t.Fatalf("expected manifold cube, got dupes=%d holes=%d excess=%d",
			len(report.DuplicateTriangles), len(report.HoleEdges), len(report.ExcessEdges))
	}
	m.Edges.Each(func(s *vecmath.Segment3) {
		if s.RefCount != 2 {
			t.Fatalf("expected every cube edge to have refcount 2, got %d", s.RefCount)
		}
	})
}

func TestManifoldDetectsHoleEdge(t *testing.T) {
	tris := cubeFacets()
	tris = tris[:len(tris)-1] // drop one triangle of the last quad: opens a hole.
	m := NewMesh()
	if err := m.ReadFrom(rawSource{tris}); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	report := m.CheckManifold()
	if len(report.HoleEdges) == 0 {
		t.Fatalf("expected hole edges after removing a triangle, got none")
	}
	if report.IsManifold() {
		t.Fatalf("expected non-manifold report")
	}
}

func TestAssignLayersAndSliceAtZ(t *testing.T) {
	m := NewMesh()
	if err := m.ReadFrom(rawSource{cubeFacets()}); err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	m.AssignLayers(0.2)
	// Layer 2 sits at z=0.4, well inside the cube (0..1).
	out, dead := m.SliceAtZ(0.4)
	if len(dead) != 0 {
		t.Fatalf("expected no dead paths slicing a manifold cube, got %d", len(dead))
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one closed outline, got %d", len(out))
	}
	path := out[0]
	if path[0] != path[len(path)-1] {
		t.Fatalf("expected closed path, first != last: %v vs %v", path[0], path[len(path)-1])
	}
	// The slice through a unit cube at any interior Z is a unit square.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range path {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if math.Abs((maxX-minX)-1) > 1e-6 || math.Abs((maxY-minY)-1) > 1e-6 {
		t.Fatalf("expected unit square cross-section, got bounds [%v,%v]x[%v,%v]", minX, maxX, minY, maxY)
	}
}

func TestTriangleSliceAtZOutsideRangeReturnsFalse(t *testing.T) {
	tri := NewTriangle3(
		vecmath.NewPoint3(0, 0, 0),
		vecmath.NewPoint3(1, 0, 0),
		vecmath.NewPoint3(0, 1, 1),
		vecmath.NewVector(0, 0, 0),
	)
	if _, ok := tri.SliceAtZ(5); ok {
		t.Fatalf("expected no intersection far outside triangle Z range")
	}
}

func TestTriangleCanonicalVertexOrder(t *testing.T) {
	a := vecmath.NewPoint3(2, 2, 2)
	b := vecmath.NewPoint3(0, 0, 0)
	c := vecmath.NewPoint3(1, 1, 1)
	t1 := NewTriangle3(a, b, c, vecmath.NewVector(0, 0, 1))
	t2 := NewTriangle3(b, c, a, vecmath.NewVector(0, 0, 1))
	if t1.Key() != t2.Key() {
		t.Fatalf("expected rotation-invariant triangle key")
	}
}

func TestPointCacheDeduplicatesRoundedCoords(t *testing.T) {
	c := NewPointCache()
	p1 := c.Add(1.00001, 2.0, 3.0)
	p2 := c.Add(1.00002, 2.0, 3.0)
	if c.Len() != 1 {
		t.Fatalf("expected coords within rounding tolerance to dedupe, got %d entries", c.Len())
	}
	if p1 != p2 {
		t.Fatalf("expected identical cached point, got %v vs %v", p1, p2)
	}
}
