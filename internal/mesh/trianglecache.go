package mesh

import (
	"sort"

	"github.com/mandoline-go/mandoline/internal/vecmath"
)

// TriangleCache is an insertion-deduplicating set of Triangle3, keyed by
// canonical vertex triple. It also indexes triangles by vertex and by
// edge, for manifold validation and neighbor queries.
type TriangleCache struct {
	triangles map[[3][3]float64]*Triangle3
	byVertex  map[[3]float64][]*Triangle3
	byEdge    map[[2][3]float64][]*Triangle3
}

// NewTriangleCache returns an empty TriangleCache.
func NewTriangleCache() *TriangleCache {
	return &TriangleCache{
		triangles: make(map[[3][3]float64]*Triangle3),
		byVertex:  make(map[[3]float64][]*Triangle3),
		byEdge:    make(map[[2][3]float64][]*Triangle3),
	}
}

// Len returns the number of distinct triangles in the cache.
func (c *TriangleCache) Len() int { return len(c.triangles) }

func edgeKey(a, b vecmath.Point3) [2][3]float64 {
	ak, bk := a.Key(), b.Key()
	if b.Less(a) {
		ak, bk = bk, ak
	}
	return [2][3]float64{ak, bk}
}

func (c *TriangleCache) indexTriangle(t *Triangle3) {
	v := t.Vertices
	c.byVertex[v[0].Key()] = append(c.byVertex[v[0].Key()], t)
	c.byVertex[v[1].Key()] = append(c.byVertex[v[1].Key()], t)
	c.byVertex[v[2].Key()] = append(c.byVertex[v[2].Key()], t)
	for i := 0; i < 3; i++ {
		key := edgeKey(v[i], v[(i+1)%3])
		c.byEdge[key] = append(c.byEdge[key], t)
	}
}

// Get returns the cached triangle with these vertices (in any rotation),
// if any.
func (c *TriangleCache) Get(v1, v2, v3 vecmath.Point3, normal vecmath.Vector) (*Triangle3, bool) {
	cand := NewTriangle3(v1, v2, v3, normal)
	t, ok := c.triangles[cand.Key()]
	return t, ok
}

// Add returns the existing triangle matching these vertices (with
// RefCount incremented), or inserts and returns a new one.
func (c *TriangleCache) Add(v1, v2, v3 vecmath.Point3, normal vecmath.Vector) *Triangle3 {
	cand := NewTriangle3(v1, v2, v3, normal)
	key := cand.Key()
	if existing, ok := c.triangles[key]; ok {
		existing.RefCount++
		return existing
	}
	stored := cand
	c.triangles[key] = &stored
	c.indexTriangle(&stored)
	return &stored
}

// VertexTriangles returns every triangle touching vertex p.
func (c *TriangleCache) VertexTriangles(p vecmath.Point3) []*Triangle3 {
	return c.byVertex[p.Key()]
}

// EdgeTriangles returns every triangle touching the edge (p1, p2).
func (c *TriangleCache) EdgeTriangles(p1, p2 vecmath.Point3) []*Triangle3 {
	return c.byEdge[edgeKey(p1, p2)]
}

// Rehash rebuilds the cache's indices from its triangles' current
// vertices.
func (c *TriangleCache) Rehash() {
	old := c.triangles
	c.triangles = make(map[[3][3]float64]*Triangle3, len(old))
	c.byVertex = make(map[[3]float64][]*Triangle3, len(old)*3)
	c.byEdge = make(map[[2][3]float64][]*Triangle3, len(old)*3)
	for _, t := range old {
		c.triangles[t.Key()] = t
		c.indexTriangle(t)
	}
}

// Translate shifts every cached triangle's vertices by offset and
// rehashes.
func (c *TriangleCache) Translate(offset vecmath.Vector) {
	for _, t := range c.triangles {
		for i, v := range t.Vertices {
			t.Vertices[i] = v.Translate(offset)
		}
	}
	c.Rehash()
}

// Scale multiplies every cached triangle's vertex coordinates by factor
// and rehashes.
func (c *TriangleCache) Scale(factor float64) {
	for _, t := range c.triangles {
		for i, v := range t.Vertices {
			t.Vertices[i] = vecmath.NewPoint3(v.X*factor, v.Y*factor, v.Z*factor)
		}
	}
	c.Rehash()
}

// Each calls fn once for every triangle in the cache, in arbitrary order.
func (c *TriangleCache) Each(fn func(*Triangle3)) {
	for _, t := range c.triangles {
		fn(t)
	}
}

// Sorted returns every triangle in the cache ordered by vertex
// coordinates, for deterministic output (e.g. writing a mesh file).
func (c *TriangleCache) Sorted() []*Triangle3 {
	out := make([]*Triangle3, 0, len(c.triangles))
	for _, t := range c.triangles {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return triangleLess(out[i], out[j])
	})
	return out
}

// triangleLess orders triangles by comparing, per axis from Z down to X,
// the sorted list of each triangle's vertex coordinates on that axis —
// matching the original's column-sorted comparison.
func triangleLess(a, b *Triangle3) bool {
	for axis := 2; axis >= 0; axis-- {
		ca := sortedAxis(a, axis)
		cb := sortedAxis(b, axis)
		for i := 0; i < 3; i++ {
			if ca[i] != cb[i] {
				return ca[i] < cb[i]
			}
		}
	}
	return false
}

func sortedAxis(t *Triangle3, axis int) [3]float64 {
	vals := [3]float64{
		axisValue(t.Vertices[0], axis),
		axisValue(t.Vertices[1], axis),
		axisValue(t.Vertices[2], axis),
	}
	sort.Float64s(vals[:])
	return vals
}

func axisValue(p vecmath.Point3, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// DuplicateTriangles returns triangles with RefCount != 1.
func (c *TriangleCache) DuplicateTriangles() []*Triangle3 {
	var out []*Triangle3
	for _, t := range c.triangles {
		if t.RefCount != 1 {
			out = append(out, t)
		}
	}
	return out
}
