package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/mandoline-go/mandoline/internal/vecmath"
)

// TriangleSource is satisfied by anything that can feed triangles into a
// Mesh — the seam between mesh-file parsing (internal/meshio) and the
// slicing core.
type TriangleSource interface {
	// EachTriangle calls fn once per facet, in file order, passing the
	// three vertex coordinates and (if known) the facet normal. A zero
	// normal is recomputed from vertex winding.
	EachTriangle(fn func(v1, v2, v3 [3]float64, normal [3]float64)) error
}

// ManifoldReport is the result of check_manifold: a manifold mesh has all
// three lists empty.
type ManifoldReport struct {
	DuplicateTriangles []*Triangle3
	HoleEdges          []*vecmath.Segment3
	ExcessEdges        []*vecmath.Segment3
}

// IsManifold reports whether the report found no defects.
func (r ManifoldReport) IsManifold() bool {
	return len(r.DuplicateTriangles) == 0 && len(r.HoleEdges) == 0 && len(r.ExcessEdges) == 0
}

// Mesh owns the point, edge, and triangle caches for a single model, plus
// the per-layer triangle index built by AssignLayers.
type Mesh struct {
	Points    *PointCache
	Edges     *EdgeCache
	Triangles *TriangleCache

	layerHeight  float64
	layerFacets  map[int][]*Triangle3
	lastManifold ManifoldReport
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{
		Points:      NewPointCache(),
		Edges:       NewEdgeCache(),
		Triangles:   NewTriangleCache(),
		layerFacets: make(map[int][]*Triangle3),
	}
}

// zQuantizeLoad snaps a vertex Z coordinate at load time so that slicing
// planes (snapped to the same quantum, offset by half a step) never
// coincide with a vertex.
func zQuantizeLoad(z float64) float64 {
	return math.Floor(z/zQuantum+0.5) * zQuantum
}

// ReadFrom populates the mesh from src, deduplicating vertices through
// Points and accumulating edge/triangle refcounts. Degenerate (zero-area)
// facets are silently dropped.
func (m *Mesh) ReadFrom(src TriangleSource) error {
	return src.EachTriangle(func(v1, v2, v3, normal [3]float64) {
		q1 := [3]float64{v1[0], v1[1], zQuantizeLoad(v1[2])}
		q2 := [3]float64{v2[0], v2[1], zQuantizeLoad(v2[2])}
		q3 := [3]float64{v3[0], v3[1], zQuantizeLoad(v3[2])}
		if q1 == q2 || q2 == q3 || q3 == q1 {
			return
		}
		p1 := m.Points.Add(q1[0], q1[1], q1[2])
		p2 := m.Points.Add(q2[0], q2[1], q2[2])
		p3 := m.Points.Add(q3[0], q3[1], q3[2])
		vec1 := p1.Sub(p2)
		vec2 := p3.Sub(p2)
		if vec1.Angle(vec2) < 1e-8 {
			return
		}
		m.Edges.Add(p1, p2)
		m.Edges.Add(p2, p3)
		m.Edges.Add(p3, p1)
		m.Triangles.Add(p1, p2, p3, vecmath.NewVector(normal[0], normal[1], normal[2]))
	})
}

// CheckManifold validates the mesh and records the result: a triangle is
// a duplicate when its RefCount != 1, an edge is a hole when its RefCount
// == 1, and an edge is excess when its RefCount > 2.
func (m *Mesh) CheckManifold() ManifoldReport {
	r := ManifoldReport{
		DuplicateTriangles: m.Triangles.DuplicateTriangles(),
		HoleEdges:          m.Edges.HoleEdges(),
		ExcessEdges:        m.Edges.ExcessEdges(),
	}
	m.lastManifold = r
	return r
}

// Bounds returns the AABB over every point in the mesh.
func (m *Mesh) Bounds() (minX, minY, minZ, maxX, maxY, maxZ float64) {
	return m.Points.Bounds()
}

// Center translates the mesh so its AABB is centered at cp.
func (m *Mesh) Center(cp [3]float64) {
	minX, minY, minZ, maxX, maxY, maxZ := m.Bounds()
	cx := (minX + maxX) / 2.0
	cy := (minY + maxY) / 2.0
	cz := (minZ + maxZ) / 2.0
	m.Translate(vecmath.NewVector(cp[0]-cx, cp[1]-cy, cp[2]-cz))
}

// Translate shifts every cached point, edge endpoint, and triangle
// vertex by offset.
func (m *Mesh) Translate(offset vecmath.Vector) {
	m.Points.Translate(offset)
	m.Edges.Translate(offset)
	m.Triangles.Translate(offset)
	m.layerFacets = nil
}

// Scale multiplies every cached coordinate by factor.
func (m *Mesh) Scale(factor float64) {
	m.Points.Scale(factor)
	m.Edges.Scale(factor)
	m.Triangles.Scale(factor)
	m.layerFacets = nil
}

// AssignLayers computes, for each layer index, the list of triangles
// whose Z extent intersects that layer — so later per-layer slicing only
// has to test the triangles that could possibly contribute.
func (m *Mesh) AssignLayers(layerHeight float64) {
	m.layerHeight = layerHeight
	m.layerFacets = make(map[int][]*Triangle3)
	m.Triangles.Each(func(t *Triangle3) {
		minZ, maxZ := t.ZRange()
		minL := int(math.Floor(minZ/layerHeight + 0.01))
		maxL := int(math.Ceil(maxZ/layerHeight - 0.01))
		for layer := minL; layer <= maxL; layer++ {
			m.layerFacets[layer] = append(m.layerFacets[layer], t)
		}
	})
}

// GetLayerTriangles returns every triangle assigned to layer k by
// AssignLayers.
func (m *Mesh) GetLayerTriangles(k int) []*Triangle3 {
	return m.layerFacets[k]
}

// SliceAtZ slices the mesh at height z, walking the per-triangle
// intersection segments into closed outpaths and leftover deadpaths.
// Segments are collected into a multimap keyed by their endpoints
// rounded to 3 decimal places (one order of magnitude coarser than the
// 4-decimal point-cache key) and stitched by shared endpoint key.
func (m *Mesh) SliceAtZ(z float64) (outpaths, deadpaths [][][2]float64) {
	layer := int(math.Floor(z/m.layerHeight + 0.5))
	segs := make(map[string][][][2]float64)

	for _, t := range m.GetLayerTriangles(layer) {
		seg, ok := t.SliceAtZ(z)
		if !ok {
			continue
		}
		path := [][2]float64{seg.A, seg.B}
		key1 := ptKey(path[0])
		key2 := ptKey(path[len(path)-1])
		if existing, ok := segs[key2]; ok {
			last := existing[len(existing)-1]
			if last[len(last)-1] == path[0] {
				continue
			}
		}
		segs[key1] = append(segs[key1], path)
	}

	for len(segs) > 0 {
		var firstKey string
		for k := range segs {
			firstKey = k
			break
		}
		path := segs[firstKey][0]
		key1 := ptKey(path[0])
		key2 := ptKey(path[len(path)-1])
		segs[key1] = segs[key1][1:]
		if len(segs[key1]) == 0 {
			delete(segs, key1)
		}

		if key1 == key2 {
			outpaths = append(outpaths, path)
			continue
		}
		switch {
		case len(segs[key2]) > 0:
			opath := segs[key2][0]
			segs[key2] = segs[key2][1:]
			if len(segs[key2]) == 0 {
				delete(segs, key2)
			}
			path = append(path, opath[1:]...)
		case len(segs[key1]) > 0:
			opath := segs[key1][0]
			segs[key1] = segs[key1][1:]
			if len(segs[key1]) == 0 {
				delete(segs, key1)
			}
			reversed := make([][2]float64, len(opath))
			for i, p := range opath {
				reversed[len(opath)-1-i] = p
			}
			path = append(reversed, path[1:]...)
		default:
			deadpaths = append(deadpaths, path)
			continue
		}
		newKey := ptKey(path[0])
		segs[newKey] = append(segs[newKey], path)
	}
	return outpaths, deadpaths
}

func ptKey(p [2]float64) string {
	return fmt.Sprintf("%.3f, %.3f", p[0], p[1])
}

// LayerCount returns one past the highest layer index with any assigned
// triangles, or 0 if AssignLayers hasn't run or the mesh is empty.
func (m *Mesh) LayerCount() int {
	max := -1
	for k := range m.layerFacets {
		if k > max {
			max = k
		}
	}
	return max + 1
}

// SortedLayers returns the populated layer indices in ascending order.
func (m *Mesh) SortedLayers() []int {
	out := make([]int, 0, len(m.layerFacets))
	for k := range m.layerFacets {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
