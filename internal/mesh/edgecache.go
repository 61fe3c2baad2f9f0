package mesh

import "github.com/mandoline-go/mandoline/internal/vecmath"

// EdgeCache is an insertion-deduplicating set of Segment3, keyed by
// canonical endpoint pair. Re-inserting the same endpoints increments the
// existing segment's RefCount rather than creating a duplicate.
type EdgeCache struct {
	edges    map[[2][3]float64]*vecmath.Segment3
	endpoint map[[3]float64][]*vecmath.Segment3
}

// NewEdgeCache returns an empty EdgeCache.
func NewEdgeCache() *EdgeCache {
	return &EdgeCache{
		edges:    make(map[[2][3]float64]*vecmath.Segment3),
		endpoint: make(map[[3]float64][]*vecmath.Segment3),
	}
}

// Len returns the number of distinct edges in the cache.
func (c *EdgeCache) Len() int { return len(c.edges) }

func (c *EdgeCache) addEndpoint(key [3]float64, seg *vecmath.Segment3) {
	c.endpoint[key] = append(c.endpoint[key], seg)
}

// Get returns the cached segment between p1 and p2, if any.
func (c *EdgeCache) Get(p1, p2 vecmath.Point3) (*vecmath.Segment3, bool) {
	seg := vecmath.NewSegment3(p1, p2)
	s, ok := c.edges[seg.Key()]
	return s, ok
}

// Add returns the existing segment between p1 and p2 (with RefCount
// incremented), or inserts and returns a new one.
func (c *EdgeCache) Add(p1, p2 vecmath.Point3) *vecmath.Segment3 {
	seg := vecmath.NewSegment3(p1, p2)
	key := seg.Key()
	if existing, ok := c.edges[key]; ok {
		existing.RefCount++
		return existing
	}
	stored := seg
	c.edges[key] = &stored
	c.addEndpoint(stored.P1.Key(), &stored)
	c.addEndpoint(stored.P2.Key(), &stored)
	return &stored
}

// EndpointSegments returns every segment that has p as an endpoint.
func (c *EdgeCache) EndpointSegments(p vecmath.Point3) []*vecmath.Segment3 {
	return c.endpoint[p.Key()]
}

// Rehash rebuilds the cache's keys from its segments' current endpoints.
func (c *EdgeCache) Rehash() {
	old := c.edges
	c.edges = make(map[[2][3]float64]*vecmath.Segment3, len(old))
	c.endpoint = make(map[[3]float64][]*vecmath.Segment3, len(old)*2)
	for _, seg := range old {
		c.edges[seg.Key()] = seg
		c.addEndpoint(seg.P1.Key(), seg)
		c.addEndpoint(seg.P2.Key(), seg)
	}
}

// Translate shifts every cached segment's endpoints by offset and
// rehashes.
func (c *EdgeCache) Translate(offset vecmath.Vector) {
	for _, seg := range c.edges {
		seg.P1 = seg.P1.Translate(offset)
		seg.P2 = seg.P2.Translate(offset)
	}
	c.Rehash()
}

// Scale multiplies every cached segment's endpoint coordinates by factor
// and rehashes.
func (c *EdgeCache) Scale(factor float64) {
	for _, seg := range c.edges {
		seg.P1 = vecmath.NewPoint3(seg.P1.X*factor, seg.P1.Y*factor, seg.P1.Z*factor)
		seg.P2 = vecmath.NewPoint3(seg.P2.X*factor, seg.P2.Y*factor, seg.P2.Z*factor)
	}
	c.Rehash()
}

// Each calls fn once for every edge in the cache.
func (c *EdgeCache) Each(fn func(*vecmath.Segment3)) {
	for _, seg := range c.edges {
		fn(seg)
	}
}

// HoleEdges returns edges with RefCount == 1 — boundary of an open shell.
func (c *EdgeCache) HoleEdges() []*vecmath.Segment3 {
	var out []*vecmath.Segment3
	for _, seg := range c.edges {
		if seg.RefCount == 1 {
			out = append(out, seg)
		}
	}
	return out
}

// ExcessEdges returns edges with RefCount > 2 — non-manifold junctions.
func (c *EdgeCache) ExcessEdges() []*vecmath.Segment3 {
	var out []*vecmath.Segment3
	for _, seg := range c.edges {
		if seg.RefCount > 2 {
			out = append(out, seg)
		}
	}
	return out
}
