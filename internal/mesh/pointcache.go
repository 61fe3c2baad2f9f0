package mesh

import "github.com/mandoline-go/mandoline/internal/vecmath"

// PointCache is an insertion-deduplicating set of Point3, keyed by
// coordinates rounded to vecmath.KeyPrecision decimal places. It tracks
// the axial bounding box of every point ever added.
type PointCache struct {
	points               map[[3]float64]vecmath.Point3
	minX, minY, minZ     float64
	maxX, maxY, maxZ     float64
}

// NewPointCache returns an empty PointCache.
func NewPointCache() *PointCache {
	return &PointCache{
		points: make(map[[3]float64]vecmath.Point3),
		minX:   9e99, minY: 9e99, minZ: 9e99,
		maxX: -9e99, maxY: -9e99, maxZ: -9e99,
	}
}

// Len returns the number of distinct points in the cache.
func (c *PointCache) Len() int { return len(c.points) }

func (c *PointCache) updateBounds(p vecmath.Point3) {
	if p.X < c.minX {
		c.minX = p.X
	}
	if p.X > c.maxX {
		c.maxX = p.X
	}
	if p.Y < c.minY {
		c.minY = p.Y
	}
	if p.Y > c.maxY {
		c.maxY = p.Y
	}
	if p.Z < c.minZ {
		c.minZ = p.Z
	}
	if p.Z > c.maxZ {
		c.maxZ = p.Z
	}
}

// Add returns the existing Point3 matching (x, y, z)'s rounded key, or
// inserts and returns a new one.
func (c *PointCache) Add(x, y, z float64) vecmath.Point3 {
	p := vecmath.NewPoint3(x, y, z)
	key := p.Key()
	if existing, ok := c.points[key]; ok {
		return existing
	}
	c.points[key] = p
	c.updateBounds(p)
	return p
}

// Bounds returns the AABB over every point in the cache.
func (c *PointCache) Bounds() (minX, minY, minZ, maxX, maxY, maxZ float64) {
	return c.minX, c.minY, c.minZ, c.maxX, c.maxY, c.maxZ
}

// Rehash rebuilds the cache's keys from its points' current coordinates.
// Required after any mutation that shifts coordinates (translate, scale)
// since keys are derived from rounded coordinates.
func (c *PointCache) Rehash() {
	old := c.points
	c.points = make(map[[3]float64]vecmath.Point3, len(old))
	for _, p := range old {
		c.points[p.Key()] = p
	}
}

// Translate shifts every cached point by offset and rehashes.
func (c *PointCache) Translate(offset vecmath.Vector) {
	c.minX += offset.At(0)
	c.maxX += offset.At(0)
	c.minY += offset.At(1)
	c.maxY += offset.At(1)
	c.minZ += offset.At(2)
	c.maxZ += offset.At(2)
	for key, p := range c.points {
		c.points[key] = p.Translate(offset)
	}
	c.Rehash()
}

// Scale multiplies every cached point's coordinates by factor and
// rehashes, recomputing bounds from the resulting points.
func (c *PointCache) Scale(factor float64) {
	for key, p := range c.points {
		c.points[key] = vecmath.NewPoint3(p.X*factor, p.Y*factor, p.Z*factor)
	}
	c.Rehash()
	c.minX, c.maxX = 9e99, -9e99
	c.minY, c.maxY = 9e99, -9e99
	c.minZ, c.maxZ = 9e99, -9e99
	for _, p := range c.points {
		c.updateBounds(p)
	}
}

// Each calls fn once for every point in the cache.
func (c *PointCache) Each(fn func(vecmath.Point3)) {
	for _, p := range c.points {
		fn(p)
	}
}
