// Package planarops is the thin millimeter-space adapter over the
// integer-coordinate clipper polygon engine (spec.md §4.4). Every other
// package in this module works in floating-point millimeters; this is the
// only place that knows about the engine's fixed-point scale.
package planarops

import (
	"math"
	"sort"

	"github.com/mandoline-go/mandoline/clipper"
)

// scale is the fixed-point multiplier applied when entering the integer
// engine, and divided back out on exit. 1000 gives micron resolution at
// millimeter scale, matching the original implementation's
// pyclipper.scale_to_clipper(..., 1000) convention.
const scale = 1000.0

// Point is a 2D point in millimeters.
type Point struct {
	X, Y float64
}

// Path is an ordered sequence of points. A path is closed when its first
// and last points coincide.
type Path []Point

// Paths is a list of paths representing a polygon with holes under
// even-odd fill.
type Paths []Path

// JoinType selects how offset corners are joined.
type JoinType int

const (
	// JoinSquare squares off convex corners (the original's only mode).
	JoinSquare JoinType = iota
	// JoinMiter produces a pointed corner up to the engine's miter limit.
	JoinMiter
	// JoinRound produces a rounded corner.
	JoinRound
)

func toEngine(p Point) clipper.Point64 {
	return clipper.Point64{
		X: int64(math.Round(p.X * scale)),
		Y: int64(math.Round(p.Y * scale)),
	}
}

func fromEngine(p clipper.Point64) Point {
	return Point{X: float64(p.X) / scale, Y: float64(p.Y) / scale}
}

func pathToEngine(p Path) clipper.Path64 {
	out := make(clipper.Path64, len(p))
	for i, pt := range p {
		out[i] = toEngine(pt)
	}
	return out
}

func pathFromEngine(p clipper.Path64) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = fromEngine(pt)
	}
	return out
}

func pathsToEngine(paths Paths) clipper.Paths64 {
	if len(paths) == 0 {
		return nil
	}
	out := make(clipper.Paths64, len(paths))
	for i, p := range paths {
		out[i] = pathToEngine(p)
	}
	return out
}

func pathsFromEngine(paths clipper.Paths64) Paths {
	if len(paths) == 0 {
		return nil
	}
	out := make(Paths, len(paths))
	for i, p := range paths {
		out[i] = pathFromEngine(p)
	}
	return out
}

func engineJoinType(j JoinType) clipper.JoinType {
	switch j {
	case JoinMiter:
		return clipper.JoinMiter
	case JoinRound:
		return clipper.JoinRound
	default:
		return clipper.JoinSquare
	}
}

// Offset inflates (delta > 0) or shrinks (delta < 0) paths by delta
// millimeters, treating them as closed polygons.
func Offset(paths Paths, delta float64, joint JoinType) Paths {
	if len(paths) == 0 {
		return nil
	}
	result, err := clipper.InflatePaths64(
		pathsToEngine(paths), delta*scale, engineJoinType(joint), clipper.ClosedPolygon,
	)
	if err != nil {
		return nil
	}
	return pathsFromEngine(result)
}

// Union returns the union of a and b under even-odd fill.
func Union(a, b Paths) Paths {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	result, err := clipper.Union64(pathsToEngine(a), pathsToEngine(b), clipper.EvenOdd)
	if err != nil {
		return nil
	}
	return pathsFromEngine(result)
}

// Difference returns subj minus clip. When subjClosed is false, subj is
// treated as a set of open polylines (used to clip infill line families
// against a solid mask) and the open-path solution is returned.
func Difference(subj, clip Paths, subjClosed bool) Paths {
	if len(subj) == 0 {
		return nil
	}
	if len(clip) == 0 {
		return subj
	}
	return booleanOp(clipper.Difference, subj, clip, subjClosed)
}

// Intersection returns subj intersected with clip. See Difference for the
// subjClosed convention.
func Intersection(subj, clip Paths, subjClosed bool) Paths {
	if len(subj) == 0 || len(clip) == 0 {
		return nil
	}
	return booleanOp(clipper.Intersection, subj, clip, subjClosed)
}

func booleanOp(op clipper.ClipType, subj, clip Paths, subjClosed bool) Paths {
	clipEngine := pathsToEngine(clip)
	if subjClosed {
		solution, _, err := clipper.BooleanOp64(op, clipper.EvenOdd, pathsToEngine(subj), nil, clipEngine)
		if err != nil {
			return nil
		}
		return pathsFromEngine(solution)
	}
	keepInside := op == clipper.Intersection
	var out clipper.Paths64
	for _, p := range pathsToEngine(subj) {
		out = append(out, clipOpenPolyline(p, clipEngine, keepInside)...)
	}
	return pathsFromEngine(out)
}

// clipOpenPolyline clips an open polyline against a set of closed polygons
// under even-odd fill, keeping the portions that lie inside the polygons
// (keepInside true) or outside them (keepInside false). The engine's
// boolean-op machinery only clips closed rings against each other, so line
// families (infill, support, raft) are clipped here instead: each edge of
// the polyline is split at every crossing with a clip-polygon edge, and the
// resulting sub-segments are kept or dropped by testing their midpoint's
// containment, then restitched into runs wherever consecutive kept
// sub-segments share an endpoint.
func clipOpenPolyline(line clipper.Path64, clipPaths clipper.Paths64, keepInside bool) clipper.Paths64 {
	if len(line) < 2 || len(clipPaths) == 0 {
		return nil
	}

	var out clipper.Paths64
	var current clipper.Path64

	flush := func() {
		if len(current) >= 2 {
			out = append(out, current)
		}
		current = nil
	}

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		ts := []float64{0, 1}
		for _, poly := range clipPaths {
			n := len(poly)
			for j := 0; j < n; j++ {
				c, d := poly[j], poly[(j+1)%n]
				if t, ok := segmentParamOnLine(a, b, c, d); ok {
					ts = append(ts, t)
				}
			}
		}
		sort.Float64s(ts)

		for k := 0; k+1 < len(ts); k++ {
			t0, t1 := ts[k], ts[k+1]
			if t1-t0 < 1e-9 {
				continue
			}
			p0 := lerpPoint64(a, b, t0)
			p1 := lerpPoint64(a, b, t1)
			mid := lerpPoint64(a, b, (t0+t1)/2)
			inside := pointInPaths(mid, clipPaths)
			if inside == keepInside {
				if len(current) == 0 {
					current = append(current, p0)
				}
				current = append(current, p1)
			} else {
				flush()
			}
		}
	}
	flush()
	return out
}

// segmentParamOnLine reports the parameter t in [0,1] along a-b at which
// a-b crosses c-d, if they cross at all.
func segmentParamOnLine(a, b, c, d clipper.Point64) (float64, bool) {
	pt, kind, err := clipper.SegmentIntersection(a, b, c, d)
	if err != nil || kind == clipper.NoIntersection {
		return 0, false
	}
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	if dx == 0 && dy == 0 {
		return 0, false
	}
	var t float64
	if math.Abs(dx) >= math.Abs(dy) {
		t = float64(pt.X-a.X) / dx
	} else {
		t = float64(pt.Y-a.Y) / dy
	}
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

func lerpPoint64(a, b clipper.Point64, t float64) clipper.Point64 {
	return clipper.Point64{
		X: a.X + int64(math.Round(float64(b.X-a.X)*t)),
		Y: a.Y + int64(math.Round(float64(b.Y-a.Y)*t)),
	}
}

// pointInPaths reports even-odd containment of pt across clipPaths.
func pointInPaths(pt clipper.Point64, clipPaths clipper.Paths64) bool {
	count := 0
	for _, p := range clipPaths {
		if clipper.PointInPolygon64(pt, p, clipper.EvenOdd) != clipper.Outside {
			count = 1 - count
		}
	}
	return count%2 != 0
}

// PathsContain reports whether pt is inside an odd number of the given
// paths (even-odd containment across the whole set).
func PathsContain(pt Point, paths Paths) bool {
	count := 0
	engPt := toEngine(pt)
	for _, p := range paths {
		loc := clipper.PointInPolygon64(engPt, pathToEngine(p), clipper.EvenOdd)
		if loc != clipper.Outside {
			count = 1 - count
		}
	}
	return count%2 != 0
}

// orientPath reverses path if its current orientation doesn't match
// wantPositive (true = counter-clockwise / positive area).
func orientPath(path Path, wantPositive bool) Path {
	eng := pathToEngine(path)
	if clipper.IsPositive64(eng) != wantPositive {
		eng = clipper.Reverse64(eng)
	}
	return pathFromEngine(eng)
}

// OrientPaths orients each path based on whether its first point is
// contained in the remaining, not-yet-processed paths: a path nested
// inside another remaining path is oriented negative (hole), otherwise
// positive (outer shell). Ported directly from the original
// geometry2d.orient_paths, including its processing-order dependence.
func OrientPaths(paths Paths) Paths {
	remaining := make(Paths, len(paths))
	copy(remaining, paths)
	out := make(Paths, 0, len(paths))
	for len(remaining) > 0 {
		path := remaining[0]
		remaining = remaining[1:]
		wantPositive := len(path) == 0 || !PathsContain(path[0], remaining)
		out = append(out, orientPath(path, wantPositive))
	}
	return out
}

// PathsBounds returns (minX, minY, maxX, maxY) over all points in paths.
// Returns the zero rectangle for an empty set.
func PathsBounds(paths Paths) (minX, minY, maxX, maxY float64) {
	first := true
	for _, path := range paths {
		for _, pt := range path {
			if first {
				minX, maxX = pt.X, pt.X
				minY, maxY = pt.Y, pt.Y
				first = false
				continue
			}
			if pt.X < minX {
				minX = pt.X
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
	}
	return
}

// ClosePath appends the first point to the end of path if it isn't
// already closed.
func ClosePath(path Path) Path {
	if len(path) == 0 {
		return path
	}
	if path[0] == path[len(path)-1] {
		return path
	}
	out := make(Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, path[0])
}

// ClosePaths closes every path in paths.
func ClosePaths(paths Paths) Paths {
	out := make(Paths, len(paths))
	for i, p := range paths {
		out[i] = ClosePath(p)
	}
	return out
}
