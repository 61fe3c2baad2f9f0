package slicer

import (
	"math"

	"github.com/mandoline-go/mandoline/internal/planarops"
)

// stagePathing ports _slicer_task_pathing: priming strips, then the
// raft, skirt, brim, support, and perimeter/infill groups in the
// priority order SPEC_FULL.md's Stage F specifies, routed per layer
// through addRawLayerPaths.
func (s *Slicer) stagePathing() {
	s.addPrimingPaths()

	if len(s.brimPaths) > 0 {
		s.addRawLayerPaths(0, planarops.ClosePaths(s.brimPaths), s.supportWidth, s.supplNozl)
	}
	if len(s.raftOutline) > 0 {
		s.addRawLayerPaths(0, planarops.ClosePaths(s.raftOutline), s.supportWidth, s.supplNozl)
	}
	for layer := 0; layer < s.raftLayers && layer < len(s.raftInfill); layer++ {
		s.addRawLayerPaths(layer, s.raftInfill[layer], s.supportWidth, s.supplNozl)
	}

	skirtLayers := s.Conf.Int("skirt_layers")
	for slicenum := 0; slicenum < len(s.perimeterPaths); slicenum++ {
		layer := s.raftLayers + slicenum

		if len(s.skirtPaths) > 0 && slicenum < skirtLayers {
			s.addRawLayerPaths(layer, planarops.ClosePaths(s.skirtPaths), s.supportWidth, s.supplNozl)
		}

		if slicenum < len(s.supportOutline) {
			outline := planarops.ClosePaths(s.supportOutline[slicenum])
			s.addRawLayerPaths(layer, outline, s.supportWidth, s.supplNozl)
			s.addRawLayerPaths(layer, s.supportInfill[slicenum], s.supportWidth, s.supplNozl)
		}

		perims := s.perimeterPaths[slicenum]
		for i := len(perims) - 1; i >= 0; i-- {
			s.addRawLayerPaths(layer, planarops.ClosePaths(perims[i]), s.extrusionWidth, s.dfltNozl)
		}
		s.addRawLayerPaths(layer, s.solidInfill[slicenum], s.extrusionWidth, s.dfltNozl)
		s.addRawLayerPaths(layer, s.sparseInfill[slicenum], s.infillWidth, s.inflNozl)
	}
}

// addPrimingPaths implements the Stage F0 expansion: a back-and-forth
// priming strip near the bed edge for each nozzle that will actually be
// used (default, infill if distinct, support if distinct), ported from
// slicer.py's inline priming loop in _slicer_task_pathing.
func (s *Slicer) addPrimingPaths() {
	primeNozls := []int{s.dfltNozl}
	if s.inflNozl != s.dfltNozl {
		primeNozls = append(primeNozls, s.inflNozl)
	}
	if s.supplNozl != s.dfltNozl && s.supplNozl != s.inflNozl {
		primeNozls = append(primeNozls, s.supplNozl)
	}

	sizeX := s.Conf.Float("bed_size_x")
	sizeY := s.Conf.Float("bed_size_y")
	minX := s.centerX - sizeX/2
	maxX := s.centerX + sizeX/2
	minY := s.centerY - sizeY/2
	maxY := s.centerY + sizeY/2
	rectBed := s.Conf.String("bed_geometry") == "Rectangular"

	var maxLen float64
	if rectBed {
		maxLen = maxY - minY - 20
	} else {
		maxLen = 2*math.Pi*math.Sqrt(sizeX*sizeX/2) - 20
	}
	if maxLen <= 0 {
		return
	}
	primeLength := s.Conf.Float("prime_length")
	reps := primeLength / maxLen
	ireps := int(math.Ceil(reps))

	for noznum, nozl := range primeNozls {
		ewidth := s.extrusionWidth * 1.25
		var path planarops.Path
		for rep := 0; rep < ireps; rep++ {
			if rectBed {
				x := minX + 5 + (float64(noznum)*reps+float64(rep)+1)*ewidth
				var y1, y2 float64
				if rep%2 == 0 {
					y1, y2 = minY+10, maxY-10
				} else {
					y1, y2 = maxY-10, minY+10
				}
				path = append(path, planarops.Point{X: x, Y: y1})
				if rep == ireps-1 {
					part := reps - math.Floor(reps)
					path = append(path, planarops.Point{X: x, Y: y1 + (y2-y1)*part})
				} else {
					path = append(path, planarops.Point{X: x, Y: y2})
				}
			} else {
				r := maxX - 5 - (float64(noznum)*reps+float64(rep)+1)*ewidth
				part := 1.0
				if rep == ireps-1 {
					part = reps - math.Floor(reps)
				}
				steps := math.Floor(2.0 * math.Pi * r * part / 4.0)
				if steps < 1 {
					continue
				}
				stepAng := 2 * math.Pi / steps
				for i := 0; i < int(steps); i++ {
					path = append(path, planarops.Point{
						X: r * math.Cos(float64(i)*stepAng),
						Y: r * math.Sin(float64(i)*stepAng),
					})
				}
			}
		}
		if len(path) > 0 {
			s.addRawLayerPaths(0, planarops.Paths{path}, ewidth, nozl)
		}
	}
}

// addRawLayerPaths greedily stitches paths into as few continuous runs
// as possible (joining endpoints within maxJoinDist, reversing a path
// as needed) and queues the joined result for nozl on layer. Ported
// from _add_raw_layer_paths.
func (s *Slicer) addRawLayerPaths(layer int, paths planarops.Paths, width float64, nozl int) {
	joined := joinPaths(paths)
	group := s.rawLayerPaths[layer]
	group[nozl] = append(group[nozl], nozzleGroup{Paths: joined, Width: width})
	s.rawLayerPaths[layer] = group
}

const maxJoinDist = 2.0

func reversePath(p planarops.Path) planarops.Path {
	out := make(planarops.Path, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// joinPaths greedily merges a growing path with whichever remaining
// path has an endpoint closest to either of the growing path's
// endpoints, splicing (and reversing as needed) when that distance is
// within maxJoinDist; otherwise it emits the current run and starts a
// new one from the next remaining path.
func joinPaths(paths planarops.Paths) planarops.Paths {
	remaining := make(planarops.Paths, len(paths))
	copy(remaining, paths)

	var joined planarops.Paths
	if len(remaining) == 0 {
		return joined
	}
	path := remaining[0]
	remaining = remaining[1:]

	for len(remaining) > 0 {
		bestIdx := -1
		bestDist := math.Inf(1)
		bestEndA, bestEndB := false, false
		for i, cand := range remaining {
			if len(cand) == 0 || len(path) == 0 {
				continue
			}
			pairs := []struct {
				da, db bool
				pa, pb planarops.Point
			}{
				{false, false, path[0], cand[0]},
				{false, true, path[0], cand[len(cand)-1]},
				{true, false, path[len(path)-1], cand[0]},
				{true, true, path[len(path)-1], cand[len(cand)-1]},
			}
			for _, pr := range pairs {
				d := dist2D(pr.pa, pr.pb)
				if d < bestDist {
					bestDist, bestIdx, bestEndA, bestEndB = d, i, pr.da, pr.db
				}
			}
		}
		if bestIdx < 0 {
			break
		}
		if bestDist <= maxJoinDist {
			cand := remaining[bestIdx]
			remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
			switch {
			case bestEndA && bestEndB:
				path = append(path, reversePath(cand)...)
			case bestEndA && !bestEndB:
				path = append(path, cand...)
			case !bestEndA && bestEndB:
				path = append(cand, path...)
			default:
				path = append(reversePath(cand), path...)
			}
		} else {
			joined = append(joined, path)
			path = remaining[0]
			remaining = remaining[1:]
		}
	}
	joined = append(joined, path)
	return joined
}
