package slicer

import "github.com/mandoline-go/mandoline/internal/planarops"

func toPlanarPath(raw [][2]float64) planarops.Path {
	out := make(planarops.Path, len(raw))
	for i, p := range raw {
		out[i] = planarops.Point{X: p[0], Y: p[1]}
	}
	return out
}

func toPlanarPaths(raw [][][2]float64) planarops.Paths {
	out := make(planarops.Paths, len(raw))
	for i, p := range raw {
		out[i] = toPlanarPath(p)
	}
	return out
}

// stagePerimeters ports _slicer_task_perimeters: per-layer slicing,
// shell generation, and the top/bottom mask pass that depends on
// every layer's outermost shell being available first.
func (s *Slicer) stagePerimeters() {
	shellCount := s.Conf.Int("shell_count")
	randomStarts := s.Conf.Bool("random_starts")
	skirtLayers := s.Conf.Int("skirt_layers")

	s.layerPaths = make([]planarops.Paths, s.layers)
	s.deadPaths = make([]planarops.Paths, s.layers)
	s.perimeterPaths = make([][]planarops.Paths, s.layers)

	parallelForLayers(s.layers, func(layer int) {
		z := s.layerZs[layer] - s.layerH/2.0

		var paths planarops.Paths
		var dead planarops.Paths
		for _, m := range s.Models {
			rawOut, rawDead := m.SliceAtZ(z)
			dead = append(dead, toPlanarPaths(rawDead)...)
			modelPaths := planarops.OrientPaths(toPlanarPaths(rawOut))
			paths = planarops.Union(paths, modelPaths)
		}
		s.layerPaths[layer] = paths
		s.deadPaths[layer] = dead

		randpos := newRand(layer).Float64()
		perims := make([]planarops.Paths, shellCount)
		for i := 0; i < shellCount; i++ {
			shell := planarops.Offset(paths, -(float64(i)+0.5)*s.extrusionWidth, planarops.JoinSquare)
			shell = planarops.ClosePaths(shell)
			if randomStarts {
				shell = randomRotate(shell, randpos)
			}
			// perims[0] is the outermost shell (smallest inset),
			// perims[shellCount-1] the innermost.
			perims[i] = shell
		}
		s.perimeterPaths[layer] = perims
	})

	// Stage A.4: skirt bounds, sequential since it folds across layers.
	for layer := 0; layer < s.layers && layer < skirtLayers; layer++ {
		s.skirtBounds = planarops.Union(s.skirtBounds, s.layerPaths[layer])
	}

	// Stage B: top/bottom masks, needs every layer's outermost shell.
	s.topMasks = make([]planarops.Paths, s.layers)
	s.botMasks = make([]planarops.Paths, s.layers)
	parallelForLayers(s.layers, func(layer int) {
		var below, above planarops.Paths
		if layer >= 1 {
			below = s.perimeterPaths[layer-1][0]
		}
		perim := s.perimeterPaths[layer][0]
		if layer < s.layers-1 {
			above = s.perimeterPaths[layer+1][0]
		}
		s.topMasks[layer] = planarops.Difference(perim, above, true)
		s.botMasks[layer] = planarops.Difference(perim, below, true)
	})
}
