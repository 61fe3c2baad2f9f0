package slicer

import (
	"github.com/mandoline-go/mandoline/internal/infill"
	"github.com/mandoline-go/mandoline/internal/planarops"
)

// stageFill ports _slicer_task_fill: the solid top/bottom mask and the
// sparse interior infill, both per layer and independent across
// layers once Stage B's masks exist.
func (s *Slicer) stageFill() {
	topCnt := s.Conf.Int("top_layers")
	botCnt := s.Conf.Int("bottom_layers")
	overlap := s.Conf.Float("infill_overlap")
	infillType := s.Conf.String("infill_type")
	density := s.Conf.Float("infill_density") / 100.0

	s.solidInfill = make([]planarops.Paths, s.layers)
	s.sparseInfill = make([]planarops.Paths, s.layers)

	parallelForLayers(s.layers, func(layer int) {
		topEnd := layer + topCnt
		if topEnd > s.layers {
			topEnd = s.layers
		}
		botStart := layer - botCnt + 1
		if botStart < 0 {
			botStart = 0
		}
		perims := s.perimeterPaths[layer]
		innermost := perims[len(perims)-1]

		var outmask planarops.Paths
		for l := layer; l < topEnd; l++ {
			outmask = planarops.Union(outmask, planarops.ClosePaths(s.topMasks[l]))
		}
		for l := botStart; l <= layer; l++ {
			outmask = planarops.Union(outmask, planarops.ClosePaths(s.botMasks[l]))
		}
		solidMask := planarops.Intersection(outmask, innermost, true)
		minX, minY, maxX, maxY := planarops.PathsBounds(innermost)

		baseAng := 45.0
		if layer%2 != 0 {
			baseAng = -45.0
		}
		solidMask = planarops.Offset(solidMask, overlap-s.extrusionWidth, planarops.JoinSquare)
		lines := infillLines(minX, minY, maxX, maxY, baseAng, 1.0, s.extrusionWidth)
		var solid planarops.Paths
		for _, line := range lines {
			clipped := planarops.Intersection(planarops.Paths{line}, solidMask, false)
			solid = append(solid, clipped...)
		}
		s.solidInfill[layer] = solid

		var sparse planarops.Paths
		if density > 0.0 {
			effectiveType := infillType
			if density >= 0.99 {
				effectiveType = "Lines"
			}
			mask := planarops.Offset(innermost, overlap-s.infillWidth, planarops.JoinSquare)
			mask = planarops.Difference(mask, solidMask, true)

			var pattern infill.Pattern
			var angle float64
			switch effectiveType {
			case "Lines":
				pattern = infill.Lines
				angle = 90.0*float64(layer%2) + 45.0
			case "Triangles":
				pattern = infill.Triangles
				angle = 60.0 * float64(layer%3)
			case "Grid":
				pattern = infill.Grid
				angle = 90.0*float64(layer%2) + 45.0
			case "Hexagons":
				pattern = infill.Hexagons
				angle = 120.0 * float64(layer%3)
			default:
				pattern = infill.Lines
				angle = 0
			}
			lines := patternLines(pattern, minX, minY, maxX, maxY, angle, density, s.infillWidth)
			sparse = planarops.Intersection(lines, mask, false)
		}
		s.sparseInfill[layer] = sparse
	})
}
