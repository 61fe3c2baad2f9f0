package slicer

import (
	"math"

	"github.com/mandoline-go/mandoline/internal/mesh"
	"github.com/mandoline-go/mandoline/internal/planarops"
)

// stageSupport ports _slicer_task_support: a top-down footprint
// accumulation pass (drop_mask) followed by a bottom-up pass that
// clears regions too close to the model and cleans up slivers.
func (s *Slicer) stageSupport() {
	s.supportOutline = make([]planarops.Paths, s.layers)
	s.supportInfill = make([]planarops.Paths, s.layers)

	suppType := s.Conf.String("support_type")
	if suppType == "None" {
		return
	}
	suppAngle := float64(s.Conf.Int("overhang_angle"))
	outset := s.Conf.Float("support_outset")

	layerFacets := make([][]*mesh.Triangle3, s.layers)
	for _, m := range s.Models {
		m.Triangles.Each(func(t *mesh.Triangle3) {
			minZ, maxZ := t.ZRange()
			minL := int(math.Ceil(minZ / s.layerH))
			maxL := int(math.Floor(maxZ / s.layerH))
			for layer := minL; layer < maxL && layer < s.layers; layer++ {
				if layer < 0 {
					continue
				}
				layerFacets[layer] = append(layerFacets[layer], t)
			}
		})
	}

	dropPaths := make([]planarops.Paths, s.layers)
	var dropMask planarops.Paths
	for layer := s.layers - 1; layer >= 0; layer-- {
		z := s.layerZs[layer] - s.layerH/2.0
		var adds, diffs planarops.Paths
		for _, t := range layerFacets[layer] {
			footprint := t.Footprint(z)
			if footprint == nil {
				continue
			}
			path := toPlanarPath(footprint)
			if t.OverhangAngle() < suppAngle {
				diffs = append(diffs, path)
			} else {
				adds = append(adds, path)
			}
		}
		dropMask = planarops.Union(dropMask, adds)
		dropMask = planarops.Difference(dropMask, diffs, true)
		dropPaths[layer] = dropMask
	}

	var cummMask planarops.Paths
	for layer := 0; layer < s.layers; layer++ {
		mask := planarops.Offset(s.layerPaths[layer], outset, planarops.JoinSquare)
		if layer > 0 && suppType == "Everywhere" {
			mask = planarops.Union(mask, s.layerPaths[layer-1])
		}
		if layer < s.layers-1 {
			mask = planarops.Union(mask, s.layerPaths[layer+1])
		}
		if suppType == "External" {
			cummMask = planarops.Union(cummMask, mask)
			mask = cummMask
		}
		overhang := planarops.Difference(dropPaths[layer], mask, true)

		overhang = planarops.Offset(overhang, s.extrusionWidth, planarops.JoinSquare)
		overhang = planarops.Offset(overhang, -s.extrusionWidth*2, planarops.JoinSquare)
		overhang = planarops.Offset(overhang, s.extrusionWidth, planarops.JoinSquare)
		dropPaths[layer] = planarops.ClosePaths(overhang)
	}

	overlap := s.Conf.Float("infill_overlap")
	density := s.Conf.Float("support_density") / 100.0
	for layer := 0; layer < s.layers; layer++ {
		overhangs := dropPaths[layer]
		var outline, infill planarops.Paths
		if density > 0.0 {
			outline = planarops.Offset(overhangs, -s.extrusionWidth/2.0, planarops.JoinSquare)
			outline = planarops.ClosePaths(outline)
			mask := planarops.Offset(outline, overlap-s.extrusionWidth, planarops.JoinSquare)
			minX, minY, maxX, maxY := planarops.PathsBounds(mask)
			lines := infillLines(minX, minY, maxX, maxY, 0, density, s.extrusionWidth)
			infill = planarops.Intersection(lines, mask, false)
		}
		s.supportOutline[layer] = outline
		s.supportInfill[layer] = infill
	}
}
