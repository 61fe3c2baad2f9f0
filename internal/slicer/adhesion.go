package slicer

import (
	"math"

	"github.com/mandoline-go/mandoline/internal/planarops"
)

// stageAdhesion ports _slicer_task_adhesion: skirt, brim, and raft are
// each a single one-shot computation, not per-layer.
func (s *Slicer) stageAdhesion() {
	adhesion := s.Conf.String("adhesion_type")
	skirtW := s.Conf.Float("skirt_outset")
	brimW := s.Conf.Float("brim_width")
	raftW := s.Conf.Float("raft_outset")
	overlap := s.Conf.Float("infill_overlap")

	// Skirt
	var skirtMask planarops.Paths
	if len(s.supportOutline) > 0 && len(s.supportOutline[0]) > 0 {
		skirtMask = planarops.Offset(planarops.Union(s.skirtBounds, s.supportOutline[0]), skirtW, planarops.JoinSquare)
	} else {
		skirtMask = planarops.Offset(s.skirtBounds, skirtW, planarops.JoinSquare)
	}
	skirt := planarops.Offset(skirtMask, brimW+skirtW+s.extrusionWidth/2.0, planarops.JoinSquare)
	s.skirtPaths = planarops.ClosePaths(skirt)

	// Brim
	var brim planarops.Paths
	if adhesion == "Brim" && len(s.layerPaths) > 0 {
		rings := int(math.Ceil(brimW / s.extrusionWidth))
		for i := 0; i < rings; i++ {
			ring := planarops.Offset(s.layerPaths[0], (float64(i)+0.5)*s.extrusionWidth, planarops.JoinSquare)
			brim = append(brim, ring...)
		}
	}
	s.brimPaths = planarops.ClosePaths(brim)

	// Raft
	var raftOutline planarops.Paths
	if adhesion == "Raft" && len(s.layerPaths) > 0 {
		outset := raftW + math.Max(
			skirtW+s.extrusionWidth,
			raftW+s.extrusionWidth,
		)
		var base planarops.Paths
		if len(s.supportOutline) > 0 {
			base = planarops.Union(s.layerPaths[0], s.supportOutline[0])
		} else {
			base = s.layerPaths[0]
		}
		raftOutline = planarops.Offset(base, outset, planarops.JoinSquare)
		minX, minY, maxX, maxY := planarops.PathsBounds(raftOutline)
		mask := planarops.Offset(raftOutline, overlap-s.extrusionWidth, planarops.JoinSquare)

		lines := infillLines(minX, minY, maxX, maxY, 0, 0.75, s.extrusionWidth)
		s.raftInfill = append(s.raftInfill, planarops.Intersection(lines, mask, false))
		for layer := 0; layer < s.raftLayers-1; layer++ {
			baseAng := 90.0 * float64((layer+1)%2)
			lines := infillLines(minX, minY, maxX, maxY, baseAng, 1.0, s.extrusionWidth)
			s.raftInfill = append(s.raftInfill, planarops.Intersection(lines, raftOutline, false))
		}
	}
	s.raftOutline = planarops.ClosePaths(raftOutline)
}
