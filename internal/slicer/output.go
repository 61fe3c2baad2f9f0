package slicer

import (
	"io"

	"github.com/mandoline-go/mandoline/internal/gcode"
)

// WriteGCode emits the full print stream for every layer Run populated,
// in ascending Z order, via internal/gcode's Marlin emitter. It must be
// called after Run returns nil. TotalBuildTime is filled in afterward.
func (s *Slicer) WriteGCode(w io.Writer) error {
	gen := gcode.New(s.Conf)
	totalLayers := len(s.layerZs)

	if err := gen.WriteHeader(w, totalLayers); err != nil {
		return err
	}

	for layer := 0; layer < totalLayers; layer++ {
		var groups [4][]gcode.PathGroup
		raw := s.rawLayerPaths[layer]
		for nozl := 0; nozl < 4; nozl++ {
			for _, g := range raw[nozl] {
				groups[nozl] = append(groups[nozl], gcode.PathGroup{
					Paths: g.Paths,
					Width: g.Width,
					Nozl:  nozl,
				})
			}
		}
		if err := gen.WriteLayer(w, layer, s.layerZs[layer], groups); err != nil {
			return err
		}
	}

	s.TotalBuildTime = gen.TotalBuildTime()
	return nil
}
