package slicer

import (
	"github.com/mandoline-go/mandoline/internal/infill"
	"github.com/mandoline-go/mandoline/internal/planarops"
)

// infillLines bridges internal/infill's pattern generator (millimeter
// rect + pattern enum) to planarops.Paths, the representation every
// other stage in this package works in.
func infillLines(minX, minY, maxX, maxY, baseAngle, density, ewidth float64) planarops.Paths {
	return patternLines(infill.Lines, minX, minY, maxX, maxY, baseAngle, density, ewidth)
}

func patternLines(pattern infill.Pattern, minX, minY, maxX, maxY, baseAngle, density, ewidth float64) planarops.Paths {
	rect := infill.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	paths := infill.Generate(pattern, rect, baseAngle, ewidth, density)
	out := make(planarops.Paths, len(paths))
	for i, p := range paths {
		path := make(planarops.Path, len(p))
		for j, pt := range p {
			path[j] = planarops.Point{X: pt[0], Y: pt[1]}
		}
		out[i] = path
	}
	return out
}
