// Package gcode emits the Marlin-flavored motion and extrusion stream
// consumed by §4.7 of the slicing pipeline: a header, one ;LAYER: block
// per layer in ascending Z, tool-change retraction sequencing, and the
// per-path extrusion accounting. Ported from
// original_source/mandoline/slicer.py's _slicer_task_gcode,
// _paths_gcode, and _tool_change_gcode. String-accumulation style
// grounded on the pack's gcode-generator.go (strings.Builder-based
// Generator).
package gcode

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mandoline-go/mandoline/internal/config"
	"github.com/mandoline-go/mandoline/internal/planarops"
)

// PathGroup is one routed, joined set of paths destined for one
// nozzle at one extrusion width, the unit internal/slicer's pathing
// stage hands to the emitter.
type PathGroup struct {
	Paths planarops.Paths
	Width float64
	Nozl  int
}

// Generator maintains emitter state across the whole print: current
// position, cumulative extruder position, active nozzle, and running
// build time estimate. A Generator is single-use and single-threaded —
// the pipeline's per-layer stages may run concurrently, but emission is
// strictly sequential over ascending Z (spec.md §5's "Shared state"
// rule).
type Generator struct {
	conf *config.Config

	lastX, lastY, lastZ float64
	lastE               float64
	lastNozl            int
	totalBuildTime       float64

	extrusionRatio float64
}

const extrusionRatio = 1.25

// New returns a Generator reading nozzle/material/motion parameters
// from conf.
func New(conf *config.Config) *Generator {
	return &Generator{conf: conf, extrusionRatio: extrusionRatio}
}

// TotalBuildTime returns the running build time estimate, in seconds,
// accumulated across every WriteLayer call so far.
func (g *Generator) TotalBuildTime() float64 {
	return g.totalBuildTime
}

// WriteHeader emits the fixed Marlin preamble: absolute positioning,
// metric units, fan off, bed/hotend temperature waits, homing, and the
// ;LAYER_COUNT: comment the viewer convention expects.
func (g *Generator) WriteHeader(w io.Writer, totalLayers int) error {
	var b strings.Builder
	b.WriteString(";FLAVOR:Marlin\n")
	fmt.Fprintf(&b, ";Layer height: %.2f\n", g.conf.Float("layer_height"))
	b.WriteString("M82 ;absolute extrusion mode\n")
	b.WriteString("G21 ;metric values\n")
	b.WriteString("G90 ;absolute positioning\n")
	b.WriteString("M107 ;Fan off\n")
	if bedTemp := g.conf.Int("bed_temp"); bedTemp > 0 {
		fmt.Fprintf(&b, "M140 S%d ;set bed temp\n", bedTemp)
		fmt.Fprintf(&b, "M190 S%d ;wait for bed temp\n", bedTemp)
	}
	nozl0Temp := g.conf.Int("nozzle_0_temp")
	fmt.Fprintf(&b, "M104 S%d ;set extruder0 temp\n", nozl0Temp)
	fmt.Fprintf(&b, "M109 S%d ;wait for extruder0 temp\n", nozl0Temp)
	b.WriteString("G28 X0 Y0 ;auto-home all axes\n")
	b.WriteString("G28 Z0 ;auto-home all axes\n")
	b.WriteString("G1 Z15 F6000 ;raise extruder\n")
	b.WriteString("G92 E0 ;Zero extruder\n")
	b.WriteString("M117 Printing...\n")
	fmt.Fprintf(&b, ";LAYER_COUNT:%d\n", totalLayers)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteLayer emits one ;LAYER: block: a "( Nozzle N )" comment plus
// motion/extrusion for each of groups[nozl], nozzle 0 through 3, in
// that order, skipping nozzles with no queued groups.
func (g *Generator) WriteLayer(w io.Writer, layer int, z float64, groups [4][]PathGroup) error {
	var b strings.Builder
	fmt.Fprintf(&b, ";LAYER:%d\n", layer)
	for nozl := 0; nozl < 4; nozl++ {
		if len(groups[nozl]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "( Nozzle %d )\n", nozl)
		for _, group := range groups[nozl] {
			g.writePathsGCode(&b, group.Paths, group.Width, nozl, z)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// toolChangeGCode implements _tool_change_gcode: retract, switch
// tools, de-retract, with no intervening travel move. A no-op when
// newNozl is already active.
func (g *Generator) toolChangeGCode(b *strings.Builder, newNozl int) {
	if g.lastNozl == newNozl {
		return
	}
	retractDist := g.conf.Float("retract_extruder")
	retractSpeed := g.conf.Float("retract_speed")
	fmt.Fprintf(b, "G1 E%.3f F%g\n", -retractDist, retractSpeed*60.0)
	fmt.Fprintf(b, "T%d\n", newNozl)
	fmt.Fprintf(b, "G1 E%.3f F%g\n", retractDist, retractSpeed*60.0)
	g.lastNozl = newNozl
}

// writePathsGCode implements _paths_gcode: per-path travel, optional
// de-retract, per-segment extrusion accounting via the elliptical
// cross-section formula, and retract at path end.
func (g *Generator) writePathsGCode(b *strings.Builder, paths planarops.Paths, ewidth float64, nozl int, z float64) {
	nozlDiam := g.conf.Float(fmt.Sprintf("nozzle_%d_diam", nozl))
	filDiam := g.conf.Float(fmt.Sprintf("nozzle_%d_filament", nozl))
	maxSpeed := g.conf.Float(fmt.Sprintf("nozzle_%d_max_speed", nozl))
	layerHeight := g.conf.Float("layer_height")
	retractDist := g.conf.Float("retract_dist")
	retractSpeed := g.conf.Float("retract_speed")
	retractLift := g.conf.Float("retract_lift")
	feedRate := g.conf.Float("feed_rate")
	travelRateXY := g.conf.Float("travel_rate_xy")
	travelRateZ := g.conf.Float("travel_rate_z")

	ewidth = nozlDiam * g.extrusionRatio
	xsect := math.Pi * ewidth / 2 * layerHeight / 2
	filXsect := math.Pi * filDiam / 2 * filDiam / 2

	g.toolChangeGCode(b, nozl)

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		ox, oy := path[0].X, path[0].Y
		if retractLift > 0 || g.lastZ != z {
			g.totalBuildTime += math.Abs(retractLift) / travelRateZ
			fmt.Fprintf(b, "G1 Z%.2f F%g\n", z+retractLift, travelRateZ*60.0)
		}
		dist := math.Hypot(g.lastY-oy, g.lastX-ox)
		g.totalBuildTime += dist / travelRateXY
		fmt.Fprintf(b, "G0 X%.2f Y%.2f F%g\n", ox, oy, travelRateXY*60.0)
		if retractLift > 0 {
			g.totalBuildTime += math.Abs(retractLift) / travelRateZ
			fmt.Fprintf(b, "G1 Z%.2f F%g\n", z, travelRateZ*60.0)
		}
		if retractDist > 0 {
			g.totalBuildTime += math.Abs(retractDist) / retractSpeed
			fmt.Fprintf(b, "G1 E%.3f F%g\n", g.lastE+retractDist, retractSpeed*60.0)
			g.lastE += retractDist
		}
		for _, pt := range path[1:] {
			x, y := pt.X, pt.Y
			dist := math.Hypot(y-oy, x-ox)
			filDist := dist * xsect / filXsect
			speed := math.Min(feedRate, maxSpeed) * 60.0
			g.totalBuildTime += dist / feedRate
			g.lastE += filDist
			fmt.Fprintf(b, "G1 X%.2f Y%.2f E%.3f F%g\n", x, y, g.lastE, speed)
			g.lastX, g.lastY, g.lastZ = x, y, z
			ox, oy = x, y
		}
		if retractDist > 0 {
			g.totalBuildTime += math.Abs(retractDist) / retractSpeed
			fmt.Fprintf(b, "G1 E%.3f F%g\n", g.lastE-retractDist, retractSpeed*60.0)
			g.lastE -= retractDist
		}
	}
}
