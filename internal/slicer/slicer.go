// Package slicer is the pipeline orchestrator: it walks every stage of
// slicer.py's Slicer class (A-G per SPEC_FULL.md §4.6) over one or more
// centered, layer-assigned meshes and produces routed, per-nozzle path
// groups ready for internal/gcode.
package slicer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mandoline-go/mandoline/internal/config"
	"github.com/mandoline-go/mandoline/internal/mesh"
	"github.com/mandoline-go/mandoline/internal/planarops"
	"github.com/mandoline-go/mandoline/internal/progress"
)

// nozzleGroup is one routed, joined group of paths destined for one
// nozzle at one extrusion width — the Go analogue of the
// (joined_paths, width) tuples appended to raw_layer_paths.
type nozzleGroup struct {
	Paths planarops.Paths
	Width float64
}

// Slicer holds every model to be sliced together and the live
// configuration driving the pipeline, plus the per-layer working state
// each stage fills in as it runs (mirroring the attributes
// slicer.py's Slicer accumulates directly on self).
type Slicer struct {
	Models []*mesh.Mesh
	Conf   *config.Config
	Sink   progress.Sink

	dfltNozl, inflNozl, supplNozl int
	centerX, centerY              float64
	extrusionWidth                float64
	infillWidth                   float64
	supportWidth                  float64

	layerH     float64
	layers     int
	raftLayers int
	layerZs    []float64 // index 0 = first raft or print layer, ascending

	layerPaths []planarops.Paths // per print layer, union of all models
	deadPaths  []planarops.Paths

	// perimeterPaths[layer] holds shell_count shells, outermost first.
	perimeterPaths [][]planarops.Paths
	topMasks       []planarops.Paths
	botMasks       []planarops.Paths

	skirtBounds planarops.Paths

	supportOutline []planarops.Paths
	supportInfill  []planarops.Paths

	skirtPaths  planarops.Paths
	brimPaths   planarops.Paths
	raftOutline planarops.Paths
	raftInfill  []planarops.Paths

	solidInfill  []planarops.Paths
	sparseInfill []planarops.Paths

	// rawLayerPaths[layer][nozzle] is the ordered list of routed groups
	// queued for that nozzle on that (raft-inclusive) layer.
	rawLayerPaths map[int][4][]nozzleGroup

	TotalBuildTime float64
}

// New builds a Slicer over models (already read, not yet centered or
// layer-assigned) using conf. sink receives progress messages; pass
// progress.Discard for silent operation.
func New(models []*mesh.Mesh, conf *config.Config, sink progress.Sink) *Slicer {
	if sink == nil {
		sink = progress.Discard
	}
	return &Slicer{
		Models:        models,
		Conf:          conf,
		Sink:          sink,
		rawLayerPaths: make(map[int][4][]nozzleGroup),
	}
}

// Run executes every pipeline stage in order and returns the routed
// per-layer, per-nozzle path groups plus the layer Z table, ready for
// gcode emission. Mirrors Slicer.slice_to_file, minus the GUI viewer
// (a Non-goal of this build's command surface).
func (s *Slicer) Run() error {
	s.setup()

	s.Sink.Message("Perimeters")
	s.stagePerimeters()

	s.Sink.Message("Support")
	s.stageSupport()

	s.Sink.Message("Raft, Brim, and Skirt")
	s.stageAdhesion()

	s.Sink.Message("Infill")
	s.stageFill()

	s.Sink.Message("Pathing")
	s.stagePathing()

	return nil
}

func (s *Slicer) setup() {
	c := s.Conf
	s.dfltNozl = c.Int("default_nozzle")
	s.inflNozl = c.Int("infill_nozzle")
	s.supplNozl = c.Int("support_nozzle")
	if s.inflNozl == -1 {
		s.inflNozl = s.dfltNozl
	}
	if s.supplNozl == -1 {
		s.supplNozl = s.dfltNozl
	}
	s.centerX = c.Float("bed_center_x")
	s.centerY = c.Float("bed_center_y")

	dfltDiam := c.Float(nozzleKey(s.dfltNozl, "diam"))
	inflDiam := c.Float(nozzleKey(s.inflNozl, "diam"))
	supplDiam := c.Float(nozzleKey(s.supplNozl, "diam"))
	const extrusionRatio = 1.25
	s.extrusionWidth = dfltDiam * extrusionRatio
	s.infillWidth = inflDiam * extrusionRatio
	s.supportWidth = supplDiam * extrusionRatio

	s.layerH = c.Float("layer_height")
	if c.String("adhesion_type") == "Raft" {
		s.raftLayers = c.Int("raft_layers")
	}

	maxHeight := 0.0
	for _, m := range s.Models {
		minX, minY, minZ, maxX, maxY, maxZ := m.Bounds()
		_ = minX
		_ = minY
		_ = maxX
		_ = maxY
		height := maxZ - minZ
		m.Center([3]float64{s.centerX, s.centerY, height / 2.0})
		m.AssignLayers(s.layerH)
		if height > maxHeight {
			maxHeight = height
		}
	}
	s.layers = int(maxHeight / s.layerH)

	total := s.layers + s.raftLayers
	s.layerZs = make([]float64, total)
	for l := 0; l < total; l++ {
		s.layerZs[l] = s.layerH * float64(l+1)
	}
}

func nozzleKey(n int, field string) string {
	return fmt.Sprintf("nozzle_%d_%s", n, field)
}

// randomRotate implements §4.6 Stage A.3: rotate each closed shell path
// by a per-layer-random cyclic offset, uniform across every shell on
// the layer, matching the original's
// `path[i:] + path[1:i+1]` rotation (keeping the closing duplicate
// point consistent).
func randomRotate(paths planarops.Paths, randpos float64) planarops.Paths {
	out := make(planarops.Paths, len(paths))
	for pi, path := range paths {
		if len(path) < 2 {
			out[pi] = path
			continue
		}
		i := int(randpos * float64(len(path)-1))
		if i == 0 {
			out[pi] = path
			continue
		}
		rotated := make(planarops.Path, 0, len(path))
		rotated = append(rotated, path[i:]...)
		rotated = append(rotated, path[1:i+1]...)
		out[pi] = rotated
	}
	return out
}

// newRand returns a per-layer random source seeded deterministically
// from the layer index so runs are reproducible; the original used an
// unseeded global PRNG per call, which this intentionally improves on
// for repeatable slicing of the same model.
func newRand(layer int) *rand.Rand {
	return rand.New(rand.NewSource(int64(layer) + 1))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func dist2D(a, b planarops.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy)
}
