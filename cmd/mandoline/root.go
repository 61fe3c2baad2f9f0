package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandoline-go/mandoline/internal/config"
	"github.com/mandoline-go/mandoline/internal/mesh"
	"github.com/mandoline-go/mandoline/internal/meshio"
	"github.com/mandoline-go/mandoline/internal/progress"
	"github.com/mandoline-go/mandoline/internal/slicer"
	"github.com/mandoline-go/mandoline/internal/slicerrors"
)

type options struct {
	outfile       string
	noValidation  bool
	guiDisplay    bool
	verbose       bool
	format        string
	noRaft        bool
	raft          bool
	brim          bool
	noSupport     bool
	support       bool
	supportAll    bool
	filament      string
	setOptions    []string
	queryOptions  []string
	writeConfigs  bool
	helpConfigs   bool
	showConfigs   bool
	loadConfigs   []string
	modelScales   []string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "mandoline [infile]",
		Short:         "Slice a triangle mesh into G-code",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infile string
			if len(args) > 0 {
				infile = args[0]
			}
			return runSlice(infile, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.outfile, "outfile", "o", "", "Slices the model and writes G-code to file.")
	flags.BoolVarP(&o.noValidation, "no-validation", "n", false, "Skip performing model validation.")
	flags.BoolVarP(&o.guiDisplay, "gui-display", "g", false, "Show sliced paths output in GUI.")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Show verbose output.")
	flags.StringVar(&o.format, "format", "gcode", "Output format: gcode or svg.")

	flags.BoolVar(&o.noRaft, "no-raft", false, "Force adhesion to not be generated.")
	flags.BoolVar(&o.raft, "raft", false, "Force raft generation.")
	flags.BoolVar(&o.brim, "brim", false, "Force brim generation.")
	flags.BoolVar(&o.noSupport, "no-support", false, "Disable support structure generation.")
	flags.BoolVar(&o.support, "support", false, "Force external support structure generation.")
	flags.BoolVar(&o.supportAll, "support-all", false, "Force support structure generation everywhere.")

	flags.StringVarP(&o.filament, "filament", "f", "", "Configures extruder(s) for given materials, in order. Ex: -f PLA,TPU,PVA")

	flags.StringArrayVarP(&o.setOptions, "set-option", "S", nil, "Set a slicing config option (OPTNAME=VALUE).")
	flags.StringArrayVarP(&o.queryOptions, "query-option", "Q", nil, "Display a slicing config option value.")
	flags.BoolVarP(&o.writeConfigs, "write-configs", "w", false, "Save any changed slicing config options.")
	flags.BoolVar(&o.helpConfigs, "help-configs", false, "Display help for all slicing options.")
	flags.BoolVar(&o.showConfigs, "show-configs", false, "Display values of all slicing options.")

	flags.StringArrayVar(&o.loadConfigs, "load-config", nil, "Load additional key=value config file (repeatable).")
	flags.StringArrayVar(&o.modelScales, "model", nil, "Apply scale=Sx,Sy,Sz to the loaded model (repeatable).")

	return cmd
}

func runSlice(infile string, o *options) error {
	conf := config.New()
	sink := progress.Default
	if !o.verbose {
		sink = progress.Discard
	}

	if err := conf.LoadDefault(); err != nil {
		var ioErr *slicerrors.IoError
		if errors.As(err, &ioErr) {
			fmt.Fprintln(os.Stderr, "mandoline: warning:", err)
		} else {
			return err
		}
	}
	for _, path := range o.loadConfigs {
		if err := conf.Load(path); err != nil {
			return err
		}
	}

	applyAdhesionFlags(conf, o)
	applySupportFlags(conf, o)

	for _, opt := range o.setOptions {
		key, val, ok := strings.Cut(opt, "=")
		if !ok {
			return fmt.Errorf("malformed --set-option %q, want OPTNAME=VALUE", opt)
		}
		if err := conf.SetString(key, val); err != nil {
			fmt.Fprintln(os.Stderr, "mandoline: warning:", err)
		}
	}

	if o.filament != "" {
		materials := strings.Split(o.filament, ",")
		if err := config.ApplyFilament(conf, materials); err != nil {
			return err
		}
		for extnum, mat := range materials {
			fmt.Printf("Configuring extruder%d for %s\n", extnum, strings.TrimSpace(mat))
		}
	}

	if o.writeConfigs {
		if err := conf.SaveDefault(); err != nil {
			return err
		}
	}
	for _, key := range o.queryOptions {
		if err := conf.Help(os.Stdout, key, true); err != nil {
			fmt.Fprintln(os.Stderr, "mandoline: warning:", err)
		}
	}
	if o.helpConfigs {
		conf.Help(os.Stdout, "", false)
	}
	if o.showConfigs {
		conf.Help(os.Stdout, "", true)
	}

	if infile == "" {
		return nil
	}

	if o.format != "gcode" && o.format != "svg" {
		return &slicerrors.UnsupportedFormatError{File: infile, Format: o.format}
	}
	if o.format == "svg" {
		return &slicerrors.UnsupportedFormatError{File: infile, Format: "svg"}
	}

	model, err := meshio.Open(infile, sink)
	if err != nil {
		return err
	}
	m := mesh.NewMesh()
	if err := m.ReadFrom(model); err != nil {
		return err
	}

	if o.verbose {
		minX, minY, minZ, maxX, maxY, maxZ := m.Bounds()
		fmt.Printf("Read %s (%d facets, %.1f x %.1f x %.1f)\n",
			infile, len(model.Facets), maxX-minX, maxY-minY, maxZ-minZ)
	}

	if !o.noValidation {
		report := m.CheckManifold()
		if !report.IsManifold() {
			return &slicerrors.NonManifoldError{
				DuplicateTriangleCount: len(report.DuplicateTriangles),
				HoleEdgeCount:          len(report.HoleEdges),
				ExcessEdgeCount:        len(report.ExcessEdges),
			}
		}
		if o.verbose || o.guiDisplay {
			fmt.Printf("%s is manifold.\n", infile)
		}
	}

	for _, spec := range o.modelScales {
		factor, err := parseUniformScale(spec)
		if err != nil {
			return err
		}
		m.Scale(factor)
	}

	s := slicer.New([]*mesh.Mesh{m}, conf, sink)
	if err := s.Run(); err != nil {
		return err
	}

	outfile := o.outfile
	if outfile == "" {
		outfile = strings.TrimSuffix(infile, filepath.Ext(infile)) + ".gcode"
	}
	f, err := os.Create(outfile)
	if err != nil {
		return &slicerrors.IoError{Path: outfile, Op: "create", Err: err}
	}
	defer f.Close()

	if err := s.WriteGCode(f); err != nil {
		return &slicerrors.IoError{Path: outfile, Op: "write", Err: err}
	}

	if o.guiDisplay {
		fmt.Fprintln(os.Stderr, "mandoline: --gui-display has no effect; this build has no interactive viewer")
	}

	fmt.Printf("Wrote %s (estimated build time %.0fs)\n", outfile, s.TotalBuildTime)
	return nil
}

func applyAdhesionFlags(conf *config.Config, o *options) {
	switch {
	case o.raft:
		conf.Set("adhesion_type", "Raft")
	case o.brim:
		conf.Set("adhesion_type", "Brim")
	case o.noRaft:
		conf.Set("adhesion_type", "None")
	}
}

func applySupportFlags(conf *config.Config, o *options) {
	switch {
	case o.supportAll:
		conf.Set("support_type", "Everywhere")
	case o.support:
		conf.Set("support_type", "External")
	case o.noSupport:
		conf.Set("support_type", "None")
	}
}

// parseUniformScale parses a "scale=Sx,Sy,Sz" spec, accepting it only
// when all three axes match: Mesh.Scale is a single scalar factor, and
// non-uniform per-axis scaling is outside this build's mesh-transform
// surface (spec.md §1 names center/translate/scale as the only
// supported transforms).
func parseUniformScale(spec string) (float64, error) {
	_, val, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, fmt.Errorf("malformed --model %q, want scale=Sx,Sy,Sz", spec)
	}
	parts := strings.Split(val, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed scale %q, want Sx,Sy,Sz", val)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("malformed scale component %q: %w", p, err)
		}
		vals[i] = f
	}
	if vals[0] != vals[1] || vals[1] != vals[2] {
		return 0, fmt.Errorf("non-uniform scale %v not supported; Sx, Sy, and Sz must match", vals)
	}
	return vals[0], nil
}

// exitCodeFor always returns 1: every fatal error kind (file-not-found,
// unsupported format, non-manifold, config parse failure) maps to the
// same nonzero status per spec.md §6, matching the original's uniform
// sys.exit(-1).
func exitCodeFor(err error) int {
	return 1
}
