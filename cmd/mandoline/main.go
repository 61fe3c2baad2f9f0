// Command mandoline slices a triangle mesh into G-code, wiring
// internal/meshio, internal/mesh, internal/slicer, internal/gcode, and
// internal/config behind the flag surface ported from
// original_source/mandoline/__init__.main, expanded with the
// load_config/format/model-scale flags SPEC_FULL.md adds.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mandoline:", err)
		return exitCodeFor(err)
	}
	return 0
}
