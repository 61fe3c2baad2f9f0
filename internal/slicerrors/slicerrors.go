// Package slicerrors defines the typed error kinds produced across mesh
// loading, configuration, and slicing, and whether each is fatal to a
// run. Modeled on clipper's sentinel-error style (clipper/errors.go),
// generalized to typed errors since several kinds carry structured
// payload (duplicate triangles, hole edges) rather than being plain
// sentinels.
package slicerrors

import (
	"errors"
	"fmt"
)

// ErrNoValidationSkipped is returned by callers that chose to proceed
// past a NonManifoldError because --no_validation was set; it is not
// itself propagated as a failure.
var ErrNoValidationSkipped = errors.New("manifold validation skipped")

// MeshParseError indicates a malformed mesh file: unexpected EOF, bad
// magic bytes, or a schema violation. Fatal to the run.
type MeshParseError struct {
	File   string
	Reason string
}

func (e *MeshParseError) Error() string {
	return fmt.Sprintf("mesh parse error in %q: %s", e.File, e.Reason)
}

// UnsupportedFormatError indicates a mesh or config file extension this
// build doesn't know how to read. Fatal.
type UnsupportedFormatError struct {
	File   string
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q for %q", e.Format, e.File)
}

// NonManifoldError is returned by manifold validation when the mesh has
// duplicate triangles, hole edges, or excess edges. Fatal unless the
// caller passed no_validation.
type NonManifoldError struct {
	DuplicateTriangleCount int
	HoleEdgeCount          int
	ExcessEdgeCount        int
}

func (e *NonManifoldError) Error() string {
	return fmt.Sprintf(
		"mesh is not manifold: %d duplicate triangles, %d hole edges, %d excess edges",
		e.DuplicateTriangleCount, e.HoleEdgeCount, e.ExcessEdgeCount,
	)
}

// ConfigValueError indicates a config option's value was outside its
// valid range or the wrong type. Logged and the option is ignored; not
// fatal.
type ConfigValueError struct {
	Option string
	Value  string
	Reason string
}

func (e *ConfigValueError) Error() string {
	return fmt.Sprintf("config option %q: invalid value %q: %s", e.Option, e.Value, e.Reason)
}

// UnknownOptionError indicates a config key this build doesn't
// recognize. Logged and ignored; not fatal.
type UnknownOptionError struct {
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown config option %q", e.Option)
}

// DegenerateLayerWarning indicates a layer's triangle-walk produced dead
// (unclosed) paths at the given Z height. Logged with Z; not fatal.
type DegenerateLayerWarning struct {
	Layer int
	Z     float64
	Dead  int
}

func (e *DegenerateLayerWarning) Error() string {
	return fmt.Sprintf("layer %d (z=%.4f): %d dead path(s), outline incomplete", e.Layer, e.Z, e.Dead)
}

// IoError wraps a file open/write failure. Fatal on output paths;
// degraded (config load skipped) when reading an optional config file.
type IoError struct {
	Path string
	Op   string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
