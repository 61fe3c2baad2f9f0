// Package config implements the slicer's declarative option schema: an
// ordered table of named, typed, range-checked settings grouped for
// display (Quality, Support, Adhesion, Retraction, Materials, Machine),
// plus the load/save/set/help operations the CLI and config file both
// drive. Grounded on original_source/mandoline/slicer.py's
// slicer_configs table and Slicer.set_config/load_configs/
// save_configs/display_configs_help.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mandoline-go/mandoline/internal/slicerrors"
)

// Kind identifies an option's value type.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindEnum
)

// Entry describes one configuration option: its name, type, default
// value, valid range (for Float/Int) or valid choices (for Enum), and
// help text. Entry values are stored untyped (interface{}) the way
// Python's dict-of-any conf table does; callers use the typed Float/
// Int/Bool/String accessors on Config to read them back.
type Entry struct {
	Name    string
	Kind    Kind
	Default interface{}
	Min     float64
	Max     float64
	Choices []string
	Help    string
}

// Group is a named, ordered set of Entry rows, corresponding to one
// section of the original option table (e.g. "Quality").
type Group struct {
	Name    string
	Entries []Entry
}

// Schema is the full ordered list of Groups. It is the Go analogue of
// slicer_configs: every option this build understands, in display
// order.
var Schema = []Group{
	{Name: "Quality", Entries: []Entry{
		{Name: "layer_height", Kind: KindFloat, Default: 50.0, Min: 0.1, Max: 100.0, Help: "Slice layer height in mm."},
		{Name: "shell_count", Kind: KindInt, Default: 1, Min: 1, Max: 10, Help: "Number of outer shells to print."},
		{Name: "random_starts", Kind: KindBool, Default: true, Help: "Enable randomizing of perimeter starts."},
		{Name: "top_layers", Kind: KindInt, Default: 1, Min: 0, Max: 10, Help: "Number of layers to print on the top side of the object."},
		{Name: "bottom_layers", Kind: KindInt, Default: 1, Min: 0, Max: 10, Help: "Number of layers to print on the bottom side of the object."},
		{Name: "infill_type", Kind: KindEnum, Default: "Triangles", Choices: []string{"Lines", "Triangles", "Grid", "Hexagons"}, Help: "Pattern that the infill will be printed in."},
		{Name: "infill_density", Kind: KindFloat, Default: 25.0, Min: 0, Max: 100, Help: "Infill density in percent."},
		{Name: "infill_overlap", Kind: KindFloat, Default: 1.0, Min: 0, Max: 10, Help: "Amount, in mm that infill will overlap with perimeter extrusions."},
		{Name: "feed_rate", Kind: KindInt, Default: 100, Min: 1, Max: 300, Help: "Speed while extruding. (mm/s)"},
		{Name: "travel_rate_xy", Kind: KindInt, Default: 100, Min: 1, Max: 300, Help: "Travel motion speed (mm/s)"},
		{Name: "travel_rate_z", Kind: KindFloat, Default: 50.0, Min: 0.1, Max: 100, Help: "Z-axis motion speed (mm/s)"},
	}},
	{Name: "Support", Entries: []Entry{
		{Name: "support_type", Kind: KindEnum, Default: "External", Choices: []string{"None", "External", "Everywhere"}, Help: "What kind of support structure to add."},
		{Name: "support_outset", Kind: KindFloat, Default: 2.0, Min: 0, Max: 2, Help: "How far support structures should be printed away from model, horizontally."},
		{Name: "support_density", Kind: KindFloat, Default: 33.0, Min: 0, Max: 100, Help: "Density of support structure internals."},
		{Name: "overhang_angle", Kind: KindInt, Default: 45, Min: 0, Max: 90, Help: "Angle from vertical that support structures should be printed for."},
	}},
	{Name: "Adhesion", Entries: []Entry{
		{Name: "adhesion_type", Kind: KindEnum, Default: "None", Choices: []string{"None", "Brim", "Raft"}, Help: "What kind of base adhesion structure to add."},
		{Name: "brim_width", Kind: KindFloat, Default: 0.0, Min: 0, Max: 20, Help: "Width of brim to print on first layer to help with part adhesion."},
		{Name: "raft_layers", Kind: KindInt, Default: 1, Min: 1, Max: 5, Help: "Number of layers to use in making the raft."},
		{Name: "raft_outset", Kind: KindFloat, Default: 5.0, Min: 0, Max: 50, Help: "How much bigger raft should be than the model footprint."},
		{Name: "skirt_outset", Kind: KindFloat, Default: 0.0, Min: 0, Max: 20, Help: "How far the skirt should be printed away from model."},
		{Name: "skirt_layers", Kind: KindInt, Default: 0, Min: 0, Max: 1000, Help: "Number of layers to print the skirt on."},
		{Name: "prime_length", Kind: KindFloat, Default: 10.0, Min: 0, Max: 1000, Help: "Length of filament to extrude when priming hotends."},
	}},
	{Name: "Retraction", Entries: []Entry{
		{Name: "retract_enable", Kind: KindBool, Default: true, Help: "Enable filament retraction."},
		{Name: "retract_speed", Kind: KindFloat, Default: 50.0, Min: 0, Max: 200, Help: "Speed to retract filament at. (mm/s)"},
		{Name: "retract_dist", Kind: KindFloat, Default: 5.0, Min: 0, Max: 20, Help: "Distance to retract filament between extrusion moves. (mm)"},
		{Name: "retract_extruder", Kind: KindFloat, Default: 5.0, Min: 0, Max: 50, Help: "Distance to retract filament on extruder change. (mm)"},
		{Name: "retract_lift", Kind: KindFloat, Default: 0.0, Min: 0, Max: 10, Help: "Distance to lift the extruder head during retracted moves. (mm)"},
	}},
	{Name: "Materials", Entries: materialEntries()},
	{Name: "Machine", Entries: machineEntries()},
}

func materialEntries() []Entry {
	type mat struct {
		prefix             string
		bed, hotend        float64
		speed              float64
		label              string
	}
	mats := []mat{
		{"abs", 90, 230, 75.0, "ABS"},
		{"hips", 100, 230, 30.0, "dissolvable HIPS"},
		{"nylon", 70, 255, 75.0, "Nylon"},
		{"pc", 130, 290, 75.0, "Polycarbonate"},
		{"pet", 70, 230, 75.0, "PETG/PETT"},
		{"pla", 45, 205, 75.0, "PLA"},
		{"pp", 110, 250, 75.0, "Polypropylene"},
		{"pva", 60, 220, 30.0, "dissolvable PVA"},
		{"softpla", 30, 230, 30.0, "flexible SoftPLA"},
		{"tpe", 30, 220, 30.0, "flexible TPE"},
		{"tpu", 50, 250, 30.0, "flexible TPU"},
	}
	var out []Entry
	for _, m := range mats {
		out = append(out,
			Entry{Name: m.prefix + "_bed_temp", Kind: KindInt, Default: int(m.bed), Min: 0, Max: 150, Help: fmt.Sprintf("The bed temperature to use for %s filament. (C)", m.label)},
			Entry{Name: m.prefix + "_hotend_temp", Kind: KindInt, Default: int(m.hotend), Min: 150, Max: 300, Help: fmt.Sprintf("The extruder temperature to use for %s filament. (C)", m.label)},
			Entry{Name: m.prefix + "_max_speed", Kind: KindFloat, Default: m.speed, Min: 0, Max: 150, Help: fmt.Sprintf("The maximum speed when extruding %s filament. (mm/s)", m.label)},
		)
	}
	return out
}

func machineEntries() []Entry {
	out := []Entry{
		{Name: "bed_geometry", Kind: KindEnum, Default: "Rectangular", Choices: []string{"Rectangular", "Cylindrical"}, Help: "The shape of the build volume cross-section."},
		{Name: "bed_size_x", Kind: KindFloat, Default: 2000.0, Min: 0, Max: 2000, Help: "The X-axis size of the build platform bed."},
		{Name: "bed_size_y", Kind: KindFloat, Default: 2000.0, Min: 0, Max: 2000, Help: "The Y-axis size of the build platform bed."},
		{Name: "bed_center_x", Kind: KindFloat, Default: 1000.0, Min: 0, Max: 2000, Help: "The X coordinate of the center of the bed."},
		{Name: "bed_center_y", Kind: KindFloat, Default: 1000.0, Min: 0, Max: 2000, Help: "The Y coordinate of the center of the bed."},
		{Name: "bed_temp", Kind: KindInt, Default: 70, Min: 0, Max: 150, Help: "The temperature to set the heated bed to."},
		{Name: "extruder_count", Kind: KindInt, Default: 1, Min: 1, Max: 4, Help: "The number of extruders this machine has."},
		{Name: "default_nozzle", Kind: KindInt, Default: 0, Min: 0, Max: 4, Help: "The default extruder used for printing."},
		{Name: "infill_nozzle", Kind: KindInt, Default: -1, Min: -1, Max: 4, Help: "The extruder used for infill material. -1 means use default nozzle."},
		{Name: "support_nozzle", Kind: KindInt, Default: -1, Min: -1, Max: 4, Help: "The extruder used for support material. -1 means use default nozzle."},
	}
	nozzleDefaults := []struct {
		temp             int
		filament         float64
		filamentMin      float64
		filamentMax      float64
		diam             float64
		diamMin          float64
		diamMax          float64
		xoff, yoff       float64
		speed            float64
	}{
		// Extruder 0 ships with the wide, unconfigured-machine range the
		// original table uses before a real filament/nozzle is picked;
		// extruders 1-3 default to a typical 1.75mm/0.4mm hotend.
		{190, 20.0, 1.0, 50.0, 10.0, 0.1, 25.0, 0.0, 0.0, 100.0},
		{190, 1.75, 1.0, 3.5, 0.4, 0.1, 1.5, 25.0, 0.0, 75.0},
		{190, 1.75, 1.0, 3.5, 0.4, 0.1, 1.5, -25.0, 0.0, 75.0},
		{190, 1.75, 1.0, 3.5, 0.4, 0.1, 1.5, 0.0, 25.0, 75.0},
	}
	for i, n := range nozzleDefaults {
		prefix := fmt.Sprintf("nozzle_%d_", i)
		out = append(out,
			Entry{Name: prefix + "temp", Kind: KindInt, Default: n.temp, Min: 150, Max: 250, Help: fmt.Sprintf("The temperature of the nozzle for extruder %d. (C)", i)},
			Entry{Name: prefix + "filament", Kind: KindFloat, Default: n.filament, Min: n.filamentMin, Max: n.filamentMax, Help: fmt.Sprintf("The diameter of the filament for extruder %d. (mm)", i)},
			Entry{Name: prefix + "diam", Kind: KindFloat, Default: n.diam, Min: n.diamMin, Max: n.diamMax, Help: fmt.Sprintf("The diameter of the nozzle for extruder %d. (mm)", i)},
			Entry{Name: prefix + "xoff", Kind: KindFloat, Default: n.xoff, Min: -100, Max: 100, Help: fmt.Sprintf("The X positional offset for extruder %d. (mm)", i)},
			Entry{Name: prefix + "yoff", Kind: KindFloat, Default: n.yoff, Min: -100, Max: 100, Help: fmt.Sprintf("The Y positional offset for extruder %d. (mm)", i)},
			Entry{Name: prefix + "max_speed", Kind: KindFloat, Default: n.speed, Min: 0, Max: 200, Help: fmt.Sprintf("The maximum speed when using extruder %d. (mm/s)", i)},
		)
	}
	return out
}

// Config holds the live option values plus a name-indexed lookup into
// Schema's entries, mirroring Slicer.conf / Slicer.conf_metadata.
type Config struct {
	values  map[string]interface{}
	entries map[string]*Entry
	order   []string
}

// New builds a Config with every Schema entry set to its default.
func New() *Config {
	c := &Config{
		values:  make(map[string]interface{}),
		entries: make(map[string]*Entry),
	}
	for gi := range Schema {
		g := &Schema[gi]
		for ei := range g.Entries {
			e := &g.Entries[ei]
			c.values[e.Name] = e.Default
			c.entries[e.Name] = e
			c.order = append(c.order, e.Name)
		}
	}
	return c
}

func (c *Config) Float(name string) float64 {
	switch v := c.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (c *Config) Int(name string) int {
	switch v := c.values[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (c *Config) Bool(name string) bool {
	v, _ := c.values[name].(bool)
	return v
}

func (c *Config) String(name string) string {
	v, _ := c.values[name].(string)
	return v
}

// Set assigns val directly to the named option without type checking,
// for programmatic (non-string) configuration.
func (c *Config) Set(name string, val interface{}) {
	if _, ok := c.entries[name]; ok {
		c.values[name] = val
	}
}

// SetString parses and validates valstr against the option's type and
// range, exactly as Slicer.set_config does: a bad key, value, or
// out-of-range value is reported as an error but never panics or
// aborts the run — the prior value is kept.
func (c *Config) SetString(key, valstr string) error {
	key = strings.TrimSpace(key)
	valstr = strings.TrimSpace(valstr)
	entry, ok := c.entries[key]
	if !ok {
		return &slicerrors.UnknownOptionError{Option: key}
	}
	switch entry.Kind {
	case KindBool:
		switch valstr {
		case "True", "true":
			c.values[key] = true
			return nil
		case "False", "false":
			c.values[key] = false
			return nil
		}
		return &slicerrors.ConfigValueError{Option: key, Value: valstr, Reason: "value should be either True or False"}
	case KindInt:
		n, err := strconv.Atoi(valstr)
		if err != nil || float64(n) < entry.Min || float64(n) > entry.Max {
			return &slicerrors.ConfigValueError{
				Option: key, Value: valstr,
				Reason: fmt.Sprintf("value should be between %g and %g, inclusive", entry.Min, entry.Max),
			}
		}
		c.values[key] = n
		return nil
	case KindFloat:
		f, err := strconv.ParseFloat(valstr, 64)
		if err != nil || f < entry.Min || f > entry.Max {
			return &slicerrors.ConfigValueError{
				Option: key, Value: valstr,
				Reason: fmt.Sprintf("value should be between %g and %g, inclusive", entry.Min, entry.Max),
			}
		}
		c.values[key] = f
		return nil
	case KindEnum:
		for _, choice := range entry.Choices {
			if choice == valstr {
				c.values[key] = valstr
				return nil
			}
		}
		return &slicerrors.ConfigValueError{
			Option: key, Value: valstr,
			Reason: fmt.Sprintf("valid options are: %s", strings.Join(entry.Choices, ", ")),
		}
	}
	return nil
}

// confDir returns the platform config directory, following
// os.UserConfigDir the way get_conf_filename follows appdirs.
func confDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mandoline"), nil
}

func confFilePath() (string, error) {
	dir, err := confDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mandoline.conf"), nil
}

// Load reads a "key=value" per-line config file, skipping blank lines
// and "#" comments, same as load_configs. A missing file is silently a
// no-op.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &slicerrors.IoError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()
	return c.loadFrom(f, path)
}

func (c *Config) loadFrom(r io.Reader, path string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if err := c.SetString(parts[0], parts[1]); err != nil {
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return &slicerrors.IoError{Path: path, Op: "read", Err: err}
	}
	return nil
}

// LoadDefault loads the user's persisted config file from the platform
// config directory, the default (no-arg) behavior of load_configs.
func (c *Config) LoadDefault() error {
	path, err := confFilePath()
	if err != nil {
		return nil
	}
	return c.Load(path)
}

// Save writes every Schema group and its current values to path,
// section-commented, as save_configs does.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &slicerrors.IoError{Path: path, Op: "mkdir", Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &slicerrors.IoError{Path: path, Op: "create", Err: err}
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, g := range Schema {
		fmt.Fprintf(bw, "# %s\n", g.Name)
		for _, e := range g.Entries {
			fmt.Fprintf(bw, "%s=%v\n", e.Name, c.values[e.Name])
		}
		fmt.Fprint(bw, "\n\n")
	}
	return bw.Flush()
}

// SaveDefault saves to the platform config directory.
func (c *Config) SaveDefault() error {
	path, err := confFilePath()
	if err != nil {
		return &slicerrors.IoError{Path: "", Op: "locate config dir", Err: err}
	}
	return c.Save(path)
}

// Help writes formatted help text for one option (or every option, if
// key is empty) to w, matching display_configs_help. When valsOnly is
// set, only the current value line is printed, suitable for a compact
// "show current config" dump; otherwise type/range and the description
// are included too.
func (c *Config) Help(w io.Writer, key string, valsOnly bool) error {
	key = strings.TrimSpace(key)
	if key != "" {
		if _, ok := c.entries[key]; !ok {
			return &slicerrors.UnknownOptionError{Option: key}
		}
	}
	for _, g := range Schema {
		if !valsOnly && key == "" {
			fmt.Fprintf(w, "%s:\n", g.Name)
		}
		for _, e := range g.Entries {
			if key != "" && key != e.Name {
				continue
			}
			fmt.Fprintf(w, "  %s = %v\n", e.Name, c.values[e.Name])
			if !valsOnly {
				typeName, rngStr := describeType(e)
				fmt.Fprintf(w, "          Type: %s  (%s)\n", typeName, rngStr)
				fmt.Fprintf(w, "          %s\n", e.Help)
			}
		}
	}
	return nil
}

func describeType(e Entry) (typeName, rngStr string) {
	switch e.Kind {
	case KindBool:
		return "bool", "True/False"
	case KindInt:
		return "int", fmt.Sprintf("%g ... %g", e.Min, e.Max)
	case KindFloat:
		return "float", fmt.Sprintf("%g ... %g", e.Min, e.Max)
	case KindEnum:
		return "opt", strings.Join(e.Choices, ", ")
	}
	return "", ""
}

// Names returns every option name in schema order.
func (c *Config) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// SortedNames returns every option name alphabetically, useful for
// deterministic diffing independent of schema grouping.
func (c *Config) SortedNames() []string {
	out := c.Names()
	sort.Strings(out)
	return out
}
