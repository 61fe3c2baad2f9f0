package config

import (
	"fmt"
	"strings"
)

// filamentPreset names the three Materials-group entries that describe
// one filament type's thermal and speed profile.
type filamentPreset struct {
	bedTempKey    string
	hotendTempKey string
	maxSpeedKey   string
}

var filamentPresets = map[string]filamentPreset{
	"abs":     {"abs_bed_temp", "abs_hotend_temp", "abs_max_speed"},
	"hips":    {"hips_bed_temp", "hips_hotend_temp", "hips_max_speed"},
	"nylon":   {"nylon_bed_temp", "nylon_hotend_temp", "nylon_max_speed"},
	"pc":      {"pc_bed_temp", "pc_hotend_temp", "pc_max_speed"},
	"pet":     {"pet_bed_temp", "pet_hotend_temp", "pet_max_speed"},
	"petg":    {"pet_bed_temp", "pet_hotend_temp", "pet_max_speed"},
	"pett":    {"pet_bed_temp", "pet_hotend_temp", "pet_max_speed"},
	"pla":     {"pla_bed_temp", "pla_hotend_temp", "pla_max_speed"},
	"pp":      {"pp_bed_temp", "pp_hotend_temp", "pp_max_speed"},
	"pva":     {"pva_bed_temp", "pva_hotend_temp", "pva_max_speed"},
	"softpla": {"softpla_bed_temp", "softpla_hotend_temp", "softpla_max_speed"},
	"tpe":     {"tpe_bed_temp", "tpe_hotend_temp", "tpe_max_speed"},
	"tpu":     {"tpu_bed_temp", "tpu_hotend_temp", "tpu_max_speed"},
}

// ApplyFilament sets bed_temp and each listed extruder's hotend
// temp/max speed from a comma-ordered list of filament presets (e.g.
// "PLA" or "PLA,TPU,PVA" to configure three extruders in order). Ported
// from __init__.main's filament handling: bed_temp becomes the max bed
// temperature across every named material, since they share one heated
// bed, while nozzle N's temp/max_speed come from names[N]'s own preset.
func ApplyFilament(c *Config, names []string) error {
	presets := make([]filamentPreset, len(names))
	var maxBed float64
	for i, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		preset, ok := filamentPresets[name]
		if !ok {
			return fmt.Errorf("unknown filament material %q", raw)
		}
		presets[i] = preset
		if bed := c.Float(preset.bedTempKey); bed > maxBed {
			maxBed = bed
		}
	}
	c.Set("bed_temp", int(maxBed))
	for extnum, preset := range presets {
		c.Set(fmt.Sprintf("nozzle_%d_temp", extnum), c.Int(preset.hotendTempKey))
		c.Set(fmt.Sprintf("nozzle_%d_max_speed", extnum), c.Float(preset.maxSpeedKey))
	}
	return nil
}
