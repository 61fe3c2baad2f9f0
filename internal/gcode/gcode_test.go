package gcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandoline-go/mandoline/internal/config"
	"github.com/mandoline-go/mandoline/internal/planarops"
)

func TestWriteHeaderIncludesTemperaturesWhenSet(t *testing.T) {
	conf := config.New()
	conf.Set("bed_temp", 60)
	conf.Set("nozzle_0_temp", 200)

	gen := New(conf)
	var buf bytes.Buffer
	require.NoError(t, gen.WriteHeader(&buf, 5))
	out := buf.String()

	assert.Contains(t, out, ";FLAVOR:Marlin")
	assert.Contains(t, out, "M140 S60")
	assert.Contains(t, out, "M190 S60")
	assert.Contains(t, out, "M104 S200")
	assert.Contains(t, out, ";LAYER_COUNT:5")
}

func TestWriteHeaderSkipsBedTempWhenZero(t *testing.T) {
	conf := config.New()
	conf.Set("bed_temp", 0)

	gen := New(conf)
	var buf bytes.Buffer
	require.NoError(t, gen.WriteHeader(&buf, 1))
	assert.NotContains(t, buf.String(), "M140")
}

func TestWriteLayerEmitsToolChangeOnNozzleSwitch(t *testing.T) {
	conf := config.New()
	gen := New(conf)

	square := planarops.Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	var groups [4][]PathGroup
	groups[0] = []PathGroup{{Paths: planarops.Paths{square}, Width: 0.5, Nozl: 0}}
	groups[1] = []PathGroup{{Paths: planarops.Paths{square}, Width: 0.5, Nozl: 1}}

	var buf bytes.Buffer
	require.NoError(t, gen.WriteLayer(&buf, 0, 1.0, groups))
	out := buf.String()

	assert.Contains(t, out, ";LAYER:0")
	assert.Contains(t, out, "( Nozzle 0 )")
	assert.Contains(t, out, "( Nozzle 1 )")
	assert.Contains(t, out, "T1")
	assert.Greater(t, gen.TotalBuildTime(), 0.0)
}

func TestWriteLayerSkipsEmptyNozzles(t *testing.T) {
	conf := config.New()
	gen := New(conf)

	var groups [4][]PathGroup
	groups[2] = []PathGroup{{Paths: planarops.Paths{{{X: 0, Y: 0}, {X: 1, Y: 1}}}, Width: 0.4, Nozl: 2}}

	var buf bytes.Buffer
	require.NoError(t, gen.WriteLayer(&buf, 3, 2.0, groups))
	out := buf.String()

	assert.Contains(t, out, "( Nozzle 2 )")
	assert.NotContains(t, out, "( Nozzle 0 )")
	assert.NotContains(t, out, "( Nozzle 1 )")
}
