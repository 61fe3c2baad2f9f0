// Package progress is the injectable progress/logging sink shared by
// meshio, slicer, and cmd/mandoline, generalizing clipper's
// VattiDebug/VattiDebugOutput package-level toggle so deep algorithm code
// never writes to stdout directly.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Enabled gates whether the default Sink emits anything at all.
var Enabled = true

// Output is where the default Sink writes. Tests and library callers can
// swap it out to capture or silence output.
var Output io.Writer = os.Stdout

// Sink receives progress updates and messages from long-running stages
// (mesh loading, slicing, G-code emission). Callers that don't care about
// progress reporting can pass Discard.
type Sink interface {
	// Message emits a one-off line, always shown when the sink is enabled.
	Message(format string, args ...interface{})
	// Counter returns a Counter tracking progress toward target units of
	// work, labeled for display.
	Counter(label string, target int) *Counter
}

// defaultSink writes to Output when Enabled is true.
type defaultSink struct{}

// Default is the package's Sink, writing to Output gated by Enabled.
var Default Sink = defaultSink{}

func (defaultSink) Message(format string, args ...interface{}) {
	if !Enabled {
		return
	}
	fmt.Fprintf(Output, format+"\n", args...)
}

func (defaultSink) Counter(label string, target int) *Counter {
	return &Counter{label: label, target: target, period: 500 * time.Millisecond}
}

// discardSink implements Sink with no-op output.
type discardSink struct{}

func (discardSink) Message(string, ...interface{})    {}
func (discardSink) Counter(string, int) *Counter { return &Counter{target: 1, discard: true} }

// Discard is a Sink that drops every update, for callers that don't want
// progress output (e.g. tests, or --quiet CLI invocations).
var Discard Sink = discardSink{}

const spinChars = `/-\|`

// Counter is a rate-limited progress bar, modeled on the original's
// TextThermometer: it only actually redraws once per period, regardless
// of how often Update is called.
type Counter struct {
	label    string
	target   int
	value    int
	lastTime time.Time
	period   time.Duration
	spin     int
	discard  bool
}

// Update advances the counter to value and redraws if the update period
// has elapsed since the last redraw.
func (c *Counter) Update(value int) {
	if c.discard || !Enabled {
		return
	}
	c.value = value
	now := time.Now()
	if !c.lastTime.IsZero() && now.Sub(c.lastTime) < c.period {
		return
	}
	c.lastTime = now
	pct := 100.0
	if c.target > 0 {
		pct = 100.0 * float64(c.value) / float64(c.target)
	}
	c.spin = (c.spin + 1) % len(spinChars)
	spinChar := ""
	if pct < 100.0 {
		spinChar = string(spinChars[c.spin])
	}
	bar := strings.Repeat("=", int(pct/2)) + spinChar
	fmt.Fprintf(Output, "\r  %-8s [%-50s] %5.1f%%", c.label, bar, pct)
}

// Done clears the progress line.
func (c *Counter) Done() {
	if c.discard || !Enabled {
		return
	}
	fmt.Fprintf(Output, "\r%-78s\r", "")
}
