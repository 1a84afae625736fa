// Package cli implements the flowlayout command-line interface.
//
// This package provides commands for laying out, analyzing and rendering
// flowchart graphs, serving the engine over HTTP, and managing the layout
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions with a chosen algorithm or template
//   - analyze: Describe a graph's topology
//   - suggest: Rank algorithms for a graph
//   - optimize: Search config variations for a better layout
//   - render: Draw a layout as SVG or DOT
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/flowlayout/config.toml, or the
// file named by --config. A missing file means defaults.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level. Timestamps are short
// ("14:32:01.45"); the interactive commands run for seconds at most.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a step took once it finishes.
type stopwatch struct {
	logger *log.Logger
	step   string
	start  time.Time
}

func startStopwatch(l *log.Logger, step string) stopwatch {
	return stopwatch{logger: l, step: step, start: time.Now()}
}

// done logs the step with its elapsed time, rounded to the millisecond,
// and any extra key-value pairs.
func (s stopwatch) done(keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info(s.step, kv...)
}
