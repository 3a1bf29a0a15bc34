// Package cli implements the molline command-line interface.
//
// This package provides commands for writing molecules as canonical SMILES,
// processing record files in batches, drawing traversal trees, serving the
// HTTP API and managing the result cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - canon: Canonicalize SMILES arguments or a JSON graph file
//   - batch: Canonicalize a file of records concurrently, with caching
//   - tree: Draw the traversal forest as DOT, SVG or PNG
//   - ranks: Print the canonical rank table of a molecule
//   - serve: Run the HTTP API
//   - repl: Interactive canonicalizer
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molline/pkg/line"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Canonicalized 42 records (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logWarnings reports stereo that could not be written for one molecule.
func logWarnings(l *log.Logger, id string, warnings []line.Warning) {
	for _, w := range warnings {
		kv := []any{"code", w.Code}
		if id != "" {
			kv = append(kv, "molecule", id)
		}
		if w.Atom >= 0 {
			kv = append(kv, "atom", w.Atom)
		}
		if w.Bond >= 0 {
			kv = append(kv, "bond", w.Bond)
		}
		l.Warn(w.Message, kv...)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
