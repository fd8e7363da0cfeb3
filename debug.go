package shadergraph

import (
	"context"
	"log/slog"
	"time"
)

// compileStats holds timing and size metrics of one compile.
type compileStats struct {
	pruneTime time.Duration
	emitTime  time.Duration
	total     time.Duration
	nodes     int
	pruned    int
	bytes     int
}

// logCompileStats reports compile timings at debug level.
func logCompileStats(l *slog.Logger, stats compileStats) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("shadergraph: compile",
		"prune", stats.pruneTime,
		"emit", stats.emitTime,
		"total", stats.total,
		"nodes", stats.nodes,
		"pruned", stats.pruned,
		"bytes", stats.bytes)
}

// simulateStats holds timing metrics of one simulation request.
type simulateStats struct {
	total     time.Duration
	evaluated int
	pixels    int
}

func logSimulateStats(l *slog.Logger, stats simulateStats) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("shadergraph: simulate",
		"total", stats.total,
		"evaluated", stats.evaluated,
		"pixels", stats.pixels)
}
