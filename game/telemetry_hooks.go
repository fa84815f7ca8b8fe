package game

import (
	"log/slog"

	"github.com/pthm-cable/lenia/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.Step()) {
		return
	}

	stats := g.collector.Flush()
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndStep); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	var path string
	var err error
	switch {
	case g.snapshotDir != "":
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	case g.outputManager != nil:
		path, err = g.outputManager.WriteSnapshot(snapshot)
	default:
		path, err = telemetry.SaveSnapshot(snapshot, "snapshots")
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "step", snapshot.Step)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	var snapshot *telemetry.Snapshot
	if g.multi != nil {
		snapshot = telemetry.NewMultiSnapshot(g.multi, g.rngSeed)
	} else {
		snapshot = telemetry.NewSnapshot(g.single, g.rngSeed)
	}
	snapshot.Bookmark = bookmark
	return snapshot
}

// Snapshot captures the current engine state.
func (g *Game) Snapshot() *telemetry.Snapshot {
	return g.createSnapshot(nil)
}

// LoadSnapshot restores engine state from a snapshot file.
func (g *Game) LoadSnapshot(path string) error {
	snapshot, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if g.multi != nil {
		err = snapshot.RestoreMulti(g.multi)
	} else {
		err = snapshot.Restore(g.single)
	}
	if err != nil {
		return err
	}
	g.resetTelemetry()
	slog.Info("snapshot loaded", "path", path, "step", snapshot.Step)
	return nil
}
