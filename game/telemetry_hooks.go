package game

import "github.com/pthm-cable/trailnet/telemetry"

// flushTelemetry writes a stats window when one has closed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	records := g.collector.Flush(g.tick, g.store, g.swarm.Legs)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		for _, r := range records {
			g.logger.Info("stats", "window", r)
		}
		g.logger.Info("perf", "window", perfStats)
	}

	if err := g.outputManager.WriteStats(records); err != nil {
		g.logger.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}

// PerfStats returns the rolling tick timings.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }
