package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/trailnet/trails"
)

// Collector snapshots trail statistics once per window of ticks.
type Collector struct {
	windowTicks int
	windowStart int
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int { return c.windowTicks }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush returns one record per environment of s and starts a new window.
// legs reports completed agent legs per environment and may be nil.
func (c *Collector) Flush(tick int, s *trails.Store, legs func(env int) int) []StatsRecord {
	all := s.AllStats()
	records := make([]StatsRecord, len(all))
	for i, st := range all {
		records[i] = StatsRecord{Tick: tick, EnvStats: st}
		if legs != nil {
			records[i].Legs = legs(st.Env)
		}
	}
	c.windowStart = tick
	return records
}

// LogValue implements slog.LogValuer.
func (r StatsRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", r.Tick),
		slog.Int("env", r.Env),
		slog.Int("agent_legs", r.Legs),
		slog.Int("adjacent_pairs", r.AdjacentPairs),
		slog.Float64("total_length", r.TotalLength),
		slog.Int("components", r.Components),
		slog.Int("endpoint_mismatches", r.Mismatches),
	)
}
