package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseAgents)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseCanvas)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseAgents, PhaseCanvas} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %s not tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseStats]; ok {
		t.Error("untimed stats phase reported")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)

	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTrails)
		time.Sleep(5 * time.Millisecond)
		pc.EndTick()
	}
	// Fast ticks push the slow ones out of the window
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTrails)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MaxTickDuration >= 5*time.Millisecond {
		t.Errorf("max tick %v still includes evicted samples", stats.MaxTickDuration)
	}
}

func TestPerfCollectorPercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStats)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseTrails)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseTrails] <= stats.PhasePct[PhaseStats] {
		t.Errorf("expected trails (%v%%) > stats (%v%%)", stats.PhasePct[PhaseTrails], stats.PhasePct[PhaseStats])
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.TrailsPct != stats.PhasePct[PhaseTrails] || row.AgentsPct != 0 {
		t.Errorf("csv row = %+v", row)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector reported %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}
