package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/ooze/systems"
)

// PerfPhases lists the timed phases of a simulation step in execution order.
var PerfPhases = []string{
	systems.PhaseSpatialGrid,
	systems.PhaseFeeding,
	systems.PhasePursuit,
	systems.PhaseOoze,
	systems.PhaseCharges,
	systems.PhasePhysics,
	systems.PhaseCleanup,
	systems.PhaseRespawn,
	systems.PhaseTelemetry,
}

// tickTiming is the wall time of one step split by phase.
type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps the timings of the last N steps in a ring.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	open       tickTiming
	tickStart  time.Time
	phase      string
	phaseStart time.Time
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window)}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.open = tickTiming{phases: make(map[string]time.Duration, len(PerfPhases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
}

// EndTick closes the step and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.open.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.open
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.open.phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}
}

// PerfStats summarizes the step timings in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	P50TickDuration time.Duration
	P90TickDuration time.Duration
	MaxTickDuration time.Duration

	// Mean duration and share of step time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats summarizes the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.count == 0 {
		return stats
	}

	totals := make([]float64, p.count)
	phaseSum := make(map[string]time.Duration)
	for i, t := range p.ring[:p.count] {
		totals[i] = float64(t.total)
		for phase, d := range t.phases {
			phaseSum[phase] += d
		}
	}

	dist := ComputeDistribution(totals)
	stats.AvgTickDuration = time.Duration(dist.Mean)
	stats.P50TickDuration = time.Duration(dist.P50)
	stats.P90TickDuration = time.Duration(dist.P90)
	stats.MaxTickDuration = time.Duration(dist.Max)

	n := time.Duration(p.count)
	for phase, sum := range phaseSum {
		avg := sum / n
		stats.PhaseAvg[phase] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phase] = 100 * float64(avg) / float64(stats.AvgTickDuration)
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs the summary; phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p90_tick_us", s.P90TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range PerfPhases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("p50_tick", s.P50TickDuration),
		slog.Duration("p90_tick", s.P90TickDuration),
		slog.Duration("max_tick", s.MaxTickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range PerfPhases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	P50TickUS      int64   `csv:"p50_tick_us"`
	P90TickUS      int64   `csv:"p90_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	FeedingPct     float64 `csv:"feeding_pct"`
	PursuitPct     float64 `csv:"pursuit_pct"`
	OozePct        float64 `csv:"ooze_pct"`
	ChargesPct     float64 `csv:"charges_pct"`
	PhysicsPct     float64 `csv:"physics_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	RespawnPct     float64 `csv:"respawn_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		P50TickUS:      s.P50TickDuration.Microseconds(),
		P90TickUS:      s.P90TickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		SpatialGridPct: pct[systems.PhaseSpatialGrid],
		FeedingPct:     pct[systems.PhaseFeeding],
		PursuitPct:     pct[systems.PhasePursuit],
		OozePct:        pct[systems.PhaseOoze],
		ChargesPct:     pct[systems.PhaseCharges],
		PhysicsPct:     pct[systems.PhasePhysics],
		CleanupPct:     pct[systems.PhaseCleanup],
		RespawnPct:     pct[systems.PhaseRespawn],
		TelemetryPct:   pct[systems.PhaseTelemetry],
	}
}
