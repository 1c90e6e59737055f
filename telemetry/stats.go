package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"window_start"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population
	Oozes          int `csv:"oozes"`
	Players        int `csv:"players"`
	Creatures      int `csv:"creatures"`
	Items          int `csv:"items"`
	Charges        int `csv:"charges"`
	FloatingBlocks int `csv:"floating_blocks"`

	// Events
	Spawns        int     `csv:"spawns"`
	Merges        int     `csv:"merges"`
	MergesPerOoze float64 `csv:"merges_per_ooze"`
	SeedsConsumed int     `csv:"seeds_consumed"`
	Feedings      int     `csv:"feedings"`
	Captures      int     `csv:"captures"`
	DamageEvents  int     `csv:"damage_events"`
	DamageDealt   float64 `csv:"damage_dealt"`
	Kills         int     `csv:"kills"`
	Detonations   int     `csv:"detonations"`
	Despawned     int     `csv:"despawned"`
	Placed        int     `csv:"placed"`

	// Size distribution
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`
	SizeMax  float64 `csv:"size_max"`
	Oversize int     `csv:"oversize"`

	// Mass accumulated during the last tick
	MassMean float64 `csv:"mass_mean"`
	MassMax  float64 `csv:"mass_max"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
	Max  float64
}

// ComputeDistribution returns mean, sample standard deviation, percentiles, and max.
// An empty sample yields zeros. The input is not modified.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if len(sorted) > 1 {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	d.Max = floats.Max(sorted)
	return d
}

// Percentile returns the p-th percentile of a sorted slice using linear interpolation.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := p * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("oozes", s.Oozes),
		slog.Int("players", s.Players),
		slog.Int("creatures", s.Creatures),
		slog.Int("items", s.Items),
		slog.Int("spawns", s.Spawns),
		slog.Int("merges", s.Merges),
		slog.Int("seeds", s.SeedsConsumed),
		slog.Int("feedings", s.Feedings),
		slog.Int("captures", s.Captures),
		slog.Int("damage_events", s.DamageEvents),
		slog.Int("kills", s.Kills),
		slog.Int("detonations", s.Detonations),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_max", s.SizeMax),
		slog.Int("oversize", s.Oversize),
		slog.Float64("mass_mean", s.MassMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"oozes", s.Oozes,
		"players", s.Players,
		"creatures", s.Creatures,
		"merges", s.Merges,
		"seeds", s.SeedsConsumed,
		"feedings", s.Feedings,
		"captures", s.Captures,
		"damage_events", s.DamageEvents,
		"kills", s.Kills,
		"size_mean", s.SizeMean,
		"size_std", s.SizeStd,
		"size_p90", s.SizeP90,
		"size_max", s.SizeMax,
		"mass_mean", s.MassMean,
	)
}
