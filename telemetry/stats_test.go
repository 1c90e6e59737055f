package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ooze/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	// Unsorted on purpose; the input must not be reordered.
	values := []float64{4, 2, 8, 6}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", d.Mean)
	}
	// Sample std of {2,4,6,8} is sqrt(20/3).
	if math.Abs(d.Std-math.Sqrt(20.0/3.0)) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(20.0/3.0))
	}
	if math.Abs(d.P50-5) > 1e-9 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.Max != 8 {
		t.Errorf("max = %v, want 8", d.Max)
	}
	if values[0] != 4 || values[1] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty sample = %+v, want zeros", d)
	}

	d := ComputeDistribution([]float64{3})
	if d.Mean != 3 || d.Std != 0 || d.P10 != 3 || d.P90 != 3 || d.Max != 3 {
		t.Errorf("single sample = %+v, want all 3 with zero std", d)
	}
}

func TestCollectorFlushWindowStats(t *testing.T) {
	c := NewCollector(100)

	if c.ShouldFlush(50) {
		t.Error("window should not be complete at tick 50")
	}
	if !c.ShouldFlush(100) {
		t.Error("window should be complete at tick 100")
	}

	c.Record(NewSpawnEvent(1, 1, components.KindOoze, 0, 2))
	c.Record(NewSpawnEvent(1, 2, components.KindPlayer, 0, 0))
	c.Record(NewMergeEvent(10, 1, 3, 5))
	c.Record(NewMergeEvent(11, 1, 4, 6))
	c.Record(NewSeedEvent(12, 1, 9, 7))
	c.Record(NewCaptureEvent(13, 1, 2))
	c.Record(NewDamageEvent(13, 1, components.KindOoze, 2, 1.5))
	c.Record(NewDamageEvent(14, 1, components.KindOoze, 2, 2.5))
	c.Record(NewKillEvent(14, 1, components.KindOoze, 2))
	c.Record(NewRemovalEvent(20, 8, components.KindItem, components.RemovedDespawned))

	stats := c.Flush(100, Census{
		Oozes:    2,
		Sizes:    []float64{7, 1},
		Masses:   []float64{0.5, 1.5},
		Oversize: 0,
	})

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 100 {
		t.Errorf("window = [%d, %d], want [0, 100]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Spawns != 1 {
		t.Errorf("spawns = %d, want 1 (only oozes count)", stats.Spawns)
	}
	if stats.Merges != 2 || stats.MergesPerOoze != 1 {
		t.Errorf("merges = %d (%v per ooze), want 2 (1 per ooze)", stats.Merges, stats.MergesPerOoze)
	}
	if stats.SeedsConsumed != 1 || stats.Captures != 1 || stats.Kills != 1 {
		t.Errorf("seeds/captures/kills = %d/%d/%d, want 1/1/1", stats.SeedsConsumed, stats.Captures, stats.Kills)
	}
	if stats.DamageEvents != 2 || stats.DamageDealt != 4 {
		t.Errorf("damage = %d events / %v, want 2 / 4", stats.DamageEvents, stats.DamageDealt)
	}
	if stats.Despawned != 1 {
		t.Errorf("despawned = %d, want 1", stats.Despawned)
	}
	if stats.SizeMax != 7 || stats.SizeMean != 4 {
		t.Errorf("size max/mean = %v/%v, want 7/4", stats.SizeMax, stats.SizeMean)
	}
	if stats.MassMean != 1 {
		t.Errorf("mass mean = %v, want 1", stats.MassMean)
	}

	// Counters restart with the next window.
	if c.ShouldFlush(150) {
		t.Error("new window should start at tick 100")
	}
	next := c.Flush(200, Census{})
	if next.Merges != 0 || next.WindowStartTick != 100 {
		t.Errorf("next window = %+v, want empty counters starting at 100", next)
	}
}
