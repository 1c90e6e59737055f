package telemetry

import "github.com/pthm-cable/ooze/components"

// Census is a point-in-time population count taken when a window closes.
type Census struct {
	Oozes          int
	Players        int
	Creatures      int
	Items          int
	Charges        int
	FloatingBlocks int

	Sizes    []float64 // one entry per live ooze
	Masses   []float64 // mass accumulated by each live ooze during its last tick
	Oversize int       // oozes at or above the oversize threshold
}

// Collector accumulates events over a stats window.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	spawns        int
	merges        int
	seedsConsumed int
	feedings      int
	captures      int
	damageEvents  int
	damageDealt   float64
	kills         int
	detonations   int
	removals      [components.RemovedDespawned + 1]int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Record counts a single event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		if ev.Kind == components.KindOoze {
			c.spawns++
		}
	case EventMerge:
		c.merges++
	case EventSeed:
		c.seedsConsumed++
	case EventFeed:
		c.feedings++
	case EventCapture:
		c.captures++
	case EventDamage:
		c.damageEvents++
		c.damageDealt += ev.Amount
	case EventKill:
		c.kills++
	case EventDetonation:
		c.detonations++
	case EventRemoval:
		if int(ev.Reason) < len(c.removals) {
			c.removals[ev.Reason]++
		}
	}
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush computes the window stats and starts a new window at tick.
func (c *Collector) Flush(tick int32, census Census) WindowStats {
	sizes := ComputeDistribution(census.Sizes)
	masses := ComputeDistribution(census.Masses)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,

		Oozes:          census.Oozes,
		Players:        census.Players,
		Creatures:      census.Creatures,
		Items:          census.Items,
		Charges:        census.Charges,
		FloatingBlocks: census.FloatingBlocks,

		Spawns:        c.spawns,
		Merges:        c.merges,
		SeedsConsumed: c.seedsConsumed,
		Feedings:      c.feedings,
		Captures:      c.captures,
		DamageEvents:  c.damageEvents,
		DamageDealt:   c.damageDealt,
		Kills:         c.kills,
		Detonations:   c.detonations,
		Despawned:     c.removals[components.RemovedDespawned],
		Placed:        c.removals[components.RemovedPlaced],

		SizeMean: sizes.Mean,
		SizeStd:  sizes.Std,
		SizeP10:  sizes.P10,
		SizeP50:  sizes.P50,
		SizeP90:  sizes.P90,
		SizeMax:  sizes.Max,
		MassMean: masses.Mean,
		MassMax:  masses.Max,
		Oversize: census.Oversize,
	}

	if census.Oozes > 0 {
		stats.MergesPerOoze = float64(c.merges) / float64(census.Oozes)
	}

	c.reset(tick)
	return stats
}

// Restart discards the counts of the open window and starts a new one at tick.
func (c *Collector) Restart(tick int32) {
	c.reset(tick)
}

func (c *Collector) reset(tick int32) {
	windowTicks := c.windowTicks
	*c = Collector{windowTicks: windowTicks, windowStartTick: tick}
}
