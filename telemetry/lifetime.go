package telemetry

import "github.com/pthm-cable/ooze/components"

// LifetimeStats tracks per-ooze statistics over its lifetime.
type LifetimeStats struct {
	BirthTick   int32              `json:"birth_tick"`
	Variant     components.Variant `json:"variant"`
	InitialSize int32              `json:"initial_size"`
	PeakSize    int32              `json:"peak_size"`

	// Growth
	Merges        int `json:"merges"`
	SeedsConsumed int `json:"seeds_consumed"`
	Feedings      int `json:"feedings"`

	// Combat
	Captures    int     `json:"captures"`
	DamageDealt float64 `json:"damage_dealt"`
	Kills       int     `json:"kills"`
}

// LifetimeTracker manages per-ooze lifetime statistics keyed by identity ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new ooze.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, variant components.Variant, size int32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:   birthTick,
		Variant:     variant,
		InitialSize: size,
		PeakSize:    size,
	}
}

// Restore installs previously saved stats, e.g. from a snapshot.
func (lt *LifetimeTracker) Restore(id uint32, stats LifetimeStats) {
	lt.stats[id] = &stats
}

// Get returns the lifetime stats for an ooze, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an ooze's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Record applies an event to the ooze it belongs to. Events for untracked
// entities are ignored.
func (lt *LifetimeTracker) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		if ev.Kind == components.KindOoze {
			lt.Register(ev.EntityID, ev.Tick, ev.Variant, ev.Size)
		}
		return
	case EventRemoval:
		lt.Remove(ev.EntityID)
		return
	}

	s := lt.stats[ev.EntityID]
	if s == nil {
		return
	}

	switch ev.Type {
	case EventMerge:
		s.Merges++
	case EventSeed:
		s.SeedsConsumed++
	case EventFeed:
		s.Feedings++
	case EventCapture:
		s.Captures++
	case EventDamage:
		s.DamageDealt += ev.Amount
	case EventKill:
		s.Kills++
	}

	if ev.Size > s.PeakSize {
		s.PeakSize = ev.Size
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked oozes.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveVariantCount returns the number of distinct variants among tracked oozes.
func (lt *LifetimeTracker) ActiveVariantCount() int {
	seen := make(map[components.Variant]struct{})
	for _, stats := range lt.stats {
		seen[stats.Variant] = struct{}{}
	}
	return len(seen)
}
