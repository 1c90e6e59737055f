package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// GrowthCause records why an ooze changed size.
type GrowthCause uint8

const (
	GrowthSpawn GrowthCause = iota
	GrowthSeed
	GrowthFeed
	GrowthMerge
	GrowthRestore
)

// String returns the display name for a GrowthCause.
func (c GrowthCause) String() string {
	switch c {
	case GrowthSpawn:
		return "spawn"
	case GrowthSeed:
		return "seed"
	case GrowthFeed:
		return "feed"
	case GrowthMerge:
		return "merge"
	case GrowthRestore:
		return "restore"
	}
	return "unknown"
}

// Hooks receives side effects of an ooze tick. Rendering, sound and telemetry
// attach here; the simulation never depends on what they do.
type Hooks interface {
	SizeChanged(e ecs.Entity, from, to int32, cause GrowthCause)
	Merged(survivor, loser ecs.Entity, size int32)
	Consumed(ooze, item ecs.Entity)
	Captured(ooze, target ecs.Entity)
	Damaged(target, source ecs.Entity, amount float64, killed bool)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) SizeChanged(ecs.Entity, int32, int32, GrowthCause) {}
func (NopHooks) Merged(ecs.Entity, ecs.Entity, int32) {}
func (NopHooks) Consumed(ecs.Entity, ecs.Entity) {}
func (NopHooks) Captured(ecs.Entity, ecs.Entity) {}
func (NopHooks) Damaged(ecs.Entity, ecs.Entity, float64, bool) {}
