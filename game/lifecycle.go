package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/telemetry"
)

// removal is a tombstoned entity waiting to leave the world.
type removal struct {
	entity ecs.Entity
	id     uint32
	kind   components.Kind
	reason components.RemovalReason
}

// spawnInitialPopulation creates the starting entities.
// Oozes are skipped when the population was restored from a save.
func (g *Game) spawnInitialPopulation(oozes bool) {
	pop := g.cfg.Population

	if oozes {
		spawned := g.trySpawnOozes(pop.Oozes, pop.Oozes*4)
		if spawned < pop.Oozes {
			slog.Info("ooze spawns gated", "wanted", pop.Oozes, "spawned", spawned)
		}
	}
	for i := 0; i < pop.Players; i++ {
		g.spawnPlayer(g.randomPosition())
	}
	for i := 0; i < pop.Creatures; i++ {
		g.spawnCreature(g.randomPosition(), false)
	}
	for i := 0; i < pop.Companions; i++ {
		g.spawnCreature(g.randomPosition(), true)
	}
	for i := 0; i < pop.Charges; i++ {
		g.spawnCharge(g.randomPosition(), false)
	}
	for i := 0; i < pop.ChargeCarts; i++ {
		g.spawnCharge(g.randomPosition(), true)
	}
	for i := 0; i < pop.FloatingBlocks; i++ {
		g.spawnFloatingBlock(g.randomPosition())
	}
	if kinds := g.cfg.Items.LooseKinds; len(kinds) > 0 {
		for i := 0; i < pop.Items; i++ {
			g.spawnItem(kinds[i%len(kinds)], g.randomPosition())
		}
	}
	for i := 0; i < pop.SeedItems; i++ {
		g.spawnItem(g.cfg.Items.SeedItem, g.randomPosition())
	}
	for i := 0; i < pop.Structures; i++ {
		g.spawnStructure(g.randomPosition())
	}
	g.countLive()
}

// trySpawnOozes makes up to attempts gated spawn attempts and stops after want successes.
func (g *Game) trySpawnOozes(want, attempts int) int {
	spawned := 0
	for i := 0; i < attempts && spawned < want; i++ {
		pos := g.randomPosition()
		if !g.spawnGate.CanSpawn(pos) {
			continue
		}
		g.spawnOoze(g.pickVariant(), pos)
		spawned++
	}
	return spawned
}

// cleanupRemoved deletes tombstoned entities and refreshes the live counts.
func (g *Game) cleanupRemoved() {
	// First pass: collect removed entities (must complete before modifying)
	g.removed = g.removed[:0]
	query := g.allFilter.Query()
	for query.Next() {
		id, life := query.Get()
		if life.Removed {
			g.removed = append(g.removed, removal{
				entity: query.Entity(),
				id:     id.ID,
				kind:   id.Kind,
				reason: life.Reason,
			})
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, r := range g.removed {
		if r.reason == components.RemovedExploded {
			g.record(telemetry.NewDetonationEvent(g.tick, r.id, r.kind))
		}
		g.record(telemetry.NewRemovalEvent(g.tick, r.id, r.kind, r.reason))
		g.world.RemoveEntity(r.entity)
	}

	g.countLive()
}

// countLive recounts live entities per kind and the loose seed items.
func (g *Game) countLive() {
	clear(g.counts[:])
	g.seedItems = 0
	seed := g.cfg.Items.SeedItem

	query := g.allFilter.Query()
	for query.Next() {
		id, life := query.Get()
		if life.Removed {
			continue
		}
		g.counts[id.Kind]++
		if id.Kind == components.KindItem && g.items.Get(query.Entity()).Kind == seed {
			g.seedItems++
		}
	}
}

// respawn tops the population back up: gated ooze spawns below the
// threshold, replacement players and fresh seed items.
func (g *Game) respawn() {
	pop := g.cfg.Population

	if missing := pop.RespawnThreshold - g.counts[components.KindOoze]; missing > 0 {
		g.counts[components.KindOoze] += g.trySpawnOozes(missing, pop.RespawnAttempts)
	}
	for g.counts[components.KindPlayer] < pop.Players {
		g.spawnPlayer(g.randomPosition())
		g.counts[components.KindPlayer]++
	}
	for g.seedItems < pop.SeedItems {
		g.spawnItem(g.cfg.Items.SeedItem, g.randomPosition())
		g.seedItems++
		g.counts[components.KindItem]++
	}
}
