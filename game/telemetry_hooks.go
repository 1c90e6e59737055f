package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/systems"
	"github.com/pthm-cable/ooze/telemetry"
)

// telemetryHooks turns system side effects into telemetry events.
type telemetryHooks struct {
	g *Game
}

var _ systems.Hooks = (*telemetryHooks)(nil)

func (h *telemetryHooks) SizeChanged(e ecs.Entity, from, to int32, cause systems.GrowthCause) {
	g := h.g
	slog.Debug("ooze_resized", "id", g.idOf(e), "from", from, "to", to, "cause", cause.String())
	if cause == systems.GrowthFeed {
		// The feeding player is not known here; the feed is attributed to the ooze.
		g.record(telemetry.NewFeedEvent(g.tick, g.idOf(e), 0, to))
	}
}

func (h *telemetryHooks) Merged(survivor, loser ecs.Entity, size int32) {
	g := h.g
	sid, lid := g.idOf(survivor), g.idOf(loser)
	slog.Info("ooze_merged", "tick", g.tick, "survivor", sid, "loser", lid, "size", size)
	g.record(telemetry.NewMergeEvent(g.tick, sid, lid, size))
}

func (h *telemetryHooks) Consumed(ooze, item ecs.Entity) {
	g := h.g
	size := int32(0)
	if g.oozes.Has(ooze) {
		size = g.oozes.Get(ooze).Size
	}
	g.record(telemetry.NewSeedEvent(g.tick, g.idOf(ooze), g.idOf(item), size))
}

func (h *telemetryHooks) Captured(ooze, target ecs.Entity) {
	g := h.g
	g.record(telemetry.NewCaptureEvent(g.tick, g.idOf(ooze), g.idOf(target)))
}

func (h *telemetryHooks) Damaged(target, source ecs.Entity, amount float64, killed bool) {
	g := h.g
	sourceKind := components.KindStructure
	if g.world.Alive(source) {
		sourceKind = g.ids.Get(source).Kind
	}
	sid, tid := g.idOf(source), g.idOf(target)
	g.record(telemetry.NewDamageEvent(g.tick, sid, sourceKind, tid, amount))
	if killed {
		slog.Debug("entity_killed", "tick", g.tick, "target", tid, "source", sid)
		g.record(telemetry.NewKillEvent(g.tick, sid, sourceKind, tid))
	}
}

// idOf returns the identity ID of e, or 0 for a dead handle.
func (g *Game) idOf(e ecs.Entity) uint32 {
	if !g.world.Alive(e) {
		return 0
	}
	return g.ids.Get(e).ID
}

// record feeds an event to the window collector and the lifetime tracker.
func (g *Game) record(ev telemetry.Event) {
	g.collector.Record(ev)
	g.lifetimeTracker.Record(ev)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// census counts the live population and samples ooze sizes and masses.
func (g *Game) census() telemetry.Census {
	c := telemetry.Census{
		Players:        g.counts[components.KindPlayer],
		Creatures:      g.counts[components.KindCreature],
		Items:          g.counts[components.KindItem],
		Charges:        g.counts[components.KindCharge] + g.counts[components.KindChargeCart],
		FloatingBlocks: g.counts[components.KindFloatingBlock],
	}

	oversize := int32(g.cfg.Ooze.OversizeAt)
	query := g.oozeFilter.Query()
	for query.Next() {
		id, ooze, _, _ := query.Get()
		if g.life.Get(query.Entity()).Removed {
			continue
		}
		c.Oozes++
		c.Sizes = append(c.Sizes, float64(ooze.Size))
		c.Masses = append(c.Masses, ooze.MassAccumulated)
		if oversize > 0 && ooze.Size >= oversize {
			c.Oversize++
		}
		if ls := g.lifetimeTracker.Get(id.ID); ls != nil && ooze.Size > ls.PeakSize {
			ls.PeakSize = ooze.Size
		}
	}
	return c
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		Seed:       g.rngSeed,
		WorldWidth: g.cfg.World.Width,
		WorldDepth: g.cfg.World.Depth,
		Tick:       g.tick,
		Bookmark:   bookmark,
	}

	query := g.allFilter.Query()
	for query.Next() {
		id, life := query.Get()
		if life.Removed {
			continue
		}
		e := query.Entity()
		pos, vel, body := g.positions.Get(e), g.velocities.Get(e), g.bodies.Get(e)

		state := telemetry.EntityState{
			ID:     id.ID,
			Kind:   id.Kind,
			X:      pos.X,
			Y:      pos.Y,
			Z:      pos.Z,
			VelX:   vel.X,
			VelY:   vel.Y,
			VelZ:   vel.Z,
			Width:  body.Width,
			Height: body.Height,
		}
		if g.living.Has(e) {
			state.Health = g.living.Get(e).Health
		}
		if g.oozes.Has(e) {
			ooze := g.oozes.Get(e)
			state.Ooze = &telemetry.OozeState{
				Variant:             ooze.Variant,
				Family:              ooze.Family,
				Size:                ooze.Size,
				FollowRangeModifier: ooze.FollowRangeModifier,
				Mirrored:            ooze.Mirrored,
				Squish:              ooze.Squish,
				Phase:               ooze.Phase,
			}
			if ls := g.lifetimeTracker.Get(id.ID); ls != nil {
				copied := *ls
				state.Lifetime = &copied
			}
		}

		snapshot.Entities = append(snapshot.Entities, state)
	}

	return snapshot
}
