package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/persistence"
	"github.com/pthm-cable/ooze/systems"
)

// save writes every live ooze to the store as one save.
func (g *Game) save(ctx context.Context) error {
	if g.store == nil {
		return nil
	}

	rec := persistence.SaveRecord{
		Tick:    g.tick,
		Seed:    g.rngSeed,
		SavedAt: time.Now().UTC(),
	}
	oversize := int32(g.cfg.Ooze.OversizeAt)

	query := g.oozeFilter.Query()
	for query.Next() {
		id, ooze, living, pos := query.Get()
		if g.life.Get(query.Entity()).Removed {
			continue
		}
		rec.Creatures = append(rec.Creatures, persistence.CreatureRecord{
			ID:                  id.ID,
			Variant:             g.cfg.Variants[ooze.Variant].Name,
			Size:                ooze.Size,
			Oversize:            oversize > 0 && ooze.Size >= oversize,
			FollowRangeModifier: ooze.FollowRangeModifier,
			Mirrored:            ooze.Mirrored,
			Health:              living.Health,
			X:                   pos.X,
			Y:                   pos.Y,
			Z:                   pos.Z,
		})
	}

	if err := g.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save tick %d: %w", g.tick, err)
	}
	slog.Info("population saved", "tick", g.tick, "oozes", len(rec.Creatures))
	return nil
}

// autosave saves every saveEvery ticks. Failures are logged and the run continues.
func (g *Game) autosave() {
	if g.store == nil || g.saveEvery <= 0 || g.tick%g.saveEvery != 0 {
		return
	}
	if err := g.save(context.Background()); err != nil {
		slog.Error("autosave failed", "error", err)
	}
}

// restore recreates the oozes of the latest save. Returns false when the store is empty.
func (g *Game) restore(ctx context.Context) (bool, error) {
	rec, err := g.store.LoadLatest(ctx)
	if errors.Is(err, persistence.ErrNoSave) {
		slog.Warn("nothing to resume, starting fresh")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	g.tick = rec.Tick
	for _, c := range rec.Creatures {
		idx, ok := g.cfg.Derived.VariantIndex[c.Variant]
		if !ok {
			slog.Warn("skipping ooze of unknown variant", "id", c.ID, "variant", c.Variant)
			continue
		}
		g.restoreOoze(c, components.Variant(idx))
		if c.ID >= g.nextID {
			g.nextID = c.ID + 1
		}
	}
	g.collector.Restart(g.tick)

	slog.Info("population restored",
		"tick", rec.Tick,
		"saved_at", rec.SavedAt,
		"oozes", len(rec.Creatures),
	)
	return true, nil
}

// restoreOoze recreates one saved ooze under its original ID.
func (g *Game) restoreOoze(c persistence.CreatureRecord, variant components.Variant) {
	pos := components.Position{X: c.X, Y: c.Y, Z: c.Z}
	e := g.create(c.ID, components.KindOoze, pos,
		components.Body{},
		components.Physics{OnGround: pos.Y <= 0})
	g.living.Add(e, &components.Living{})
	g.oozes.Add(e, &components.Ooze{
		Family:              components.Family(g.cfg.Derived.VariantFamily[variant]),
		Variant:             variant,
		FollowRange:         g.cfg.Ooze.FollowRange,
		FollowRangeModifier: c.FollowRangeModifier,
		Mirrored:            c.Mirrored,
		Initialized:         true,
	})

	size := g.sizes.SetSize(e, c.Size, true, systems.GrowthRestore)
	living := g.living.Get(e)
	living.Health = min(c.Health, living.MaxHealth)

	g.lifetimeTracker.Register(c.ID, g.tick, variant, size)
}
