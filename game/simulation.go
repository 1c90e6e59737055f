package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/ooze/systems"
)

// Step advances the simulation by one tick.
func (g *Game) Step() {
	perf := g.perfCollector
	perf.StartTick()

	// 1. Rebuild the spatial index
	perf.StartPhase(systems.PhaseSpatialGrid)
	g.spatialGrid.Rebuild()

	// 2. Players feed adjacent oozes
	perf.StartPhase(systems.PhaseFeeding)
	g.feeding.Update()

	// 3. Oozes pick targets and hop
	perf.StartPhase(systems.PhasePursuit)
	g.pursuit.Update()

	// 4. Absorb, suck and merge
	perf.StartPhase(systems.PhaseOoze)
	g.lastReport = g.oozeSystem.Update()

	// 5. Fuses and blasts
	perf.StartPhase(systems.PhaseCharges)
	g.chargeSys.Update()

	// 6. Integrate motion, riders and falls
	perf.StartPhase(systems.PhasePhysics)
	g.physics.Update()

	// 7. Delete tombstoned entities
	perf.StartPhase(systems.PhaseCleanup)
	g.cleanupRemoved()

	// 8. Refill the population
	perf.StartPhase(systems.PhaseRespawn)
	g.respawn()

	g.tick++

	perf.StartPhase(systems.PhaseTelemetry)
	g.flushTelemetry()
	g.autosave()

	perf.EndTick()
}

// Run steps until maxTicks is reached or ctx is cancelled. maxTicks <= 0 runs until cancelled.
func (g *Game) Run(ctx context.Context, maxTicks int32) error {
	for maxTicks <= 0 || g.tick < maxTicks {
		select {
		case <-ctx.Done():
			slog.Info("simulation interrupted", "tick", g.tick)
			return ctx.Err()
		default:
		}
		g.Step()
	}
	slog.Info("simulation finished", "tick", g.tick)
	return nil
}
