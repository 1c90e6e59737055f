// Package game wires the ECS world, the ooze systems and telemetry into a headless simulation.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
	"github.com/pthm-cable/ooze/persistence"
	"github.com/pthm-cable/ooze/systems"
	"github.com/pthm-cable/ooze/telemetry"
)

// seedMix decorrelates the second PCG word from the user seed.
const seedMix = 0x9e3779b97f4a7c15

// Options configures a game instance.
type Options struct {
	Config      *config.Config // nil uses the global config
	Seed        uint64         // RNG seed
	LogStats    bool           // log window stats and perf via slog
	StatsWindow int            // ticks per stats window (0 = config)
	SnapshotDir string         // bookmark snapshots; empty disables
	OutputDir   string         // CSV output; empty disables
	DBPath      string         // SQLite store; empty = config, both empty disables
	Resume      bool           // restore oozes from the latest save
}

// Game holds the complete simulation state.
type Game struct {
	world   *ecs.World
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed uint64

	// Entity creators, one per component layout
	baseMapper *ecs.Map6[
		components.Identity,
		components.Position,
		components.Velocity,
		components.Body,
		components.Physics,
		components.Life,
	]
	living     *ecs.Map[components.Living]
	oozes      *ecs.Map[components.Ooze]
	hands      *ecs.Map[components.Hand]
	passengers *ecs.Map[components.Passenger]
	items      *ecs.Map[components.Item]
	charges    *ecs.Map[components.Charge]
	ids        *ecs.Map[components.Identity]
	positions  *ecs.Map[components.Position]
	velocities *ecs.Map[components.Velocity]
	bodies     *ecs.Map[components.Body]
	life       *ecs.Map[components.Life]

	allFilter  *ecs.Filter2[components.Identity, components.Life]
	oozeFilter *ecs.Filter4[components.Identity, components.Ooze, components.Living, components.Position]

	// Systems
	registry    *systems.SystemRegistry
	spatialGrid *systems.SpatialGrid
	sizes       *systems.SizeController
	combat      *systems.LivingCombat
	oozeSystem  *systems.OozeSystem
	feeding     *systems.FeedingSystem
	pursuit     *systems.PursuitSystem
	physics     *systems.PhysicsSystem
	chargeSys   *systems.ChargeSystem
	spawnGate   systems.SpawnGate
	rules       systems.WorldRules

	// Telemetry
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	lastReport       systems.TickReport

	store     *persistence.SQLiteStore
	saveEvery int32

	// State
	tick      int32
	nextID    uint32
	counts    [components.KindStructure + 1]int // live entities per kind
	seedItems int

	// Scratch
	removed []removal
}

// NewGameWithOptions creates a game, restoring from the store when asked to.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	world := ecs.NewWorld()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^seedMix))

	g := &Game{
		world:   world,
		cfg:     cfg,
		rng:     rng,
		rngSeed: opts.Seed,
		baseMapper: ecs.NewMap6[
			components.Identity,
			components.Position,
			components.Velocity,
			components.Body,
			components.Physics,
			components.Life,
		](world),
		living:      ecs.NewMap[components.Living](world),
		oozes:       ecs.NewMap[components.Ooze](world),
		hands:       ecs.NewMap[components.Hand](world),
		passengers:  ecs.NewMap[components.Passenger](world),
		items:       ecs.NewMap[components.Item](world),
		charges:     ecs.NewMap[components.Charge](world),
		ids:         ecs.NewMap[components.Identity](world),
		positions:   ecs.NewMap[components.Position](world),
		velocities:  ecs.NewMap[components.Velocity](world),
		bodies:      ecs.NewMap[components.Body](world),
		life:        ecs.NewMap[components.Life](world),
		allFilter:   ecs.NewFilter2[components.Identity, components.Life](world),
		oozeFilter:  ecs.NewFilter4[components.Identity, components.Ooze, components.Living, components.Position](world),
		logStats:    opts.LogStats,
		snapshotDir: opts.SnapshotDir,
		saveEvery:   int32(cfg.Persistence.SaveEvery),
		nextID:      1,
	}

	g.initSystems()

	statsWindow := opts.StatsWindow
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(int32(statsWindow))
	g.lifetimeTracker = telemetry.NewLifetimeTracker()
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10, cfg.Bookmarks)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("output config: %w", err)
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = cfg.Persistence.DBPath
	}
	if dbPath != "" {
		store, err := persistence.OpenSQLite(dbPath)
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("store: %w", err)
		}
		g.store = store
	}

	restored := false
	if opts.Resume {
		if g.store == nil {
			om.Close()
			return nil, errors.New("resume requested without a database")
		}
		restored, err = g.restore(context.Background())
		if err != nil {
			g.store.Close()
			om.Close()
			return nil, fmt.Errorf("resume: %w", err)
		}
	}
	g.spawnInitialPopulation(!restored)

	slog.Info("game initialized",
		"seed", opts.Seed,
		"restored", restored,
		"tick", g.tick,
		"systems", g.registry.IDs(),
	)

	return g, nil
}

// initSystems creates the systems in dependency order.
func (g *Game) initSystems() {
	cfg := g.cfg
	hooks := &telemetryHooks{g: g}

	g.registry = systems.NewSystemRegistry()
	g.rules = systems.StaticRules{
		DisturbCreatures: cfg.World.DisturbCreatures,
		Level:            systems.Difficulty(cfg.Derived.Difficulty),
	}
	g.spatialGrid = systems.NewSpatialGrid(g.world, cfg.World.Width, cfg.World.Depth, cfg.World.GridCellSize)
	g.sizes = systems.NewSizeController(g.world, cfg, hooks)
	g.combat = systems.NewLivingCombat(g.world, cfg, hooks)
	g.oozeSystem = systems.NewOozeSystem(g.world, cfg, systems.OozeDeps{
		Spatial: g.spatialGrid,
		Rules:   g.rules,
		Combat:  g.combat,
		Sizes:   g.sizes,
		Hooks:   hooks,
		Rng:     g.rng,
	})
	g.feeding = systems.NewFeedingSystem(g.world, cfg, g.spatialGrid, g.sizes, g.rng)
	g.pursuit = systems.NewPursuitSystem(g.world, cfg, g.rng)
	g.physics = systems.NewPhysicsSystem(g.world, cfg, g.combat)
	g.chargeSys = systems.NewChargeSystem(g.world, cfg, g.spatialGrid, g.combat)
	g.spawnGate = systems.HostileSpawnGate{
		Rules: g.rules,
		Light: systems.UniformLight(cfg.World.LightLevel),
		Rng:   g.rng,
	}
}

// World returns the ECS world.
func (g *Game) World() *ecs.World {
	return g.world
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// LastReport returns the ooze tick report of the last step.
func (g *Game) LastReport() systems.TickReport {
	return g.lastReport
}

// Unload saves the population when a store is configured and releases resources.
func (g *Game) Unload() {
	if g.store != nil {
		if err := g.save(context.Background()); err != nil {
			slog.Error("failed to save population", "error", err)
		}
		if err := g.store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
		g.store = nil
	}
	if g.outputManager != nil {
		if err := g.outputManager.WriteLifetimes(g.lifetimeTracker); err != nil {
			slog.Error("failed to write lifetimes", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}
