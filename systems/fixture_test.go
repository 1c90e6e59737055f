package systems

import (
	"math/rand/v2"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

func init() {
	config.MustInit("")
}

// recordingHooks counts hook events.
type recordingHooks struct {
	NopHooks
	merges   map[ecs.Entity]int // loser -> times merged away
	consumed int
	captured int
	damaged  int
	resized  int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{merges: make(map[ecs.Entity]int)}
}

func (h *recordingHooks) SizeChanged(ecs.Entity, int32, int32, GrowthCause) { h.resized++ }
func (h *recordingHooks) Merged(_, loser ecs.Entity, _ int32) { h.merges[loser]++ }
func (h *recordingHooks) Consumed(ecs.Entity, ecs.Entity) { h.consumed++ }
func (h *recordingHooks) Captured(ecs.Entity, ecs.Entity) { h.captured++ }
func (h *recordingHooks) Damaged(ecs.Entity, ecs.Entity, float64, bool) { h.damaged++ }

// fixture is a small world with a grid and the ooze collaborators wired up.
type fixture struct {
	t      *testing.T
	w      *ecs.World
	cfg    *config.Config
	grid   *SpatialGrid
	hooks  *recordingHooks
	sizes  *SizeController
	combat *LivingCombat
	rng    *rand.Rand

	base *ecs.Map6[components.Identity, components.Position, components.Velocity, components.Body, components.Physics, components.Life]

	living     *ecs.Map[components.Living]
	oozes      *ecs.Map[components.Ooze]
	items      *ecs.Map[components.Item]
	passengers *ecs.Map[components.Passenger]
	hands      *ecs.Map[components.Hand]
	charges    *ecs.Map[components.Charge]
	positions  *ecs.Map[components.Position]
	velocity   *ecs.Map[components.Velocity]
	physics    *ecs.Map[components.Physics]
	bodies     *ecs.Map[components.Body]
	life       *ecs.Map[components.Life]

	nextID uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Cfg()
	w := ecs.NewWorld()
	hooks := newRecordingHooks()
	return &fixture{
		t:          t,
		w:          w,
		cfg:        cfg,
		grid:       NewSpatialGrid(w, cfg.World.Width, cfg.World.Depth, cfg.World.GridCellSize),
		hooks:      hooks,
		sizes:      NewSizeController(w, cfg, hooks),
		combat:     NewLivingCombat(w, cfg, hooks),
		rng:        rand.New(rand.NewPCG(7, 11)),
		base:       ecs.NewMap6[components.Identity, components.Position, components.Velocity, components.Body, components.Physics, components.Life](w),
		living:     ecs.NewMap[components.Living](w),
		oozes:      ecs.NewMap[components.Ooze](w),
		items:      ecs.NewMap[components.Item](w),
		passengers: ecs.NewMap[components.Passenger](w),
		hands:      ecs.NewMap[components.Hand](w),
		charges:    ecs.NewMap[components.Charge](w),
		positions:  ecs.NewMap[components.Position](w),
		velocity:   ecs.NewMap[components.Velocity](w),
		physics:    ecs.NewMap[components.Physics](w),
		bodies:     ecs.NewMap[components.Body](w),
		life:       ecs.NewMap[components.Life](w),
	}
}

func (f *fixture) spawn(kind components.Kind, x, y, z, width, height float64) ecs.Entity {
	f.nextID++
	id := components.Identity{ID: f.nextID, Kind: kind}
	pos := components.Position{X: x, Y: y, Z: z}
	vel := components.Velocity{}
	body := components.Body{Width: width, Height: height}
	phys := components.Physics{OnGround: y <= 0}
	life := components.Life{}
	return f.base.NewEntity(&id, &pos, &vel, &body, &phys, &life)
}

func (f *fixture) ooze(variant components.Variant, size int32, x, y, z float64) ecs.Entity {
	e := f.spawn(components.KindOoze, x, y, z, 0, 0)
	f.living.Add(e, &components.Living{})
	f.oozes.Add(e, &components.Ooze{
		Family:      components.Family(f.cfg.Derived.VariantFamily[variant]),
		Variant:     variant,
		FollowRange: f.cfg.Ooze.FollowRange,
		Initialized: true,
	})
	f.sizes.SetSize(e, size, true, GrowthSpawn)
	return e
}

func (f *fixture) player(x, y, z float64) ecs.Entity {
	e := f.spawn(components.KindPlayer, x, y, z, 0.6, 1.8)
	f.living.Add(e, &components.Living{Health: 20, MaxHealth: 20})
	f.hands.Add(e, &components.Hand{})
	return e
}

func (f *fixture) creature(x, y, z float64) ecs.Entity {
	e := f.spawn(components.KindCreature, x, y, z, 0.9, 1.4)
	f.living.Add(e, &components.Living{Health: 10, MaxHealth: 10})
	return e
}

func (f *fixture) item(kind string, x, y, z float64) ecs.Entity {
	e := f.spawn(components.KindItem, x, y, z, 0.25, 0.25)
	f.items.Add(e, &components.Item{Kind: kind, Count: 1})
	f.passengers.Add(e, &components.Passenger{})
	return e
}

func (f *fixture) charge(fuse int32, x, y, z float64) ecs.Entity {
	e := f.spawn(components.KindCharge, x, y, z, 0.98, 0.98)
	f.charges.Add(e, &components.Charge{Fuse: fuse})
	return e
}

func (f *fixture) oozeSystem(rules WorldRules) *OozeSystem {
	return NewOozeSystem(f.w, f.cfg, OozeDeps{
		Spatial: f.grid,
		Rules:   rules,
		Combat:  f.combat,
		Sizes:   f.sizes,
		Hooks:   f.hooks,
		Rng:     f.rng,
	})
}

func normalRules() StaticRules {
	return StaticRules{DisturbCreatures: true, Level: DifficultyNormal}
}
