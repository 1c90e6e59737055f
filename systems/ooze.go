package systems

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// TickState is the step an ooze tick reached.
type TickState uint8

const (
	TickIdle TickState = iota
	TickMassScan
	TickCollisionResolve
	TickDone
)

// String returns the display name for a TickState.
func (s TickState) String() string {
	switch s {
	case TickIdle:
		return "idle"
	case TickMassScan:
		return "mass_scan"
	case TickCollisionResolve:
		return "collision_resolve"
	case TickDone:
		return "done"
	}
	return "unknown"
}

// Oscillation tuning.
const (
	phaseStep         = 0.1
	phaseStepCaptured = 0.3
	squishEase        = 0.5
	squishDecay       = 0.5
	squishLanding     = -0.5
	squishHop         = 1.0
)

// TickReport summarizes what one ooze tick (or a whole update) did.
type TickReport struct {
	State      TickState
	Mass       float64
	Candidates int
	Merged     int
	Consumed   int
	Riders     int
	Captured   int
	Damaged    int
	Removed    bool // the ticking ooze lost a merge
}

func (r *TickReport) add(o TickReport) {
	r.Mass += o.Mass
	r.Candidates += o.Candidates
	r.Merged += o.Merged
	r.Consumed += o.Consumed
	r.Riders += o.Riders
	r.Captured += o.Captured
	r.Damaged += o.Damaged
}

// OozeDeps are the collaborators an OozeSystem needs.
// Nil policies fall back to the defaults.
type OozeDeps struct {
	Spatial SpatialQuery
	Rules   WorldRules
	Policy  AbsorptionPolicy
	Merge   MergeEngine
	Combat  Combat
	Sizes   *SizeController
	Hooks   Hooks
	Rng     *rand.Rand
}

// OozeSystem runs the per-tick absorb, suck and merge cycle for every ooze.
type OozeSystem struct {
	filter *ecs.Filter2[components.Identity, components.Ooze]

	ids        *ecs.Map[components.Identity]
	oozes      *ecs.Map[components.Ooze]
	positions  *ecs.Map[components.Position]
	velocity   *ecs.Map[components.Velocity]
	bodies     *ecs.Map[components.Body]
	physics    *ecs.Map[components.Physics]
	life       *ecs.Map[components.Life]
	living     *ecs.Map[components.Living]
	passengers *ecs.Map[components.Passenger]
	items      *ecs.Map[components.Item]

	spatial SpatialQuery
	rules   WorldRules
	policy  AbsorptionPolicy
	merge   MergeEngine
	combat  Combat
	sizes   *SizeController
	hooks   Hooks
	rng     *rand.Rand
	noise   distuv.Normal

	cfg      *config.Config
	margin   float64
	seedItem string

	order   []orderedOoze
	scratch []Overlap
}

type orderedOoze struct {
	id uint32
	e  ecs.Entity
}

// NewOozeSystem creates the ooze tick orchestrator.
func NewOozeSystem(w *ecs.World, cfg *config.Config, deps OozeDeps) *OozeSystem {
	if deps.Policy == nil {
		deps.Policy = DefaultAbsorption{}
	}
	if deps.Merge == nil {
		deps.Merge = QuadratureMerge{}
	}
	if deps.Hooks == nil {
		deps.Hooks = NopHooks{}
	}
	if deps.Rules == nil {
		deps.Rules = StaticRules{
			DisturbCreatures: cfg.World.DisturbCreatures,
			Level:            Difficulty(cfg.Derived.Difficulty),
		}
	}
	if deps.Rng == nil {
		deps.Rng = rand.New(rand.NewPCG(1, 2))
	}
	if deps.Sizes == nil {
		deps.Sizes = NewSizeController(w, cfg, deps.Hooks)
	}
	if deps.Combat == nil {
		deps.Combat = NewLivingCombat(w, cfg, deps.Hooks)
	}

	return &OozeSystem{
		filter:     ecs.NewFilter2[components.Identity, components.Ooze](w),
		ids:        ecs.NewMap[components.Identity](w),
		oozes:      ecs.NewMap[components.Ooze](w),
		positions:  ecs.NewMap[components.Position](w),
		velocity:   ecs.NewMap[components.Velocity](w),
		bodies:     ecs.NewMap[components.Body](w),
		physics:    ecs.NewMap[components.Physics](w),
		life:       ecs.NewMap[components.Life](w),
		living:     ecs.NewMap[components.Living](w),
		passengers: ecs.NewMap[components.Passenger](w),
		items:      ecs.NewMap[components.Item](w),
		spatial:    deps.Spatial,
		rules:      deps.Rules,
		policy:     deps.Policy,
		merge:      deps.Merge,
		combat:     deps.Combat,
		sizes:      deps.Sizes,
		hooks:      deps.Hooks,
		rng:        deps.Rng,
		noise:      distuv.Normal{Mu: 0, Sigma: cfg.Ooze.FollowRangeSigma, Src: deps.Rng},
		cfg:        cfg,
		margin:     cfg.Ooze.MassMargin,
		seedItem:   cfg.Items.SeedItem,
		scratch:    make([]Overlap, 0, 32),
	}
}

// OnSpawnInitialize performs the one-time setup of a freshly created ooze:
// variant initial size and merge family, healing, the follow-range modifier
// and the mirrored flag.
// Returns false if the ooze was already initialized.
func (s *OozeSystem) OnSpawnInitialize(e ecs.Entity) bool {
	ooze := s.oozes.Get(e)
	if ooze.Initialized {
		return false
	}

	size := int32(2)
	if v := int(ooze.Variant); v < len(s.cfg.Variants) {
		size = int32(s.cfg.Variants[v].InitialSize)
		ooze.Family = components.Family(s.cfg.Derived.VariantFamily[v])
	}
	s.sizes.SetSize(e, size, true, GrowthSpawn)

	ooze.FollowRange = s.cfg.Ooze.FollowRange
	ooze.FollowRangeModifier = s.noise.Rand()
	ooze.Mirrored = s.rng.Float64() < s.cfg.Ooze.MirroredChance
	ooze.Initialized = true
	return true
}

// Update ticks every live ooze once, in ascending ID order.
// Oozes removed earlier in the same update are skipped.
func (s *OozeSystem) Update() TickReport {
	s.order = s.order[:0]
	query := s.filter.Query()
	for query.Next() {
		id, _ := query.Get()
		s.order = append(s.order, orderedOoze{id: id.ID, e: query.Entity()})
	}
	slices.SortFunc(s.order, func(a, b orderedOoze) int {
		return int(a.id) - int(b.id)
	})

	var total TickReport
	for _, o := range s.order {
		rep := s.Tick(o.e)
		total.add(rep)
	}
	total.State = TickDone
	return total
}

// Tick runs one ooze through MassScan, CollisionResolve and Done.
// A removed ooze stays Idle. An ooze that loses a merge stops in CollisionResolve.
func (s *OozeSystem) Tick(e ecs.Entity) TickReport {
	rep := TickReport{State: TickIdle}
	if s.life.Get(e).Removed {
		return rep
	}

	ooze := s.oozes.Get(e)
	ooze.MassAccumulated = 0

	rep.State = TickMassScan
	box := BoxOf(*s.positions.Get(e), *s.bodies.Get(e))
	ooze.MassAccumulated, s.scratch = AccumulateMass(s.spatial, e, box, s.margin, s.scratch)
	rep.Mass = ooze.MassAccumulated

	rep.State = TickCollisionResolve
	s.scratch = s.spatial.OverlappingInto(s.scratch[:0], box, e)
	for _, o := range s.scratch {
		if s.life.Get(o.E).Removed {
			continue
		}
		rep.Candidates++
		s.resolve(e, box, o.E, &rep)
		if s.life.Get(e).Removed {
			rep.Removed = true
			return rep
		}
	}

	rep.State = TickDone
	ooze.Captured = int32(rep.Captured)
	s.age(e, ooze)
	return rep
}

// resolve dispatches one overlapping candidate.
func (s *OozeSystem) resolve(e ecs.Entity, box Box, other ecs.Entity, rep *TickReport) {
	switch s.ids.Get(other).Kind {
	case components.KindOoze:
		if s.oozes.Get(other).Family == s.oozes.Get(e).Family {
			s.mergeWith(e, other, rep)
		}
	case components.KindItem:
		item := s.items.Get(other)
		if item.Kind == s.seedItem {
			s.consume(e, other, rep)
			return
		}
		s.attach(e, other, rep)
	default:
		s.absorb(e, box, other, rep)
	}
}

func (s *OozeSystem) contender(e ecs.Entity) Contender {
	ooze := s.oozes.Get(e)
	return Contender{
		ID:      s.ids.Get(e).ID,
		Size:    ooze.Size,
		Family:  ooze.Family,
		Removed: s.life.Get(e).Removed,
	}
}

func (s *OozeSystem) mergeWith(e, other ecs.Entity, rep *TickReport) {
	which, size, ok := s.merge.Resolve(s.contender(e), s.contender(other))
	if !ok {
		return
	}
	survivor, loser := e, other
	if which == 1 {
		survivor, loser = other, e
	}
	if !s.life.Get(loser).MarkRemoved(components.RemovedMerged) {
		return
	}
	s.sizes.SetSize(survivor, size, true, GrowthMerge)
	s.refit(survivor)
	s.hooks.Merged(survivor, loser, size)
	rep.Merged++
}

func (s *OozeSystem) consume(e, item ecs.Entity, rep *TickReport) {
	if !s.life.Get(item).MarkRemoved(components.RemovedConsumed) {
		return
	}
	s.sizes.Grow(e, 1, false, GrowthSeed)
	s.refit(e)
	s.hooks.Consumed(e, item)
	rep.Consumed++
}

func (s *OozeSystem) attach(e, item ecs.Entity, rep *TickReport) {
	if !s.passengers.Has(item) {
		return
	}
	p := s.passengers.Get(item)
	if p.Riding {
		return
	}
	p.Vehicle = e
	p.Riding = true
	rep.Riders++
}

func (s *OozeSystem) candidate(e ecs.Entity) Candidate {
	c := Candidate{Kind: s.ids.Get(e).Kind}
	if s.bodies.Has(e) {
		c.Collidable = s.bodies.Get(e).Collidable
	}
	if s.living.Has(e) {
		l := s.living.Get(e)
		c.Sneaking = l.Sneaking
		c.Flying = l.Flying
		c.Tamed = l.Tamed
	}
	return c
}

// absorb pulls an absorbable candidate toward the ooze and damages living ones.
func (s *OozeSystem) absorb(e ecs.Entity, box Box, other ecs.Entity, rep *TickReport) {
	cand := s.candidate(other)
	absorbed := s.policy.Absorbable(cand, s.rules)

	if absorbed && s.velocity.Has(other) {
		ooze := s.oozes.Get(e)
		vel := s.velocity.Get(other)
		vel.Set(SuctionVelocity(
			box.Center(), s.velocity.Get(e).Vec(),
			ooze.Size, ooze.MassAccumulated,
			s.positions.Get(other).Vec(), vel.Vec(),
		))
		if s.physics.Has(other) {
			s.physics.Get(other).FallDistance = 0
		}
		s.hooks.Captured(e, other)
		rep.Captured++
	}

	if !cand.Kind.IsLiving() {
		return
	}

	var err error
	if absorbed {
		err = DamageWithoutKnockback(s.combat, other, e)
	} else {
		err = s.combat.ApplyDamage(other, e)
	}
	switch {
	case err == nil:
		rep.Damaged++
	case hitBlocked(err):
	default:
		slog.Debug("ooze_damage_skipped", "ooze", s.ids.Get(e).ID, "target", s.ids.Get(other).ID, "err", err)
	}
}

// age advances the squish and wobble phase after a completed tick.
func (s *OozeSystem) age(e ecs.Entity, ooze *components.Ooze) {
	if ooze.Airborne && s.physics.Has(e) && s.physics.Get(e).OnGround {
		ooze.Airborne = false
		ooze.TargetSquish = squishLanding
	}
	ooze.Squish += (ooze.TargetSquish - ooze.Squish) * squishEase
	ooze.TargetSquish *= squishDecay

	step := phaseStep
	if ooze.Captured > 0 {
		step = phaseStepCaptured
	}
	ooze.Phase = wrapPhase(ooze.Phase + step)
}

func (s *OozeSystem) refit(e ecs.Entity) {
	if r, ok := s.spatial.(Refitter); ok {
		r.Refit(e)
	}
}
