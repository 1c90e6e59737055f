package systems

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// Engulf box adjustments: grown vertically and lifted before testing overlap.
const (
	engulfGrowY   = 0.5
	engulfOffsetY = 0.25
	wanderChance  = 0.25
	wanderSpeed   = 0.5
)

// PursuitSystem picks targets for oozes and makes them hop after them.
type PursuitSystem struct {
	world        *ecs.World
	oozeFilter   *ecs.Filter2[components.Ooze, components.Life]
	playerFilter *ecs.Filter3[components.Identity, components.Living, components.Life]

	oozes     *ecs.Map[components.Ooze]
	positions *ecs.Map[components.Position]
	velocity  *ecs.Map[components.Velocity]
	bodies    *ecs.Map[components.Body]
	physics   *ecs.Map[components.Physics]
	living    *ecs.Map[components.Living]
	life      *ecs.Map[components.Life]

	maxDY        float64
	jumpVelocity float64
	cooldownMin  int
	cooldownSpan int
	rng          *rand.Rand

	players []ecs.Entity
	hunters []ecs.Entity
}

// NewPursuitSystem creates a pursuit system.
func NewPursuitSystem(w *ecs.World, cfg *config.Config, rng *rand.Rand) *PursuitSystem {
	return &PursuitSystem{
		world:        w,
		oozeFilter:   ecs.NewFilter2[components.Ooze, components.Life](w),
		playerFilter: ecs.NewFilter3[components.Identity, components.Living, components.Life](w),
		oozes:        ecs.NewMap[components.Ooze](w),
		positions:    ecs.NewMap[components.Position](w),
		velocity:     ecs.NewMap[components.Velocity](w),
		bodies:       ecs.NewMap[components.Body](w),
		physics:      ecs.NewMap[components.Physics](w),
		living:       ecs.NewMap[components.Living](w),
		life:         ecs.NewMap[components.Life](w),
		maxDY:        cfg.Ooze.TargetMaxDY,
		jumpVelocity: cfg.Ooze.JumpVelocity,
		cooldownMin:  cfg.Ooze.JumpCooldownMin,
		cooldownSpan: cfg.Ooze.JumpCooldownSpan,
		rng:          rng,
	}
}

// Update retargets and moves every live ooze.
func (s *PursuitSystem) Update() {
	s.players = s.players[:0]
	pq := s.playerFilter.Query()
	for pq.Next() {
		id, living, life := pq.Get()
		if id.Kind == components.KindPlayer && !life.Removed && !living.Creative {
			s.players = append(s.players, pq.Entity())
		}
	}

	s.hunters = s.hunters[:0]
	oq := s.oozeFilter.Query()
	for oq.Next() {
		_, life := oq.Get()
		if !life.Removed {
			s.hunters = append(s.hunters, oq.Entity())
		}
	}

	for _, e := range s.hunters {
		s.retarget(e)
		s.hop(e)
	}
}

// Engulfed reports whether the player is already held inside the ooze:
// standing upright, on foot, and overlapping the ooze's lifted box.
func (s *PursuitSystem) Engulfed(ooze, player ecs.Entity) bool {
	living := s.living.Get(player)
	if living.Sneaking || living.Flying {
		return false
	}
	box := BoxOf(*s.positions.Get(ooze), *s.bodies.Get(ooze)).
		Expand(0, engulfGrowY, 0).
		Offset(0, engulfOffsetY, 0)
	return box.Intersects(BoxOf(*s.positions.Get(player), *s.bodies.Get(player)))
}

// Trackable reports whether player is a valid pursuit target for ooze.
func (s *PursuitSystem) Trackable(ooze, player ecs.Entity) bool {
	if s.life.Get(player).Removed {
		return false
	}
	o := s.oozes.Get(ooze)
	from := s.positions.Get(ooze).Vec()
	to := s.positions.Get(player).Vec()
	if math.Abs(to[1]-from[1]) > s.maxDY {
		return false
	}
	r := o.SensingRange()
	if distanceSq(from, to) > r*r {
		return false
	}
	return !s.Engulfed(ooze, player)
}

func (s *PursuitSystem) retarget(e ecs.Entity) {
	o := s.oozes.Get(e)
	if o.HasTarget && s.world.Alive(o.Target) && s.Trackable(e, o.Target) {
		return
	}
	o.HasTarget = false

	from := s.positions.Get(e).Vec()
	best := math.Inf(1)
	for _, p := range s.players {
		if !s.Trackable(e, p) {
			continue
		}
		if d := distanceSq(from, s.positions.Get(p).Vec()); d < best {
			best = d
			o.Target = p
			o.HasTarget = true
		}
	}
}

func (s *PursuitSystem) hop(e ecs.Entity) {
	o := s.oozes.Get(e)
	if o.JumpCooldown > 0 {
		o.JumpCooldown--
		return
	}
	phys := s.physics.Get(e)
	if !phys.OnGround {
		return
	}

	var dir mgl64.Vec3
	speed := o.Attributes.MovementSpeed
	switch {
	case o.HasTarget:
		dir = horizontal(s.positions.Get(o.Target).Vec().Sub(s.positions.Get(e).Vec()))
	case s.rng.Float64() < wanderChance:
		angle := s.rng.Float64() * 2 * math.Pi
		dir = mgl64.Vec3{math.Cos(angle), 0, math.Sin(angle)}
		speed *= wanderSpeed
	default:
		return
	}
	if dir.Len() > 1e-9 {
		dir = dir.Normalize()
	}

	vel := s.velocity.Get(e)
	vel.X = dir[0] * speed
	vel.Z = dir[2] * speed
	vel.Y = s.jumpVelocity
	phys.OnGround = false
	o.Airborne = true
	o.TargetSquish = squishHop

	o.JumpCooldown = int32(s.cooldownMin)
	if s.cooldownSpan > 0 {
		o.JumpCooldown += int32(s.rng.IntN(s.cooldownSpan))
	}
}
