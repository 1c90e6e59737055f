package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// Hurter deals raw damage. Fall and blast damage go through it.
type Hurter interface {
	Hurt(target, source ecs.Entity, amount float64) error
}

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Depth, Ceiling float64
}

// PhysicsSystem integrates velocity, gravity and ground contact.
type PhysicsSystem struct {
	world  *ecs.World
	filter *ecs.Filter5[components.Identity, components.Position, components.Velocity, components.Physics, components.Life]

	bodies     *ecs.Map[components.Body]
	positions  *ecs.Map[components.Position]
	velocity   *ecs.Map[components.Velocity]
	life       *ecs.Map[components.Life]
	living     *ecs.Map[components.Living]
	passengers *ecs.Map[components.Passenger]
	items      *ecs.Map[components.Item]

	bounds  Bounds
	params  config.PhysicsConfig
	safe    float64
	despawn int32
	hurter  Hurter

	falls []fall
}

type fall struct {
	e      ecs.Entity
	id     uint32
	damage float64
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, cfg *config.Config, hurter Hurter) *PhysicsSystem {
	return &PhysicsSystem{
		world:      w,
		filter:     ecs.NewFilter5[components.Identity, components.Position, components.Velocity, components.Physics, components.Life](w),
		bodies:     ecs.NewMap[components.Body](w),
		positions:  ecs.NewMap[components.Position](w),
		velocity:   ecs.NewMap[components.Velocity](w),
		life:       ecs.NewMap[components.Life](w),
		living:     ecs.NewMap[components.Living](w),
		passengers: ecs.NewMap[components.Passenger](w),
		items:      ecs.NewMap[components.Item](w),
		bounds:     Bounds{Width: cfg.World.Width, Depth: cfg.World.Depth, Ceiling: cfg.World.Ceiling},
		params:     cfg.Physics,
		safe:       cfg.Combat.SafeFallDistance,
		despawn:    int32(cfg.Items.DespawnAge),
		hurter:     hurter,
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update() {
	s.falls = s.falls[:0]

	query := s.filter.Query()
	for query.Next() {
		id, pos, vel, phys, life := query.Get()
		if life.Removed {
			continue
		}
		e := query.Entity()

		if s.living.Has(e) {
			if l := s.living.Get(e); l.HurtCooldown > 0 {
				l.HurtCooldown--
			}
		}
		if id.Kind == components.KindItem {
			item := s.items.Get(e)
			item.Age++
			if s.despawn > 0 && item.Age > s.despawn {
				life.MarkRemoved(components.RemovedDespawned)
				continue
			}
		}

		if s.ride(e, pos, vel, phys) {
			continue
		}

		if !phys.NoGravity {
			vel.Y -= s.params.Gravity
		}
		vel.Y *= s.params.AirDrag

		pos.X += vel.X
		pos.Y += vel.Y
		pos.Z += vel.Z

		if pos.Y <= 0 {
			landing := !phys.OnGround
			pos.Y = 0
			vel.Y = 0
			phys.OnGround = true
			if landing && phys.FallDistance > s.safe && s.living.Has(e) {
				s.falls = append(s.falls, fall{e: e, id: id.ID, damage: phys.FallDistance - s.safe})
			}
			phys.FallDistance = 0
			if landing && id.Kind == components.KindFloatingBlock {
				life.MarkRemoved(components.RemovedPlaced)
			}
		} else {
			phys.OnGround = false
			if vel.Y < 0 {
				phys.FallDistance -= vel.Y
			}
		}

		friction := s.params.AirFriction
		if phys.OnGround {
			friction = s.params.GroundFriction
		}
		vel.X *= friction
		vel.Z *= friction

		s.clampBounds(e, pos, vel)
	}

	// Damage is applied after iteration; a kill only tombstones the entity.
	for _, f := range s.falls {
		if s.hurter != nil {
			if err := s.hurter.Hurt(f.e, f.e, f.damage); err != nil && !hitBlocked(err) {
				slog.Debug("fall_damage_skipped", "entity", f.id, "err", err)
			}
		}
	}
}

// ride snaps a passenger onto its vehicle. Returns false if the entity is not riding.
func (s *PhysicsSystem) ride(e ecs.Entity, pos *components.Position, vel *components.Velocity, phys *components.Physics) bool {
	if !s.passengers.Has(e) {
		return false
	}
	p := s.passengers.Get(e)
	if !p.Riding {
		return false
	}
	if !s.world.Alive(p.Vehicle) || s.life.Get(p.Vehicle).Removed {
		p.Riding = false
		return false
	}

	vp := s.positions.Get(p.Vehicle)
	pos.X, pos.Y, pos.Z = vp.X, vp.Y, vp.Z
	if s.bodies.Has(p.Vehicle) {
		pos.Y += s.bodies.Get(p.Vehicle).Height
	}
	*vel = *s.velocity.Get(p.Vehicle)
	phys.FallDistance = 0
	phys.OnGround = false
	return true
}

func (s *PhysicsSystem) clampBounds(e ecs.Entity, pos *components.Position, vel *components.Velocity) {
	hw := 0.0
	height := 0.0
	if s.bodies.Has(e) {
		b := s.bodies.Get(e)
		hw, height = b.Width/2, b.Height
	}

	if pos.X < hw {
		pos.X, vel.X = hw, 0
	}
	if pos.X > s.bounds.Width-hw {
		pos.X, vel.X = s.bounds.Width-hw, 0
	}
	if pos.Z < hw {
		pos.Z, vel.Z = hw, 0
	}
	if pos.Z > s.bounds.Depth-hw {
		pos.Z, vel.Z = s.bounds.Depth-hw, 0
	}
	if top := s.bounds.Ceiling - height; pos.Y > top && top >= 0 {
		pos.Y = top
		if vel.Y > 0 {
			vel.Y = 0
		}
	}
}
