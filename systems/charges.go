package systems

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// ChargeSystem counts down explosive fuses and detonates charges.
type ChargeSystem struct {
	filter *ecs.Filter3[components.Charge, components.Position, components.Life]

	ids       *ecs.Map[components.Identity]
	positions *ecs.Map[components.Position]
	bodies    *ecs.Map[components.Body]
	life      *ecs.Map[components.Life]

	spatial SpatialQuery
	hurter  Hurter
	radius  float64
	damage  float64

	primed  []ecs.Entity
	scratch []Overlap
}

// NewChargeSystem creates a charge system.
func NewChargeSystem(w *ecs.World, cfg *config.Config, spatial SpatialQuery, hurter Hurter) *ChargeSystem {
	return &ChargeSystem{
		filter:    ecs.NewFilter3[components.Charge, components.Position, components.Life](w),
		ids:       ecs.NewMap[components.Identity](w),
		positions: ecs.NewMap[components.Position](w),
		bodies:    ecs.NewMap[components.Body](w),
		life:      ecs.NewMap[components.Life](w),
		spatial:   spatial,
		hurter:    hurter,
		radius:    cfg.Charges.BlastRadius,
		damage:    cfg.Charges.BlastDamage,
	}
}

// Update advances fuses and detonates expired charges. Returns the number of detonations.
func (s *ChargeSystem) Update() int {
	s.primed = s.primed[:0]
	query := s.filter.Query()
	for query.Next() {
		charge, _, life := query.Get()
		if life.Removed {
			continue
		}
		charge.Fuse--
		if charge.Fuse <= 0 {
			s.primed = append(s.primed, query.Entity())
		}
	}

	for _, e := range s.primed {
		s.detonate(e)
	}
	return len(s.primed)
}

// detonate removes the charge and damages living entities in the blast radius.
// Damage falls off linearly with distance from the blast center.
func (s *ChargeSystem) detonate(e ecs.Entity) {
	if !s.life.Get(e).MarkRemoved(components.RemovedExploded) {
		return
	}
	center := s.positions.Get(e).Vec()
	box := Box{Min: center, Max: center}.Expand(s.radius, s.radius, s.radius)

	s.scratch = s.spatial.OverlappingInto(s.scratch[:0], box, e)
	for _, o := range s.scratch {
		if !s.ids.Get(o.E).Kind.IsLiving() {
			continue
		}
		dist := math.Sqrt(distanceSq(center, o.Box.Center()))
		if dist >= s.radius {
			continue
		}
		if err := s.hurter.Hurt(o.E, e, s.damage*(1-dist/s.radius)); err != nil && !hitBlocked(err) {
			slog.Debug("blast_damage_skipped", "charge", s.ids.Get(e).ID, "target", s.ids.Get(o.E).ID, "err", err)
		}
	}
}
