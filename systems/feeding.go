package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

// feedReach is how far beyond its box a player can reach an ooze.
const feedReach = 1.0

// FeedingSystem handles players feeding growth items to oozes.
type FeedingSystem struct {
	filter *ecs.Filter3[components.Identity, components.Hand, components.Life]

	ids       *ecs.Map[components.Identity]
	positions *ecs.Map[components.Position]
	bodies    *ecs.Map[components.Body]
	hands     *ecs.Map[components.Hand]
	living    *ecs.Map[components.Living]
	life      *ecs.Map[components.Life]

	spatial SpatialQuery
	sizes   *SizeController
	growth  map[string]bool
	chance  float64
	rng     *rand.Rand

	feeders []ecs.Entity
	scratch []Overlap
}

// NewFeedingSystem creates a feeding system.
func NewFeedingSystem(w *ecs.World, cfg *config.Config, spatial SpatialQuery, sizes *SizeController, rng *rand.Rand) *FeedingSystem {
	return &FeedingSystem{
		filter:    ecs.NewFilter3[components.Identity, components.Hand, components.Life](w),
		ids:       ecs.NewMap[components.Identity](w),
		positions: ecs.NewMap[components.Position](w),
		bodies:    ecs.NewMap[components.Body](w),
		hands:     ecs.NewMap[components.Hand](w),
		living:    ecs.NewMap[components.Living](w),
		life:      ecs.NewMap[components.Life](w),
		spatial:   spatial,
		sizes:     sizes,
		growth:    cfg.Derived.GrowthItems,
		chance:    cfg.Combat.FeedChance,
		rng:       rng,
	}
}

// Feed has player give its held item to ooze. A growth item grows the ooze
// by one with healing and is used up unless the player is in creative mode.
// Returns false when nothing happened.
func (s *FeedingSystem) Feed(player, ooze ecs.Entity) bool {
	if !s.hands.Has(player) || s.life.Get(player).Removed || s.life.Get(ooze).Removed {
		return false
	}
	if s.ids.Get(ooze).Kind != components.KindOoze {
		return false
	}
	hand := s.hands.Get(player)
	if hand.Count <= 0 || !s.growth[hand.Item] {
		return false
	}

	s.sizes.Grow(ooze, 1, true, GrowthFeed)
	if r, ok := s.spatial.(Refitter); ok {
		r.Refit(ooze)
	}

	if s.living.Has(player) && s.living.Get(player).Creative {
		return true
	}
	hand.Count--
	if hand.Count == 0 {
		hand.Item = ""
	}
	return true
}

// Update lets each player holding a growth item feed an adjacent ooze with the
// configured per-tick chance. Returns the number of feedings.
func (s *FeedingSystem) Update() int {
	s.feeders = s.feeders[:0]
	query := s.filter.Query()
	for query.Next() {
		_, hand, life := query.Get()
		if life.Removed || hand.Count <= 0 || !s.growth[hand.Item] {
			continue
		}
		s.feeders = append(s.feeders, query.Entity())
	}

	fed := 0
	for _, player := range s.feeders {
		if s.rng.Float64() >= s.chance {
			continue
		}
		box := BoxOf(*s.positions.Get(player), *s.bodies.Get(player)).Expand(feedReach, 0, feedReach)
		s.scratch = s.spatial.OverlappingInto(s.scratch[:0], box, player)
		for _, o := range s.scratch {
			if s.ids.Get(o.E).Kind != components.KindOoze {
				continue
			}
			if s.Feed(player, o.E) {
				fed++
			}
			break
		}
	}
	return fed
}
