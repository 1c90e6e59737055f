package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/telemetry"
)

// Body dimensions of the non-ooze kinds.
const (
	playerWidth     = 0.6
	playerHeight    = 1.8
	creatureWidth   = 0.9
	creatureHeight  = 1.4
	blockSize       = 0.98
	cartHeight      = 0.7
	itemSize        = 0.25
	structureWidth  = 3.0
	structureHeight = 2.0
)

// Spawn tuning.
const (
	playerStack = 8    // growth items a player starts with
	sneakChance = 0.15 // share of players that spawn sneaking
	floatMinY   = 4.0  // floating blocks start at least this high
	floatSpanY  = 8.0
	spawnInset  = 1.0 // keep spawns off the world edge
)

// takeID returns the next unused identity ID.
func (g *Game) takeID() uint32 {
	id := g.nextID
	g.nextID++
	return id
}

// newEntity creates the components every entity carries.
func (g *Game) newEntity(kind components.Kind, pos components.Position, width, height float64) ecs.Entity {
	return g.create(g.takeID(), kind, pos,
		components.Body{Width: width, Height: height},
		components.Physics{OnGround: pos.Y <= 0})
}

func (g *Game) create(id uint32, kind components.Kind, pos components.Position, body components.Body, phys components.Physics) ecs.Entity {
	ident := components.Identity{ID: id, Kind: kind}
	vel := components.Velocity{}
	life := components.Life{}
	return g.baseMapper.NewEntity(&ident, &pos, &vel, &body, &phys, &life)
}

// spawnOoze creates an ooze of the given variant and runs its spawn initialization.
func (g *Game) spawnOoze(variant components.Variant, pos components.Position) ecs.Entity {
	e := g.newEntity(components.KindOoze, pos, 0, 0)
	g.living.Add(e, &components.Living{})
	g.oozes.Add(e, &components.Ooze{Variant: variant})
	g.oozeSystem.OnSpawnInitialize(e)

	ooze := g.oozes.Get(e)
	g.record(telemetry.NewSpawnEvent(g.tick, g.ids.Get(e).ID, components.KindOoze, variant, ooze.Size))
	return e
}

// spawnPlayer creates a player holding a stack of growth items.
func (g *Game) spawnPlayer(pos components.Position) ecs.Entity {
	cfg := g.cfg
	e := g.newEntity(components.KindPlayer, pos, playerWidth, playerHeight)
	g.living.Add(e, &components.Living{
		Health:    cfg.Combat.PlayerHealth,
		MaxHealth: cfg.Combat.PlayerHealth,
		Sneaking:  g.rng.Float64() < sneakChance,
	})

	hand := components.Hand{}
	if n := len(cfg.Items.GrowthItems); n > 0 {
		hand.Item = cfg.Items.GrowthItems[g.rng.IntN(n)]
		hand.Count = playerStack
	}
	g.hands.Add(e, &hand)
	g.record(telemetry.NewSpawnEvent(g.tick, g.ids.Get(e).ID, components.KindPlayer, 0, 0))
	return e
}

// spawnCreature creates a non-player living being. Tamed creatures are companions.
func (g *Game) spawnCreature(pos components.Position, tamed bool) ecs.Entity {
	health := g.cfg.Combat.CreatureHealth
	e := g.newEntity(components.KindCreature, pos, creatureWidth, creatureHeight)
	g.living.Add(e, &components.Living{Health: health, MaxHealth: health, Tamed: tamed})
	g.passengers.Add(e, &components.Passenger{})
	return e
}

// spawnCharge creates a primed charge, either loose or mounted on a cart.
func (g *Game) spawnCharge(pos components.Position, cart bool) ecs.Entity {
	kind, height := components.KindCharge, blockSize
	if cart {
		kind, height = components.KindChargeCart, cartHeight
	}
	fuse := g.cfg.Charges.Fuse
	if fuse > 0 {
		fuse += g.rng.IntN(fuse)
	}
	e := g.newEntity(kind, pos, blockSize, height)
	g.charges.Add(e, &components.Charge{Fuse: int32(fuse)})
	return e
}

// spawnFloatingBlock creates a block in mid-air; it settles when it lands.
func (g *Game) spawnFloatingBlock(pos components.Position) ecs.Entity {
	pos.Y = floatMinY + g.rng.Float64()*floatSpanY
	return g.newEntity(components.KindFloatingBlock, pos, blockSize, blockSize)
}

// spawnItem creates a loose item stack of one.
func (g *Game) spawnItem(kind string, pos components.Position) ecs.Entity {
	e := g.newEntity(components.KindItem, pos, itemSize, itemSize)
	g.items.Add(e, &components.Item{Kind: kind, Count: 1})
	g.passengers.Add(e, &components.Passenger{})
	return e
}

// spawnStructure creates a solid, immovable shape.
func (g *Game) spawnStructure(pos components.Position) ecs.Entity {
	return g.create(g.takeID(), components.KindStructure, pos,
		components.Body{Width: structureWidth, Height: structureHeight, Collidable: true},
		components.Physics{OnGround: true, NoGravity: true})
}

// randomPosition returns a ground-level position inside the world.
func (g *Game) randomPosition() components.Position {
	w := g.cfg.World
	return components.Position{
		X: spawnInset + g.rng.Float64()*(w.Width-2*spawnInset),
		Z: spawnInset + g.rng.Float64()*(w.Depth-2*spawnInset),
	}
}

// pickVariant draws a variant index by spawn weight.
func (g *Game) pickVariant() components.Variant {
	variants := g.cfg.Variants
	r := g.rng.Float64() * g.cfg.Derived.VariantWeight
	for i, v := range variants {
		r -= v.Weight
		if r < 0 {
			return components.Variant(i)
		}
	}
	return components.Variant(len(variants) - 1)
}
