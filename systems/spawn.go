package systems

import (
	"math/rand/v2"

	"github.com/pthm-cable/ooze/components"
)

// SpawnGate decides whether an ooze may spawn at a position.
type SpawnGate interface {
	CanSpawn(pos components.Position) bool
}

// maxSpawnLight is the exclusive bound of the random light threshold.
const maxSpawnLight = 8

// HostileSpawnGate admits spawns outside Peaceful in dark enough places.
// A position qualifies when its light level does not exceed a random 0..7 draw.
type HostileSpawnGate struct {
	Rules WorldRules
	Light func(pos components.Position) int
	Rng   *rand.Rand
}

// CanSpawn implements SpawnGate.
func (g HostileSpawnGate) CanSpawn(pos components.Position) bool {
	if g.Rules.Difficulty() == DifficultyPeaceful {
		return false
	}
	light := 0
	if g.Light != nil {
		light = g.Light(pos)
	}
	return light <= g.Rng.IntN(maxSpawnLight)
}

// UniformLight returns a light function with the same level everywhere.
func UniformLight(level int) func(components.Position) int {
	return func(components.Position) int { return level }
}
