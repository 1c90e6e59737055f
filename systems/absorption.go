package systems

import (
	"github.com/pthm-cable/ooze/components"
)

// Difficulty is the world difficulty, ordered from least to most hostile.
type Difficulty int

const (
	DifficultyPeaceful Difficulty = iota
	DifficultyEasy
	DifficultyNormal
	DifficultyHard
)

// RuleFlag names a boolean world rule.
type RuleFlag int

const (
	// RuleDisturbCreatures allows creatures to pick up and move non-player entities.
	RuleDisturbCreatures RuleFlag = iota
)

// WorldRules exposes the world settings that gate absorption and spawning.
type WorldRules interface {
	Bool(flag RuleFlag) bool
	Difficulty() Difficulty
}

// StaticRules is a fixed set of world rules.
type StaticRules struct {
	DisturbCreatures bool
	Level            Difficulty
}

// Bool returns the value of a rule flag. Unknown flags are false.
func (r StaticRules) Bool(flag RuleFlag) bool {
	switch flag {
	case RuleDisturbCreatures:
		return r.DisturbCreatures
	}
	return false
}

// Difficulty returns the fixed difficulty.
func (r StaticRules) Difficulty() Difficulty {
	return r.Level
}

// Candidate is the view of an entity the absorption policy decides on.
type Candidate struct {
	Kind       components.Kind
	Collidable bool
	Sneaking   bool
	Flying     bool
	Tamed      bool
}

// AbsorptionPolicy decides whether an ooze may pull in and hold an entity.
type AbsorptionPolicy interface {
	Absorbable(c Candidate, rules WorldRules) bool
}

// DefaultAbsorption applies the standard absorption rules.
type DefaultAbsorption struct{}

// Absorbable implements AbsorptionPolicy.
func (DefaultAbsorption) Absorbable(c Candidate, rules WorldRules) bool {
	return IsAbsorbable(c, rules)
}

// IsAbsorbable reports whether an ooze may pull in and hold the candidate.
// Loose items never reach the policy; the tick dispatches them before it.
func IsAbsorbable(c Candidate, rules WorldRules) bool {
	if c.Collidable || c.Sneaking {
		return false
	}

	switch c.Kind {
	case components.KindCharge, components.KindChargeCart, components.KindFloatingBlock:
		return true
	case components.KindPlayer:
		return !c.Flying
	case components.KindOoze, components.KindCreature:
		if c.Tamed {
			return rules.Difficulty() != DifficultyEasy
		}
		return rules.Bool(RuleDisturbCreatures)
	}
	return false
}
