package components

// ModifierOp selects how an attribute modifier combines with the base value.
type ModifierOp uint8

const (
	ModifierAdd          ModifierOp = iota // added to the base value
	ModifierMultiplyBase                   // base value times (1 + amount), summed across modifiers
)

// AttributeModifier is a named adjustment to a living attribute.
type AttributeModifier struct {
	ID     string
	Amount float64
	Op     ModifierOp
}

// Living holds the state shared by every living being, oozes included.
type Living struct {
	Health       float64
	MaxHealth    float64
	HurtCooldown int32 // ticks of invulnerability left after being damaged

	Sneaking bool
	Flying   bool // unrestricted flight (creative/spectator style)
	Creative bool
	Tamed    bool

	KnockbackBase float64
	Knockback     []AttributeModifier // modifiers on knockback resistance
}

// KnockbackResistance returns the effective resistance in [0, 1].
func (l *Living) KnockbackResistance() float64 {
	add, mul := 0.0, 0.0
	for _, m := range l.Knockback {
		switch m.Op {
		case ModifierAdd:
			add += m.Amount
		case ModifierMultiplyBase:
			mul += m.Amount
		}
	}
	v := l.KnockbackBase*(1+mul) + add
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// HasKnockbackModifier reports whether a modifier with the given ID is installed.
func (l *Living) HasKnockbackModifier(id string) bool {
	for _, m := range l.Knockback {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Dead reports whether the being has run out of health.
func (l *Living) Dead() bool {
	return l.Health <= 0
}

// Hand is the item stack a player is holding.
type Hand struct {
	Item  string
	Count int32
}
