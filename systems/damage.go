package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
)

// AbsorbKnockbackModifier pins a held target's knockback resistance for one hit.
var AbsorbKnockbackModifier = components.AttributeModifier{
	ID:     "ooze_absorb_knockback",
	Amount: 1,
	Op:     components.ModifierAdd,
}

// DamageWithoutKnockback applies damage while the target holds the absorb
// modifier. The modifier is removed on every exit path, including a failing or
// panicking ApplyDamage. A modifier the target already carried is left alone.
func DamageWithoutKnockback(c Combat, target, source ecs.Entity) error {
	if c.InstallModifier(target, AbsorbKnockbackModifier) {
		defer c.RemoveModifier(target, AbsorbKnockbackModifier.ID)
	}
	return c.ApplyDamage(target, source)
}
