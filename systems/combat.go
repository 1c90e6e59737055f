package systems

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

var (
	// ErrNotLiving is returned when damage targets an entity without health.
	ErrNotLiving = errors.New("target is not a living being")
	// ErrNotAttacker is returned when the damage source has no attack.
	ErrNotAttacker = errors.New("source cannot attack")
	// ErrTooSmall is returned when the attacking ooze is below the size that deals damage.
	ErrTooSmall = errors.New("attacker too small to deal damage")
	// ErrInvulnerable is returned while the target's hurt cooldown runs or it is in creative mode.
	ErrInvulnerable = errors.New("target is invulnerable")
)

// hitBlocked reports whether a damage error only means the hit did not land.
func hitBlocked(err error) bool {
	return errors.Is(err, ErrInvulnerable) || errors.Is(err, ErrTooSmall)
}

// Combat applies damage and manages knockback-resistance modifiers.
type Combat interface {
	ApplyDamage(target, source ecs.Entity) error
	InstallModifier(target ecs.Entity, m components.AttributeModifier) bool
	RemoveModifier(target ecs.Entity, id string)
}

// LivingCombat is the Combat implementation backed by Living components.
type LivingCombat struct {
	living    *ecs.Map[components.Living]
	oozes     *ecs.Map[components.Ooze]
	positions *ecs.Map[components.Position]
	velocity  *ecs.Map[components.Velocity]
	life      *ecs.Map[components.Life]
	hooks     Hooks

	invulnerable int32
	knockback    float64
	lift         float64
}

// NewLivingCombat creates a combat collaborator bound to a world.
func NewLivingCombat(w *ecs.World, cfg *config.Config, hooks Hooks) *LivingCombat {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &LivingCombat{
		living:       ecs.NewMap[components.Living](w),
		oozes:        ecs.NewMap[components.Ooze](w),
		positions:    ecs.NewMap[components.Position](w),
		velocity:     ecs.NewMap[components.Velocity](w),
		life:         ecs.NewMap[components.Life](w),
		hooks:        hooks,
		invulnerable: int32(cfg.Combat.InvulnerableTicks),
		knockback:    cfg.Combat.Knockback,
		lift:         cfg.Combat.KnockbackLift,
	}
}

// ApplyDamage hits target with the source ooze's attack power.
// Oozes of size 1 are too small to hurt anything.
func (c *LivingCombat) ApplyDamage(target, source ecs.Entity) error {
	if !c.oozes.Has(source) {
		return ErrNotAttacker
	}
	ooze := c.oozes.Get(source)
	if ooze.Size <= MinSize {
		return ErrTooSmall
	}
	return c.Hurt(target, source, ooze.Attributes.AttackPower)
}

// Hurt deals amount damage to target. Knockback pushes the target away from
// source scaled by its missing resistance; a self-sourced hurt has no knockback.
// A target reaching zero health is marked removed.
func (c *LivingCombat) Hurt(target, source ecs.Entity, amount float64) error {
	if !c.living.Has(target) {
		return ErrNotLiving
	}
	life := c.life.Get(target)
	if life.Removed {
		return ErrNotLiving
	}
	living := c.living.Get(target)
	if living.HurtCooldown > 0 || living.Creative {
		return ErrInvulnerable
	}

	living.Health -= amount
	living.HurtCooldown = c.invulnerable

	if source != target && c.positions.Has(source) && c.velocity.Has(target) {
		c.push(target, source, 1-living.KnockbackResistance())
	}

	killed := living.Dead() && life.MarkRemoved(components.RemovedKilled)
	c.hooks.Damaged(target, source, amount, killed)
	return nil
}

func (c *LivingCombat) push(target, source ecs.Entity, strength float64) {
	if strength <= 0 {
		return
	}
	away := horizontal(c.positions.Get(target).Vec().Sub(c.positions.Get(source).Vec()))
	impulse := mgl64.Vec3{0, c.lift * strength, 0}
	if away.Len() > 1e-9 {
		impulse = impulse.Add(away.Normalize().Mul(c.knockback * strength))
	}
	vel := c.velocity.Get(target)
	vel.Set(vel.Vec().Add(impulse))
}

// InstallModifier adds m to the target's knockback resistance.
// Returns false if the target has no Living component or already carries the modifier.
func (c *LivingCombat) InstallModifier(target ecs.Entity, m components.AttributeModifier) bool {
	if !c.living.Has(target) {
		return false
	}
	living := c.living.Get(target)
	if living.HasKnockbackModifier(m.ID) {
		return false
	}
	living.Knockback = append(living.Knockback, m)
	return true
}

// RemoveModifier removes the modifier with the given ID, if present.
func (c *LivingCombat) RemoveModifier(target ecs.Entity, id string) {
	if !c.living.Has(target) {
		return
	}
	living := c.living.Get(target)
	kept := living.Knockback[:0]
	for _, m := range living.Knockback {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	living.Knockback = kept
}
