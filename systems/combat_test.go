package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/ooze/components"
)

func TestLivingCombatApplyDamage(t *testing.T) {
	f := newFixture(t)
	o := f.ooze(0, 4, 10, 0, 10)
	p := f.player(11, 0, 10)

	if err := f.combat.ApplyDamage(p, o); err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}
	living := f.living.Get(p)
	if want := 20 - Rescale(4).AttackPower; math.Abs(living.Health-want) > 1e-9 {
		t.Errorf("health = %v, want %v", living.Health, want)
	}
	if living.HurtCooldown != int32(f.cfg.Combat.InvulnerableTicks) {
		t.Errorf("hurt cooldown = %d, want %d", living.HurtCooldown, f.cfg.Combat.InvulnerableTicks)
	}

	vel := f.velocity.Get(p)
	if vel.X <= 0 {
		t.Errorf("knockback X = %v, want pushed away (+X)", vel.X)
	}
	if vel.Y <= 0 {
		t.Errorf("knockback Y = %v, want lift", vel.Y)
	}

	if err := f.combat.ApplyDamage(p, o); !errors.Is(err, ErrInvulnerable) {
		t.Errorf("second hit err = %v, want ErrInvulnerable", err)
	}
}

func TestLivingCombatErrors(t *testing.T) {
	f := newFixture(t)
	tiny := f.ooze(0, 1, 10, 0, 10)
	p := f.player(10, 0, 10)
	block := f.spawn(components.KindFloatingBlock, 10, 0, 10, 1, 1)

	if err := f.combat.ApplyDamage(p, tiny); !errors.Is(err, ErrTooSmall) {
		t.Errorf("size-1 attacker err = %v, want ErrTooSmall", err)
	}
	if err := f.combat.ApplyDamage(p, block); !errors.Is(err, ErrNotAttacker) {
		t.Errorf("block attacker err = %v, want ErrNotAttacker", err)
	}
	if err := f.combat.Hurt(block, p, 5); !errors.Is(err, ErrNotLiving) {
		t.Errorf("hurt block err = %v, want ErrNotLiving", err)
	}

	f.living.Get(p).Creative = true
	if err := f.combat.Hurt(p, p, 5); !errors.Is(err, ErrInvulnerable) {
		t.Errorf("creative err = %v, want ErrInvulnerable", err)
	}
}

func TestLivingCombatKills(t *testing.T) {
	f := newFixture(t)
	c := f.creature(10, 0, 10)

	if err := f.combat.Hurt(c, c, 50); err != nil {
		t.Fatal(err)
	}
	life := f.life.Get(c)
	if !life.Removed || life.Reason != components.RemovedKilled {
		t.Errorf("life = %+v, want killed", *life)
	}
	if err := f.combat.Hurt(c, c, 1); !errors.Is(err, ErrNotLiving) {
		t.Errorf("hurting a removed entity err = %v, want ErrNotLiving", err)
	}
}

func TestLivingCombatModifiers(t *testing.T) {
	f := newFixture(t)
	p := f.player(10, 0, 10)

	if !f.combat.InstallModifier(p, AbsorbKnockbackModifier) {
		t.Fatal("InstallModifier returned false")
	}
	if f.combat.InstallModifier(p, AbsorbKnockbackModifier) {
		t.Error("duplicate install should be refused")
	}
	if got := f.living.Get(p).KnockbackResistance(); got != 1 {
		t.Errorf("resistance = %v, want 1", got)
	}
	f.combat.RemoveModifier(p, AbsorbKnockbackModifier.ID)
	if got := f.living.Get(p).KnockbackResistance(); got != 0 {
		t.Errorf("resistance after removal = %v, want 0", got)
	}
}
