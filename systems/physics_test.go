package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
)

func TestPhysicsGravity(t *testing.T) {
	f := newFixture(t)
	c := f.creature(10, 5, 10)

	NewPhysicsSystem(f.w, f.cfg, f.combat).Update()

	wantVY := -f.cfg.Physics.Gravity * f.cfg.Physics.AirDrag
	if got := f.velocity.Get(c).Y; math.Abs(got-wantVY) > 1e-9 {
		t.Errorf("vel.Y = %v, want %v", got, wantVY)
	}
	if got := f.positions.Get(c).Y; math.Abs(got-(5+wantVY)) > 1e-9 {
		t.Errorf("pos.Y = %v, want %v", got, 5+wantVY)
	}
	if got := f.physics.Get(c).FallDistance; math.Abs(got+wantVY) > 1e-9 {
		t.Errorf("fall distance = %v, want %v", got, -wantVY)
	}
}

func TestPhysicsFallDamage(t *testing.T) {
	f := newFixture(t)
	c := f.creature(10, 0.05, 10)
	f.physics.Get(c).FallDistance = 10
	f.velocity.Get(c).Y = -1

	NewPhysicsSystem(f.w, f.cfg, f.combat).Update()

	phys := f.physics.Get(c)
	if !phys.OnGround || phys.FallDistance != 0 {
		t.Errorf("physics = %+v, want grounded with no fall distance", *phys)
	}
	want := 10 - (10 - f.cfg.Combat.SafeFallDistance)
	if got := f.living.Get(c).Health; math.Abs(got-want) > 1e-9 {
		t.Errorf("health = %v, want %v", got, want)
	}
}

func TestPhysicsFallDamageErrors(t *testing.T) {
	f := newFixture(t)
	var falling []ecs.Entity
	for _, x := range []float64{10, 20} {
		c := f.creature(x, 0.05, 10)
		f.physics.Get(c).FallDistance = 10
		f.velocity.Get(c).Y = -1
		falling = append(falling, c)
	}

	h := &failingHurter{err: errors.New("no health component")}
	NewPhysicsSystem(f.w, f.cfg, h).Update()

	if h.calls != 2 {
		t.Errorf("hurt attempts = %d, want 2", h.calls)
	}
	for _, c := range falling {
		if phys := f.physics.Get(c); !phys.OnGround || phys.FallDistance != 0 {
			t.Errorf("physics = %+v, want grounded with no fall distance", *phys)
		}
	}
}

func TestPhysicsRider(t *testing.T) {
	f := newFixture(t)
	o := f.ooze(0, 4, 10, 0, 10)
	stick := f.item("stick", 3, 0, 3)
	p := f.passengers.Get(stick)
	p.Vehicle, p.Riding = o, true

	sys := NewPhysicsSystem(f.w, f.cfg, f.combat)
	sys.Update()

	pos := f.positions.Get(stick)
	if pos.X != 10 || pos.Z != 10 || math.Abs(pos.Y-f.bodies.Get(o).Height) > 1e-9 {
		t.Errorf("rider at %+v, want on top of the ooze", *pos)
	}

	f.life.Get(o).MarkRemoved(components.RemovedMerged)
	sys.Update()
	if f.passengers.Get(stick).Riding {
		t.Error("rider still attached to a removed vehicle")
	}
}

func TestPhysicsRemovals(t *testing.T) {
	f := newFixture(t)
	old := f.item("feather", 10, 0, 10)
	f.items.Get(old).Age = int32(f.cfg.Items.DespawnAge)
	fresh := f.item("feather", 20, 0, 20)
	block := f.spawn(components.KindFloatingBlock, 30, 0.05, 30, 1, 1)

	NewPhysicsSystem(f.w, f.cfg, f.combat).Update()

	if l := f.life.Get(old); !l.Removed || l.Reason != components.RemovedDespawned {
		t.Errorf("old item life = %+v, want despawned", *l)
	}
	if f.life.Get(fresh).Removed {
		t.Error("fresh item despawned")
	}
	if l := f.life.Get(block); !l.Removed || l.Reason != components.RemovedPlaced {
		t.Errorf("block life = %+v, want placed", *l)
	}
}

func TestPhysicsBounds(t *testing.T) {
	f := newFixture(t)
	c := f.creature(-5, 0, f.cfg.World.Depth+5)

	NewPhysicsSystem(f.w, f.cfg, f.combat).Update()

	pos := f.positions.Get(c)
	hw := f.bodies.Get(c).Width / 2
	if pos.X != hw || pos.Z != f.cfg.World.Depth-hw {
		t.Errorf("pos = %+v, want clamped inside the world", *pos)
	}
}

func TestPhysicsHurtCooldown(t *testing.T) {
	f := newFixture(t)
	c := f.creature(10, 0, 10)
	f.living.Get(c).HurtCooldown = 2

	NewPhysicsSystem(f.w, f.cfg, f.combat).Update()

	if got := f.living.Get(c).HurtCooldown; got != 1 {
		t.Errorf("hurt cooldown = %d, want 1", got)
	}
}
