// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind is the closed set of entity categories the simulation knows about.
type Kind uint8

const (
	KindOoze          Kind = iota // merge-capable ooze creature
	KindPlayer                    // player-controlled living being
	KindCreature                  // any other living being (mobs, companions, armor stands)
	KindCharge                    // primed explosive charge
	KindChargeCart                // explosive charge mounted on a cart
	KindFloatingBlock             // structural block that fell or was lifted free
	KindItem                      // loose dropped item
	KindStructure                 // anything else physical; never absorbed
)

// EntityRef is a handle to another entity stored inside a component.
type EntityRef = ecs.Entity

// Identity holds the stable identifier and category of an entity.
// IDs are assigned by the factory in creation order and never reused.
type Identity struct {
	ID   uint32
	Kind Kind
}

// RemovalReason records why an entity left the world.
type RemovalReason uint8

const (
	RemovedNone RemovalReason = iota
	RemovedMerged
	RemovedConsumed
	RemovedKilled
	RemovedExploded
	RemovedPlaced
	RemovedDespawned
)

// Life is the tombstone every entity carries.
// Removed is set exactly once; cleanup deletes the entity after the tick.
type Life struct {
	Removed bool
	Reason  RemovalReason
}

// MarkRemoved tombstones the entity. Returns false if it was already removed.
func (l *Life) MarkRemoved(reason RemovalReason) bool {
	if l.Removed {
		return false
	}
	l.Removed = true
	l.Reason = reason
	return true
}
