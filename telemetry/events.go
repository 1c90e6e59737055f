// Package telemetry provides population tracking, bookmarking, and snapshots.
package telemetry

import "github.com/pthm-cable/ooze/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventMerge
	EventSeed
	EventFeed
	EventCapture
	EventDamage
	EventKill
	EventDetonation
	EventRemoval
)

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind

	// Optional fields depending on event type
	TargetID uint32                   // loser, item, victim or captured entity
	Size     int32                    // size after the event (spawn, merge, seed, feed)
	Amount   float64                  // damage dealt
	Variant  components.Variant       // spawn only
	Reason   components.RemovalReason // removal only
}

// NewSpawnEvent creates an event for a freshly spawned entity.
func NewSpawnEvent(tick int32, id uint32, kind components.Kind, variant components.Variant, size int32) Event {
	return Event{
		Type:     EventSpawn,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Variant:  variant,
		Size:     size,
	}
}

// NewMergeEvent creates an event for one ooze absorbing a sibling.
func NewMergeEvent(tick int32, survivorID, loserID uint32, size int32) Event {
	return Event{
		Type:     EventMerge,
		Tick:     tick,
		EntityID: survivorID,
		Kind:     components.KindOoze,
		TargetID: loserID,
		Size:     size,
	}
}

// NewSeedEvent creates an event for an ooze consuming a seed item.
func NewSeedEvent(tick int32, oozeID, itemID uint32, size int32) Event {
	return Event{
		Type:     EventSeed,
		Tick:     tick,
		EntityID: oozeID,
		Kind:     components.KindOoze,
		TargetID: itemID,
		Size:     size,
	}
}

// NewFeedEvent creates an event for a player feeding an ooze.
func NewFeedEvent(tick int32, oozeID, playerID uint32, size int32) Event {
	return Event{
		Type:     EventFeed,
		Tick:     tick,
		EntityID: oozeID,
		Kind:     components.KindOoze,
		TargetID: playerID,
		Size:     size,
	}
}

// NewCaptureEvent creates an event for suction pulling in a target.
func NewCaptureEvent(tick int32, oozeID, targetID uint32) Event {
	return Event{
		Type:     EventCapture,
		Tick:     tick,
		EntityID: oozeID,
		Kind:     components.KindOoze,
		TargetID: targetID,
	}
}

// NewDamageEvent creates a damage event. Source kind is whatever dealt the damage.
func NewDamageEvent(tick int32, sourceID uint32, sourceKind components.Kind, targetID uint32, amount float64) Event {
	return Event{
		Type:     EventDamage,
		Tick:     tick,
		EntityID: sourceID,
		Kind:     sourceKind,
		TargetID: targetID,
		Amount:   amount,
	}
}

// NewKillEvent creates a kill event (target died from damage).
func NewKillEvent(tick int32, sourceID uint32, sourceKind components.Kind, targetID uint32) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		EntityID: sourceID,
		Kind:     sourceKind,
		TargetID: targetID,
	}
}

// NewDetonationEvent creates an event for a charge going off.
func NewDetonationEvent(tick int32, chargeID uint32, kind components.Kind) Event {
	return Event{
		Type:     EventDetonation,
		Tick:     tick,
		EntityID: chargeID,
		Kind:     kind,
	}
}

// NewRemovalEvent creates an event for an entity deleted at cleanup.
func NewRemovalEvent(tick int32, id uint32, kind components.Kind, reason components.RemovalReason) Event {
	return Event{
		Type:     EventRemoval,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Reason:   reason,
	}
}
