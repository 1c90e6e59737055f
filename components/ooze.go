package components

// Family identifies which oozes may merge with each other.
// Values index config.Derived.FamilyIndex.
type Family uint8

// Variant is the spawn variant (blue, purple, ...). Values index config.Variants.
type Variant uint8

// Attributes are derived from an ooze's size and never set directly.
type Attributes struct {
	MovementSpeed float64
	MaxHealth     float64
	AttackPower   float64
}

// Ooze holds the per-creature state of a merging ooze.
type Ooze struct {
	Family          Family
	Variant         Variant
	Size            int32
	MassAccumulated float64 // volume of nearby objects, recomputed every tick
	Attributes      Attributes

	// Set once by spawn initialization
	FollowRange         float64 // base sensing range
	FollowRangeModifier float64 // persistent multiplicative bonus
	Mirrored            bool
	Initialized         bool

	// Oscillation state
	Squish       float64
	TargetSquish float64
	Airborne     bool    // left the ground with a hop and has not landed yet
	Phase        float64 // wobble phase in [0, 2*pi)
	Captured     int32   // absorbable targets held during the last tick

	// Pursuit
	Target       EntityRef
	HasTarget    bool
	JumpCooldown int32
}

// SensingRange returns the follow range with the spawn modifier applied.
func (o *Ooze) SensingRange() float64 {
	return o.FollowRange * (1 + o.FollowRangeModifier)
}
