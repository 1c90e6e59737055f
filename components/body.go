package components

// Body holds the physical shape of an entity.
// Width spans X and Z, Height spans Y, both centered on Position horizontally.
type Body struct {
	Width      float64
	Height     float64
	Collidable bool // solid shape other entities stand on or bump into (carts, boats, structures)
}

// Physics holds per-entity integration state.
type Physics struct {
	FallDistance float64 // accumulated downward travel since last touching ground
	OnGround     bool
	NoGravity    bool
}

// Passenger tracks whether an entity rides another one.
type Passenger struct {
	Vehicle EntityRef
	Riding  bool
}

// Charge is an explosive charge counting down to detonation.
type Charge struct {
	Fuse int32 // ticks remaining
}

// Item is a loose dropped item stack.
type Item struct {
	Kind  string
	Count int32
	Age   int32 // ticks since dropped
}
