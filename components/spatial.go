package components

import "github.com/go-gl/mathgl/mgl64"

// Position is an entity's world position: the bottom center of its bounding box.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// Set overwrites the position from a vector.
func (p *Position) Set(v mgl64.Vec3) {
	p.X, p.Y, p.Z = v[0], v[1], v[2]
}

// Velocity is an entity's velocity in world units per tick.
type Velocity struct {
	X, Y, Z float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Set overwrites the velocity from a vector.
func (v *Velocity) Set(u mgl64.Vec3) {
	v.X, v.Y, v.Z = u[0], u[1], u[2]
}
