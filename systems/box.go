package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/ooze/components"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max mgl64.Vec3
}

// BoxOf returns the bounding box of a body standing at pos.
func BoxOf(pos components.Position, body components.Body) Box {
	hw := body.Width / 2
	return Box{
		Min: mgl64.Vec3{pos.X - hw, pos.Y, pos.Z - hw},
		Max: mgl64.Vec3{pos.X + hw, pos.Y + body.Height, pos.Z + hw},
	}
}

// Expand grows the box by the given margins on every side.
func (b Box) Expand(x, y, z float64) Box {
	d := mgl64.Vec3{x, y, z}
	return Box{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Offset moves the box.
func (b Box) Offset(x, y, z float64) Box {
	d := mgl64.Vec3{x, y, z}
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Intersects reports whether two boxes overlap. Touching faces do not count.
func (b Box) Intersects(o Box) bool {
	return b.Min[0] < o.Max[0] && b.Max[0] > o.Min[0] &&
		b.Min[1] < o.Max[1] && b.Max[1] > o.Min[1] &&
		b.Min[2] < o.Max[2] && b.Max[2] > o.Min[2]
}

// Center returns the center point of the box.
func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the box side lengths.
func (b Box) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the product of the three extents.
func (b Box) Volume() float64 {
	e := b.Extents()
	return e[0] * e[1] * e[2]
}
