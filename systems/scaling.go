package systems

import (
	"math"

	"github.com/pthm-cable/ooze/components"
)

// Rescale derives an ooze's attributes from its size. Size is clamped first.
func Rescale(size int32) components.Attributes {
	s := float64(ClampSize(size))
	root := math.Sqrt(s)
	return components.Attributes{
		MovementSpeed: 0.2*root + 0.1,
		MaxHealth:     12*root + 1,
		AttackPower:   0.25*s + root,
	}
}

// Dimension returns the width and height of an ooze of the given size.
func Dimension(base, scale float64, size int32) float64 {
	return base * scale * float64(ClampSize(size))
}
