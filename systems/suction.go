package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	suctionBaseStiffness = 0.25
	suctionMassScale     = 100.0
	suctionRelaxation    = 0.45
	suctionSpeedPerSize  = 0.1
	suctionSpeedBase     = 0.25
	suctionMaxLift       = 0.25
)

// SuctionCoefficient returns the displacement stiffness for the given mass.
func SuctionCoefficient(mass float64) float64 {
	return clamp(suctionBaseStiffness+mass/suctionMassScale, 0, 1)
}

// SuctionLimit returns the horizontal speed cap for a candidate held by an ooze of this size.
func SuctionLimit(size int32) float64 {
	return float64(size)*suctionSpeedPerSize + suctionSpeedBase
}

// SuctionVelocity returns a candidate's velocity after one tick of being pulled
// toward an ooze. center and oozeVel describe the ooze; pos and vel the candidate.
// mass is floored at 1 before it divides anything.
func SuctionVelocity(center, oozeVel mgl64.Vec3, size int32, mass float64, pos, vel mgl64.Vec3) mgl64.Vec3 {
	size = ClampSize(size)
	divisor := math.Max(mass, 1)

	displacement := center.Sub(pos).Mul(SuctionCoefficient(mass))
	relaxation := oozeVel.Sub(vel).Mul(suctionRelaxation / divisor / float64(size))
	v := vel.Add(displacement).Add(relaxation)

	limit := SuctionLimit(size)
	return mgl64.Vec3{
		clamp(v[0], -limit, limit),
		math.Min(v[1], suctionMaxLift),
		clamp(v[2], -limit, limit),
	}
}
