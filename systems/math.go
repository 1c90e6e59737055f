package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// clamp clamps v to [minVal, maxVal].
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// wrapPhase wraps a phase to [0, 2*Pi).
func wrapPhase(p float64) float64 {
	const twoPi = 2 * math.Pi
	for p < 0 {
		p += twoPi
	}
	for p >= twoPi {
		p -= twoPi
	}
	return p
}

// horizontal drops the vertical component of v.
func horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// distanceSq returns the squared distance between two points.
func distanceSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
