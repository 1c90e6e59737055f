package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// AccumulateMass sums the volume of every entity overlapping self's box grown by
// margin on every side. The result is always >= 0. scratch is reused and returned.
func AccumulateMass(q SpatialQuery, self ecs.Entity, box Box, margin float64, scratch []Overlap) (float64, []Overlap) {
	scratch = q.OverlappingInto(scratch[:0], box.Expand(margin, margin, margin), self)
	mass := 0.0
	for _, o := range scratch {
		mass += o.Box.Volume()
	}
	return mass, scratch
}
