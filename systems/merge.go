package systems

import (
	"math"

	"github.com/pthm-cable/ooze/components"
)

// Hard size bounds for an ooze.
const (
	MinSize int32 = 1
	MaxSize int32 = 127
)

// ClampSize clamps size to [MinSize, MaxSize].
func ClampSize(size int32) int32 {
	if size < MinSize {
		return MinSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// MergedSize combines two sizes by quadrature: ceil(sqrt(a^2 + b^2)), clamped.
func MergedSize(a, b int32) int32 {
	fa, fb := float64(a), float64(b)
	return ClampSize(int32(math.Ceil(math.Sqrt(fa*fa + fb*fb))))
}

// Contender is one side of a merge.
type Contender struct {
	ID      uint32
	Size    int32
	Family  components.Family
	Removed bool
}

// MergeEngine resolves a collision between two oozes.
type MergeEngine interface {
	// Resolve reports whether a and b merge, which of them survives (0 for a, 1 for b)
	// and the survivor's new size.
	Resolve(a, b Contender) (survivor int, size int32, ok bool)
}

// QuadratureMerge merges same-family oozes by the quadrature rule.
// The larger ooze survives; equal sizes go to the lower ID.
type QuadratureMerge struct{}

// Resolve implements MergeEngine.
func (QuadratureMerge) Resolve(a, b Contender) (int, int32, bool) {
	if a.Removed || b.Removed || a.Family != b.Family || a.ID == b.ID {
		return 0, 0, false
	}
	size := MergedSize(a.Size, b.Size)
	if a.Size > b.Size || (a.Size == b.Size && a.ID < b.ID) {
		return 0, size, true
	}
	return 1, size, true
}
