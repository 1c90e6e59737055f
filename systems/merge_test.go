package systems

import (
	"math"
	"testing"
)

func TestMergedSize(t *testing.T) {
	tests := []struct {
		a, b int32
		want int32
	}{
		{3, 4, 5},
		{1, 1, 2},
		{2, 2, 3},
		{4, 3, 5},
		{5, 12, 13},
		{100, 100, 127},
		{127, 127, 127},
		{127, 1, 127},
	}
	for _, tt := range tests {
		if got := MergedSize(tt.a, tt.b); got != tt.want {
			t.Errorf("MergedSize(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMergedSizeAllPairs(t *testing.T) {
	for a := MinSize; a <= MaxSize; a++ {
		for b := MinSize; b <= MaxSize; b++ {
			want := int32(math.Ceil(math.Sqrt(float64(a*a + b*b))))
			if want > MaxSize {
				want = MaxSize
			}
			got := MergedSize(a, b)
			if got != want {
				t.Fatalf("MergedSize(%d, %d) = %d, want %d", a, b, got, want)
			}
			if got < a || got < b {
				t.Fatalf("MergedSize(%d, %d) = %d shrank a contender", a, b, got)
			}
		}
	}
}

func TestQuadratureMergeResolve(t *testing.T) {
	tests := []struct {
		name         string
		a, b         Contender
		wantOK       bool
		wantSurvivor int
		wantSize     int32
	}{
		{
			name:         "larger a survives",
			a:            Contender{ID: 5, Size: 4},
			b:            Contender{ID: 1, Size: 3},
			wantOK:       true,
			wantSurvivor: 0,
			wantSize:     5,
		},
		{
			name:         "larger b survives",
			a:            Contender{ID: 1, Size: 3},
			b:            Contender{ID: 5, Size: 4},
			wantOK:       true,
			wantSurvivor: 1,
			wantSize:     5,
		},
		{
			name:         "tie goes to lower id",
			a:            Contender{ID: 9, Size: 3},
			b:            Contender{ID: 2, Size: 3},
			wantOK:       true,
			wantSurvivor: 1,
			wantSize:     5,
		},
		{
			name: "removed contender",
			a:    Contender{ID: 1, Size: 3},
			b:    Contender{ID: 2, Size: 3, Removed: true},
		},
		{
			name: "different family",
			a:    Contender{ID: 1, Size: 3, Family: 0},
			b:    Contender{ID: 2, Size: 3, Family: 1},
		},
		{
			name: "self",
			a:    Contender{ID: 1, Size: 3},
			b:    Contender{ID: 1, Size: 3},
		},
	}

	var engine QuadratureMerge
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survivor, size, ok := engine.Resolve(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if survivor != tt.wantSurvivor || size != tt.wantSize {
				t.Errorf("Resolve = (%d, %d), want (%d, %d)", survivor, size, tt.wantSurvivor, tt.wantSize)
			}
		})
	}
}

func TestQuadratureMergeSymmetric(t *testing.T) {
	var engine QuadratureMerge
	a := Contender{ID: 3, Size: 6}
	b := Contender{ID: 4, Size: 6}
	s1, size1, _ := engine.Resolve(a, b)
	s2, size2, _ := engine.Resolve(b, a)
	if size1 != size2 {
		t.Errorf("sizes differ by order: %d vs %d", size1, size2)
	}
	// The same contender must win regardless of argument order.
	if s1 != 0 || s2 != 1 {
		t.Errorf("survivor depends on order: %d, %d", s1, s2)
	}
}
