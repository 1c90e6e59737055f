package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/ooze/components"
)

func TestFeed(t *testing.T) {
	tests := []struct {
		name      string
		item      string
		count     int32
		creative  bool
		wantFed   bool
		wantSize  int32
		wantCount int32
	}{
		{"growth item", "aether_berry", 3, false, true, 5, 2},
		{"last item", "ooze_ball", 1, false, true, 5, 0},
		{"creative keeps stack", "aether_berry", 3, true, true, 5, 3},
		{"not a growth item", "stick", 3, false, false, 4, 3},
		{"empty hand", "", 0, false, false, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			o := f.ooze(0, 4, 10, 0, 10)
			f.living.Get(o).Health = 1
			p := f.player(11, 0, 10)
			*f.hands.Get(p) = handOf(tt.item, tt.count)
			f.living.Get(p).Creative = tt.creative
			f.grid.Rebuild()

			sys := NewFeedingSystem(f.w, f.cfg, f.grid, f.sizes, rand.New(rand.NewPCG(1, 1)))
			if got := sys.Feed(p, o); got != tt.wantFed {
				t.Fatalf("Feed = %v, want %v", got, tt.wantFed)
			}
			if got := f.oozes.Get(o).Size; got != tt.wantSize {
				t.Errorf("size = %d, want %d", got, tt.wantSize)
			}
			if got := f.hands.Get(p).Count; got != tt.wantCount {
				t.Errorf("count = %d, want %d", got, tt.wantCount)
			}
			if tt.wantFed {
				l := f.living.Get(o)
				if math.Abs(l.Health-l.MaxHealth) > 1e-9 {
					t.Errorf("health = %v, want healed to %v", l.Health, l.MaxHealth)
				}
			}
			if tt.wantCount == 0 && tt.wantFed && f.hands.Get(p).Item != "" {
				t.Error("empty hand still names an item")
			}
		})
	}
}

func TestFeedingUpdate(t *testing.T) {
	f := newFixture(t)
	o := f.ooze(0, 4, 10, 0, 10)
	p := f.player(11.5, 0, 10)
	*f.hands.Get(p) = handOf("aether_berry", 1)
	f.grid.Rebuild()

	cfg := *f.cfg
	cfg.Combat.FeedChance = 1
	sys := NewFeedingSystem(f.w, &cfg, f.grid, f.sizes, rand.New(rand.NewPCG(1, 1)))
	if fed := sys.Update(); fed != 1 {
		t.Fatalf("fed = %d, want 1", fed)
	}
	if f.oozes.Get(o).Size != 5 {
		t.Errorf("size = %d, want 5", f.oozes.Get(o).Size)
	}
	if fed := sys.Update(); fed != 0 {
		t.Errorf("second update fed %d with an empty hand", fed)
	}
}

func handOf(item string, count int32) components.Hand {
	return components.Hand{Item: item, Count: count}
}
