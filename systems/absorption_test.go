package systems

import (
	"testing"

	"github.com/pthm-cable/ooze/components"
)

func TestIsAbsorbable(t *testing.T) {
	normal := StaticRules{DisturbCreatures: true, Level: DifficultyNormal}
	easy := StaticRules{DisturbCreatures: true, Level: DifficultyEasy}
	peaceful := StaticRules{DisturbCreatures: true, Level: DifficultyPeaceful}
	undisturbed := StaticRules{DisturbCreatures: false, Level: DifficultyHard}

	tests := []struct {
		name  string
		c     Candidate
		rules StaticRules
		want  bool
	}{
		{"player", Candidate{Kind: components.KindPlayer}, normal, true},
		{"flying player", Candidate{Kind: components.KindPlayer, Flying: true}, normal, false},
		{"sneaking player", Candidate{Kind: components.KindPlayer, Sneaking: true}, normal, false},
		{"player ignores disturb rule", Candidate{Kind: components.KindPlayer}, undisturbed, true},
		{"creature", Candidate{Kind: components.KindCreature}, normal, true},
		{"creature without disturb rule", Candidate{Kind: components.KindCreature}, undisturbed, false},
		{"sneaking creature", Candidate{Kind: components.KindCreature, Sneaking: true}, normal, false},
		{"tamed on normal", Candidate{Kind: components.KindCreature, Tamed: true}, normal, true},
		{"tamed on easy", Candidate{Kind: components.KindCreature, Tamed: true}, easy, false},
		{"tamed on peaceful", Candidate{Kind: components.KindCreature, Tamed: true}, peaceful, true},
		{"tamed ignores disturb rule", Candidate{Kind: components.KindCreature, Tamed: true}, undisturbed, true},
		{"charge", Candidate{Kind: components.KindCharge}, undisturbed, true},
		{"charge cart", Candidate{Kind: components.KindChargeCart}, undisturbed, true},
		{"floating block", Candidate{Kind: components.KindFloatingBlock}, undisturbed, true},
		{"collidable cart", Candidate{Kind: components.KindChargeCart, Collidable: true}, normal, false},
		{"collidable creature", Candidate{Kind: components.KindCreature, Collidable: true}, normal, false},
		{"structure", Candidate{Kind: components.KindStructure}, normal, false},
		{"loose item", Candidate{Kind: components.KindItem}, normal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAbsorbable(tt.c, tt.rules); got != tt.want {
				t.Errorf("IsAbsorbable(%+v) = %v, want %v", tt.c, got, tt.want)
			}
			if got := (DefaultAbsorption{}).Absorbable(tt.c, tt.rules); got != tt.want {
				t.Errorf("DefaultAbsorption.Absorbable(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}
