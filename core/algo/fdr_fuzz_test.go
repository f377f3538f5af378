package algo

import (
	"math"
	"testing"

	"github.com/huangsam/fdr/schema"
)

// FuzzScoreToTier checks that any combined score lands on the 1..5 ladder.
func FuzzScoreToTier(f *testing.F) {
	for _, seed := range []float64{-10, 0, 0.5, 1.0, 1.5, 2.0, 42} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, combined float64) {
		tier := ScoreToTier(combined)
		if tier < schema.MinTier || tier > schema.MaxTier {
			t.Fatalf("ScoreToTier(%v) = %d, out of range", combined, tier)
		}
	})
}

// FuzzCalculateFDR fuzzes both per-fixture calculations with arbitrary xG inputs.
func FuzzCalculateFDR(f *testing.F) {
	f.Add(1.8, 1.3, true)
	f.Add(0.0, schema.PromotedXGConceded, false)
	f.Add(-3.0, 9.0, true)

	f.Fuzz(func(t *testing.T, xgFor, xgConceded float64, isHome bool) {
		if math.IsNaN(xgFor) || math.IsNaN(xgConceded) {
			t.Skip()
		}
		attack := CalculateAttackFDR(xgFor, xgConceded, isHome)
		defence := CalculateDefenceFDR(xgConceded, xgFor, isHome)
		if attack < schema.MinTier || attack > schema.MaxTier {
			t.Fatalf("attack tier %d out of range", attack)
		}
		if defence < schema.MinTier || defence > schema.MaxTier {
			t.Fatalf("defence tier %d out of range", defence)
		}
	})
}
