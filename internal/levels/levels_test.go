package levels

import (
	"errors"
	"testing"
)

func TestOrder_TotalOrderNoTies(t *testing.T) {
	seen := make(map[int]string)
	for _, tier := range All() {
		if prev, dup := seen[tier.Order]; dup {
			t.Errorf("tiers %s and %s share order %d", prev, tier.Code, tier.Order)
		}
		seen[tier.Order] = tier.Code
	}
}

func TestOrder_UnknownTier(t *testing.T) {
	_, err := Order("Z9")
	if err == nil {
		t.Fatal("expected error for unknown tier")
	}
	var ute *UnknownTierError
	if !errors.As(err, &ute) {
		t.Errorf("error type = %T, want *UnknownTierError", err)
	}
	if ute.Code != "Z9" {
		t.Errorf("Code = %q, want Z9", ute.Code)
	}
}

func TestAccessibleTiers(t *testing.T) {
	tiers, err := AccessibleTiers("B1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A1", "A2", "B1"}
	if len(tiers) != len(want) {
		t.Fatalf("got %d tiers, want %d", len(tiers), len(want))
	}
	for i, code := range want {
		if tiers[i].Code != code {
			t.Errorf("tiers[%d] = %s, want %s", i, tiers[i].Code, code)
		}
	}
}

func TestRecommendedTiers_MiddleTier(t *testing.T) {
	tiers, err := RecommendedTiers("B2")
	if err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 2 {
		t.Fatalf("got %d tiers, want 2", len(tiers))
	}
	if tiers[0].Code != "B1" || tiers[1].Code != "B2" {
		t.Errorf("got %s, %s; want B1, B2", tiers[0].Code, tiers[1].Code)
	}
}

func TestRecommendedTiers_LowestTier(t *testing.T) {
	tiers, err := RecommendedTiers("A1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 1 || tiers[0].Code != "A1" {
		t.Errorf("got %v, want just A1", tiers)
	}
}

// Recommended tiers must always be a subset of accessible tiers.
func TestRecommendedSubsetOfAccessible(t *testing.T) {
	for _, tier := range All() {
		accessible, err := AccessibleTiers(tier.Code)
		if err != nil {
			t.Fatal(err)
		}
		accSet := make(map[string]bool, len(accessible))
		for _, a := range accessible {
			accSet[a.Code] = true
		}

		recommended, err := RecommendedTiers(tier.Code)
		if err != nil {
			t.Fatal(err)
		}
		if len(recommended) > 2 {
			t.Errorf("%s: %d recommended tiers, want at most 2", tier.Code, len(recommended))
		}
		for _, r := range recommended {
			if !accSet[r.Code] {
				t.Errorf("%s: recommended tier %s is not accessible", tier.Code, r.Code)
			}
		}
	}
}
