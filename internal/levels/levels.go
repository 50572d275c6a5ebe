// Package levels defines the static CEFR proficiency hierarchy.
// The table is read-only and initialized once at process start.
package levels

import (
	"fmt"
	"slices"
	"sort"
)

// Tier is a single proficiency level in the CEFR hierarchy.
type Tier struct {
	Code        string
	Order       int // strictly increasing with proficiency, no ties
	DisplayName string
}

// UnknownTierError indicates a tier code that is not in the hierarchy.
type UnknownTierError struct {
	Code string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown proficiency tier: %q", e.Code)
}

// table holds the tier hierarchy with a precomputed code index.
type table struct {
	tiers  []Tier
	byCode map[string]*Tier
}

// t is the package-level table singleton, set by init().
var t *table

func buildTable(tiers []Tier) *table {
	tb := &table{
		tiers:  tiers,
		byCode: make(map[string]*Tier, len(tiers)),
	}
	sort.Slice(tb.tiers, func(i, j int) bool {
		return tb.tiers[i].Order < tb.tiers[j].Order
	})
	for i := range tb.tiers {
		tb.byCode[tb.tiers[i].Code] = &tb.tiers[i]
	}
	return tb
}

// Get returns the tier for a code, or UnknownTierError if not registered.
func Get(code string) (Tier, error) {
	tier, ok := t.byCode[code]
	if !ok {
		return Tier{}, &UnknownTierError{Code: code}
	}
	return *tier, nil
}

// Order returns the integer rank of a tier code.
func Order(code string) (int, error) {
	tier, err := Get(code)
	if err != nil {
		return 0, err
	}
	return tier.Order, nil
}

// All returns every tier in ascending proficiency order.
func All() []Tier {
	return slices.Clone(t.tiers)
}

// AccessibleTiers returns all tiers at or below the student's tier,
// in ascending proficiency order.
func AccessibleTiers(studentTier string) ([]Tier, error) {
	rank, err := Order(studentTier)
	if err != nil {
		return nil, err
	}
	var result []Tier
	for _, tier := range t.tiers {
		if tier.Order <= rank {
			result = append(result, tier)
		}
	}
	return result, nil
}

// RecommendedTiers returns the student's own tier plus the tier immediately
// below it, if one exists. Never more than two tiers, never a tier above.
func RecommendedTiers(studentTier string) ([]Tier, error) {
	own, err := Get(studentTier)
	if err != nil {
		return nil, err
	}
	var result []Tier
	idx := slices.IndexFunc(t.tiers, func(tier Tier) bool { return tier.Code == own.Code })
	if idx > 0 {
		result = append(result, t.tiers[idx-1])
	}
	result = append(result, own)
	return result, nil
}
