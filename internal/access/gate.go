// Package access gates which modules a student may attempt, based on the
// proficiency hierarchy in the levels package.
package access

import (
	"fmt"

	"github.com/abhisek/lingua/internal/catalog"
	"github.com/abhisek/lingua/internal/levels"
)

// AccessDeniedError indicates a student tried to start a module above their tier.
type AccessDeniedError struct {
	StudentTier string
	ModuleTier  string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: module tier %s is above student tier %s",
		e.ModuleTier, e.StudentTier)
}

// CanAccess reports whether a student at studentTier may attempt a module at
// moduleTier. Unknown tiers fail closed: an unrecognized tier never grants access.
func CanAccess(studentTier, moduleTier string) bool {
	studentRank, err := levels.Order(studentTier)
	if err != nil {
		return false
	}
	moduleRank, err := levels.Order(moduleTier)
	if err != nil {
		return false
	}
	return moduleRank <= studentRank
}

// Check returns an AccessDeniedError if the student may not attempt the module.
func Check(studentTier, moduleTier string) error {
	if !CanAccess(studentTier, moduleTier) {
		return &AccessDeniedError{StudentTier: studentTier, ModuleTier: moduleTier}
	}
	return nil
}

// ModuleAccess is a module the student may attempt, flagged as recommended
// (at or one below the student's tier) versus review (strictly lower).
type ModuleAccess struct {
	Module      *catalog.ModuleDefinition
	Recommended bool
}

// FilterAccessible returns the accessible subset of modules for a student,
// each flagged recommended or review. Modules with unrecognized tiers are
// excluded (fail closed).
func FilterAccessible(studentTier string, modules []*catalog.ModuleDefinition) []ModuleAccess {
	recommended := make(map[string]bool, 2)
	if tiers, err := levels.RecommendedTiers(studentTier); err == nil {
		for _, tier := range tiers {
			recommended[tier.Code] = true
		}
	}

	var result []ModuleAccess
	for _, m := range modules {
		if !CanAccess(studentTier, m.LevelTier) {
			continue
		}
		result = append(result, ModuleAccess{
			Module:      m,
			Recommended: recommended[m.LevelTier],
		})
	}
	return result
}
