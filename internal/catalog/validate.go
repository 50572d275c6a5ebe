package catalog

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/levels"
)

// Validate checks the module's structural invariants.
func (m *ModuleDefinition) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("module has no ID")
	}
	if _, err := levels.Get(m.LevelTier); err != nil {
		return fmt.Errorf("module %s: %w", m.ID, err)
	}
	if m.EstimatedDurationMinutes <= 0 {
		return fmt.Errorf("module %s: estimated duration must be positive, got %d",
			m.ID, m.EstimatedDurationMinutes)
	}

	seen := make(map[string]bool, len(m.Vocabulary))
	for _, v := range m.Vocabulary {
		term := strings.ToLower(strings.TrimSpace(v.Term))
		if term == "" {
			return fmt.Errorf("module %s: empty vocabulary term", m.ID)
		}
		if seen[term] {
			return fmt.Errorf("module %s: duplicate vocabulary term %q", m.ID, v.Term)
		}
		seen[term] = true
	}

	ids := make(map[string]bool, len(m.Exercises))
	for _, e := range m.Exercises {
		if e.ID == "" {
			return fmt.Errorf("module %s: exercise with empty ID", m.ID)
		}
		if ids[e.ID] {
			return fmt.Errorf("module %s: duplicate exercise ID %q", m.ID, e.ID)
		}
		ids[e.ID] = true
		if e.PointValue <= 0 {
			return fmt.Errorf("module %s: exercise %s point value must be positive", m.ID, e.ID)
		}
	}

	if m.RolePlay != nil {
		return m.validateRolePlay()
	}
	return nil
}

func (m *ModuleDefinition) validateRolePlay() error {
	rp := m.RolePlay
	switch {
	case strings.TrimSpace(rp.Situation) == "":
		return fmt.Errorf("module %s: role-play situation is empty", m.ID)
	case strings.TrimSpace(rp.StudentRole) == "":
		return fmt.Errorf("module %s: role-play student role is empty", m.ID)
	case strings.TrimSpace(rp.AIRole) == "":
		return fmt.Errorf("module %s: role-play AI role is empty", m.ID)
	case strings.TrimSpace(rp.Objective) == "":
		return fmt.Errorf("module %s: role-play objective is empty", m.ID)
	}
	return nil
}
