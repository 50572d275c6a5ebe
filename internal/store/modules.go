package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/lingua/internal/catalog"
)

type moduleRow struct {
	ID         string `db:"id"`
	LevelTier  string `db:"level_tier"`
	Definition string `db:"definition"`
}

// SaveModule validates and stores a module definition as a JSON document.
func (s *Store) SaveModule(ctx context.Context, mod *catalog.ModuleDefinition) error {
	if err := mod.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(mod)
	if err != nil {
		return fmt.Errorf("marshal module %s: %w", mod.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO modules (id, level_tier, definition) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET level_tier = excluded.level_tier, definition = excluded.definition`,
		mod.ID, mod.LevelTier, string(doc))
	if err != nil {
		return fmt.Errorf("save module %s: %w", mod.ID, err)
	}
	return nil
}

// Module loads one module definition by ID.
func (s *Store) Module(ctx context.Context, id string) (*catalog.ModuleDefinition, error) {
	var row moduleRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM modules WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load module %s: %w", id, err)
	}
	return decodeModule(row)
}

// ListModules returns all stored module definitions.
func (s *Store) ListModules(ctx context.Context) ([]*catalog.ModuleDefinition, error) {
	var rows []moduleRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM modules ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	modules := make([]*catalog.ModuleDefinition, 0, len(rows))
	for _, row := range rows {
		mod, err := decodeModule(row)
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

func decodeModule(row moduleRow) (*catalog.ModuleDefinition, error) {
	var mod catalog.ModuleDefinition
	if err := json.Unmarshal([]byte(row.Definition), &mod); err != nil {
		return nil, fmt.Errorf("decode module %s: %w", row.ID, err)
	}
	return &mod, nil
}
