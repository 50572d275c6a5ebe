package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import <module.json>...",
	Short: "Import authored module definitions",
	Long:  "Validates module JSON documents against the module schema and stores them.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			mod, err := catalog.ParseModule(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := s.SaveModule(cmd.Context(), mod); err != nil {
				return err
			}
			fmt.Printf("imported %s (%s, tier %s)\n", mod.ID, path, mod.LevelTier)
		}
		return nil
	},
}
