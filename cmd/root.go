package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "Adaptive language-tutoring progress engine",
	Long:  "Lingua — session tracking, completion scoring, and CEFR access gating for AI language tutoring.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUA_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LINGUA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
