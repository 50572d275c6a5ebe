package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/config"
)

// sweepCmd is the one-shot counterpart of the in-process sweeper: it works
// against stored records, so it also cleans up sessions orphaned by a crashed
// process.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark stale active sessions abandoned",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		olderThan, err := cmd.Flags().GetDuration("older-than")
		if err != nil {
			return err
		}
		if olderThan == 0 {
			olderThan = cfg.AbandonAfter
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		now := time.Now()
		stale, err := s.StaleActiveSessions(ctx, now.Add(-olderThan))
		if err != nil {
			return err
		}
		for _, id := range stale {
			if err := s.AbandonSession(ctx, id, now); err != nil {
				return err
			}
		}
		fmt.Printf("abandoned %d stale session(s)\n", len(stale))
		return nil
	},
}

func init() {
	sweepCmd.Flags().Duration("older-than", 0, "Idle threshold (defaults to LINGUA_ABANDON_AFTER)")
}
