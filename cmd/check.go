package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/scoring"
)

// checkCmd rescores every student/module pair from stored progress records,
// outside any live session. Role-play modules therefore take the
// exercise-only fallback path.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Batch-score all students against all modules from stored progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		students, err := s.ListStudents(ctx)
		if err != nil {
			return err
		}
		modules, err := s.ListModules(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STUDENT\tMODULE\tSTRATEGY\tSCORE\tCOMPLETED")
		for _, st := range students {
			for _, mod := range modules {
				snap, err := s.Progress(ctx, st.ID, mod.ID)
				if err != nil {
					return fmt.Errorf("progress for %s/%s: %w", st.ID, mod.ID, err)
				}
				b := scoring.Score(mod, nil, snap)
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%v\n",
					st.ID, mod.ID, b.Strategy, b.CompletionScore, b.IsCompleted)
			}
		}
		return w.Flush()
	},
}
