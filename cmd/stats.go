package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-student session statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.StatsByStudent(cmd.Context())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STUDENT\tSESSIONS\tCOMPLETED\tABANDONED\tAVG SCORE")
		for _, st := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\n",
				st.StudentID, st.Sessions, st.Completed, st.Abandoned, st.AvgScore)
		}
		return w.Flush()
	},
}
