package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/access"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules a student may attempt",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		studentID, _ := cmd.Flags().GetString("student")
		tier, err := s.StudentTier(ctx, studentID)
		if err != nil {
			return err
		}
		all, err := s.ListModules(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODULE\tTIER\tKIND\tSTATUS")
		for _, ma := range access.FilterAccessible(tier, all) {
			kind := "standard"
			if ma.Module.IsRolePlay() {
				kind = "role-play"
			}
			status := "review"
			if ma.Recommended {
				status = "recommended"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ma.Module.ID, ma.Module.LevelTier, kind, status)
		}
		return w.Flush()
	},
}

func init() {
	modulesCmd.Flags().String("student", "", "Student ID")
	modulesCmd.MarkFlagRequired("student")
}
