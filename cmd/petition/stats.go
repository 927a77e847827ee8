package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show earnings totals and the per-petition rollup",
	Long:  "Totals and rollups count only real entries; drafts are left out.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := petitions.Totals(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute totals: %w", err)
		}
		byItem, err := petitions.StatsByItem(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute rollup: %w", err)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		bold.Fprintln(out, "Totals")
		fmt.Fprintf(out, "  entries:    %d\n", totals.TotalEntries)
		fmt.Fprintf(out, "  signatures: %d\n", totals.TotalSigs)
		fmt.Fprintf(out, "  earnings:   $%s\n", totals.TotalEarnings.StringFixed(2))

		if len(byItem) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		bold.Fprintln(out, "By petition")
		for _, s := range byItem {
			fmt.Fprintf(out, "  %-20s %4d entries %6d sigs  $%9s\n",
				s.Name, s.EntryCount, s.TotalSigs, s.TotalEarnings.StringFixed(2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
