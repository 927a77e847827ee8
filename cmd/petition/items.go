package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cppla/homelab/models"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List petition types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		var (
			items []models.Item
			err   error
		)
		if all {
			items, err = petitions.ListAllItems(cmd.Context())
		} else {
			items, err = petitions.ListActiveItems(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No petitions found. Use 'petition seed' to load some.")
			return nil
		}
		for _, item := range items {
			line := fmt.Sprintf("%3d  %-20s $%5s/sig  %2d sigs/book", item.ID, item.Name, item.PricePerSig.StringFixed(2), item.SigsPerBook)
			if !item.Active {
				line += color.New(color.Faint).Sprint("  (inactive)")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var itemsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a petition type between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		active, err := petitions.ToggleItemActive(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle item %d: %w", id, err)
		}
		state := "inactive"
		if active {
			state = "active"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s item %d is now %s\n", color.GreenString("✓"), id, state)
		return nil
	},
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func init() {
	itemsCmd.Flags().BoolP("all", "a", false, "include inactive petition types")
	itemsCmd.AddCommand(itemsToggleCmd)
	rootCmd.AddCommand(itemsCmd)
}
