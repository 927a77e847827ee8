package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cppla/homelab/models"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List logged entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			entries []models.EntryView
			err     error
		)
		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			date, perr := models.ParseDate(dateStr)
			if perr != nil {
				return fmt.Errorf("invalid date (use YYYY-MM-DD): %w", perr)
			}
			entries, err = petitions.ListEntriesOn(cmd.Context(), date)
		} else {
			entries, err = petitions.ListEntries(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries logged.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintln(out, formatEntry(e))
		}
		return nil
	},
}

var entriesAddCmd = &cobra.Command{
	Use:   "add --item <id> --books <n>",
	Short: "Log an entry",
	Long: `Log books and signatures for one petition on one day.
Signatures default to books times the petition's signatures per book.

Examples:
  petition entries add --item 3 --books 2
  petition entries add --item 3 --books 2 --sigs 17 --date 2024-01-01 --draft`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		itemID, _ := flags.GetUint("item")
		books, _ := flags.GetInt("books")
		sigs, _ := flags.GetInt("sigs")
		draft, _ := flags.GetBool("draft")
		dateStr, _ := flags.GetString("date")

		if books < 0 {
			return fmt.Errorf("books must not be negative")
		}
		date := models.Today()
		if dateStr != "" {
			d, err := models.ParseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid date (use YYYY-MM-DD): %w", err)
			}
			date = d
		}

		item, err := petitions.GetItem(cmd.Context(), itemID)
		if err != nil {
			return fmt.Errorf("failed to load item %d: %w", itemID, err)
		}
		if !flags.Changed("sigs") {
			sigs = item.ExpectedSignatures(books)
		} else if sigs < 0 {
			return fmt.Errorf("signatures must not be negative")
		}

		entry := &models.Entry{Date: date, ItemID: item.ID, Books: books, Signatures: sigs, IsDraft: draft}
		id, err := petitions.CreateEntry(cmd.Context(), entry)
		if err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}

		suffix := ""
		if draft {
			suffix = " (DRAFT)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Added #%d: %s - %d books, %d sigs%s\n",
			color.GreenString("✓"), id, item.Name, books, sigs, suffix)
		return nil
	},
}

var entriesUpdateCmd = &cobra.Command{
	Use:   "update <id> --books <n> --sigs <n>",
	Short: "Overwrite an entry's counts and draft flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		books, _ := flags.GetInt("books")
		sigs, _ := flags.GetInt("sigs")
		draft, _ := flags.GetBool("draft")
		if books < 0 || sigs < 0 {
			return fmt.Errorf("books and signatures must not be negative")
		}

		if err := petitions.UpdateEntry(cmd.Context(), id, books, sigs, draft); err != nil {
			return fmt.Errorf("failed to update entry %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Updated #%d\n", color.GreenString("✓"), id)
		return nil
	},
}

var entriesDraftCmd = &cobra.Command{
	Use:   "draft <id>",
	Short: "Flip an entry between draft and real",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		draft, err := petitions.ToggleEntryDraft(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle entry %d: %w", id, err)
		}
		status := "REAL"
		if draft {
			status = "DRAFT"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s #%d converted to %s\n", color.GreenString("✓"), id, status)
		return nil
	},
}

var entriesRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete an entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := petitions.DeleteEntry(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete entry %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted #%d\n", color.GreenString("✓"), id)
		return nil
	},
}

func formatEntry(e models.EntryView) string {
	line := fmt.Sprintf("#%-4d %s  %-15s %2d books %4d sigs  $%8s",
		e.ID, e.Date, e.ItemName, e.Books, e.Signatures, e.Earnings.StringFixed(2))
	if e.IsDraft {
		line += color.YellowString(" (DRAFT)")
	}
	return line
}

func init() {
	entriesCmd.Flags().String("date", "", "only show entries for this day (YYYY-MM-DD)")

	entriesAddCmd.Flags().Uint("item", 0, "petition type id (required)")
	entriesAddCmd.Flags().IntP("books", "b", 0, "books collected")
	entriesAddCmd.Flags().IntP("sigs", "s", 0, "signatures collected (default books * sigs per book)")
	entriesAddCmd.Flags().Bool("draft", false, "log as a draft")
	entriesAddCmd.Flags().String("date", "", "day of the entry (default today)")
	_ = entriesAddCmd.MarkFlagRequired("item")

	entriesUpdateCmd.Flags().IntP("books", "b", 0, "books collected")
	entriesUpdateCmd.Flags().IntP("sigs", "s", 0, "signatures collected")
	entriesUpdateCmd.Flags().Bool("draft", false, "mark as draft")
	_ = entriesUpdateCmd.MarkFlagRequired("books")
	_ = entriesUpdateCmd.MarkFlagRequired("sigs")

	entriesCmd.AddCommand(entriesAddCmd, entriesUpdateCmd, entriesDraftCmd, entriesRemoveCmd)
	rootCmd.AddCommand(entriesCmd)
}
