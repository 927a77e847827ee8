package main

import (
	"github.com/spf13/cobra"

	"github.com/cppla/homelab/console"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Interactively log today's petitions",
	Long: `Shows today's active petitions with what is already logged.
Pick a number to add an entry, or to edit one logged earlier today.
Press Enter on an empty line to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return console.NewSession(petitions, cmd.InOrStdin(), cmd.OutOrStdout(), nil).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
