package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cppla/homelab/config"
	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

var (
	cfgPath   string
	petitions *store.Petitions
	closeDB   func()
)

var rootCmd = &cobra.Command{
	Use:   "petition",
	Short: "Log daily petition signatures",
	Long: `Operator tool for the petitions ledger.

Examples:
  petition log
  petition items --all
  petition entries add --item 3 --books 2
  petition stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		db, err := config.OpenPetitions(cfg)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		// Item writes from here must drop the list cache the API server reads.
		rc := utils.NewRedis(cfg)
		petitions = store.NewPetitions(db).WithItemCache(utils.NewCache(rc, cfg.CacheTTL()))
		closeDB = func() {
			if rc != nil {
				_ = rc.Close()
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeDB != nil {
			closeDB()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "path to the JSON config file")
}
