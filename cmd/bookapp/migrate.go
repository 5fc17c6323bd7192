package main

import (
	"github.com/spf13/cobra"

	"github.com/piranimarcos/bookApp/library"
	"github.com/piranimarcos/bookApp/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the authors and books tables if they are missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig(conf)

		db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		return library.Migrate(cmd.Context(), db)
	},
}
