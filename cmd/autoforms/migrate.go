package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoforms/autoforms/config"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/store"
)

func newMigrateCmd() *cobra.Command {
	var drop bool
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table and the table of every form",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log, err := file.Logger()
			if err != nil {
				return err
			}

			forms, err := file.Schemas()
			if err != nil {
				return err
			}
			layouts := make([]*schema.Layout, 0, len(forms))
			for _, form := range forms {
				layouts = append(layouts, form.Layout())
			}

			db, err := store.Open(file.Store(log))
			if err != nil {
				return err
			}
			defer db.Close()

			if drop {
				if err := db.DropTables(cmd.Context(), layouts...); err != nil {
					return err
				}
			}
			if err := db.Migrate(cmd.Context(), layouts...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d forms\n", len(layouts))
			return nil
		},
	}
	migrateCmd.Flags().BoolVar(&drop, "drop", false, "Drop the form tables before creating them, user accounts are kept")
	return migrateCmd
}
