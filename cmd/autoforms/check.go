package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/config"
	"github.com/autoforms/autoforms/store"
)

func newCheckCmd() *cobra.Command {
	var dialect string
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the record layout of every form",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.Load(configPath)
			if err != nil {
				return err
			}

			forms, err := file.Schemas()
			if err != nil {
				return err
			}

			quoter := clause.Backtick
			if dialect == "postgres" {
				quoter = clause.DoubleQuote
			}

			out := cmd.OutOrStdout()
			for _, form := range forms {
				fmt.Fprintf(out, "%s %s\n", form.Path, form.Layout())
				if dialect == "" {
					continue
				}
				sql, err := store.CreateTableSQL(dialect, quoter, form.Layout())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s\n", sql)
			}
			return nil
		},
	}
	checkCmd.Flags().StringVar(&dialect, "sql", "", "Also print the CREATE TABLE statement for this dialect (sqlite, mysql, postgres)")
	return checkCmd
}
