package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/nikhilrana/saman/config"
	"github.com/nikhilrana/saman/database/seeders"
	"github.com/nikhilrana/saman/pkg/database"
	"github.com/nikhilrana/saman/pkg/migration"
)

func openDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.New(db).Run()
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.New(db).Rollback()
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		statuses, err := migration.New(db).StatusAll()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range statuses {
			ran := "no"
			batch := "-"
			if s.Ran {
				ran = "yes"
				batch = fmt.Sprintf("%d", s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
		}
		return w.Flush()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return seeders.RunAll(db)
	},
}
