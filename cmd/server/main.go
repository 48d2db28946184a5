package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Blank imports run the init() registrations.
	_ "github.com/nikhilrana/saman/database/migrations"
	_ "github.com/nikhilrana/saman/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "saman",
	Short: "Saman, a product catalogue API",
	Long:  "Saman is a product-catalogue backend with JWT authentication.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
