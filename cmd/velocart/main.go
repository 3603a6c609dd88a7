// Command velocart runs the catalog service and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/velocart/config"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/velocart/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var configFlag string

var rootCmd = &cobra.Command{
	Use:           "velocart",
	Short:         "Velocart cycling gear catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.SetConfigFile(configFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (JSON or YAML), default config/app.json")

	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Data
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(indexListCmd)
	rootCmd.AddCommand(indexEnsureCmd)

	// Catalog admin
	rootCmd.AddCommand(brandAddCmd)
	rootCmd.AddCommand(brandRemoveCmd)
	rootCmd.AddCommand(adminHashCmd)
}
