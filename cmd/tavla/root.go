package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set through -ldflags at release build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tavla",
	Short: "Tavla keeps kanban boards aligned with their workflow state machines",
	Long: `Tavla resolves each project's workflow into a status graph, reports
where a board's columns diverge from it, and reconciles the columns
through sync and regenerate operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config TOML")
	rootCmd.PersistentFlags().String("db", "", "path to sqlite database")
	rootCmd.PersistentFlags().Bool("dev", version == "dev", "use dev mode paths (<app>-dev)")
}
