package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farran/tavla/internal/platform"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the resolved config and data locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		devMode, _ := cmd.Flags().GetBool("dev")
		if !cmd.Flags().Changed("dev") {
			if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
				devMode = envDev
			}
		}
		paths, err := platform.Resolve("tavla", devMode)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dev_mode: %t\n", devMode)
		fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
		fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
		fmt.Fprintf(out, "db: %s\n", paths.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
