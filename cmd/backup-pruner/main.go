// Package main is the entry point for the backup-pruner CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "0.1.0"

// Global flags.
var (
	configPath string
	logLevel   string
	logFormat  string
)

const defaultConfigPath = "config.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "backup-pruner",
		Short: "Thin out dated backup archives by age",
		Long: `backup-pruner deletes dated backups (names starting with YYYYMMDD)
following an age-based schedule: the current and previous month are kept
in full, then weekly, then the 1st and 15th, then only the 1st.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override logging.format (text, json)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "backup-pruner %s\n", version)
		},
	}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
