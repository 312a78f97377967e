package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/restodex/internal/version"
)

var (
	flagEnv    string
	flagConfig string
	flagPage   int
)

var rootCmd = &cobra.Command{
	Use:   "restodex",
	Short: "Restaurant lookup service",
	Long: "restodex serves free-text restaurant search with pagination and cached " +
		"lookups by restaurant id over a MongoDB or Redis record store.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "", "environment name (default: $ENV or local)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (overrides --env lookup)")

	searchCmd.Flags().IntVar(&flagPage, "page", 1, "1-based page number")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "restodex %s\n", version.String())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
