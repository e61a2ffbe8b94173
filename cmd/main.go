package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "moldmes",
	Short:         "Molding shop execution service",
	Long:          "moldmes imports product BOM trees, derives task material requirements, keeps the inventory ledger and drives the task and mold lifecycle.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML config file (environment variables override it)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
