package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gowatcharr",
	Short: "Log your Trakt.tv watch history into a local, queryable store",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Running without a subcommand starts the daemon.
		return runServe()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
