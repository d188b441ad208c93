package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stuapp/suggest-api/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "suggest-configure",
		Short: "Configuration tool for the suggestion API",
		Long:  "CLI tool for managing tier daily limits and validating OIDC settings",
	}

	rootCmd.AddCommand(commands.NewTiersCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
