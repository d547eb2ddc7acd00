package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/parkwarden/parkwarden/internal/interfaces/cli/migrate"
	"github.com/parkwarden/parkwarden/internal/interfaces/cli/seed"
	"github.com/parkwarden/parkwarden/internal/interfaces/cli/server"
	"github.com/parkwarden/parkwarden/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "parkwarden",
		Short:   "Parkwarden - parking enforcement ticketing service",
		Long:    `Parkwarden issues, searches and closes parking violation tickets and renders printable ZPL labels.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
