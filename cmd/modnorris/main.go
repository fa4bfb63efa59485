package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "modnorris",
		Short: "Minecraft server mod manager",
		Long: `modnorris manages a Minecraft server's mods through a declarative
manifest. Mods are added from local files, URLs, Modrinth, or CurseForge,
and the manifest is reconciled against the mods directories on disk. It
also drives the dockerized server itself: start/stop, RCON console, and
log tailing.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewModsCommand())
	rootCmd.AddCommand(cli.NewServerCommand())
	rootCmd.AddCommand(cli.NewConsoleCommand())
	rootCmd.AddCommand(cli.NewLogsCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
