package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/pkg/config"
)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetRootCommand())
	cmd.AddCommand(newConfigClearRootCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Server root:       %s\n", cfg.ServerRoot)
			if path, ok := config.ConfigFilePath(cfg.ServerRoot); ok {
				fmt.Fprintf(out, "Config file:       %s\n", path)
			} else {
				fmt.Fprintf(out, "Config file:       (none, defaults in effect)\n")
			}
			fmt.Fprintf(out, "Data directory:    %s\n", cfg.DataDir)
			fmt.Fprintf(out, "Server log:        %s\n", cfg.LogFile)
			fmt.Fprintf(out, "Docker service:    %s\n", cfg.DockerService)
			fmt.Fprintf(out, "Server type:       %s\n", cfg.ServerType)
			fmt.Fprintf(out, "Minecraft version: %s\n", cfg.MinecraftVersion)
			fmt.Fprintf(out, "RCON:              enabled=%t %s:%d\n", cfg.Rcon.Enabled, cfg.Rcon.Host, cfg.Rcon.Port)
			return nil
		},
	}
}

func newConfigSetRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-root <path>",
		Short: "Remember a default server root for future runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SaveUserConfig(&config.UserConfig{ServerRoot: args[0]})
			if err != nil {
				return err
			}
			printf(cmd, "Default server root saved to %s\n", path)
			return nil
		},
	}
}

func newConfigClearRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-root",
		Short: "Forget the remembered default server root",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SaveUserConfig(&config.UserConfig{})
			if err != nil {
				return err
			}
			printf(cmd, "Default server root cleared in %s\n", path)
			return nil
		},
	}
}
