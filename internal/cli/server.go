package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/pkg/server"
)

// NewServerCommand creates the server command group
func NewServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Control the Minecraft server container",
	}

	cmd.AddCommand(newServerStartCommand())
	cmd.AddCommand(newServerStopCommand())
	cmd.AddCommand(newServerRestartCommand())
	cmd.AddCommand(newServerStatusCommand())
	cmd.AddCommand(newServerAttachCommand())

	return cmd
}

func newServerStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the server container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := server.Start(commandContext(cmd), cfg); err != nil {
				return err
			}
			printf(cmd, "Server started.\n")
			return nil
		},
	}
}

func newServerStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the server container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := server.Stop(commandContext(cmd), cfg); err != nil {
				return err
			}
			printf(cmd, "Server stopped.\n")
			return nil
		},
	}
}

func newServerRestartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the server container",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := server.Restart(commandContext(cmd), cfg); err != nil {
				return err
			}
			printf(cmd, "Server restarted.\n")
			return nil
		},
	}
}

func newServerStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the server container is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			status, err := server.GetStatus(commandContext(cmd), cfg)
			if err != nil {
				return err
			}
			if status.Running {
				printf(cmd, "Server is running (container %s, up %s)\n", status.ContainerID, status.Uptime)
			} else {
				printf(cmd, "Server is stopped.\n")
			}
			return nil
		},
	}
}

func newServerAttachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attach",
		Short: "Attach to the server console (detach with Ctrl-P Ctrl-Q)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return server.Attach(commandContext(cmd), cfg)
		},
	}
}
