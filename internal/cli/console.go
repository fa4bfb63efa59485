package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/pkg/config"
	"github.com/sdejongh/modnorris/pkg/console"
)

// NewConsoleCommand creates the console command group
func NewConsoleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Send commands to the running server over RCON",
	}

	cmd.AddCommand(newConsoleRunCommand())
	cmd.AddCommand(newConsoleSayCommand())
	cmd.AddCommand(newConsoleWhitelistCommand())

	return cmd
}

func newConsoleRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <command>...",
		Short: "Send a raw console command and print the response",
		Long: `Send a console command to the running server over RCON and print the
response. Quotes are not required; everything after "run" is joined into
a single command line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return sendConsole(cmd, cfg, strings.Join(args, " "))
		},
	}
}

func newConsoleSayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "say <message>...",
		Short: "Broadcast a chat message to all players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return sendConsole(cmd, cfg, "say "+strings.Join(args, " "))
		},
	}
}

func newConsoleWhitelistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "whitelist <add|remove|list> [player]",
		Short:     "Manage the server whitelist",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"add", "remove", "list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]
			switch action {
			case "add", "remove":
				if len(args) != 2 {
					return fmt.Errorf("whitelist %s requires a player name", action)
				}
			case "list":
				if len(args) != 1 {
					return fmt.Errorf("whitelist list takes no player name")
				}
			default:
				return fmt.Errorf("unknown whitelist action %q", action)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return sendConsole(cmd, cfg, "whitelist "+strings.Join(args, " "))
		},
	}
	return cmd
}

func sendConsole(cmd *cobra.Command, cfg *config.Config, command string) error {
	response, err := console.Send(cfg, command)
	if err != nil {
		return err
	}
	if response != "" {
		printf(cmd, "%s\n", response)
	}
	return nil
}
