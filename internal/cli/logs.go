package cli

import (
	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/pkg/logtail"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the server log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return logtail.Tail(cmd.OutOrStdout(), cfg.LogFile, lines, follow)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep watching for new lines")

	return cmd
}
