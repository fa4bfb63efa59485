package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/modnorris/pkg/logging"
	"github.com/sdejongh/modnorris/pkg/models"
	"github.com/sdejongh/modnorris/pkg/mods"
	"github.com/sdejongh/modnorris/pkg/output"
	"github.com/sdejongh/modnorris/pkg/resolver"
)

// NewModsCommand creates the mods command group
func NewModsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mods",
		Short: "Manage the declarative mod manifest",
		Long: `Manage the manifest of installed mods and reconcile it against the
mods and mods-disabled directories on disk.`,
	}

	cmd.AddCommand(newModsInitCommand())
	cmd.AddCommand(newModsStatusCommand())
	cmd.AddCommand(newModsListCommand())
	cmd.AddCommand(newModsAddCommand())
	cmd.AddCommand(newModsEnableCommand())
	cmd.AddCommand(newModsDisableCommand())
	cmd.AddCommand(newModsRemoveCommand())
	cmd.AddCommand(newModsPurgeCommand())

	return cmd
}

func newModsInitCommand() *cobra.Command {
	var force bool
	var adoptExisting bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a mods manifest in the server data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			manifest, adopted, err := mods.Init(commandContext(cmd), cfg, mods.InitOptions{
				Force:         force,
				AdoptExisting: adoptExisting,
			})
			if err != nil {
				return err
			}

			loader := manifest.Loader
			if loader == "" {
				loader = "unknown"
			}
			printf(cmd, "Initialized manifest for loader=%s at %s\n", loader, mods.ManifestPath(cfg))
			if adopted > 0 {
				printf(cmd, "Adopted %d existing mod(s).\n", adopted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing manifest")
	cmd.Flags().BoolVar(&adoptExisting, "adopt-existing", false, "add current files to manifest")

	return cmd
}

func newModsStatusCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show manifest summary and filesystem drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}
			inv, err := mods.Inventory(commandContext(cmd), cfg, manifest)
			if err != nil {
				return err
			}
			return output.New(format).WriteSummary(cmd.OutOrStdout(), inv)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "human", "output format: human, json")

	return cmd
}

func newModsListCommand() *cobra.Command {
	var format string
	var showExtras bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mods tracked in the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}
			inv, err := mods.Inventory(commandContext(cmd), cfg, manifest)
			if err != nil {
				return err
			}
			return output.New(format).WriteEntries(cmd.OutOrStdout(), inv, showExtras)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "human", "output format: human, json")
	cmd.Flags().BoolVar(&showExtras, "show-extras", true, "include untracked files in the listing")

	return cmd
}

func newModsAddCommand() *cobra.Command {
	var flags struct {
		ModID        string
		Name         string
		Disable      bool
		ManifestOnly bool
		Filename     string
		SourceType   string
		Force        bool
		Loader       string
		MCVersion    string
		Version      string
		ProjectID    string
	}

	cmd := &cobra.Command{
		Use:   "add <source>",
		Short: "Add a new mod to the manifest and copy/download its file",
		Long: `Add a mod from a local path, a URL, or a registry identifier such as
modrinth:lithium or curseforge:jei. An inline @version suffix pins a
specific remote version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureServerStopped(ctx, cfg, flags.Force, "add mods"); err != nil {
				return err
			}

			logger, err := newLogger("mods add")
			if err != nil {
				return err
			}
			defer logger.Close()

			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}

			entry, err := mods.Add(ctx, cfg, manifest, resolver.NewRegistry(), mods.AddOptions{
				Source:           args[0],
				ModID:            flags.ModID,
				Name:             flags.Name,
				Enabled:          !flags.Disable,
				SourceType:       models.SourceType(flags.SourceType),
				ManifestOnly:     flags.ManifestOnly,
				FilenameOverride: flags.Filename,
				LoaderHint:       flags.Loader,
				MCVersionHint:    flags.MCVersion,
				VersionHint:      flags.Version,
				ProjectID:        flags.ProjectID,
			})
			if err != nil {
				logger.Error(ctx, "add failed", err, logging.Fields{"source": args[0]})
				return err
			}

			logger.Info(ctx, "mod added", logging.Fields{
				"id":       entry.ID,
				"filename": entry.Filename,
				"source":   string(entry.Source.Type),
			})

			state := "enabled"
			if flags.Disable {
				state = "disabled"
			}
			printf(cmd, "Added mod %s (%s)\n", entry.ID, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ModID, "id", "", "explicit manifest ID")
	cmd.Flags().StringVar(&flags.Name, "name", "", "human readable name")
	cmd.Flags().BoolVar(&flags.Disable, "disable", false, "add but mark disabled")
	cmd.Flags().BoolVar(&flags.ManifestOnly, "manifest-only", false, "record entry without downloading")
	cmd.Flags().StringVar(&flags.Filename, "filename", "", "override destination filename")
	cmd.Flags().StringVar(&flags.SourceType, "source-type", "", "force source type detection")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "allow adding while server is running")
	cmd.Flags().StringVar(&flags.Loader, "loader", "", "loader override when resolving registry sources")
	cmd.Flags().StringVar(&flags.MCVersion, "mc-version", "", "Minecraft version override for remote sources")
	cmd.Flags().StringVar(&flags.Version, "version", "", "specific remote version identifier")
	cmd.Flags().StringVar(&flags.ProjectID, "project-id", "", "explicit project ID for Modrinth/CurseForge")

	return cmd
}

func newModsEnableCommand() *cobra.Command {
	return newModsToggleCommand(true)
}

func newModsDisableCommand() *cobra.Command {
	return newModsToggleCommand(false)
}

func newModsToggleCommand(enable bool) *cobra.Command {
	var force bool
	var noMove bool

	use, short, action := "enable <mod-id>", "Enable a mod (moves file back into the mods directory)", "enable mods"
	if !enable {
		use, short, action = "disable <mod-id>", "Disable a mod (moves file into mods-disabled)", "disable mods"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureServerStopped(ctx, cfg, force, action); err != nil {
				return err
			}

			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}
			entry, err := mods.SetEnabled(cfg, manifest, args[0], enable, !noMove)
			if err != nil {
				return err
			}

			if enable {
				printf(cmd, "Enabled mod %s\n", entry.ID)
			} else {
				printf(cmd, "Disabled mod %s\n", entry.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "allow while server running")
	cmd.Flags().BoolVar(&noMove, "no-move", false, "only toggle manifest flag")

	return cmd
}

func newModsRemoveCommand() *cobra.Command {
	var force bool
	var keepFiles bool

	cmd := &cobra.Command{
		Use:   "remove <mod-id>",
		Short: "Remove a mod from the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureServerStopped(ctx, cfg, force, "remove mods"); err != nil {
				return err
			}

			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}
			entry, deleted, err := mods.Remove(cfg, manifest, args[0], !keepFiles)
			if err != nil {
				return err
			}

			printf(cmd, "Removed mod %s\n", entry.ID)
			for _, path := range deleted {
				printf(cmd, "Deleted %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "allow while server running")
	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "keep mod files on disk")

	return cmd
}

func newModsPurgeCommand() *cobra.Command {
	var force bool
	var keepFiles bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove every mod from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := ensureServerStopped(ctx, cfg, force, "purge mods"); err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("purge removes every tracked mod; re-run with --yes to confirm")
			}

			manifest, err := mods.Load(cfg)
			if err != nil {
				return err
			}
			count, deleted, err := mods.Purge(cfg, manifest, !keepFiles)
			if err != nil {
				return err
			}

			printf(cmd, "Removed %d mod(s), deleted %d file(s)\n", count, len(deleted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "allow while server running")
	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "keep mod files on disk")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	if globalFlags.Quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
