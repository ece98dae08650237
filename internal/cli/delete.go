// Package cli builds the cobra commands behind the hdf-delete and
// hdf-delete-query binaries.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hdf-eco-tool/internal/config"
	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/eraser"
	"hdf-eco-tool/internal/logging"
	"hdf-eco-tool/internal/metrics"
	"hdf-eco-tool/internal/toolerr"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type deleteOptions struct {
	args       eraser.Args
	configPath string
	dryRun     bool
	noHistory  bool
}

// NewDeleteCommand creates the hdf-delete command
func NewDeleteCommand() *cobra.Command {
	opts := &deleteOptions{}
	cmd := &cobra.Command{
		Use:   "hdf-delete",
		Short: "Delete a vendor, module or driver from an HDF source tree",
		Long: `Delete a vendor, a module or a driver from an HDF source tree.

Module deletion is driven by create_model.config: every directory and file the
create tool recorded for the module is removed, and every build and config file
it touched is edited in place. The module entry is then dropped from the
registry.`,
		Example: `  hdf-delete --action_type module --root_dir ~/ohos --module_name usb
  hdf-delete --action_type driver --root_dir ~/ohos --vendor_name hisilicon \
      --module_name usb --driver_name hmcp --board_name hispark_taurus
  hdf-delete --action_type vendor --root_dir ~/ohos --vendor_name hisilicon \
      --board_name hispark_taurus --dry-run`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDelete(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.args.ActionType, "action_type", "", "vendor, module or driver")
	f.StringVar(&opts.args.RootDir, "root_dir", "", "Root of the source tree")
	f.StringVar(&opts.args.VendorName, "vendor_name", "", "Vendor name")
	f.StringVar(&opts.args.ModuleName, "module_name", "", "Module name")
	f.StringVar(&opts.args.DriverName, "driver_name", "", "Driver name")
	f.StringVar(&opts.args.BoardName, "board_name", "", "Board name")
	f.StringVar(&opts.args.KernelName, "kernel_name", "", "Kernel name (ignored by delete)")
	f.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Report what would be deleted without touching the tree")
	f.BoolVar(&opts.noHistory, "no-history", false, "Do not record operations in the history database")

	cmd.SetFlagErrorFunc(flagError)
	return cmd
}

func flagError(_ *cobra.Command, err error) error {
	return toolerr.Wrap(toolerr.MessageFormatWrong, err, "invalid arguments")
}

func runDelete(cmd *cobra.Command, opts *deleteOptions) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return toolerr.Wrap(toolerr.MessageFormatWrong, err, "load config %s", opts.configPath)
	}

	logger := logging.New(cfg)
	defer logger.Close()

	if opts.dryRun {
		logger.Info("DRY RUN MODE: nothing will be deleted or edited")
	}

	var recorder eraser.Recorder
	if cfg.HistoryEnabled() && !opts.noHistory {
		db, err := database.NewHistoryDB(cfg.History.DatabasePath)
		if err != nil {
			logger.Warn("History disabled, failed to open database", "path", cfg.History.DatabasePath, "error", err)
		} else {
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close database", "error", err)
				}
			}()
			recorder = db
		}
	}

	var protected []string
	if opts.args.RootDir != "" {
		if root, err := filepath.Abs(opts.args.RootDir); err == nil {
			protected = cfg.ProtectedPaths(root)
		}
	}

	h := eraser.New(eraser.Options{
		Layout:         cfg.Layout,
		Logger:         logger,
		Recorder:       recorder,
		ProtectedPaths: protected,
		DryRun:         opts.dryRun,
	})
	reg, runErr := h.Run(opts.args)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if reg != nil {
		data, err := reg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
