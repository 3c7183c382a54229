package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/downclean/pkg/config"
	"github.com/walteh/downclean/pkg/merge"
	"github.com/walteh/downclean/pkg/pipeline"
	"github.com/walteh/downclean/pkg/report"
)

// rootFlags holds every CLI flag; each one maps 1:1 to a config field and
// overrides the config file only when explicitly set.
type rootFlags struct {
	configFile string
	debug      bool

	path         string
	target       string
	dryRun       bool
	noTempClean  bool
	noDuplicates bool
	mergePDFs    bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "downclean",
		Short: "Organize and clean your Downloads folder",
		Long: `downclean sorts a downloads directory into category subfolders,
removes stale partial-download files, quarantines byte-identical duplicates,
and records every change in an undoable session history.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", ".downclean", "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "show per-file progress")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "preview changes without applying them")
	cmd.PersistentFlags().StringVar(&flags.path, "path", "", "source folder to clean (default: ~/Downloads)")
	cmd.PersistentFlags().StringVar(&flags.target, "target", "", "target folder for organized files (default: <source>/Cleaned)")

	cmd.Flags().BoolVar(&flags.noTempClean, "no-temp-clean", false, "skip removal of temporary files")
	cmd.Flags().BoolVar(&flags.noDuplicates, "no-duplicates", false, "skip duplicate detection")
	cmd.Flags().BoolVar(&flags.mergePDFs, "merge-pdfs", false, "merge the organized PDFs into one file")

	cmd.AddCommand(
		newUndoCmd(flags),
		newHistoryCmd(flags),
	)

	return cmd
}

// buildConfig loads the config file (if any) and applies flag overrides.
func buildConfig(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, flags.configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if flags.path != "" {
		cfg.Source = flags.path
		// An explicit --path without --target re-anchors the default target.
		if flags.target == "" && !changed(cmd, "target") {
			cfg.Target = ""
		}
	}
	if flags.target != "" {
		cfg.Target = flags.target
	}
	if changed(cmd, "dry-run") {
		cfg.DryRun = flags.dryRun
	}
	if changed(cmd, "no-temp-clean") {
		cfg.NoTempClean = flags.noTempClean
	}
	if changed(cmd, "no-duplicates") {
		cfg.NoDuplicates = flags.noDuplicates
	}
	if changed(cmd, "merge-pdfs") {
		cfg.MergePDFs = flags.mergePDFs
	}
	if changed(cmd, "verbose") {
		cfg.Verbose = flags.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Changed
	}
	if f := cmd.Root().PersistentFlags().Lookup(name); f != nil {
		return f.Changed
	}
	return false
}

func runClean(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	cfg, err := buildConfig(ctx, cmd, flags)
	if err != nil {
		return err
	}

	reporter := report.New(os.Stdout, cfg.Verbose, *zerolog.Ctx(ctx))
	reporter.Header(cfg.String())
	if cfg.DryRun {
		reporter.Warningf("dry run: no changes will be made")
	}

	cleaner := pipeline.New(afero.NewOsFs(), cfg, merge.NewPDFCPUMerger(), reporter)
	result, err := cleaner.Run(ctx)
	if err != nil {
		reporter.Errorf("%v", err)
		return err
	}

	// Per-file failures are summarized, never fatal.
	reporter.RunSummary(result.Stats, result.Preview, cfg.MergePDFs)
	return nil
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
