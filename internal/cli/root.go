package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ISmeneger/webform-e2e/internal/infra/logger"
	"github.com/ISmeneger/webform-e2e/internal/infra/workspacefinder"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	opts := &rootOptions{}
	err := newRootCmd(opts).ExecuteContext(ctx)
	opts.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	debug   bool
	cleanup func() error
}

func (o *rootOptions) close() {
	if o.cleanup != nil {
		_ = o.cleanup()
		o.cleanup = nil
	}
}

func newRootCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "webform",
		Short:        "webform: end-to-end checks for the practice web form",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cleanup, err := logger.Setup(logger.Config{
				Root:   logRoot(cmd),
				Debug:  o.debug,
				Stderr: cmd.ErrOrStderr(),
			})
			if err != nil {
				// run without a log file
				return nil
			}
			o.cleanup = cleanup
			logger.L().Debug("cli.start", "command", cmd.CommandPath())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, "", o.debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "enable verbose logging to .webform/logs/webform.log")
	cmd.AddCommand(
		initCmd(),
		runCmd(),
		scenariosCmd(),
		configCmd(),
		envsCmd(),
		runsCmd(),
		installCmd(),
		tuiCmd(o),
		versionCmd(),
	)
	return cmd
}

// logRoot is the workspace the command will act on, so the log lands next to its runs.
func logRoot(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("workspace"); f != nil && f.Value.String() != "" {
		if abs, err := filepath.Abs(f.Value.String()); err == nil {
			return abs
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)
	if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
		return root
	}
	return wd
}
