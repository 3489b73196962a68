package cli

import (
	"context"
	"iter"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/infra/httpclient"
	"github.com/ISmeneger/webform-e2e/internal/infra/logger"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
	"github.com/ISmeneger/webform-e2e/internal/ui/tui"
	"github.com/ISmeneger/webform-e2e/internal/usecase"
)

func tuiCmd(o *rootOptions) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick and run scenarios interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, workspace, o.debug)
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}

func runTUI(_ *cobra.Command, workspace string, debug bool) error {
	ws, err := loadWorkspace(workspace)
	if err != nil {
		return err
	}
	backends, err := resolveBackends(ws, "")
	if err != nil {
		return err
	}
	env := resolveEnv(ws, "", os.LookupEnv)

	run := func(ctx context.Context, picked []scenario.Scenario, observe usecase.Observer) (domain.RunArtifact, error) {
		uc := usecase.NewRunSuite(ws.settings, ws.launcher(false),
			usecase.WithStore(ws.store),
			usecase.WithObserver(observe),
			usecase.WithSuiteLogger(logger.For("suite")),
			usecase.WithProbe(httpclient.NewProbe(httpclient.WithLogger(logger.For("probe")))),
			usecase.WithCatalog(func() iter.Seq[scenario.Scenario] { return slices.Values(picked) }),
		)
		return uc.Execute(ctx, usecase.SuiteRequest{
			Env:             env,
			Backends:        backends,
			TraceDir:        ws.traceDir(false),
			ScenarioTimeout: ws.cfg.Browser.ScenarioTimeout,
		})
	}

	return tui.Run(tui.Deps{
		Root:      ws.root,
		Env:       env,
		Backends:  backends,
		Scenarios: usecase.NewRunSuite(nil, nil).Plan(scenario.Filter{}),
		Run:       run,
		Logger:    logger.For("tui"),
		Debug:     debug,
	})
}
