package cli

import (
	"fmt"
	"os"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/infra/httpclient"
	"github.com/ISmeneger/webform-e2e/internal/infra/logger"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
	"github.com/ISmeneger/webform-e2e/internal/usecase"
	"github.com/spf13/cobra"
)

type runFlags struct {
	workspace   string
	env         string
	backend     string
	sets        []string
	only        string
	skipBrittle bool
	headed      bool
	noTrace     bool
	noSave      bool
	noProbe     bool
	format      string
}

func runCmd() *cobra.Command {
	var f runFlags

	c := &cobra.Command{
		Use:   "run",
		Short: "Run the web form scenarios on one or more backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(f.workspace)
			if err != nil {
				return err
			}

			backends, err := resolveBackends(ws, f.backend)
			if err != nil {
				return err
			}
			overrides, err := parseOverrides(f.sets)
			if err != nil {
				return err
			}

			opts := []usecase.SuiteOption{usecase.WithSuiteLogger(logger.For("suite"))}
			if !f.noSave {
				opts = append(opts, usecase.WithStore(ws.store))
			}
			if !f.noProbe {
				opts = append(opts, usecase.WithProbe(httpclient.NewProbe(httpclient.WithLogger(logger.For("probe")))))
			}
			if f.format != "json" {
				st := defaultStyles()
				out := cmd.ErrOrStderr()
				opts = append(opts, usecase.WithObserver(func(r domain.ScenarioResult) {
					fmt.Fprintf(out, "[%s] %s\n", r.Backend, resultLine(r, st))
				}))
			}

			uc := usecase.NewRunSuite(ws.settings, ws.launcher(f.headed), opts...)
			run, err := uc.Execute(cmd.Context(), usecase.SuiteRequest{
				Env:             resolveEnv(ws, f.env, os.LookupEnv),
				Overrides:       overrides,
				Backends:        backends,
				Filter:          scenario.Filter{Only: f.only, SkipBrittle: f.skipBrittle},
				TraceDir:        ws.traceDir(f.noTrace),
				ScenarioTimeout: ws.cfg.Browser.ScenarioTimeout,
			})
			if err != nil && len(run.Backends) == 0 {
				return err
			}

			if perr := printRun(cmd.OutOrStdout(), run, f.format); perr != nil {
				return perr
			}
			if err != nil {
				return err
			}

			if fails := run.Failures(); fails > 0 {
				return fmt.Errorf("run failed (%d failing scenario(s))", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&f.env, "env", "e", "", "Environment name (default: $WEBFORM_ENV, then webform.yaml)")
	c.Flags().StringVarP(&f.backend, "backend", "b", "", "Backend: playwright|chromedp|all (default from webform.yaml)")
	c.Flags().StringArrayVar(&f.sets, "set", nil, "Override a setting (key=value); repeatable")
	c.Flags().StringVar(&f.only, "only", "", "Run only scenarios whose name contains this text")
	c.Flags().BoolVar(&f.skipBrittle, "skip-brittle", false, "Skip assertions on external content (icon size, copyright year)")
	c.Flags().BoolVar(&f.headed, "headed", false, "Show the browser window")
	c.Flags().BoolVar(&f.noTrace, "no-trace", false, "Do not write per-scenario trace archives")
	c.Flags().BoolVar(&f.noSave, "no-save", false, "Do not save the run artifact under runs/")
	c.Flags().BoolVar(&f.noProbe, "no-preflight", false, "Skip the HTTP reachability check of the web form")
	c.Flags().StringVar(&f.format, "format", "pretty", "Output format: pretty|json")
	return c
}
