package usecase

import (
	"cmp"
	"context"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
	"golang.org/x/sync/errgroup"
)

// SuiteRequest selects what a suite run covers.
type SuiteRequest struct {
	Env       string
	Overrides domain.Vars
	Backends  []domain.Backend
	Filter    scenario.Filter

	// TraceDir enables per-scenario diagnostic archives when non-empty.
	TraceDir        string
	ScenarioTimeout time.Duration
}

// Observer receives every scenario result as soon as it is known.
// It is called from one goroutine per backend.
type Observer func(domain.ScenarioResult)

type RunSuite struct {
	settings ports.SettingsLoader
	launcher ports.BackendLauncher
	store    ports.ArtifactStore
	probe    ports.SiteProbe
	catalog  func() iter.Seq[scenario.Scenario]
	observer Observer
	log      *slog.Logger
	now      func() time.Time
}

type SuiteOption func(*RunSuite)

// WithStore persists the artifact after the run.
func WithStore(s ports.ArtifactStore) SuiteOption {
	return func(uc *RunSuite) { uc.store = s }
}

// WithProbe checks the site is reachable before any backend is launched.
func WithProbe(p ports.SiteProbe) SuiteOption {
	return func(uc *RunSuite) { uc.probe = p }
}

// WithCatalog replaces the scenario catalog (tests, TUI selection).
func WithCatalog(fn func() iter.Seq[scenario.Scenario]) SuiteOption {
	return func(uc *RunSuite) { uc.catalog = fn }
}

func WithObserver(o Observer) SuiteOption {
	return func(uc *RunSuite) { uc.observer = o }
}

func WithSuiteLogger(l *slog.Logger) SuiteOption {
	return func(uc *RunSuite) { uc.log = l }
}

func NewRunSuite(sl ports.SettingsLoader, bl ports.BackendLauncher, opts ...SuiteOption) *RunSuite {
	uc := &RunSuite{
		settings: sl,
		launcher: bl,
		catalog:  scenario.WebForm,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Plan returns the scenarios a request would run, in execution order.
func (uc *RunSuite) Plan(f scenario.Filter) []scenario.Scenario {
	out := slices.Collect(scenario.Select(uc.catalog(), f))
	slices.SortStableFunc(out, func(a, b scenario.Scenario) int { return cmp.Compare(a.Order, b.Order) })
	return out
}

// Execute resolves configuration, then runs every selected scenario on every
// requested backend. Configuration problems abort before any browser starts;
// scenario failures are reported in the artifact, not as an error.
func (uc *RunSuite) Execute(ctx context.Context, req SuiteRequest) (domain.RunArtifact, error) {
	settings, err := uc.settings.LoadSettings(req.Env, req.Overrides)
	if err != nil {
		return domain.RunArtifact{}, err
	}
	if err := settings.Require(domain.RequiredKeys...); err != nil {
		return domain.RunArtifact{}, &domain.OpError{
			Op:   "suite.config",
			Kind: domain.KindMissingConfig,
			Err:  err,
		}
	}

	if uc.probe != nil {
		url := domain.WebFormURL(settings.BaseURL())
		if err := uc.probe.Probe(ctx, url); err != nil {
			uc.log.Error("suite.preflight_failed", "url", url, "err", err)
			return domain.RunArtifact{}, err
		}
	}

	backends := req.Backends
	if len(backends) == 0 {
		backends = domain.AllBackends
	}

	plan := uc.Plan(req.Filter)

	run := domain.RunArtifact{
		EnvironmentName: settings.Env(),
		Settings:        settings.Vars(),
		StartedAt:       uc.now(),
		Backends:        make([]domain.BackendResult, len(backends)),
	}
	uc.log.Info("suite.started", "env", settings.Env(), "backends", len(backends), "scenarios", len(plan))

	var (
		g       errgroup.Group
		emitMu  sync.Mutex
		observe = func(r domain.ScenarioResult) {
			if uc.observer == nil {
				return
			}
			emitMu.Lock()
			defer emitMu.Unlock()
			uc.observer(r)
		}
	)
	for i, b := range backends {
		g.Go(func() error {
			run.Backends[i] = uc.runBackend(ctx, b, settings, plan, req, observe)
			return nil
		})
	}
	_ = g.Wait()

	run.EndedAt = uc.now()
	uc.log.Info("suite.finished", "failures", run.Failures(), "duration_ms", run.EndedAt.Sub(run.StartedAt).Milliseconds())

	if uc.store != nil {
		id, err := uc.store.SaveRun(run)
		if err != nil {
			uc.log.Error("suite.save_failed", "err", err)
			return run, err
		}
		run.ID = id
	}

	return run, nil
}

// runBackend shares one launched browser across the backend's scenarios,
// each in its own session, strictly in order.
func (uc *RunSuite) runBackend(ctx context.Context, b domain.Backend, settings domain.Settings, plan []scenario.Scenario, req SuiteRequest, observe Observer) domain.BackendResult {
	out := domain.BackendResult{Backend: b, Scenarios: make([]domain.ScenarioResult, 0, len(plan))}
	log := uc.log.With("backend", string(b))

	factory, err := uc.launcher.Launch(ctx, b)
	if err != nil {
		log.Error("backend.launch_failed", "err", err)
		out.Error = domain.NewRunError(err)
		return out
	}
	defer func() {
		if err := factory.Close(); err != nil {
			log.Warn("backend.close_failed", "err", err)
		}
	}()

	runner := NewScenarioRunner(factory, settings, req.ScenarioTimeout, req.TraceDir, uc.log)
	for _, s := range plan {
		if err := ctx.Err(); err != nil {
			res := domain.ScenarioResult{
				Backend: b, Name: s.Name, Order: s.Order, Param: s.Param,
				Skipped: true,
				Error:   domain.NewRunError(err),
			}
			out.Scenarios = append(out.Scenarios, res)
			observe(res)
			continue
		}

		res := runner.Run(ctx, s)
		out.Scenarios = append(out.Scenarios, res)
		observe(res)
	}
	return out
}
