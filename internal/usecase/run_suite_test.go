package usecase

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/fakeweb"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
)

// --- fakes ---

type fakeSettings struct {
	vars  domain.Vars
	err   error
	calls int
}

func (f *fakeSettings) LoadSettings(env string, overrides domain.Vars) (domain.Settings, error) {
	f.calls++
	if f.err != nil {
		return domain.Settings{}, f.err
	}
	return domain.NewSettings(env, domain.Merge(f.vars, overrides)), nil
}

func validVars() domain.Vars {
	return domain.Vars{
		domain.KeyLogin:    "user",
		domain.KeyPassword: "pass",
		domain.KeyBaseURL:  "https://example.test/site/",
	}
}

type fakeLauncher struct {
	mu        sync.Mutex
	opts      []fakeweb.Option
	failFor   map[domain.Backend]error
	factories map[domain.Backend]*fakeweb.Factory
}

func newLauncher(opts ...fakeweb.Option) *fakeLauncher {
	return &fakeLauncher{opts: opts, factories: map[domain.Backend]*fakeweb.Factory{}}
}

func (l *fakeLauncher) Launch(_ context.Context, b domain.Backend) (ports.SessionFactory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.failFor[b]; err != nil {
		return nil, err
	}
	f := fakeweb.NewFactory(append([]fakeweb.Option{fakeweb.WithBackend(b)}, l.opts...)...)
	l.factories[b] = f
	return f, nil
}

type fakeStore struct {
	saved bool
	last  domain.RunArtifact
}

func (s *fakeStore) SaveRun(run domain.RunArtifact) (string, error) {
	s.saved = true
	s.last = run
	return "run-123", nil
}
func (s *fakeStore) ListRuns() ([]domain.RunRef, error) { return nil, nil }
func (s *fakeStore) LoadRun(string) ([]byte, error)     { return nil, nil }

func catalogOf(ss ...scenario.Scenario) func() iter.Seq[scenario.Scenario] {
	return func() iter.Seq[scenario.Scenario] {
		return func(yield func(scenario.Scenario) bool) {
			for _, s := range ss {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// --- tests ---

func TestRunSuite_FullCatalogOnBothBackends(t *testing.T) {
	launcher := newLauncher()
	store := &fakeStore{}
	var observed int

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, launcher,
		WithStore(store),
		WithObserver(func(domain.ScenarioResult) { observed++ }),
	)

	run, err := uc.Execute(context.Background(), SuiteRequest{Env: "dev"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if run.ID != "run-123" || !store.saved {
		t.Fatalf("expected run to be saved, id=%q", run.ID)
	}
	if run.Failures() != 0 {
		for _, b := range run.Backends {
			for _, s := range b.Scenarios {
				if s.Failed() {
					t.Errorf("%s/%s failed: %+v %+v", b.Backend, s.DisplayName(), s.Error, s.Assertions)
				}
			}
		}
		t.FailNow()
	}
	if len(run.Backends) != 2 || run.Backends[0].Backend != domain.BackendPlaywright || run.Backends[1].Backend != domain.BackendChromedp {
		t.Fatalf("unexpected backends %+v", run.Backends)
	}

	for _, b := range run.Backends {
		if len(b.Scenarios) != 35 {
			t.Fatalf("expected 35 scenario results on %s, got %d", b.Backend, len(b.Scenarios))
		}
		prev := 0
		for _, s := range b.Scenarios {
			if s.TeardownCount != 1 {
				t.Fatalf("%s: expected teardown once, got %d", s.DisplayName(), s.TeardownCount)
			}
			if s.Order < prev {
				t.Fatalf("scenarios out of order: %d after %d", s.Order, prev)
			}
			prev = s.Order
		}
		f := launcher.factories[b.Backend]
		if f.Opened() != 35 || f.Closed() != 35 {
			t.Fatalf("%s: expected 35 sessions opened and closed, got %d/%d", b.Backend, f.Opened(), f.Closed())
		}
	}
	if observed != 70 {
		t.Fatalf("expected 70 observed results, got %d", observed)
	}
}

func TestRunSuite_MissingConfigAbortsBeforeLaunch(t *testing.T) {
	launcher := newLauncher()
	vars := validVars()
	delete(vars, domain.KeyPassword)

	uc := NewRunSuite(&fakeSettings{vars: vars}, launcher)
	_, err := uc.Execute(context.Background(), SuiteRequest{})
	if !domain.IsKind(err, domain.KindMissingConfig) {
		t.Fatalf("expected missing_config, got %v", err)
	}
	if len(launcher.factories) != 0 {
		t.Fatalf("no backend should start when configuration is incomplete")
	}
}

func TestRunSuite_LoaderErrorIsReturned(t *testing.T) {
	boom := &domain.OpError{Op: "envconfig.load", Kind: domain.KindInvalidConfig, Err: errors.New("bad yaml")}
	uc := NewRunSuite(&fakeSettings{err: boom}, newLauncher())

	if _, err := uc.Execute(context.Background(), SuiteRequest{}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestRunSuite_PanicAndErrorsAreIsolated(t *testing.T) {
	panics := scenario.Scenario{Name: "panics", Order: 1, Act: func(context.Context, *scenario.Env) error {
		panic("kaboom")
	}}
	errs := scenario.Scenario{Name: "errors", Order: 2, Act: func(ctx context.Context, e *scenario.Env) error {
		return e.Form.SelectByLabel(ctx, "Four")
	}}
	mismatch := scenario.Scenario{Name: "mismatch", Order: 3, Assert: func(ctx context.Context, e *scenario.Env) error {
		e.Check.Equal("heading", "nope", "Hands-On")
		return nil
	}}
	passes := scenario.Scenario{Name: "passes", Order: 4, Assert: func(ctx context.Context, e *scenario.Env) error {
		h, err := e.Form.Heading(ctx)
		e.Check.NotEmpty("heading", h)
		return err
	}}

	launcher := newLauncher()
	uc := NewRunSuite(&fakeSettings{vars: validVars()}, launcher,
		WithCatalog(catalogOf(passes, mismatch, errs, panics)))

	run, err := uc.Execute(context.Background(), SuiteRequest{Backends: []domain.Backend{domain.BackendChromedp}})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	got := run.Backends[0].Scenarios
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %d", len(got))
	}

	wantKinds := []domain.ErrorKind{domain.KindExecution, domain.KindElementResolution, domain.KindAssertionMismatch, ""}
	for i, s := range got {
		if s.Order != i+1 {
			t.Fatalf("expected order %d at %d, got %d", i+1, i, s.Order)
		}
		if s.TeardownCount != 1 {
			t.Fatalf("%s: teardown ran %d times", s.Name, s.TeardownCount)
		}
		var kind domain.ErrorKind
		if s.Error != nil {
			kind = s.Error.Kind
		}
		if kind != wantKinds[i] {
			t.Fatalf("%s: expected kind %q, got %q (%+v)", s.Name, wantKinds[i], kind, s.Error)
		}
	}
	if f := launcher.factories[domain.BackendChromedp]; f.Closed() != 4 {
		t.Fatalf("expected 4 closed sessions, got %d", f.Closed())
	}
	if run.Failures() != 3 {
		t.Fatalf("expected 3 failures, got %d", run.Failures())
	}
}

func TestRunSuite_ScenarioTimeoutIsActionTimeout(t *testing.T) {
	slow := scenario.Scenario{Name: "slow", Order: 1, Act: func(ctx context.Context, _ *scenario.Env) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, newLauncher(), WithCatalog(catalogOf(slow)))
	run, err := uc.Execute(context.Background(), SuiteRequest{
		Backends:        []domain.Backend{domain.BackendPlaywright},
		ScenarioTimeout: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	res := run.Backends[0].Scenarios[0]
	if res.Error == nil || res.Error.Kind != domain.KindActionTimeout {
		t.Fatalf("expected action_timeout, got %+v", res.Error)
	}
	if res.TeardownCount != 1 {
		t.Fatalf("expected teardown after timeout")
	}
}

func TestRunSuite_LaunchFailureIsLocalToBackend(t *testing.T) {
	launcher := newLauncher()
	launcher.failFor = map[domain.Backend]error{
		domain.BackendPlaywright: &domain.OpError{Op: "pwbackend.launch", Kind: domain.KindExecution, Err: errors.New("driver missing")},
	}

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, launcher,
		WithCatalog(catalogOf(scenario.Scenario{Name: "noop", Order: 1})))

	run, err := uc.Execute(context.Background(), SuiteRequest{})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if run.Backends[0].Error == nil || len(run.Backends[0].Scenarios) != 0 {
		t.Fatalf("expected playwright backend error, got %+v", run.Backends[0])
	}
	if run.Backends[1].Error != nil || len(run.Backends[1].Scenarios) != 1 {
		t.Fatalf("expected chromedp to run, got %+v", run.Backends[1])
	}
	if run.Failures() != 1 {
		t.Fatalf("expected 1 failure, got %d", run.Failures())
	}
}

func TestRunSuite_TracePathPerScenario(t *testing.T) {
	launcher := newLauncher()
	traceDir := filepath.Join(t.TempDir(), "traces")

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, launcher,
		WithCatalog(scenario.WebForm))

	_, err := uc.Execute(context.Background(), SuiteRequest{
		Backends: []domain.Backend{domain.BackendChromedp},
		Filter:   scenario.Filter{Only: "datalist"},
		TraceDir: traceDir,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	opts := launcher.factories[domain.BackendChromedp].SessionOptions()
	if len(opts) != 5 {
		t.Fatalf("expected 5 sessions, got %d", len(opts))
	}
	want := filepath.Join(traceDir, "chromedp", "16-dropdown-datalist-san-francisco.zip")
	if opts[0].TracePath != want {
		t.Fatalf("expected trace path %s, got %s", want, opts[0].TracePath)
	}
}

func TestRunSuite_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := scenario.Scenario{Name: "first", Order: 1, Act: func(context.Context, *scenario.Env) error {
		cancel()
		return nil
	}}
	second := scenario.Scenario{Name: "second", Order: 2}

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, newLauncher(), WithCatalog(catalogOf(first, second)))
	run, err := uc.Execute(ctx, SuiteRequest{Backends: []domain.Backend{domain.BackendPlaywright}})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	got := run.Backends[0].Scenarios
	if len(got) != 2 || !got[1].Skipped {
		t.Fatalf("expected second scenario skipped, got %+v", got)
	}
}

func TestResolveConfig_MasksSecrets(t *testing.T) {
	vars := validVars()
	delete(vars, domain.KeyBaseURL)
	uc := NewResolveConfig(&fakeSettings{vars: vars})

	view, err := uc.Execute("qa", domain.Vars{"apiToken": "t"}, false)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if view.Env != "qa" {
		t.Fatalf("expected env qa, got %s", view.Env)
	}
	if view.Vars[domain.KeyPassword] != maskValue || view.Vars["apiToken"] != maskValue {
		t.Fatalf("expected secrets masked, got %+v", view.Vars)
	}
	if len(view.Missing) != 1 || view.Missing[0] != domain.KeyBaseURL {
		t.Fatalf("expected baseUrl missing, got %v", view.Missing)
	}

	view, _ = uc.Execute("qa", nil, true)
	if view.Vars[domain.KeyPassword] != "pass" {
		t.Fatalf("expected reveal to show values")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"dropdown datalist [San Francisco]": "dropdown-datalist-san-francisco",
		"  Heading -- title ":               "heading-title",
		"!!!":                               "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeProbe struct {
	url string
	err error
}

func (p *fakeProbe) Probe(_ context.Context, url string) error {
	p.url = url
	return p.err
}

func TestRunSuite_ProbeFailureAbortsBeforeLaunch(t *testing.T) {
	launcher := newLauncher()
	probe := &fakeProbe{err: &domain.OpError{Op: "httpclient.probe", Kind: domain.KindExecution, Err: errors.New("connection refused")}}

	uc := NewRunSuite(&fakeSettings{vars: validVars()}, launcher, WithProbe(probe))
	_, err := uc.Execute(context.Background(), SuiteRequest{})
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected probe error, got %v", err)
	}
	if probe.url != "https://example.test/site/web-form.html" {
		t.Fatalf("expected web form url to be probed, got %q", probe.url)
	}
	if len(launcher.factories) != 0 {
		t.Fatalf("no backend should start when the site is unreachable")
	}
}
