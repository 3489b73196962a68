package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
)

// Phase is a step of the per-scenario lifecycle.
type Phase string

const (
	PhaseInit     Phase = "init"
	PhaseNavigate Phase = "navigate"
	PhaseAct      Phase = "act"
	PhaseAssert   Phase = "assert"
	PhaseTeardown Phase = "teardown"
)

const teardownTimeout = 30 * time.Second

// ScenarioRunner drives one scenario through
// init -> navigate -> act -> assert -> teardown on a single backend.
type ScenarioRunner struct {
	factory  ports.SessionFactory
	settings domain.Settings
	timeout  time.Duration
	traceDir string
	log      *slog.Logger
	now      func() time.Time
}

func NewScenarioRunner(f ports.SessionFactory, settings domain.Settings, timeout time.Duration, traceDir string, log *slog.Logger) *ScenarioRunner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ScenarioRunner{
		factory:  f,
		settings: settings,
		timeout:  timeout,
		traceDir: traceDir,
		log:      log.With("backend", string(f.Backend())),
		now:      time.Now,
	}
}

// TracePath is where the diagnostic archive of s lands, or "" when tracing is off.
func (r *ScenarioRunner) TracePath(s scenario.Scenario) string {
	if r.traceDir == "" {
		return ""
	}
	name := strconv.Itoa(s.Order) + "-" + slugify(s.Key()) + ".zip"
	return filepath.Join(r.traceDir, string(r.factory.Backend()), name)
}

// Run never returns an error: every failure is recorded on the result.
// Teardown runs exactly once for every session that was opened, even if a
// step panics.
func (r *ScenarioRunner) Run(ctx context.Context, s scenario.Scenario) (res domain.ScenarioResult) {
	res = domain.ScenarioResult{
		Backend:   r.factory.Backend(),
		Name:      s.Name,
		Order:     s.Order,
		Param:     s.Param,
		StartedAt: r.now(),
	}
	log := r.log.With("scenario", s.Key())

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tracePath := r.TracePath(s)
	if tracePath != "" {
		if err := os.MkdirAll(filepath.Dir(tracePath), 0o755); err != nil {
			log.Warn("scenario.trace_dir_failed", "err", err)
			tracePath = ""
		}
	}

	sess, err := r.factory.Open(ctx, domain.SessionOptions{
		Name:      s.Key(),
		BaseURL:   r.settings.BaseURL(),
		TracePath: tracePath,
	})
	if err != nil {
		res.Error = domain.NewRunError(phaseErr(PhaseInit, err))
		res.EndedAt = r.now()
		log.Error("scenario.init_failed", "err", err)
		return res
	}

	tmp, tmpErr := os.MkdirTemp("", "webform-scenario-*")

	phase := PhaseInit
	defer func() {
		if p := recover(); p != nil {
			res.Error = domain.NewRunError(phaseErr(phase, &domain.OpError{
				Op:   "scenario.run",
				Kind: domain.KindExecution,
				Err:  fmt.Errorf("panic: %v", p),
			}))
			log.Error("scenario.panic", "phase", phase, "panic", fmt.Sprint(p))
		}

		// The scenario context may already be expired; teardown gets its own budget.
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
		defer cancel()

		cerr := sess.Close(closeCtx)
		res.TeardownCount++
		if cerr != nil {
			log.Warn("session.close_failed", "err", cerr)
			if res.Error == nil {
				res.Error = domain.NewRunError(phaseErr(PhaseTeardown, cerr))
			}
		}
		if tmpErr == nil {
			_ = os.RemoveAll(tmp)
		}
		if tracePath != "" {
			if _, err := os.Stat(tracePath); err == nil {
				res.TracePath = tracePath
			}
		}

		res.EndedAt = r.now()
		log.Info("scenario.finished",
			"failed", res.Failed(),
			"duration_ms", res.EndedAt.Sub(res.StartedAt).Milliseconds(),
		)
	}()

	if tmpErr != nil {
		res.Error = domain.NewRunError(phaseErr(PhaseInit, tmpErr))
		return res
	}

	env := scenario.NewEnv(sess, r.settings, tmp)

	phase = PhaseNavigate
	if err := sess.Navigate(ctx, domain.WebFormURL(r.settings.BaseURL())); err != nil {
		res.Error = domain.NewRunError(phaseErr(phase, err))
		return res
	}

	phase = PhaseAct
	if s.Act != nil {
		if err := s.Act(ctx, env); err != nil {
			res.Assertions = env.Check.Results()
			res.Error = domain.NewRunError(phaseErr(phase, err))
			return res
		}
	}

	phase = PhaseAssert
	if s.Assert != nil {
		if err := s.Assert(ctx, env); err != nil {
			res.Assertions = env.Check.Results()
			res.Error = domain.NewRunError(phaseErr(phase, err))
			return res
		}
	}

	res.Assertions = env.Check.Results()
	if err := env.Check.Err(); err != nil {
		res.Error = domain.NewRunError(err)
	}
	phase = PhaseTeardown
	return res
}

// phaseErr prefixes err with the phase while keeping its kind.
func phaseErr(p Phase, err error) error {
	if err == nil {
		return nil
	}
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return &domain.OpError{Op: string(p), Kind: oe.Kind, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.OpError{Op: string(p), Kind: domain.KindActionTimeout, Err: err}
	}
	return &domain.OpError{Op: string(p), Kind: domain.KindExecution, Err: err}
}
