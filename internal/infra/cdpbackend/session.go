package cdpbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/chromedp/chromedp"
)

const (
	pollInterval = 100 * time.Millisecond
	probeTimeout = time.Second
	traceTimeout = 15 * time.Second
)

// Session is one target in its own browser context.
type Session struct {
	ctx       context.Context // tab context; cancelling it closes the target
	cancel    context.CancelFunc
	timeout   time.Duration
	baseURL   string
	tracePath string
	log       *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newSession(ctx context.Context, cancel context.CancelFunc, timeout time.Duration, opts domain.SessionOptions, log *slog.Logger) *Session {
	base := opts.BaseURL
	if base == "" {
		base = domain.DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = domain.DefaultConfig().Browser.Timeout
	}
	return &Session{
		ctx:       ctx,
		cancel:    cancel,
		timeout:   timeout,
		baseURL:   base,
		tracePath: opts.TracePath,
		log:       log.With("session", opts.Name),
	}
}

var _ ports.Session = (*Session)(nil)

// query is a selector plus how chromedp should resolve it.
type query struct {
	sel   string
	by    chromedp.QueryOption
	xpath bool
}

func byCSS(sel string) query   { return query{sel: sel, by: chromedp.ByQuery} }
func byID(sel string) query    { return query{sel: sel, by: chromedp.ByID} }
func byXPath(sel string) query { return query{sel: sel, by: chromedp.BySearch, xpath: true} }

// actionContext bounds one user action by the configured timeout and by
// the caller's deadline, whichever comes first, and follows caller cancellation.
func (s *Session) actionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline := time.Now().Add(s.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	actx, cancel := context.WithDeadline(s.ctx, deadline)
	stop := context.AfterFunc(ctx, cancel)
	return actx, func() {
		stop()
		cancel()
	}
}

// run executes actions as one user intention and classifies the failure.
func (s *Session) run(ctx context.Context, op string, q query, actions ...chromedp.Action) error {
	if s.closed.Load() {
		return closedErr(op)
	}
	if err := ctx.Err(); err != nil {
		return wrapErr(op, q.sel, err)
	}

	actx, cancel := s.actionContext(ctx)
	defer cancel()

	err := chromedp.Run(actx, actions...)
	if err == nil {
		return nil
	}
	return s.classify(ctx, op, q, err)
}

func (s *Session) classify(ctx context.Context, op string, q query, err error) error {
	switch {
	case s.closed.Load() || s.ctx.Err() != nil:
		return closedErr(op)
	case ctx.Err() != nil:
		return wrapErr(op, q.sel, ctx.Err())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// chromedp waits for selectors until the deadline, so a timeout may
		// mean the element never existed.
		if q.sel != "" && !s.exists(q) {
			return notMatched(op, q.sel, q.sel)
		}
		return wrapErr(op, q.sel, context.DeadlineExceeded)
	}
	return wrapErr(op, q.sel, err)
}

// exists reports whether q matches at least one node right now.
func (s *Session) exists(q query) bool {
	lit, err := json.Marshal(q.sel)
	if err != nil {
		return false
	}
	var expr string
	switch {
	case q.xpath:
		expr = fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength`, lit)
	case q.by == nil:
		return true
	default:
		expr = fmt.Sprintf(`document.querySelectorAll(%s).length`, lit)
	}

	pctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
	defer cancel()
	var n int
	if err := chromedp.Run(pctx, chromedp.Evaluate(expr, &n)); err != nil {
		return true
	}
	return n > 0
}

// waitURL polls the location until match accepts it. Errors during the
// navigation itself are retried until the action deadline.
func (s *Session) waitURL(op, want string, match func(string) bool) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var last error
		for {
			var u string
			err := chromedp.Location(&u).Do(ctx)
			if err == nil && match(u) {
				return nil
			}
			if err != nil {
				last = err
			}
			select {
			case <-ctx.Done():
				if last != nil {
					return fmt.Errorf("%s: waiting for %s: %w", op, want, errors.Join(ctx.Err(), last))
				}
				return fmt.Errorf("%s: waiting for %s, at %s: %w", op, want, u, ctx.Err())
			case <-time.After(pollInterval):
			}
		}
	}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, "navigate", query{sel: url}, chromedp.Navigate(url))
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := s.run(ctx, "current_url", query{}, chromedp.Location(&u))
	return u, err
}

func (s *Session) HomePage() ports.HomePage           { return &homePage{s: s} }
func (s *Session) WebForm() ports.WebForm             { return &webForm{s: s} }
func (s *Session) SubmittedPage() ports.SubmittedPage { return &submittedPage{s: s} }

// Close writes the trace archive, then closes the target and its browser context.
func (s *Session) Close(context.Context) error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.tracePath != "" {
			if err := s.captureTrace(); err != nil {
				errs = append(errs, &domain.OpError{
					Op:   "cdpbackend.trace",
					Kind: domain.KindExecution,
					Path: s.tracePath,
					Err:  err,
				})
			}
		}

		s.closed.Store(true)
		if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, wrapErr("close", "", err))
		}
		s.cancel()

		s.closeErr = errors.Join(errs...)
		s.log.Debug("session.closed", "trace", s.tracePath, "err", s.closeErr)
	})
	return s.closeErr
}

func (s *Session) captureTrace() error {
	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}
	tctx, cancel := context.WithTimeout(s.ctx, traceTimeout)
	defer cancel()

	var (
		shot []byte
		dom  string
		url  string
	)
	err := chromedp.Run(tctx,
		chromedp.Location(&url),
		chromedp.FullScreenshot(&shot, 100),
		chromedp.OuterHTML("html", &dom, chromedp.ByQuery),
	)
	if err != nil {
		return err
	}
	return writeTrace(s.tracePath, traceSnapshot{
		URL:        url,
		CapturedAt: time.Now().UTC(),
		Screenshot: shot,
		DOM:        dom,
	})
}
