package pwbackend

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/playwright-community/playwright-go"
)

// Session is one BrowserContext and its page.
type Session struct {
	bctx      playwright.BrowserContext
	page      playwright.Page
	baseURL   string
	tracePath string
	log       *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newSession(bctx playwright.BrowserContext, page playwright.Page, opts domain.SessionOptions, log *slog.Logger) *Session {
	base := opts.BaseURL
	if base == "" {
		base = domain.DefaultBaseURL
	}
	return &Session{
		bctx:      bctx,
		page:      page,
		baseURL:   base,
		tracePath: opts.TracePath,
		log:       log.With("session", opts.Name),
	}
}

var _ ports.Session = (*Session)(nil)

// guard rejects work on a closed session or an expired context.
func (s *Session) guard(ctx context.Context, op string) error {
	if s.closed.Load() {
		return closedErr(op)
	}
	if err := ctx.Err(); err != nil {
		return wrap(op, "", err)
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.guard(ctx, "navigate"); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad})
	return wrap("navigate", url, err)
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	if err := s.guard(ctx, "current_url"); err != nil {
		return "", err
	}
	return s.page.URL(), nil
}

func (s *Session) HomePage() ports.HomePage           { return &homePage{s: s} }
func (s *Session) WebForm() ports.WebForm             { return newWebForm(s) }
func (s *Session) SubmittedPage() ports.SubmittedPage { return newSubmittedPage(s) }

// Close stops tracing into the archive, then closes the context.
func (s *Session) Close(context.Context) error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []error
		if s.tracePath != "" {
			if err := s.bctx.Tracing().Stop(s.tracePath); err != nil {
				errs = append(errs, wrap("trace_stop", s.tracePath, err))
			}
		}
		if err := s.bctx.Close(); err != nil {
			errs = append(errs, wrap("close", "", err))
		}
		s.closeErr = errors.Join(errs...)
		s.log.Debug("session.closed", "trace", s.tracePath, "err", s.closeErr)
	})
	return s.closeErr
}
