// Package pwbackend drives the web form through playwright-go.
package pwbackend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/playwright-community/playwright-go"
)

// Factory owns one playwright driver and one launched chromium.
type Factory struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     domain.BrowserConfig
	log     *slog.Logger
}

type Option func(*Factory)

func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// Launch starts the driver and the browser. It fails fast if the driver or
// browsers were never installed (see Install).
func Launch(ctx context.Context, cfg domain.BrowserConfig, opts ...Option) (*Factory, error) {
	f := &Factory{cfg: cfg, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(f)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("launch", "", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, &domain.OpError{Op: "pwbackend.launch", Kind: domain.KindExecution, Err: err}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, &domain.OpError{Op: "pwbackend.launch", Kind: domain.KindExecution, Err: err}
	}

	f.pw = pw
	f.browser = browser
	f.log.Info("backend.launched", "backend", string(domain.BackendPlaywright), "version", browser.Version(), "headless", cfg.Headless)
	return f, nil
}

// Install downloads the driver and chromium.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

var _ ports.SessionFactory = (*Factory)(nil)

func (f *Factory) Backend() domain.Backend { return domain.BackendPlaywright }

// Open creates a fresh BrowserContext with a single page. Tracing starts
// before the page exists so the archive covers the whole scenario.
func (f *Factory) Open(ctx context.Context, opts domain.SessionOptions) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("open", "", err)
	}

	bctx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: f.cfg.Width, Height: f.cfg.Height},
	})
	if err != nil {
		return nil, wrap("open", "", err)
	}
	bctx.SetDefaultTimeout(float64(f.cfg.Timeout / time.Millisecond))
	bctx.SetDefaultNavigationTimeout(float64(f.cfg.Timeout / time.Millisecond))

	if opts.TracePath != "" {
		err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(opts.Name),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			_ = bctx.Close()
			return nil, wrap("trace_start", "", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, wrap("new_page", "", err)
	}

	return newSession(bctx, page, opts, f.log), nil
}

func (f *Factory) Close() error {
	var errs []error
	if f.browser != nil {
		errs = append(errs, f.browser.Close())
	}
	if f.pw != nil {
		errs = append(errs, f.pw.Stop())
	}
	return errors.Join(errs...)
}
