// Package cdpbackend drives the web form through the Chrome DevTools
// protocol with chromedp. Selectors are resolved on every call.
package cdpbackend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"github.com/chromedp/chromedp"
)

// Factory owns one chrome process. Sessions are separate browser contexts
// (incognito-like: no shared cookies or storage) inside it.
type Factory struct {
	cfg domain.BrowserConfig
	log *slog.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	execPath string
}

type Option func(*Factory)

func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.log = l }
}

// WithExecPath points at a specific chrome binary instead of searching PATH.
func WithExecPath(p string) Option {
	return func(f *Factory) { f.execPath = p }
}

// Launch starts chrome. The browser lives until Close, independent of ctx.
func Launch(ctx context.Context, cfg domain.BrowserConfig, opts ...Option) (*Factory, error) {
	f := &Factory{cfg: cfg, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(f)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("launch", "", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.Width, cfg.Height),
	)
	if f.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(f.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		f.log.Debug("chromedp.log", "msg", fmt.Sprintf(format, args...))
	}))

	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &domain.OpError{Op: "cdpbackend.launch", Kind: domain.KindExecution, Err: err}
	}

	f.allocCancel = allocCancel
	f.browserCtx = browserCtx
	f.browserCancel = browserCancel
	f.log.Info("backend.launched", "backend", string(domain.BackendChromedp), "headless", cfg.Headless)
	return f, nil
}

var _ ports.SessionFactory = (*Factory)(nil)

func (f *Factory) Backend() domain.Backend { return domain.BackendChromedp }

func (f *Factory) Open(ctx context.Context, opts domain.SessionOptions) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("open", "", err)
	}
	if f.browserCtx.Err() != nil {
		return nil, closedErr("open")
	}

	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx, chromedp.WithNewBrowserContext())
	// Allocates the target; it must not carry a timeout or the tab dies with it.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, wrapErr("open", "", err)
	}

	return newSession(tabCtx, tabCancel, f.cfg.Timeout, opts, f.log), nil
}

func (f *Factory) Close() error {
	if f.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(f.browserCtx)
	f.browserCancel()
	f.allocCancel()
	return err
}
