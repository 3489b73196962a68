// Package launcher maps backend names to the browser drivers that implement them.
package launcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/infra/cdpbackend"
	"github.com/ISmeneger/webform-e2e/internal/infra/pwbackend"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

type Launcher struct {
	cfg       domain.BrowserConfig
	log       *slog.Logger
	chromeBin string
}

type Option func(*Launcher)

func WithLogger(l *slog.Logger) Option {
	return func(x *Launcher) { x.log = l }
}

// WithChromePath makes the chromedp backend use a specific chrome binary.
func WithChromePath(p string) Option {
	return func(x *Launcher) { x.chromeBin = p }
}

func New(cfg domain.BrowserConfig, opts ...Option) *Launcher {
	l := &Launcher{cfg: cfg, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.BackendLauncher = (*Launcher)(nil)

func (l *Launcher) Launch(ctx context.Context, b domain.Backend) (ports.SessionFactory, error) {
	log := l.log.With("backend", string(b))

	switch b {
	case domain.BackendPlaywright:
		f, err := pwbackend.Launch(ctx, l.cfg, pwbackend.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return f, nil

	case domain.BackendChromedp:
		opts := []cdpbackend.Option{cdpbackend.WithLogger(log)}
		if l.chromeBin != "" {
			opts = append(opts, cdpbackend.WithExecPath(l.chromeBin))
		}
		f, err := cdpbackend.Launch(ctx, l.cfg, opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	return nil, &domain.OpError{
		Op:   "launcher.launch",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("unknown backend %q", b),
	}
}
