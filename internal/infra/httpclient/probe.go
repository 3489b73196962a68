package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// webFormMarker is present in the served web form markup.
const webFormMarker = "my-text-id"

const userAgent = "webform-e2e preflight"

// Probe fetches the web form once and checks it looks like the page under test.
type Probe struct {
	client *http.Client
	log    *slog.Logger
}

type Option func(*probeOptions)

type probeOptions struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

func WithConfig(cfg Config) Option {
	return func(o *probeOptions) { o.cfg = cfg }
}

// WithClient replaces the built client entirely (tests, custom transports).
func WithClient(c *http.Client) Option {
	return func(o *probeOptions) { o.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *probeOptions) { o.log = l }
}

func NewProbe(opts ...Option) *Probe {
	o := probeOptions{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = newClient(o.cfg.withDefaults())
	}
	return &Probe{client: o.client, log: o.log}
}

var _ ports.SiteProbe = (*Probe)(nil)

func (p *Probe) Probe(ctx context.Context, url string) error {
	page, err := fetch(ctx, p.client, url, userAgent)
	if err != nil {
		kind := domain.KindExecution
		var re *requestError
		if errors.As(err, &re) {
			kind = domain.KindInvalidConfig
		}
		return &domain.OpError{Op: "httpclient.probe", Kind: kind, Path: url, Err: err}
	}

	p.log.Debug("probe.fetched", "url", url, "status", page.status, "bytes", len(page.body), "duration_ms", page.elapsed.Milliseconds())

	if !page.ok() {
		return &domain.OpError{
			Op:   "httpclient.probe",
			Kind: domain.KindExecution,
			Path: url,
			Err:  fmt.Errorf("unexpected status %d", page.status),
		}
	}
	if !bytes.Contains(page.body, []byte(webFormMarker)) {
		return &domain.OpError{
			Op:   "httpclient.probe",
			Kind: domain.KindElementResolution,
			Path: url,
			Err:  fmt.Errorf("page does not contain %q; is baseUrl right?", webFormMarker),
		}
	}
	return nil
}
