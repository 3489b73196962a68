package fakeweb

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// Factory hands out isolated in-memory sessions.
type Factory struct {
	backend domain.Backend
	content Content
	hook    func(op string) error
	openErr error

	opened atomic.Int64
	closed atomic.Int64

	mu      sync.Mutex
	options []domain.SessionOptions
	shut    bool
}

type Option func(*Factory)

func WithBackend(b domain.Backend) Option {
	return func(f *Factory) { f.backend = b }
}

func WithContent(c Content) Option {
	return func(f *Factory) { f.content = c }
}

// WithHook runs before every page operation; a non-nil error fails it.
// The hook may also panic to simulate a crashing step.
func WithHook(fn func(op string) error) Option {
	return func(f *Factory) { f.hook = fn }
}

// WithOpenError makes every Open fail.
func WithOpenError(err error) Option {
	return func(f *Factory) { f.openErr = err }
}

func NewFactory(opts ...Option) *Factory {
	f := &Factory{backend: domain.BackendPlaywright, content: DefaultContent()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.SessionFactory = (*Factory)(nil)

func (f *Factory) Backend() domain.Backend { return f.backend }

func (f *Factory) Open(_ context.Context, opts domain.SessionOptions) (ports.Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shut {
		return nil, &domain.OpError{Op: "fakeweb.open", Kind: domain.KindSessionClosed, Err: domain.ErrSessionClosed}
	}
	f.options = append(f.options, opts)
	f.opened.Add(1)

	return &Session{factory: f, page: newPage(f.content, f.hook)}, nil
}

func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shut = true
	return nil
}

// Opened and Closed count sessions; tests use them to check teardown.
func (f *Factory) Opened() int { return int(f.opened.Load()) }
func (f *Factory) Closed() int { return int(f.closed.Load()) }

// SessionOptions returns the options of every Open call, in order.
func (f *Factory) SessionOptions() []domain.SessionOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SessionOptions(nil), f.options...)
}

// Session is one simulated browser context.
type Session struct {
	factory *Factory
	page    *page
	once    sync.Once
}

var _ ports.Session = (*Session)(nil)

func (s *Session) Navigate(_ context.Context, url string) error {
	return s.page.do("navigate", func() error {
		s.page.navigate(url)
		return nil
	})
}

func (s *Session) CurrentURL(context.Context) (string, error) {
	var out string
	err := s.page.do("current_url", func() error {
		out = s.page.url
		return nil
	})
	return out, err
}

func (s *Session) HomePage() ports.HomePage           { return homePage{p: s.page} }
func (s *Session) WebForm() ports.WebForm             { return webForm{p: s.page} }
func (s *Session) SubmittedPage() ports.SubmittedPage { return submittedPage{p: s.page} }

func (s *Session) Close(context.Context) error {
	s.once.Do(func() {
		s.page.mu.Lock()
		s.page.closed = true
		s.page.mu.Unlock()
		s.factory.closed.Add(1)
	})
	return nil
}
