package ports

import (
	"context"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

// SessionFactory owns one launched browser for a backend and hands out
// isolated sessions (cookies, storage, page state) per scenario.
type SessionFactory interface {
	Backend() domain.Backend
	Open(ctx context.Context, opts domain.SessionOptions) (Session, error)
	Close() error
}

// Session is an isolated browser context with a single page.
// Page objects obtained from a session are bound to it and stop working once it is closed.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)

	HomePage() HomePage
	WebForm() WebForm
	SubmittedPage() SubmittedPage

	// Close flushes diagnostics and releases the context. It is safe to call more than once.
	Close(ctx context.Context) error
}

// BackendLauncher starts the browser for one backend. The suite calls it once
// per backend and closes the returned factory when that backend finishes.
type BackendLauncher interface {
	Launch(ctx context.Context, backend domain.Backend) (SessionFactory, error)
}

// SiteProbe checks that the page under test answers before any browser starts.
type SiteProbe interface {
	Probe(ctx context.Context, url string) error
}
