package cdpbackend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func TestWrapErrClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"deadline", context.DeadlineExceeded, domain.KindActionTimeout},
		{"canceled", context.Canceled, domain.KindSessionClosed},
		{"missing node", errors.New("could not find node with given id"), domain.KindElementResolution},
		{"invalid context", errors.New("invalid context"), domain.KindSessionClosed},
		{"other", errors.New("boom"), domain.KindExecution},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := wrapErr("op", "#sel", tc.err)
			if got := domain.KindOf(err); got != tc.want {
				t.Fatalf("expected %s, got %s (%v)", tc.want, got, err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected wrapped cause, got %v", err)
			}
		})
	}

	if wrapErr("op", "", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestNotMatchedIsElementResolution(t *testing.T) {
	err := notMatched("select_label", "[name='my-select']", `option text "Four"`)
	if !domain.IsKind(err, domain.KindElementResolution) {
		t.Fatalf("expected element_resolution, got %v", err)
	}
}

func TestRunRejectsClosedSession(t *testing.T) {
	s := &Session{timeout: time.Second}
	s.closed.Store(true)

	err := s.run(context.Background(), "heading", qHeading)
	if !domain.IsKind(err, domain.KindSessionClosed) {
		t.Fatalf("expected session_closed, got %v", err)
	}
	if !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed in chain, got %v", err)
	}

	_, err = s.WebForm().Heading(context.Background())
	if !domain.IsKind(err, domain.KindSessionClosed) {
		t.Fatalf("expected page objects to fail after close, got %v", err)
	}
}

func TestRunRejectsExpiredContext(t *testing.T) {
	s := &Session{timeout: time.Second}
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := s.run(ctx, "navigate", query{sel: "https://example.com"})
	if !domain.IsKind(err, domain.KindActionTimeout) {
		t.Fatalf("expected action_timeout, got %v", err)
	}
}

func TestActionContextUsesEarlierDeadline(t *testing.T) {
	s := &Session{ctx: context.Background(), timeout: time.Hour}
	dl := time.Now().Add(time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), dl)
	defer cancel()

	actx, done := s.actionContext(ctx)
	defer done()
	got, ok := actx.Deadline()
	if !ok || !got.Equal(dl) {
		t.Fatalf("expected caller deadline %v, got %v", dl, got)
	}
}

func TestActionContextFollowsCallerCancel(t *testing.T) {
	s := &Session{ctx: context.Background(), timeout: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	actx, done := s.actionContext(ctx)
	defer done()
	cancel()

	select {
	case <-actx.Done():
	case <-time.After(time.Second):
		t.Fatalf("expected action context to be cancelled with the caller")
	}
}

func TestToggleQueriesCoverEveryToggle(t *testing.T) {
	for _, tg := range []domain.Toggle{
		domain.CheckedCheckbox, domain.DefaultCheckbox,
		domain.CheckedRadio, domain.DefaultRadio,
	} {
		if _, ok := toggleQueries[tg]; !ok {
			t.Fatalf("missing query for %s", tg)
		}
	}
}

func TestSelectJSQuotesInput(t *testing.T) {
	js := selectJS("text", `Two"); alert("x`)
	if want := `o.text === "Two\"); alert(\"x"`; !strings.Contains(js, want) {
		t.Fatalf("expected quoted literal %s in %s", want, js)
	}
}
