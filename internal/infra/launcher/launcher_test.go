package launcher

import (
	"context"
	"testing"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func TestLaunchUnknownBackend(t *testing.T) {
	l := New(domain.DefaultConfig().Browser)
	f, err := l.Launch(context.Background(), domain.Backend("selenium"))
	if f != nil {
		t.Fatalf("expected no factory")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLaunchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(domain.DefaultConfig().Browser)
	for _, b := range domain.AllBackends {
		f, err := l.Launch(ctx, b)
		if err == nil || f != nil {
			t.Fatalf("%s: expected launch to fail on a cancelled context", b)
		}
	}
}
