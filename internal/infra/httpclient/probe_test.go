package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func TestProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok/web-form.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<input type="text" class="form-control" name="my-text" id="my-text-id">`))
	})
	mux.HandleFunc("/other/web-form.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>parked domain</html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewProbe()
	ctx := context.Background()

	if err := p.Probe(ctx, server.URL+"/ok/web-form.html"); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if err := p.Probe(ctx, server.URL+"/other/web-form.html"); !domain.IsKind(err, domain.KindElementResolution) {
		t.Fatalf("expected element_resolution for unrelated page, got %v", err)
	}
	if err := p.Probe(ctx, server.URL+"/missing/web-form.html"); !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution error for 404, got %v", err)
	}
	if err := p.Probe(ctx, "://bad"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config for malformed url, got %v", err)
	}
}

func TestProbeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(webFormMarker))
	}))
	defer server.Close()

	p := NewProbe(WithConfig(Config{Timeout: 20 * time.Millisecond}))
	err := p.Probe(context.Background(), server.URL)
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected execution error on timeout, got %v", err)
	}
}

func TestProbeHonoursCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(webFormMarker))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProbe(WithClient(server.Client()))
	if err := p.Probe(ctx, server.URL); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Timeout: time.Second}.withDefaults()
	if cfg.Timeout != time.Second {
		t.Fatalf("explicit timeout must be kept, got %v", cfg.Timeout)
	}
	if cfg.DialTimeout != DefaultConfig().DialTimeout {
		t.Fatalf("expected default dial timeout, got %v", cfg.DialTimeout)
	}
}
