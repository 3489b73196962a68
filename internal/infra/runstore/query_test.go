package runstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func TestQuery_SelectsScenarioNames(t *testing.T) {
	doc, err := json.Marshal(sampleRun(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := Query(doc, "$.Backends[0].Scenarios[*].Name")
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	names, ok := got.([]any)
	if !ok || len(names) != 2 || names[1] != "heading" {
		t.Fatalf("unexpected result %#v", got)
	}

	env, err := Query(doc, "$.EnvironmentName")
	if err != nil || env != "dev" {
		t.Fatalf("expected env=dev, got %v (%v)", env, err)
	}
}

func TestQuery_Errors(t *testing.T) {
	if _, err := Query([]byte(`{}`), " "); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config for empty expr, got %v", err)
	}
	if _, err := Query([]byte(`not json`), "$.a"); err == nil {
		t.Fatalf("expected error for invalid document")
	}
	if _, err := Query([]byte(`{"a":1}`), "$.missing"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
