package tui

import (
	"context"
	"log/slog"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
	"github.com/ISmeneger/webform-e2e/internal/usecase"
)

// RunFunc runs the picked scenarios and reports each result through observe.
type RunFunc func(ctx context.Context, picked []scenario.Scenario, observe usecase.Observer) (domain.RunArtifact, error)

type Deps struct {
	Root     string
	Env      string
	Backends []domain.Backend

	// Scenarios is the catalog offered for picking, in execution order.
	Scenarios []scenario.Scenario
	Run       RunFunc

	Logger *slog.Logger
	Debug  bool
}
