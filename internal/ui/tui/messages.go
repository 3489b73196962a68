package tui

import "github.com/ISmeneger/webform-e2e/internal/domain"

// scenarioDoneMsg carries one result while the suite is still running.
type scenarioDoneMsg struct {
	res domain.ScenarioResult
}

type runnerDoneMsg struct {
	run domain.RunArtifact
	err error
}
