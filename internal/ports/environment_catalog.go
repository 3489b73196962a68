package ports

import "github.com/ISmeneger/webform-e2e/internal/domain"

type EnvironmentCatalog interface {
	ListEnvironments() ([]domain.EnvironmentRef, error)
}
