package runstore

import (
	"encoding/json"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression against a stored run document,
// e.g. `$.Backends[*].Scenarios[?(@.Error)].Name`.
func Query(doc []byte, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &domain.OpError{
			Op:   "runstore.query",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.query",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	out, err := jsonpath.Get(expr, v)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.query",
			Kind: domain.KindInvalidConfig,
			Path: expr,
			Err:  err,
		}
	}
	return out, nil
}
