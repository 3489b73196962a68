package pwbackend

import (
	"context"
	"errors"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/playwright-community/playwright-go"
)

// wrap classifies a playwright error. A timeout whose call log never shows
// the locator resolving is reported as an element resolution failure.
func wrap(op, selector string, err error) error {
	if err == nil {
		return nil
	}

	kind := domain.KindExecution
	msg := err.Error()
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = domain.KindActionTimeout
	case errors.Is(err, playwright.ErrTargetClosed):
		kind = domain.KindSessionClosed
	case errors.Is(err, playwright.ErrTimeout):
		kind = domain.KindActionTimeout
		if strings.Contains(msg, "waiting for") && !strings.Contains(msg, "resolved to") {
			kind = domain.KindElementResolution
		}
	case strings.Contains(msg, "strict mode violation"):
		kind = domain.KindElementResolution
	}

	return &domain.OpError{
		Op:   "pwbackend." + op,
		Kind: kind,
		Path: selector,
		Err:  err,
	}
}

func closedErr(op string) error {
	return &domain.OpError{
		Op:   "pwbackend." + op,
		Kind: domain.KindSessionClosed,
		Err:  domain.ErrSessionClosed,
	}
}
