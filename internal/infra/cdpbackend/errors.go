package cdpbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

// wrapErr classifies err without consulting the page.
func wrapErr(op, selector string, err error) error {
	if err == nil {
		return nil
	}

	kind := domain.KindExecution
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.KindActionTimeout
	case errors.Is(err, context.Canceled):
		kind = domain.KindSessionClosed
	case strings.Contains(msg, "could not find node"),
		strings.Contains(msg, "No node with given id"),
		strings.Contains(msg, "no element matched"):
		kind = domain.KindElementResolution
	case strings.Contains(msg, "invalid context"),
		strings.Contains(msg, "channel closed"),
		strings.Contains(msg, "target closed"):
		kind = domain.KindSessionClosed
	}

	return &domain.OpError{
		Op:   "cdpbackend." + op,
		Kind: kind,
		Path: selector,
		Err:  err,
	}
}

func closedErr(op string) error {
	return &domain.OpError{
		Op:   "cdpbackend." + op,
		Kind: domain.KindSessionClosed,
		Err:  domain.ErrSessionClosed,
	}
}

func notMatched(op, selector, what string) error {
	return &domain.OpError{
		Op:   "cdpbackend." + op,
		Kind: domain.KindElementResolution,
		Path: selector,
		Err:  fmt.Errorf("no element matched: %s", what),
	}
}
