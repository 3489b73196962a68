package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "pwbackend.fill",
		Kind: KindElementResolution,
		Path: "#my-text-id",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(fmt.Errorf("outer: %w", err), &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindElementResolution {
		t.Fatalf("expected kind %s", KindElementResolution)
	}
}

func TestOpErrorMessage(t *testing.T) {
	err := &OpError{Op: "envconfig.load", Kind: KindInvalidConfig, Path: "config/dev.yaml", Err: errors.New("bad yaml")}
	want := "envconfig.load: invalid_config (path=config/dev.yaml): bad yaml"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}

	var nilErr *OpError
	if nilErr.Error() != "<nil>" {
		t.Fatalf("expected <nil> for nil receiver")
	}
}

func TestIsKindAndKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &OpError{Op: "x", Kind: KindActionTimeout})

	if !IsKind(err, KindActionTimeout) {
		t.Fatalf("expected IsKind to match action timeout")
	}
	if IsKind(err, KindMissingConfig) {
		t.Fatalf("expected IsKind not to match missing config")
	}
	if KindOf(err) != KindActionTimeout {
		t.Fatalf("expected KindOf=action_timeout, got %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindExecution {
		t.Fatalf("expected plain errors to classify as execution")
	}
}
