package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrTooManyStrategies     = errors.New("too many strategies")
	ErrRetrievalUnavailable  = errors.New("retrieval unavailable")
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrTimeout               = errors.New("timeout")
	ErrTemporary             = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// FailureFromError converts a pipeline-scoped error into the failure marker
// carried inside a StrategyRunResult.
func FailureFromError(err error) *RunFailure {
	if err == nil {
		return nil
	}
	kind := "internal"
	switch {
	case IsKind(err, ErrTimeout) || IsKind(err, context.DeadlineExceeded):
		kind = "timeout"
	case IsKind(err, ErrRetrievalUnavailable):
		kind = "retrieval_unavailable"
	case IsKind(err, ErrGenerationUnavailable):
		kind = "generation_unavailable"
	case IsKind(err, ErrInvalidInput):
		kind = "invalid_input"
	}
	return &RunFailure{Kind: kind, Message: err.Error()}
}
