package llm

import (
	"errors"
	"fmt"
)

// ErrExternalCall is matched by every failure of the model round trip:
// transport errors, non-success responses, timeouts and cancellation.
var ErrExternalCall = errors.New("external model call failed")

// ErrEmptyResponse means the provider answered without any text
var ErrEmptyResponse = errors.New("empty response")

// CallError records which provider failed
type CallError struct {
	Provider string
	Err      error
}

// NewCallError wraps err as an external call failure of provider
func NewCallError(provider string, err error) *CallError {
	return &CallError{Provider: provider, Err: err}
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExternalCall, e.Provider, e.Err)
}

// Is makes errors.Is(err, ErrExternalCall) succeed
func (e *CallError) Is(target error) bool {
	return target == ErrExternalCall
}

func (e *CallError) Unwrap() error {
	return e.Err
}
