package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/ideajudge/internal/schema"
)

// ErrMalformedResponse is matched by every response rejection
var ErrMalformedResponse = errors.New("malformed model response")

// MalformedResponseError explains why a raw response was rejected
type MalformedResponseError struct {
	Reason     string
	Violations []schema.Violation
	Err        error // Underlying decode error, if any
}

func (e *MalformedResponseError) Error() string {
	var b strings.Builder
	b.WriteString("malformed model response: ")
	b.WriteString(e.Reason)
	for i, v := range e.Violations {
		if i >= 5 {
			fmt.Fprintf(&b, "; and %d more", len(e.Violations)-5)
			break
		}
		b.WriteString("; ")
		b.WriteString(v.String())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrMalformedResponse) succeed
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
