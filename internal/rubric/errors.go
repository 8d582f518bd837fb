package rubric

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every rubric selection failure
var ErrConfiguration = errors.New("configuration error")

var (
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrConfiguration)
	ErrUnknownPolicy    = fmt.Errorf("%w: unknown policy", ErrConfiguration)
	ErrCategoryMismatch = fmt.Errorf("%w: category not covered by policy", ErrConfiguration)
	ErrInvalidPolicy    = fmt.Errorf("%w: invalid policy", ErrConfiguration)
)
