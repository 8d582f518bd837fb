package export

import (
	"errors"
	"fmt"
)

// ErrExport is matched by every export failure
var ErrExport = errors.New("export failed")

// ExportError records the export stage that failed: rasterize, assemble or write
type ExportError struct {
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExport, e.Stage, e.Err)
}

// Is makes errors.Is(err, ErrExport) succeed
func (e *ExportError) Is(target error) bool {
	return target == ErrExport
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
