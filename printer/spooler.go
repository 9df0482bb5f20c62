package printer

import (
	"errors"
	"fmt"
)

// spoolStep is one call of the spooler close sequence.
type spoolStep struct {
	name string
	call func() error
}

// finishJob runs every step, so the printer handle is released even when the
// spooler rejects the document, and returns all failures.
func finishJob(steps ...spoolStep) error {
	var errs []error
	for _, s := range steps {
		if err := s.call(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
