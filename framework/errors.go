package framework

import (
	"errors"
	"fmt"
)

// ErrAssertionMismatch is reported by TestCase.Err for a case whose actual value did not match the
// expected value. It is never propagated past the case that produced it.
var ErrAssertionMismatch = errors.New("actual value did not match expected value")

// FixtureFault is an error that escaped a fixture: a returned error, a panic, or a timeout.
type FixtureFault struct {
	Err     error
	Timeout bool
}

func (f *FixtureFault) Error() string {
	if f.Timeout {
		return fmt.Sprintf("fixture timed out: %s", f.Err)
	}
	return fmt.Sprintf("uncaught error in fixture: %s", f.Err)
}

func (f *FixtureFault) Unwrap() error { return f.Err }

// RenderingFault means a value could not be converted to a loggable string.
type RenderingFault struct {
	Err error
}

func (f *RenderingFault) Error() string {
	return fmt.Sprintf("value could not be rendered: %s", f.Err)
}

func (f *RenderingFault) Unwrap() error { return f.Err }

// SinkFault means the report output could not be written. It is the only fault that is
// propagated to the caller of the runner.
type SinkFault struct {
	Err error
}

func (f *SinkFault) Error() string {
	return fmt.Sprintf("could not write to log: %s", f.Err)
}

func (f *SinkFault) Unwrap() error { return f.Err }

// IsSinkFault returns true if err is or wraps a *SinkFault.
func IsSinkFault(err error) bool {
	var sf *SinkFault
	return errors.As(err, &sf)
}
