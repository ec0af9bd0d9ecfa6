package framework

import (
	"fmt"
)

// Outcome is the result of evaluating some fixture code: either it returned a value or it threw.
// Fixtures that expect an error produce Outcomes explicitly instead of relying on try/catch.
type Outcome struct {
	value  Value
	thrown error
	threw  bool
}

func Returned(v Value) Outcome { return Outcome{value: v} }

func Thrown(err error) Outcome { return Outcome{thrown: err, threw: true} }

// Capture calls fn and converts a returned error, or a panic, into a Thrown outcome.
func Capture(fn func() (Value, error)) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				o = Thrown(err)
			} else {
				o = Thrown(fmt.Errorf("panic: %v", r))
			}
		}
	}()
	v, err := fn()
	if err != nil {
		return Thrown(err)
	}
	return Returned(v)
}

func (o Outcome) Threw() bool { return o.threw }

func (o Outcome) Err() error { return o.thrown }

// Value returns the returned value, or an error Value for a thrown outcome, so that outcomes can
// be compared with the same rules as plain values.
func (o Outcome) Value() Value {
	if o.threw {
		return ErrorValue(o.thrown)
	}
	return o.value
}
