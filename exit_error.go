package main

import (
	"errors"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// exitError carries the process exit status out of a command.
type exitError struct {
	code    int
	message string
	err     error
}

func (e *exitError) Error() string {
	if e.err != nil {
		if e.message == "" {
			return e.err.Error()
		}
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *exitError) Unwrap() error { return e.err }

// commandError is an error that prevented the run from completing.
func commandError(message string, err error) error {
	return &exitError{code: framework.ExitError, message: message, err: err}
}

// exitCode maps an error returned by a command to the process exit status. An error that is not an
// *exitError is a usage or setup error.
func exitCode(err error) int {
	if err == nil {
		return framework.ExitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return framework.ExitError
}
