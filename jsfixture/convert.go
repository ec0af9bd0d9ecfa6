package jsfixture

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dop251/goja"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// toValue converts a script value into a framework value.
//
// Objects and functions become references keyed by their *goja.Object, which the runtime keeps
// unique per object, so two values match only if they are the same object. They are rendered with
// the script's own string conversion, the first time they are rendered.
func toValue(vm *goja.Runtime, v goja.Value) framework.Value {
	if v == nil || goja.IsUndefined(v) {
		return framework.Undefined()
	}
	if goja.IsNull(v) {
		return framework.Null()
	}
	if obj, ok := v.(*goja.Object); ok {
		typeName := "object"
		if _, isFunc := goja.AssertFunction(obj); isFunc {
			typeName = "function"
		}
		return framework.Ref(obj, typeName, func() (string, error) {
			return renderScriptValue(vm, obj)
		})
	}

	switch x := v.Export().(type) {
	case bool:
		return framework.Bool(x)
	case int64:
		return framework.Number(float64(x))
	case float64:
		return framework.Number(x)
	case string:
		return framework.String(x)
	case *big.Int:
		return framework.Ref(x.String(), "bigint", func() (string, error) { return x.String() + "n", nil })
	case *goja.Symbol:
		return framework.Ref(x, "symbol", func() (string, error) { return x.String(), nil })
	default:
		return framework.Ref(v, "object", func() (string, error) {
			return renderScriptValue(vm, v)
		})
	}
}

func renderScriptValue(vm *goja.Runtime, v goja.Value) (s string, err error) {
	if ex := vm.Try(func() { s = v.String() }); ex != nil {
		return "", scriptError(vm, ex)
	}
	return s, nil
}

// toString converts a script value to a Go string the way String(v) would. Undefined becomes the
// empty string.
func toString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// ScriptError is an exception that escaped a fixture script, or a syntax error in its source.
type ScriptError struct {
	Name    string
	Message string
	cause   error
}

func (e *ScriptError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// ErrorName is the script-level error type, such as "SyntaxError". Errors with the same name match
// when they are compared.
func (e *ScriptError) ErrorName() string { return e.Name }

func (e *ScriptError) Unwrap() error { return e.cause }

// scriptError converts an error returned by the runtime into a *ScriptError. Errors that are not
// script exceptions are returned unchanged.
func scriptError(vm *goja.Runtime, err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		var name, message string
		if tryErr := vm.Try(func() { name, message = exceptionParts(ex.Value()) }); tryErr != nil {
			message = "uncaught exception"
		}
		return &ScriptError{Name: name, Message: message, cause: err}
	}
	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		return &ScriptError{Name: "SyntaxError", Message: syntaxErr.Message, cause: err}
	}
	var referenceErr *goja.CompilerReferenceError
	if errors.As(err, &referenceErr) {
		return &ScriptError{Name: "ReferenceError", Message: referenceErr.Message, cause: err}
	}
	return err
}

// exceptionParts may throw if the exception has a throwing name or message getter; callers run it
// under Runtime.Try.
func exceptionParts(v goja.Value) (name, message string) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return "", fmt.Sprintf("uncaught exception: %s", toString(v))
	}
	if n := obj.Get("name"); n != nil && !goja.IsUndefined(n) {
		name = n.String()
	}
	if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
		message = m.String()
	}
	if name == "" && message == "" {
		message = fmt.Sprintf("uncaught exception: %s", obj.String())
	}
	return name, message
}
