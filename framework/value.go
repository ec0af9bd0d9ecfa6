package framework

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	// KindObject is a reference to a host or engine object. References compare by identity.
	KindObject
	// KindData is structured data. Data values compare structurally.
	KindData
	// KindError is an error that was thrown instead of a value being returned.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindData:
		return "data"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RenderFunc produces the loggable form of an object reference.
type RenderFunc func() (string, error)

// Value is anything a fixture can supply as an expected or actual value.
//
// The zero Value is undefined.
type Value struct {
	kind     Kind
	boolean  bool
	number   float64
	str      string
	ref      interface{}
	typeName string
	data     ldvalue.Value
	err      error
	render   *renderCache
}

type renderCache struct {
	fn   RenderFunc
	once sync.Once
	text string
	err  error
}

func (r *renderCache) get() (string, error) {
	r.once.Do(func() {
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("panic while rendering: %v", p)
			}
		}()
		if r.fn == nil {
			r.err = errors.New("no renderer for object reference")
			return
		}
		r.text, r.err = r.fn()
	})
	return r.text, r.err
}

func Undefined() Value { return Value{kind: KindUndefined} }

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

func Int(n int) Value { return Number(float64(n)) }

func String(s string) Value { return Value{kind: KindString, str: s} }

func NaN() Value { return Number(math.NaN()) }

// Infinity returns positive infinity if sign >= 0, negative infinity otherwise.
func Infinity(sign int) Value { return Number(math.Inf(sign)) }

// Ref wraps a reference to an opaque object. Two Refs are equal only if their references are
// equal according to Go's == operator, so ref should be a pointer or some other comparable handle.
// A ref that cannot be compared, including a struct holding a slice in an interface field, is
// boxed, which makes the Value equal only to itself.
//
// typeName is the typeof name reported for the value ("object" if empty). render is called at most
// once, when the value is first rendered.
func Ref(ref interface{}, typeName string, render RenderFunc) Value {
	if ref != nil && !reflect.ValueOf(ref).Comparable() {
		boxed := ref
		ref = &boxed
	}
	if typeName == "" {
		typeName = "object"
	}
	return Value{kind: KindObject, ref: ref, typeName: typeName, render: &renderCache{fn: render}}
}

// Data wraps structured data that compares structurally.
func Data(v ldvalue.Value) Value { return Value{kind: KindData, data: v} }

// ErrorValue represents a thrown error.
func ErrorValue(err error) Value { return Value{kind: KindError, err: err} }

// Of converts a Go value into a Value. Slices and maps become Data; other unrecognized types
// become opaque references.
func Of(x interface{}) Value {
	switch v := x.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case float32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case error:
		return ErrorValue(v)
	case ldvalue.Value:
		return Data(v)
	}
	switch reflect.TypeOf(x).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return Data(ldvalue.CopyArbitraryValue(x))
	}
	return Ref(x, "", func() (string, error) { return fmt.Sprintf("%v", x), nil })
}

func (v Value) Kind() Kind { return v.kind }

// TypeOf returns the typeof name of the value, which must match for two values to be equal.
func (v Value) TypeOf() string {
	switch v.kind {
	case KindNull, KindData:
		return "object"
	case KindObject:
		return v.typeName
	default:
		return v.kind.String()
	}
}

func (v Value) BoolValue() bool { return v.boolean }

func (v Value) NumberValue() float64 { return v.number }

func (v Value) StringValue() string { return v.str }

func (v Value) DataValue() ldvalue.Value { return v.data }

func (v Value) Err() error { return v.err }

func (v Value) IsNaN() bool { return v.kind == KindNumber && math.IsNaN(v.number) }

// Equal applies the equality rule of v's kind. tolerance is the largest difference at which two
// finite numbers are still considered equal.
func (v Value) Equal(other Value, tolerance float64) bool {
	if v.TypeOf() != other.TypeOf() || v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return v.boolean == other.boolean
	case KindNumber:
		return numbersEqual(v.number, other.number, tolerance)
	case KindString:
		return v.str == other.str
	case KindObject:
		return v.ref == other.ref
	case KindData:
		return v.data.Equal(other.data)
	case KindError:
		return errorsEqual(v.err, other.err)
	}
	return false
}

func numbersEqual(expected, actual, tolerance float64) bool {
	if math.IsNaN(actual) || math.IsNaN(expected) {
		return math.IsNaN(actual) && math.IsNaN(expected)
	}
	if actual == expected {
		return true
	}
	if math.IsInf(actual, 0) || math.IsInf(expected, 0) {
		return false
	}
	return math.Abs(actual-expected) <= tolerance
}

type namedError interface {
	ErrorName() string
}

func errorsEqual(expected, actual error) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	if errors.Is(actual, expected) {
		return true
	}
	var en, an namedError
	if errors.As(expected, &en) && errors.As(actual, &an) {
		return en.ErrorName() == an.ErrorName()
	}
	return expected.Error() == actual.Error()
}

// Render returns the loggable form of the value. Only object references can fail to render, in
// which case the error is a *RenderingFault.
func (v Value) Render() (string, error) {
	switch v.kind {
	case KindUndefined:
		return "undefined", nil
	case KindNull:
		return "null", nil
	case KindBoolean:
		return strconv.FormatBool(v.boolean), nil
	case KindNumber:
		return FormatNumber(v.number), nil
	case KindString:
		return strconv.Quote(v.str), nil
	case KindData:
		return v.data.JSONString(), nil
	case KindError:
		if v.err == nil {
			return "threw <nil>", nil
		}
		return "threw " + v.err.Error(), nil
	case KindObject:
		if v.render == nil {
			return "", &RenderingFault{Err: errors.New("no renderer for object reference")}
		}
		s, err := v.render.get()
		if err != nil {
			return "", &RenderingFault{Err: err}
		}
		return s, nil
	}
	return "", &RenderingFault{Err: fmt.Errorf("unknown value kind %s", v.kind)}
}

// String implements fmt.Stringer; rendering failures are shown inline.
func (v Value) String() string {
	s, err := v.Render()
	if err != nil {
		return "<unrenderable: " + err.Error() + ">"
	}
	return s
}

// FormatNumber formats n the way ECMAScript's Number to String conversion does.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
