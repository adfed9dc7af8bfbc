// Package params normalizes bind values into typed parameters and keeps them
// in the positional or named sets that rendered SQL fragments carry.
package params

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

// BindType is the driver-level type a parameter is bound as.
type BindType int

// Supported bind types.
const (
	Null BindType = iota
	Bool
	Int
	String
	Binary
)

var bindTypeNames = map[BindType]string{
	Null:   "NULL",
	Bool:   "BOOL",
	Int:    "INT",
	String: "STRING",
	Binary: "BINARY",
}

// String returns the upper-case name of the bind type.
func (t BindType) String() string {
	if name, ok := bindTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BindType(%d)", int(t))
}

// Valid reports whether t is one of the recognized bind types.
func (t BindType) Valid() bool {
	_, ok := bindTypeNames[t]
	return ok
}

// Policy controls how values are mapped to bind types.
type Policy int

const (
	// Auto detects the type from the value: nil, bool and integers keep
	// their own type, everything else is bound as a string.
	Auto Policy = iota
	// ForceString binds every value as a string. Values are not converted.
	ForceString
	// Manual requires every value to be a Typed pair.
	Manual
)

// Errors reported by Normalize. Callers wrap them into their own error kinds.
var (
	ErrUnknownPolicy    = errors.New("unknown bind policy")
	ErrUnsupportedValue = errors.New("unsupported parameter value")
	ErrUntyped          = errors.New("manual binding requires a typed value")
	ErrUnknownType      = errors.New("unknown bind type")
)

// Param is a single normalized parameter. Name is empty for positional parameters.
type Param struct {
	Name  string
	Value any
	Type  BindType
}

// Typed is a value with a caller-chosen bind type. It always binds as one parameter.
type Typed struct {
	Value any
	Type  BindType
}

// As pairs a value with an explicit bind type.
func As(value any, t BindType) Typed {
	return Typed{Value: value, Type: t}
}

// Batch is a list of values that expands into one placeholder per element.
// Any other slice type except []byte is treated the same way.
type Batch []any

// NamedArg binds a value to a :name placeholder.
type NamedArg struct {
	Name  string
	Value any
}

// Named returns a NamedArg for name.
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// Normalize converts a scalar value into a Param according to policy.
func Normalize(value any, policy Policy) (Param, error) {
	if t, ok := value.(Typed); ok {
		return normalizeTyped(t, policy)
	}

	switch policy {
	case Auto:
		if err := checkScalar(value); err != nil {
			return Param{}, err
		}
		return Param{Value: value, Type: Detect(value)}, nil
	case ForceString:
		if err := checkScalar(value); err != nil {
			return Param{}, err
		}
		return Param{Value: value, Type: String}, nil
	case Manual:
		return Param{}, fmt.Errorf("%w, got %T", ErrUntyped, value)
	default:
		return Param{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
	}
}

func normalizeTyped(t Typed, policy Policy) (Param, error) {
	switch policy {
	case Auto, Manual, ForceString:
	default:
		return Param{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
	}
	if !t.Type.Valid() {
		return Param{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t.Type))
	}
	if err := checkScalar(t.Value); err != nil {
		return Param{}, err
	}
	if policy == ForceString {
		return Param{Value: t.Value, Type: String}, nil
	}
	return Param{Value: t.Value, Type: t.Type}, nil
}

// Detect returns the bind type the Auto policy assigns to value.
// Unsigned values above math.MaxInt64 do not fit a driver integer and are
// bound as decimal strings.
func Detect(value any) BindType {
	switch value.(type) {
	case nil:
		return Null
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return Int
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return String
		}
		return Int
	default:
		return String
	}
}

// IsBatch reports whether value expands into several parameters.
func IsBatch(value any) bool {
	switch value.(type) {
	case nil, []byte, Typed:
		return false
	case Batch:
		return true
	}
	return reflect.ValueOf(value).Kind() == reflect.Slice
}

// Elements returns the elements of a batch value. It returns nil for scalars.
func Elements(value any) []any {
	if b, ok := value.(Batch); ok {
		return b
	}
	if !IsBatch(value) {
		return nil
	}
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

func checkScalar(value any) error {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case driver.Valuer, []byte, time.Time:
		return nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return nil
		}
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}
