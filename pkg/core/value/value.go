package value

import (
	"fmt"
	"strconv"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota // declared but never assigned
	TypeInt
	TypeBool
	TypeFunc
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeInt:
		return "integer"
	case TypeBool:
		return "boolean"
	case TypeFunc:
		return "function"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Value is a tagged union. Scalars live in Data; functions carry their
// closure in Opaque.
type Value struct {
	Type   Type
	Data   uint64
	Opaque any
}

// Void is the value of a variable that was declared but not yet assigned.
var Void = Value{}

// FromInt wraps an integer.
func FromInt(i int64) Value {
	return Value{Type: TypeInt, Data: uint64(i)}
}

// FromBool wraps a boolean.
func FromBool(b bool) Value {
	if b {
		return Value{Type: TypeBool, Data: 1}
	}
	return Value{Type: TypeBool}
}

// FromFunc wraps a callable.
func FromFunc(fn any) Value {
	return Value{Type: TypeFunc, Opaque: fn}
}

// Int returns the value as int64.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Bool returns the value as a boolean.
func (v Value) Bool() bool {
	return v.Data != 0
}

// SetInt stores an int64.
func (v *Value) SetInt(i int64) {
	v.Type = TypeInt
	v.Data = uint64(i)
	v.Opaque = nil
}

// IsVoid reports whether the value was never assigned.
func (v Value) IsVoid() bool {
	return v.Type == TypeVoid
}

// Format returns a string representation of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeFunc:
		return "<function>"
	case TypeVoid:
		return "<uninitialized>"
	default:
		return fmt.Sprintf("%v", v.Data)
	}
}
