// Package runtime implements the value-and-object core of an ECMAScript
// tree-walking interpreter: the tagged value representation, the
// prototype-based object model with property descriptors, the
// function/class object model, the array exotic object, typed-array and
// buffer views, the built-in containers, and Promise/microtask
// settlement. It is consumed by an external Evaluator (a lexer/parser and
// a statement/expression walker, neither of which lives in this package)
// through the capability interfaces in evaluator.go.
package runtime

import (
	"fmt"
	"math/big"
)

// Kind discriminates the variants of the tagged Value union (spec.md §3).
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindBigInt
	KindSymbol
	KindObject
)

// String returns a human-readable name for the kind, used in diagnostics.
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
	case KindBigInt:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union of every runtime value. Object handles are
// shared references: *Object is the Value itself, not a wrapper, so two
// Values holding the same *Object observe the same mutable state.
type Value interface {
	ValueKind() Kind
}

// UndefinedValue is the sole inhabitant of the "undefined" variant.
type UndefinedValue struct{}

// ValueKind returns KindUndefined.
func (UndefinedValue) ValueKind() Kind { return KindUndefined }

// NullValue is the sole inhabitant of the "null" variant.
type NullValue struct{}

// ValueKind returns KindNull.
func (NullValue) ValueKind() Kind { return KindNull }

// BooleanValue wraps a Go bool.
type BooleanValue struct{ Value bool }

// ValueKind returns KindBoolean.
func (BooleanValue) ValueKind() Kind { return KindBoolean }

// NumberValue wraps a float64, including NaN and the two signed zeros.
type NumberValue struct{ Value float64 }

// ValueKind returns KindNumber.
func (NumberValue) ValueKind() Kind { return KindNumber }

// StringValue wraps a Go string. ECMAScript strings are UTF-16 code-unit
// sequences; StringValue stores the text as UTF-8 and exposes UTF-16
// semantics (length, charAt, ...) through helpers rather than by
// changing the storage encoding.
type StringValue struct{ Value string }

// ValueKind returns KindString.
func (StringValue) ValueKind() Kind { return KindString }

// BigIntValue wraps an arbitrary-precision integer.
type BigIntValue struct{ Value *big.Int }

// ValueKind returns KindBigInt.
func (BigIntValue) ValueKind() Kind { return KindBigInt }

// SymbolValue is a unique, optionally-described identity used as a
// property key or a well-known registry entry (Symbol.iterator, ...).
// Identity is by pointer: two SymbolValues are SameValue only if they
// are the same *SymbolValue.
type SymbolValue struct {
	id          uint64
	Description string
	hasDesc     bool
}

// ValueKind returns KindSymbol.
func (*SymbolValue) ValueKind() Kind { return KindSymbol }

// String returns the symbol's display form, e.g. "Symbol(foo)" or "Symbol()".
func (s *SymbolValue) String() string {
	if s.hasDesc {
		return fmt.Sprintf("Symbol(%s)", s.Description)
	}
	return "Symbol()"
}

var symbolCounter uint64

// NewSymbol allocates a fresh, globally unique symbol with an optional
// description. Passing "" still records "no description supplied" only
// when called through NewSymbolNoDescription; NewSymbol always records
// the given string as the description.
func NewSymbol(description string) *SymbolValue {
	symbolCounter++
	return &SymbolValue{id: symbolCounter, Description: description, hasDesc: true}
}

// NewSymbolNoDescription allocates a fresh symbol with no description,
// matching `Symbol()` called with no argument.
func NewSymbolNoDescription() *SymbolValue {
	symbolCounter++
	return &SymbolValue{id: symbolCounter}
}

// Constructors for primitive values, mirroring the teacher's NewXValue
// helpers (internal/interp/value.go in the teacher repo).

// Undefined is the shared undefined value.
var Undefined Value = UndefinedValue{}

// Null is the shared null value.
var Null Value = NullValue{}

// True is the shared boolean true value.
var True Value = BooleanValue{Value: true}

// False is the shared boolean false value.
var False Value = BooleanValue{Value: false}

// NewBoolean returns True or False for the given Go bool.
func NewBoolean(b bool) Value {
	if b {
		return True
	}
	return False
}

// NewNumber wraps a float64 as a Value.
func NewNumber(n float64) Value { return NumberValue{Value: n} }

// NewString wraps a Go string as a Value.
func NewString(s string) Value { return StringValue{Value: s} }

// NewBigInt wraps a *big.Int as a Value. The big.Int is not copied;
// callers must not mutate it after handing it to NewBigInt.
func NewBigInt(b *big.Int) Value { return BigIntValue{Value: b} }

// NewSymbolValue wraps a *SymbolValue as a Value.
func NewSymbolValue(s *SymbolValue) Value { return s }

// IsNullish reports whether v is undefined or null.
func IsNullish(v Value) bool {
	switch v.(type) {
	case UndefinedValue, NullValue:
		return true
	default:
		return false
	}
}

// IsCallable reports whether v is an object with a [[Call]] behavior.
func IsCallable(v Value) bool {
	obj, ok := v.(*Object)
	return ok && obj.Callable != nil
}

// IsConstructor reports whether v is an object with a [[Construct]] behavior.
func IsConstructor(v Value) bool {
	obj, ok := v.(*Object)
	return ok && obj.Construct != nil
}

// AsObject returns the *Object handle and true if v is an object.
func AsObject(v Value) (*Object, bool) {
	obj, ok := v.(*Object)
	return obj, ok
}
