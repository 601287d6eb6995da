package runtime

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ToBoolean implements the ToBoolean abstract operation (spec.md §4.A):
// false for undefined, null, false, NaN/+0/-0, "", 0n; true for every
// other value, including every object.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case UndefinedValue:
		return false
	case NullValue:
		return false
	case BooleanValue:
		return x.Value
	case NumberValue:
		return x.Value != 0 && !math.IsNaN(x.Value)
	case StringValue:
		return len(x.Value) != 0
	case BigIntValue:
		return x.Value.Sign() != 0
	case *SymbolValue:
		return true
	case *Object:
		return true
	default:
		Panicf("ToBoolean: unrecognized Value %T", v)
		return false
	}
}

// hint mirrors the ECMAScript [[ToPrimitive]] hint parameter.
type hint int

const (
	hintDefault hint = iota
	hintNumber
	hintString
)

// ToPrimitive implements OrdinaryToPrimitive / the Symbol.toPrimitive
// dispatch (spec.md §4.A). Non-objects are returned unchanged.
func ToPrimitive(ctx *Context, v Value, preferredHint string) (Value, *Error) {
	obj, ok := v.(*Object)
	if !ok {
		return v, nil
	}
	h := hintDefault
	switch preferredHint {
	case "number":
		h = hintNumber
	case "string":
		h = hintString
	}

	if sym := ctx.WellKnown.ToPrimitive; sym != nil {
		exotic, err := obj.Get(ctx, SymbolKey(sym), obj)
		if err != nil {
			return nil, err
		}
		if IsCallable(exotic) {
			hintStr := "default"
			switch h {
			case hintNumber:
				hintStr = "number"
			case hintString:
				hintStr = "string"
			}
			fn, _ := AsObject(exotic)
			result, err := fn.Callable(ctx, obj, []Value{NewString(hintStr)})
			if err != nil {
				return nil, err
			}
			if _, isObj := result.(*Object); isObj {
				return nil, NewTypeError("Cannot convert object to primitive value")
			}
			return result, nil
		}
	}

	methodNames := [2]string{"valueOf", "toString"}
	if h == hintString {
		methodNames = [2]string{"toString", "valueOf"}
	}
	for _, name := range methodNames {
		method, err := obj.Get(ctx, StringKey(name), obj)
		if err != nil {
			return nil, err
		}
		if IsCallable(method) {
			fn, _ := AsObject(method)
			result, err := fn.Callable(ctx, obj, nil)
			if err != nil {
				return nil, err
			}
			if _, isObj := result.(*Object); !isObj {
				return result, nil
			}
		}
	}
	return nil, NewTypeError("Cannot convert object to primitive value")
}

// ToNumber implements the ToNumber abstract operation (spec.md §4.A).
func ToNumber(ctx *Context, v Value) (float64, *Error) {
	switch x := v.(type) {
	case UndefinedValue:
		return math.NaN(), nil
	case NullValue:
		return 0, nil
	case BooleanValue:
		if x.Value {
			return 1, nil
		}
		return 0, nil
	case NumberValue:
		return x.Value, nil
	case StringValue:
		return stringToNumber(x.Value), nil
	case BigIntValue:
		return 0, NewTypeError("Cannot convert a BigInt value to a number")
	case *SymbolValue:
		return 0, NewTypeError("Cannot convert a Symbol value to a number")
	case *Object:
		prim, err := ToPrimitive(ctx, x, "number")
		if err != nil {
			return 0, err
		}
		return ToNumber(ctx, prim)
	default:
		Panicf("ToNumber: unrecognized Value %T", v)
		return 0, nil
	}
}

// stringToNumber implements the StringToNumber grammar: trimmed
// whitespace, "" -> 0, hex/octal/binary literals, Infinity, and
// standard decimal float syntax; anything else yields NaN.
func stringToNumber(s string) float64 {
	t := strings.TrimFunc(s, isJSWhitespace)
	if t == "" {
		return 0
	}
	neg := false
	rest := t
	switch {
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "-"):
		neg = true
		rest = rest[1:]
	}
	if rest == "Infinity" {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	lower := strings.ToLower(t)
	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.HasPrefix(lower, "0o") {
		n, err := strconv.ParseUint(t[2:], 8, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseUint(t[2:], 2, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if lr := strings.ToLower(rest); strings.HasPrefix(lr, "inf") || strings.HasPrefix(lr, "0x") {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func isJSWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', 0xFEFF, 0x00A0, 0x2028, 0x2029:
		return true
	}
	return false
}

// ToInt32 implements ToInt32 (spec.md §4.A): NaN/Infinity become 0,
// otherwise a two's-complement reduction modulo 2^32.
func ToInt32(ctx *Context, v Value) (int32, *Error) {
	n, err := ToNumber(ctx, v)
	if err != nil {
		return 0, err
	}
	return toInt32(n), nil
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		m -= 4294967296
	}
	return int32(m)
}

// ToUint32 implements ToUint32 (spec.md §4.A).
func ToUint32(ctx *Context, v Value) (uint32, *Error) {
	n, err := ToNumber(ctx, v)
	if err != nil {
		return 0, err
	}
	return toUint32(n), nil
}

func toUint32(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// ToIntegerOrInfinity implements ToIntegerOrInfinity (spec.md §4.A),
// used pervasively by array-index and length coercions.
func ToIntegerOrInfinity(ctx *Context, v Value) (float64, *Error) {
	n, err := ToNumber(ctx, v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) {
		return 0, nil
	}
	if math.IsInf(n, 0) {
		return n, nil
	}
	return math.Trunc(n), nil
}

// ToLength implements ToLength (spec.md §4.A): clamps to [0, 2^53-1].
func ToLength(ctx *Context, v Value) (float64, *Error) {
	n, err := ToIntegerOrInfinity(ctx, v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	const maxSafeInteger = 9007199254740991
	if n > maxSafeInteger {
		return maxSafeInteger, nil
	}
	return n, nil
}

// ToString implements the ToString abstract operation (spec.md §4.A).
// It is an error (TypeError) to call this on a Symbol; use
// SymbolToStringDisplay for diagnostic-only rendering.
func ToString(ctx *Context, v Value) (string, *Error) {
	switch x := v.(type) {
	case UndefinedValue:
		return "undefined", nil
	case NullValue:
		return "null", nil
	case BooleanValue:
		if x.Value {
			return "true", nil
		}
		return "false", nil
	case NumberValue:
		return NumberToString(x.Value), nil
	case StringValue:
		return x.Value, nil
	case BigIntValue:
		return x.Value.String(), nil
	case *SymbolValue:
		return "", NewTypeError("Cannot convert a Symbol value to a string")
	case *Object:
		prim, err := ToPrimitive(ctx, x, "string")
		if err != nil {
			return "", err
		}
		return ToString(ctx, prim)
	default:
		Panicf("ToString: unrecognized Value %T", v)
		return "", nil
	}
}

// ToPropertyKey implements ToPropertyKey (spec.md §4.A/§4.C): symbols
// pass through as symbol keys, everything else converts to a string key.
func ToPropertyKey(ctx *Context, v Value) (PropertyKey, *Error) {
	if sym, ok := v.(*SymbolValue); ok {
		return SymbolKey(sym), nil
	}
	if obj, ok := v.(*Object); ok {
		prim, err := ToPrimitive(ctx, obj, "string")
		if err != nil {
			return PropertyKey{}, err
		}
		if sym, ok := prim.(*SymbolValue); ok {
			return SymbolKey(sym), nil
		}
		s, err := ToString(ctx, prim)
		if err != nil {
			return PropertyKey{}, err
		}
		return StringKey(s), nil
	}
	s, err := ToString(ctx, v)
	if err != nil {
		return PropertyKey{}, err
	}
	return StringKey(s), nil
}

// ToObject implements ToObject (spec.md §4.A): wraps primitives in
// their corresponding wrapper object, rejects undefined/null.
func ToObject(ctx *Context, v Value) (*Object, *Error) {
	switch x := v.(type) {
	case UndefinedValue, NullValue:
		return nil, NewTypeError("Cannot convert undefined or null to object")
	case *Object:
		return x, nil
	case BooleanValue:
		o := NewObject(ctx.BooleanPrototype)
		o.Kind = ObjectKindBooleanWrapper
		o.Primitive = x
		return o, nil
	case NumberValue:
		o := NewObject(ctx.NumberPrototype)
		o.Kind = ObjectKindNumberWrapper
		o.Primitive = x
		return o, nil
	case StringValue:
		return newStringWrapperObject(ctx, x), nil
	case BigIntValue:
		o := NewObject(ctx.BigIntPrototype)
		o.Kind = ObjectKindBigIntWrapper
		o.Primitive = x
		return o, nil
	case *SymbolValue:
		o := NewObject(ctx.SymbolPrototype)
		o.Kind = ObjectKindSymbolWrapper
		o.Primitive = x
		return o, nil
	default:
		Panicf("ToObject: unrecognized Value %T", v)
		return nil, nil
	}
}

// NumberToString implements the Number::toString radix-10 algorithm
// (spec.md §4.A), including the NaN/Infinity/signed-zero special cases.
func NumberToString(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if n == 0 {
		if math.Signbit(n) {
			return "0"
		}
		return "0"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if abs := math.Abs(n); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expPart)
	sign := ""
	if exp > 0 {
		sign = "+"
	}
	return mantissa + "e" + sign + strconv.Itoa(exp)
}

// ---------------------------------------------------------------------
// Equality predicates (spec.md §4.A)
// ---------------------------------------------------------------------

// SameValue implements the SameValue algorithm: like StrictEquals, but
// NaN equals NaN and +0 is distinct from -0.
func SameValue(a, b Value) bool {
	if a.ValueKind() != b.ValueKind() {
		return false
	}
	switch x := a.(type) {
	case UndefinedValue, NullValue:
		return true
	case BooleanValue:
		return x.Value == b.(BooleanValue).Value
	case NumberValue:
		y := b.(NumberValue).Value
		if math.IsNaN(x.Value) && math.IsNaN(y) {
			return true
		}
		if x.Value == 0 && y == 0 {
			return math.Signbit(x.Value) == math.Signbit(y)
		}
		return x.Value == y
	case StringValue:
		return x.Value == b.(StringValue).Value
	case BigIntValue:
		return x.Value.Cmp(b.(BigIntValue).Value) == 0
	case *SymbolValue:
		return x == b.(*SymbolValue)
	case *Object:
		return x == b.(*Object)
	default:
		return false
	}
}

// SameValueZero implements SameValueZero: like SameValue except +0 and
// -0 are considered equal (used by Array.prototype.includes, Map/Set
// key comparison).
func SameValueZero(a, b Value) bool {
	if na, ok := a.(NumberValue); ok {
		if nb, ok := b.(NumberValue); ok {
			if math.IsNaN(na.Value) && math.IsNaN(nb.Value) {
				return true
			}
			return na.Value == nb.Value
		}
	}
	return SameValue(a, b)
}

// StrictEquals implements the === algorithm.
func StrictEquals(a, b Value) bool {
	if a.ValueKind() != b.ValueKind() {
		return false
	}
	switch x := a.(type) {
	case NumberValue:
		return x.Value == b.(NumberValue).Value
	default:
		return SameValue(a, b)
	}
}

// AbstractEquals implements the == algorithm (spec.md §4.A), including
// the numeric/string/bigint/boolean coercion ladder and the
// object-to-primitive fallback.
func AbstractEquals(ctx *Context, a, b Value) (bool, *Error) {
	if a.ValueKind() == b.ValueKind() {
		return StrictEquals(a, b), nil
	}
	if IsNullish(a) && IsNullish(b) {
		return true, nil
	}
	if IsNullish(a) || IsNullish(b) {
		return false, nil
	}
	switch {
	case a.ValueKind() == KindNumber && b.ValueKind() == KindString:
		bn := stringToNumber(b.(StringValue).Value)
		return AbstractEquals(ctx, a, NumberValue{Value: bn})
	case a.ValueKind() == KindString && b.ValueKind() == KindNumber:
		return AbstractEquals(ctx, b, a)
	case a.ValueKind() == KindBigInt && b.ValueKind() == KindString:
		bi, ok := new(big.Int).SetString(strings.TrimSpace(b.(StringValue).Value), 10)
		if !ok {
			return false, nil
		}
		return a.(BigIntValue).Value.Cmp(bi) == 0, nil
	case a.ValueKind() == KindString && b.ValueKind() == KindBigInt:
		return AbstractEquals(ctx, b, a)
	case a.ValueKind() == KindBoolean:
		an, _ := ToNumber(ctx, a)
		return AbstractEquals(ctx, NumberValue{Value: an}, b)
	case b.ValueKind() == KindBoolean:
		bn, _ := ToNumber(ctx, b)
		return AbstractEquals(ctx, a, NumberValue{Value: bn})
	case (a.ValueKind() == KindNumber || a.ValueKind() == KindString || a.ValueKind() == KindBigInt || a.ValueKind() == KindSymbol) && b.ValueKind() == KindObject:
		bp, err := ToPrimitive(ctx, b, "default")
		if err != nil {
			return false, err
		}
		return AbstractEquals(ctx, a, bp)
	case a.ValueKind() == KindObject && (b.ValueKind() == KindNumber || b.ValueKind() == KindString || b.ValueKind() == KindBigInt || b.ValueKind() == KindSymbol):
		ap, err := ToPrimitive(ctx, a, "default")
		if err != nil {
			return false, err
		}
		return AbstractEquals(ctx, ap, b)
	case a.ValueKind() == KindBigInt && b.ValueKind() == KindNumber:
		return bigIntEqualsNumber(a.(BigIntValue).Value, b.(NumberValue).Value), nil
	case a.ValueKind() == KindNumber && b.ValueKind() == KindBigInt:
		return bigIntEqualsNumber(b.(BigIntValue).Value, a.(NumberValue).Value), nil
	default:
		return false, nil
	}
}

func bigIntEqualsNumber(bi *big.Int, n float64) bool {
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return false
	}
	bf := new(big.Float).SetInt(bi)
	nf := big.NewFloat(n)
	return bf.Cmp(nf) == 0
}
