package runtime

import (
	"encoding/binary"
	"math"
)

// TypedArrayKind discriminates the eleven element kinds spec.md §4.F
// names, each with its own width-in-bytes and encode/decode rule.
type TypedArrayKind uint8

const (
	TypedArrayInt8 TypedArrayKind = iota
	TypedArrayUint8
	TypedArrayUint8Clamped
	TypedArrayInt16
	TypedArrayUint16
	TypedArrayInt32
	TypedArrayUint32
	TypedArrayFloat16
	TypedArrayFloat32
	TypedArrayFloat64
	TypedArrayBigInt64
	TypedArrayBigUint64
)

// BytesPerElement returns the element width in bytes for a typed-array kind.
func (k TypedArrayKind) BytesPerElement() uint32 {
	switch k {
	case TypedArrayInt8, TypedArrayUint8, TypedArrayUint8Clamped:
		return 1
	case TypedArrayInt16, TypedArrayUint16, TypedArrayFloat16:
		return 2
	case TypedArrayInt32, TypedArrayUint32, TypedArrayFloat32:
		return 4
	case TypedArrayFloat64, TypedArrayBigInt64, TypedArrayBigUint64:
		return 8
	default:
		Panicf("BytesPerElement: unknown kind %d", k)
		return 0
	}
}

// Name returns the constructor name for a typed-array kind, e.g. "Int8Array".
func (k TypedArrayKind) Name() string {
	switch k {
	case TypedArrayInt8:
		return "Int8Array"
	case TypedArrayUint8:
		return "Uint8Array"
	case TypedArrayUint8Clamped:
		return "Uint8ClampedArray"
	case TypedArrayInt16:
		return "Int16Array"
	case TypedArrayUint16:
		return "Uint16Array"
	case TypedArrayInt32:
		return "Int32Array"
	case TypedArrayUint32:
		return "Uint32Array"
	case TypedArrayFloat16:
		return "Float16Array"
	case TypedArrayFloat32:
		return "Float32Array"
	case TypedArrayFloat64:
		return "Float64Array"
	case TypedArrayBigInt64:
		return "BigInt64Array"
	case TypedArrayBigUint64:
		return "BigUint64Array"
	default:
		return "TypedArray"
	}
}

// typedArrayData is the internal-slot payload for a typed-array view
// (spec.md §4.F): a (buffer, byteOffset, length) window, decoding each
// element at construction-agnostic widths determined by Kind.
type typedArrayData struct {
	Kind       TypedArrayKind
	Buffer     *Object
	ByteOffset uint32
	Length     uint32
}

// NewTypedArray constructs a typed-array view over buffer starting at
// byteOffset, with the given element length (spec.md §4.F).
func NewTypedArray(ctx *Context, kind TypedArrayKind, buffer *Object, byteOffset, length uint32) *Object {
	o := NewObject(typedArrayPrototypeFor(ctx, kind))
	o.Kind = ObjectKindTypedArray
	o.typedArrayData = &typedArrayData{Kind: kind, Buffer: buffer, ByteOffset: byteOffset, Length: length}
	o.exotic = typedArrayExoticOps()
	return o
}

// typedArrayPrototypeFor resolves the per-kind prototype; Bootstrap
// populates ctx.TypedArrayPrototype as the shared %TypedArray%.prototype
// and this package keeps per-kind prototypes in typedArrayPrototypes.
func typedArrayPrototypeFor(ctx *Context, kind TypedArrayKind) *Object {
	if p, ok := ctx.typedArrayPrototypes[kind]; ok {
		return p
	}
	return ctx.TypedArrayPrototype
}

func typedArrayExoticOps() *exoticOps {
	return &exoticOps{
		GetOwn: func(o *Object, key PropertyKey) (*Descriptor, bool) {
			if key.IsSymbol() {
				return o.symProps.get(key.Symbol())
			}
			if idx, ok := parseArrayIndex(key.String()); ok {
				v, ok := TypedArrayGet(o, idx)
				if !ok {
					return nil, false
				}
				return &Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}, true
			}
			return o.ordinaryGetOwn(key)
		},
		DefineOwn: func(o *Object, ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error) {
			if !key.IsSymbol() {
				if idx, ok := parseArrayIndex(key.String()); ok {
					if !desc.HasValue {
						return true, nil
					}
					return TypedArraySet(ctx, o, idx, desc.Value)
				}
			}
			return o.ordinaryDefineOwn(ctx, key, desc)
		},
		Has: func(o *Object, ctx *Context, key PropertyKey) (bool, *Error) {
			if !key.IsSymbol() {
				if idx, ok := parseArrayIndex(key.String()); ok {
					_, present := TypedArrayGet(o, idx)
					return present, nil
				}
			}
			if _, ok := o.GetOwnProperty(key); ok {
				return true, nil
			}
			if o.proto == nil {
				return false, nil
			}
			return o.proto.HasProperty(ctx, key)
		},
		Delete: func(o *Object, ctx *Context, key PropertyKey) (bool, *Error) {
			if !key.IsSymbol() {
				if _, ok := parseArrayIndex(key.String()); ok {
					return false, nil
				}
			}
			return o.ordinaryDelete(ctx, key, false)
		},
		OwnKeys: func(o *Object) []PropertyKey {
			d := o.typedArrayData
			keys := make([]PropertyKey, 0, d.Length+1)
			for i := uint32(0); i < d.Length; i++ {
				keys = append(keys, StringKey(itoa(int(i))))
			}
			keys = append(keys, o.ordinaryOwnKeys()...)
			return keys
		},
	}
}

// TypedArrayGet reads element i, decoding bytes at the kind's width and
// little-endian encoding (spec.md §4.F); out-of-bounds reads yield
// (undefined, false), which the [[Get]] path turns into `undefined`.
func TypedArrayGet(o *Object, i uint32) (Value, bool) {
	d := o.typedArrayData
	if i >= d.Length {
		return nil, false
	}
	width := d.Kind.BytesPerElement()
	offset := d.ByteOffset + i*width
	bytes := d.Buffer.bufferData.Bytes
	if int(offset+width) > len(bytes) {
		return nil, false
	}
	raw := bytes[offset : offset+width]
	switch d.Kind {
	case TypedArrayInt8:
		return NewNumber(float64(int8(raw[0]))), true
	case TypedArrayUint8, TypedArrayUint8Clamped:
		return NewNumber(float64(raw[0])), true
	case TypedArrayInt16:
		return NewNumber(float64(int16(binary.LittleEndian.Uint16(raw)))), true
	case TypedArrayUint16:
		return NewNumber(float64(binary.LittleEndian.Uint16(raw))), true
	case TypedArrayInt32:
		return NewNumber(float64(int32(binary.LittleEndian.Uint32(raw)))), true
	case TypedArrayUint32:
		return NewNumber(float64(binary.LittleEndian.Uint32(raw))), true
	case TypedArrayFloat16:
		return NewNumber(decodeFloat16(binary.LittleEndian.Uint16(raw))), true
	case TypedArrayFloat32:
		return NewNumber(float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))), true
	case TypedArrayFloat64:
		return NewNumber(math.Float64frombits(binary.LittleEndian.Uint64(raw))), true
	case TypedArrayBigInt64:
		return bigIntFromInt64(int64(binary.LittleEndian.Uint64(raw))), true
	case TypedArrayBigUint64:
		return bigIntFromUint64(binary.LittleEndian.Uint64(raw)), true
	default:
		Panicf("TypedArrayGet: unknown kind %d", d.Kind)
		return nil, false
	}
}

// TypedArraySet writes v (after the kind-appropriate coercion —
// ToNumber for integer/float kinds, ToBigInt conceptually for the
// Big* kinds, with integer wraparound / Uint8Clamped rounding per
// spec.md §4.F) to element i. Out-of-range writes are silently
// ignored, matching spec.md's documented typed-array edge case.
func TypedArraySet(ctx *Context, o *Object, i uint32, v Value) (bool, *Error) {
	d := o.typedArrayData
	if d.Kind == TypedArrayBigInt64 || d.Kind == TypedArrayBigUint64 {
		bi, ok := v.(BigIntValue)
		if !ok {
			return false, NewTypeError("Cannot convert value to a BigInt")
		}
		if i >= d.Length {
			return true, nil
		}
		width := d.Kind.BytesPerElement()
		offset := d.ByteOffset + i*width
		raw := d.Buffer.bufferData.Bytes[offset : offset+width]
		binary.LittleEndian.PutUint64(raw, bi.Value.Uint64())
		return true, nil
	}
	n, err := ToNumber(ctx, v)
	if err != nil {
		return false, err
	}
	if i >= d.Length {
		return true, nil
	}
	width := d.Kind.BytesPerElement()
	offset := d.ByteOffset + i*width
	raw := d.Buffer.bufferData.Bytes[offset : offset+width]
	switch d.Kind {
	case TypedArrayInt8:
		raw[0] = byte(toInt32(n))
	case TypedArrayUint8:
		raw[0] = byte(toUint32(n))
	case TypedArrayUint8Clamped:
		raw[0] = clampUint8(n)
	case TypedArrayInt16:
		binary.LittleEndian.PutUint16(raw, uint16(toInt32(n)))
	case TypedArrayUint16:
		binary.LittleEndian.PutUint16(raw, uint16(toUint32(n)))
	case TypedArrayInt32:
		binary.LittleEndian.PutUint32(raw, uint32(toInt32(n)))
	case TypedArrayUint32:
		binary.LittleEndian.PutUint32(raw, toUint32(n))
	case TypedArrayFloat16:
		binary.LittleEndian.PutUint16(raw, encodeFloat16(n))
	case TypedArrayFloat32:
		binary.LittleEndian.PutUint32(raw, math.Float32bits(float32(n)))
	case TypedArrayFloat64:
		binary.LittleEndian.PutUint64(raw, math.Float64bits(n))
	default:
		Panicf("TypedArraySet: unknown kind %d", d.Kind)
	}
	return true, nil
}

// clampUint8 implements the Uint8Clamped write rule: clamp to
// [0, 255] with banker's rounding (round-half-to-even) on exact ties
// (spec.md §4.F).
func clampUint8(n float64) byte {
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n >= 255 {
		return 255
	}
	floor := math.Floor(n)
	diff := n - floor
	switch {
	case diff < 0.5:
		return byte(floor)
	case diff > 0.5:
		return byte(floor + 1)
	default:
		if int64(floor)%2 == 0 {
			return byte(floor)
		}
		return byte(floor + 1)
	}
}

// decodeFloat16 converts an IEEE-754 half-precision bit pattern to a
// float64 (spec.md §4.F: "Float16 uses a custom encode/decode").
func decodeFloat16(bits uint16) float64 {
	sign := bits >> 15
	exp := (bits >> 10) & 0x1F
	frac := bits & 0x3FF
	var f float64
	switch {
	case exp == 0:
		f = float64(frac) / 1024 * math.Pow(2, -14)
	case exp == 0x1F:
		if frac == 0 {
			f = math.Inf(1)
		} else {
			f = math.NaN()
		}
	default:
		f = (1 + float64(frac)/1024) * math.Pow(2, float64(exp)-15)
	}
	if sign == 1 && !math.IsNaN(f) {
		f = -f
	}
	return f
}

// encodeFloat16 converts a float64 to its nearest IEEE-754
// half-precision bit pattern.
func encodeFloat16(f float64) uint16 {
	if math.IsNaN(f) {
		return 0x7E00
	}
	sign := uint16(0)
	if math.Signbit(f) {
		sign = 0x8000
		f = -f
	}
	if math.IsInf(f, 0) {
		return sign | 0x7C00
	}
	if f == 0 {
		return sign
	}
	exp := math.Floor(math.Log2(f))
	mantissa := f/math.Pow(2, exp) - 1
	biased := exp + 15
	if biased <= 0 {
		// subnormal
		sub := f / math.Pow(2, -14) * 1024
		return sign | uint16(math.Round(sub))
	}
	if biased >= 0x1F {
		return sign | 0x7C00
	}
	return sign | (uint16(biased) << 10) | uint16(math.Round(mantissa*1024))
}

func bigIntFromInt64(n int64) Value {
	return NewBigInt(bigIntSetInt64(n))
}

func bigIntFromUint64(n uint64) Value {
	return NewBigInt(bigIntSetUint64(n))
}

// TypedArrayLength returns the element count of a typed-array view.
func TypedArrayLength(o *Object) uint32 { return o.typedArrayData.Length }

// TypedArrayElementKind returns the element kind of a typed-array view.
func TypedArrayElementKind(o *Object) TypedArrayKind { return o.typedArrayData.Kind }

// TypedArrayMap implements the typed-array-specific map override
// (spec.md §4.F: "map/filter return a new typed array of the same
// kind"), reusing Get/callback dispatch but writing results directly
// into freshly allocated same-kind storage.
func TypedArrayMap(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindTypedArray {
		return nil, NewTypeError("not a typed array")
	}
	d := o.typedArrayData
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	buf := NewArrayBuffer(ctx, d.Length*d.Kind.BytesPerElement())
	result := NewTypedArray(ctx, d.Kind, buf, 0, d.Length)
	for i := uint32(0); i < d.Length; i++ {
		v, _ := TypedArrayGet(o, i)
		mapped, err := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if err != nil {
			return nil, err
		}
		if _, err := TypedArraySet(ctx, result, i, mapped); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TypedArrayFilter implements the typed-array-specific filter override.
func TypedArrayFilter(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindTypedArray {
		return nil, NewTypeError("not a typed array")
	}
	d := o.typedArrayData
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	var kept []Value
	for i := uint32(0); i < d.Length; i++ {
		v, _ := TypedArrayGet(o, i)
		keep, err := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if err != nil {
			return nil, err
		}
		if ToBoolean(keep) {
			kept = append(kept, v)
		}
	}
	buf := NewArrayBuffer(ctx, uint32(len(kept))*d.Kind.BytesPerElement())
	result := NewTypedArray(ctx, d.Kind, buf, 0, uint32(len(kept)))
	for i, v := range kept {
		if _, err := TypedArraySet(ctx, result, uint32(i), v); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TypedArraySubarray implements subarray: a new view sharing bytes
// with the same buffer (spec.md §4.F).
func TypedArraySubarray(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindTypedArray {
		return nil, NewTypeError("not a typed array")
	}
	d := o.typedArrayData
	begin, err := normalizeRelativeIndex(ctx, arg(args, 0), d.Length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 1), d.Length, float64(d.Length))
	if err != nil {
		return nil, err
	}
	if end < begin {
		end = begin
	}
	width := d.Kind.BytesPerElement()
	return NewTypedArray(ctx, d.Kind, d.Buffer, d.ByteOffset+uint32(begin)*width, uint32(end-begin)), nil
}

// TypedArraySlice implements slice: a new view over a copied buffer
// (spec.md §4.F).
func TypedArraySlice(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindTypedArray {
		return nil, NewTypeError("not a typed array")
	}
	d := o.typedArrayData
	begin, err := normalizeRelativeIndex(ctx, arg(args, 0), d.Length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 1), d.Length, float64(d.Length))
	if err != nil {
		return nil, err
	}
	if end < begin {
		end = begin
	}
	width := d.Kind.BytesPerElement()
	newBuf := BufferSlice(ctx, d.Buffer, d.ByteOffset+uint32(begin)*width, d.ByteOffset+uint32(end)*width)
	return NewTypedArray(ctx, d.Kind, newBuf, 0, uint32(end-begin)), nil
}

// TypedArraySetFrom implements typed-array `set(source, offset?)`:
// element-by-element coercion copy, compatible with any array-like
// source (spec.md §4.F).
func TypedArraySetFrom(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindTypedArray {
		return nil, NewTypeError("not a typed array")
	}
	src, ok := AsObject(arg(args, 0))
	if !ok {
		return nil, NewTypeError("source is not an object")
	}
	offset := uint32(0)
	if len(args) > 1 {
		n, err := ToIntegerOrInfinity(ctx, args[1])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, NewRangeError("offset must not be negative")
		}
		offset = uint32(n)
	}
	length, err := arrayLikeLength(ctx, src)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < length; i++ {
		v, gerr := src.Get(ctx, StringKey(itoa(int(i))), src)
		if gerr != nil {
			return nil, gerr
		}
		if _, serr := TypedArraySet(ctx, o, offset+i, v); serr != nil {
			return nil, serr
		}
	}
	return Undefined, nil
}
