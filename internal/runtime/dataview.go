package runtime

import (
	"encoding/binary"
	"math"
)

// dataViewData is the internal-slot payload for a DataView object
// (spec.md §4.F): an explicit-endianness byte-level view over a
// buffer, distinct from a typed array in letting each get/set call
// choose its own width and endianness.
type dataViewData struct {
	Buffer     *Object
	ByteOffset uint32
	ByteLength uint32
}

// NewDataView constructs a DataView over buffer.
func NewDataView(ctx *Context, buffer *Object, byteOffset, byteLength uint32) *Object {
	o := NewObject(ctx.DataViewPrototype)
	o.Kind = ObjectKindDataView
	o.dataViewData = &dataViewData{Buffer: buffer, ByteOffset: byteOffset, ByteLength: byteLength}
	return o
}

func dataViewBytes(ctx *Context, this Value, width uint32, byteOffsetArg Value) ([]byte, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindDataView {
		return nil, NewTypeError("receiver is not a DataView")
	}
	d := o.dataViewData
	off, err := ToIntegerOrInfinity(ctx, byteOffsetArg)
	if err != nil {
		return nil, err
	}
	if off < 0 || off+float64(width) > float64(d.ByteLength) {
		return nil, NewRangeError("Offset is outside the bounds of the DataView")
	}
	start := d.ByteOffset + uint32(off)
	return d.Buffer.bufferData.Bytes[start : start+width], nil
}

func littleEndianRequested(args []Value, index int) bool {
	if index >= len(args) {
		return false
	}
	return ToBoolean(args[index])
}

func byteOrder(little bool) binary.ByteOrder {
	if little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// DataViewGetInt8 implements DataView.prototype.getInt8.
func DataViewGetInt8(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 1, arg(args, 0))
	if err != nil {
		return nil, err
	}
	return NewNumber(float64(int8(raw[0]))), nil
}

// DataViewGetUint8 implements DataView.prototype.getUint8.
func DataViewGetUint8(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 1, arg(args, 0))
	if err != nil {
		return nil, err
	}
	return NewNumber(float64(raw[0])), nil
}

// DataViewSetInt8 implements DataView.prototype.setInt8.
func DataViewSetInt8(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 1, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToInt32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	raw[0] = byte(n)
	return Undefined, nil
}

// DataViewSetUint8 implements DataView.prototype.setUint8.
func DataViewSetUint8(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 1, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToUint32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	raw[0] = byte(n)
	return Undefined, nil
}

// DataViewGetInt16 implements DataView.prototype.getInt16.
func DataViewGetInt16(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 2, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(float64(int16(order.Uint16(raw)))), nil
}

// DataViewGetUint16 implements DataView.prototype.getUint16.
func DataViewGetUint16(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 2, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(float64(order.Uint16(raw))), nil
}

// DataViewSetInt16 implements DataView.prototype.setInt16.
func DataViewSetInt16(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 2, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToInt32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint16(raw, uint16(n))
	return Undefined, nil
}

// DataViewSetUint16 implements DataView.prototype.setUint16.
func DataViewSetUint16(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 2, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToUint32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint16(raw, uint16(n))
	return Undefined, nil
}

// DataViewGetInt32 implements DataView.prototype.getInt32.
func DataViewGetInt32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(float64(int32(order.Uint32(raw)))), nil
}

// DataViewGetUint32 implements DataView.prototype.getUint32.
func DataViewGetUint32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(float64(order.Uint32(raw))), nil
}

// DataViewSetInt32 implements DataView.prototype.setInt32.
func DataViewSetInt32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToInt32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint32(raw, uint32(n))
	return Undefined, nil
}

// DataViewSetUint32 implements DataView.prototype.setUint32.
func DataViewSetUint32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToUint32(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint32(raw, n)
	return Undefined, nil
}

// DataViewGetFloat32 implements DataView.prototype.getFloat32.
func DataViewGetFloat32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(float64(math.Float32frombits(order.Uint32(raw)))), nil
}

// DataViewSetFloat32 implements DataView.prototype.setFloat32.
func DataViewSetFloat32(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 4, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToNumber(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint32(raw, math.Float32bits(float32(n)))
	return Undefined, nil
}

// DataViewGetFloat64 implements DataView.prototype.getFloat64.
func DataViewGetFloat64(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 8, arg(args, 0))
	if err != nil {
		return nil, err
	}
	order := byteOrder(littleEndianRequested(args, 1))
	return NewNumber(math.Float64frombits(order.Uint64(raw))), nil
}

// DataViewSetFloat64 implements DataView.prototype.setFloat64.
func DataViewSetFloat64(ctx *Context, this Value, args []Value) (Value, *Error) {
	raw, err := dataViewBytes(ctx, this, 8, arg(args, 0))
	if err != nil {
		return nil, err
	}
	n, nerr := ToNumber(ctx, arg(args, 1))
	if nerr != nil {
		return nil, nerr
	}
	byteOrder(littleEndianRequested(args, 2)).PutUint64(raw, math.Float64bits(n))
	return Undefined, nil
}
