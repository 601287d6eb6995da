package runtime

// bufferData is the internal-slot payload for an ArrayBuffer object
// (spec.md §4.F): a fixed-size owned byte vector shared by every
// typed-array/DataView view constructed over it. Detaching (not
// modeled separately here, since spec.md's Non-goals exclude
// SharedArrayBuffer/Atomics and this module never transfers a buffer
// across a worker boundary) would zero Bytes and set Detached.
type bufferData struct {
	Bytes    []byte
	Detached bool
}

// NewArrayBuffer allocates a zero-filled ArrayBuffer of the given byte
// length.
func NewArrayBuffer(ctx *Context, byteLength uint32) *Object {
	o := NewObject(ctx.ArrayBufferPrototype)
	o.Kind = ObjectKindArrayBuffer
	o.bufferData = &bufferData{Bytes: make([]byte, byteLength)}
	return o
}

// BufferByteLength returns the current byte length of an ArrayBuffer.
func BufferByteLength(o *Object) uint32 {
	return uint32(len(o.bufferData.Bytes))
}

// BufferSlice implements ArrayBuffer.prototype.slice: a new buffer
// containing a copy of the [begin, end) byte range.
func BufferSlice(ctx *Context, o *Object, begin, end uint32) *Object {
	if end < begin {
		end = begin
	}
	out := NewArrayBuffer(ctx, end-begin)
	copy(out.bufferData.Bytes, o.bufferData.Bytes[begin:end])
	return out
}

// ArrayBufferSlice implements ArrayBuffer.prototype.slice as a native
// method, resolving relative begin/end arguments against byteLength.
func ArrayBufferSlice(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindArrayBuffer {
		return nil, NewTypeError("ArrayBuffer.prototype.slice called on incompatible receiver")
	}
	length := BufferByteLength(o)
	start, err := normalizeRelativeIndex(ctx, arg(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 1), length, float64(length))
	if err != nil {
		return nil, err
	}
	if end < start {
		end = start
	}
	return BufferSlice(ctx, o, uint32(start), uint32(end)), nil
}
