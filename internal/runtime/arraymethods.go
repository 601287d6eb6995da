package runtime

import (
	"sort"
	"strings"
)

// The functions in this file implement the generic Array method suite
// (spec.md §4.E): every one of them operates on any array-like `this`
// (an object with a "length" property and numeric properties), reading
// `length` via ToLength before doing anything else so that
// side-effects in a `length` getter are observable in the order the
// specification mandates. They are installed onto Array.prototype by
// Bootstrap, as plain native functions — nothing here assumes `this`
// is actually an ObjectKindArray, matching the teacher's own
// dynamic-dispatch-through-the-prototype-chain style.

func thisObject(ctx *Context, this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok {
		return nil, NewTypeError("Array.prototype.%s called on non-object", method)
	}
	return o, nil
}

func arrayLikeLength(ctx *Context, o *Object) (uint32, *Error) {
	lenVal, err := o.Get(ctx, StringKey("length"), o)
	if err != nil {
		return 0, err
	}
	n, err := ToLength(ctx, lenVal)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

// ArrayPush implements Array.prototype.push.
func ArrayPush(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "push")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	for _, v := range args {
		if _, serr := o.Set(ctx, StringKey(itoa(int(length))), v, o, true); serr != nil {
			return nil, serr
		}
		length++
	}
	if _, serr := o.Set(ctx, StringKey("length"), NewNumber(float64(length)), o, true); serr != nil {
		return nil, serr
	}
	return NewNumber(float64(length)), nil
}

// ArrayPop implements Array.prototype.pop.
func ArrayPop(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "pop")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		if _, serr := o.Set(ctx, StringKey("length"), NewNumber(0), o, true); serr != nil {
			return nil, serr
		}
		return Undefined, nil
	}
	last := length - 1
	v, err := o.Get(ctx, StringKey(itoa(int(last))), o)
	if err != nil {
		return nil, err
	}
	if _, derr := o.Delete(ctx, StringKey(itoa(int(last))), true); derr != nil {
		return nil, derr
	}
	if _, serr := o.Set(ctx, StringKey("length"), NewNumber(float64(last)), o, true); serr != nil {
		return nil, serr
	}
	return v, nil
}

// ArrayShift implements Array.prototype.shift.
func ArrayShift(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "shift")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		if _, serr := o.Set(ctx, StringKey("length"), NewNumber(0), o, true); serr != nil {
			return nil, serr
		}
		return Undefined, nil
	}
	first, err := o.Get(ctx, StringKey("0"), o)
	if err != nil {
		return nil, err
	}
	for i := uint32(1); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if has {
			v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
			if gerr != nil {
				return nil, gerr
			}
			if _, serr := o.Set(ctx, StringKey(itoa(int(i-1))), v, o, true); serr != nil {
				return nil, serr
			}
		} else if _, derr := o.Delete(ctx, StringKey(itoa(int(i-1))), true); derr != nil {
			return nil, derr
		}
	}
	if _, derr := o.Delete(ctx, StringKey(itoa(int(length-1))), true); derr != nil {
		return nil, derr
	}
	if _, serr := o.Set(ctx, StringKey("length"), NewNumber(float64(length-1)), o, true); serr != nil {
		return nil, serr
	}
	return first, nil
}

// ArrayUnshift implements Array.prototype.unshift.
func ArrayUnshift(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "unshift")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	n := uint32(len(args))
	for i := length; i > 0; i-- {
		from := i - 1
		to := from + n
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(from))))
		if herr != nil {
			return nil, herr
		}
		if has {
			v, gerr := o.Get(ctx, StringKey(itoa(int(from))), o)
			if gerr != nil {
				return nil, gerr
			}
			if _, serr := o.Set(ctx, StringKey(itoa(int(to))), v, o, true); serr != nil {
				return nil, serr
			}
		} else if _, derr := o.Delete(ctx, StringKey(itoa(int(to))), true); derr != nil {
			return nil, derr
		}
	}
	for i, v := range args {
		if _, serr := o.Set(ctx, StringKey(itoa(i)), v, o, true); serr != nil {
			return nil, serr
		}
	}
	newLen := length + n
	if _, serr := o.Set(ctx, StringKey("length"), NewNumber(float64(newLen)), o, true); serr != nil {
		return nil, serr
	}
	return NewNumber(float64(newLen)), nil
}

// normalizeRelativeIndex resolves a relative start/end argument (as
// used by slice/splice/at/copyWithin/fill) against length.
func normalizeRelativeIndex(ctx *Context, v Value, length uint32, defaultVal float64) (int64, *Error) {
	if v == nil || v.ValueKind() == KindUndefined {
		return int64(defaultVal), nil
	}
	n, err := ToIntegerOrInfinity(ctx, v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		r := float64(length) + n
		if r < 0 {
			r = 0
		}
		return int64(r), nil
	}
	if n > float64(length) {
		return int64(length), nil
	}
	return int64(n), nil
}

// ArraySlice implements Array.prototype.slice.
func ArraySlice(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "slice")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	start, err := normalizeRelativeIndex(ctx, arg(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 1), length, float64(length))
	if err != nil {
		return nil, err
	}
	var result []Value
	for i := start; i < end; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if has {
			v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
			if gerr != nil {
				return nil, gerr
			}
			result = append(result, v)
		} else {
			result = append(result, Undefined)
		}
	}
	return NewArray(ctx, result), nil
}

// ArraySplice implements Array.prototype.splice.
func ArraySplice(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "splice")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	start, err := normalizeRelativeIndex(ctx, arg(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	deleteCount := int64(length) - start
	if len(args) >= 2 {
		dc, derr := ToIntegerOrInfinity(ctx, args[1])
		if derr != nil {
			return nil, derr
		}
		if dc < 0 {
			dc = 0
		}
		if dc > float64(int64(length)-start) {
			dc = float64(int64(length) - start)
		}
		deleteCount = int64(dc)
	} else if len(args) == 0 {
		deleteCount = 0
	}
	var items []Value
	if len(args) > 2 {
		items = args[2:]
	}
	removed := make([]Value, 0, deleteCount)
	for i := int64(0); i < deleteCount; i++ {
		idx := start + i
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(idx))))
		if herr != nil {
			return nil, herr
		}
		if has {
			v, gerr := o.Get(ctx, StringKey(itoa(int(idx))), o)
			if gerr != nil {
				return nil, gerr
			}
			removed = append(removed, v)
		} else {
			removed = append(removed, Undefined)
		}
	}
	itemCount := int64(len(items))
	if itemCount < deleteCount {
		for i := start; i < int64(length)-deleteCount; i++ {
			from := i + deleteCount
			to := i + itemCount
			has, herr := o.HasProperty(ctx, StringKey(itoa(int(from))))
			if herr != nil {
				return nil, herr
			}
			if has {
				v, gerr := o.Get(ctx, StringKey(itoa(int(from))), o)
				if gerr != nil {
					return nil, gerr
				}
				if _, serr := o.Set(ctx, StringKey(itoa(int(to))), v, o, true); serr != nil {
					return nil, serr
				}
			} else if _, derr2 := o.Delete(ctx, StringKey(itoa(int(to))), true); derr2 != nil {
				return nil, derr2
			}
		}
		for i := int64(length) - 1; i >= int64(length)-deleteCount+itemCount; i-- {
			if _, derr2 := o.Delete(ctx, StringKey(itoa(int(i))), true); derr2 != nil {
				return nil, derr2
			}
		}
	} else if itemCount > deleteCount {
		for i := int64(length) - deleteCount - 1; i >= start; i-- {
			from := i + deleteCount
			to := i + itemCount
			has, herr := o.HasProperty(ctx, StringKey(itoa(int(from))))
			if herr != nil {
				return nil, herr
			}
			if has {
				v, gerr := o.Get(ctx, StringKey(itoa(int(from))), o)
				if gerr != nil {
					return nil, gerr
				}
				if _, serr := o.Set(ctx, StringKey(itoa(int(to))), v, o, true); serr != nil {
					return nil, serr
				}
			} else if _, derr2 := o.Delete(ctx, StringKey(itoa(int(to))), true); derr2 != nil {
				return nil, derr2
			}
		}
	}
	for i, v := range items {
		if _, serr := o.Set(ctx, StringKey(itoa(int(start)+i)), v, o, true); serr != nil {
			return nil, serr
		}
	}
	newLen := int64(length) - deleteCount + itemCount
	if _, serr := o.Set(ctx, StringKey("length"), NewNumber(float64(newLen)), o, true); serr != nil {
		return nil, serr
	}
	return NewArray(ctx, removed), nil
}

// ArrayConcat implements Array.prototype.concat, spreading operands
// that are arrays or whose Symbol.isConcatSpreadable is truthy
// (spec.md §4.E).
func ArrayConcat(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "concat")
	if err != nil {
		return nil, err
	}
	var result []Value
	items := append([]Value{Value(o)}, args...)
	for _, item := range items {
		spreadable, serr := isConcatSpreadable(ctx, item)
		if serr != nil {
			return nil, serr
		}
		if spreadable {
			obj, _ := AsObject(item)
			length, lerr := arrayLikeLength(ctx, obj)
			if lerr != nil {
				return nil, lerr
			}
			for i := uint32(0); i < length; i++ {
				has, herr := obj.HasProperty(ctx, StringKey(itoa(int(i))))
				if herr != nil {
					return nil, herr
				}
				if has {
					v, gerr := obj.Get(ctx, StringKey(itoa(int(i))), obj)
					if gerr != nil {
						return nil, gerr
					}
					result = append(result, v)
				} else {
					result = append(result, Undefined)
				}
			}
		} else {
			result = append(result, item)
		}
	}
	return NewArray(ctx, result), nil
}

func isConcatSpreadable(ctx *Context, v Value) (bool, *Error) {
	obj, ok := AsObject(v)
	if !ok {
		return false, nil
	}
	if sym := ctx.WellKnown.IsConcatSpreadable; sym != nil {
		flag, err := obj.Get(ctx, SymbolKey(sym), obj)
		if err != nil {
			return false, err
		}
		if flag.ValueKind() != KindUndefined {
			return ToBoolean(flag), nil
		}
	}
	return IsArray(v), nil
}

// ArrayJoin implements Array.prototype.join.
func ArrayJoin(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "join")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	sep := ","
	if len(args) > 0 && args[0].ValueKind() != KindUndefined {
		s, serr := ToString(ctx, args[0])
		if serr != nil {
			return nil, serr
		}
		sep = s
	}
	parts := make([]string, length)
	for i := uint32(0); i < length; i++ {
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if IsNullish(v) {
			parts[i] = ""
			continue
		}
		s, serr := ToString(ctx, v)
		if serr != nil {
			return nil, serr
		}
		parts[i] = s
	}
	return NewString(strings.Join(parts, sep)), nil
}

// ArrayIndexOf implements Array.prototype.indexOf (StrictEquals).
func ArrayIndexOf(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "indexOf")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return NewNumber(-1), nil
	}
	target := arg(args, 0)
	start := int64(0)
	if len(args) > 1 {
		n, nerr := ToIntegerOrInfinity(ctx, args[1])
		if nerr != nil {
			return nil, nerr
		}
		if n < 0 {
			start = int64(float64(length) + n)
			if start < 0 {
				start = 0
			}
		} else {
			start = int64(n)
		}
	}
	for i := start; i < int64(length); i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if StrictEquals(v, target) {
			return NewNumber(float64(i)), nil
		}
	}
	return NewNumber(-1), nil
}

// ArrayLastIndexOf implements Array.prototype.lastIndexOf.
func ArrayLastIndexOf(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "lastIndexOf")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return NewNumber(-1), nil
	}
	target := arg(args, 0)
	start := int64(length) - 1
	if len(args) > 1 {
		n, nerr := ToIntegerOrInfinity(ctx, args[1])
		if nerr != nil {
			return nil, nerr
		}
		if n < 0 {
			start = int64(float64(length) + n)
		} else if n < float64(length) {
			start = int64(n)
		}
	}
	for i := start; i >= 0; i-- {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if StrictEquals(v, target) {
			return NewNumber(float64(i)), nil
		}
	}
	return NewNumber(-1), nil
}

// ArrayIncludes implements Array.prototype.includes (SameValueZero).
func ArrayIncludes(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "includes")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	target := arg(args, 0)
	for i := uint32(0); i < length; i++ {
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if SameValueZero(v, target) {
			return True, nil
		}
	}
	return False, nil
}

func callCallback(ctx *Context, cb Value, thisArg Value, args []Value) (Value, *Error) {
	fn, ok := AsObject(cb)
	if !ok || fn.Callable == nil {
		return nil, NewTypeError("callback is not a function")
	}
	return fn.Callable(ctx, thisArg, args)
}

// ArrayForEach implements Array.prototype.forEach.
func ArrayForEach(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "forEach")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if _, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o}); cerr != nil {
			return nil, cerr
		}
	}
	return Undefined, nil
}

// ArrayMap implements Array.prototype.map; holes in the receiver are
// preserved as holes in the result without invoking the callback
// (spec.md invariant: `a.map(f).length === a.length`, holes preserved).
func ArrayMap(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "map")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	result := NewArrayWithLength(ctx, length)
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		mapped, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		ArraySetElement(ctx, result, i, mapped)
	}
	return result, nil
}

// ArrayFilter implements Array.prototype.filter.
func ArrayFilter(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "filter")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	var result []Value
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		keep, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		if ToBoolean(keep) {
			result = append(result, v)
		}
	}
	return NewArray(ctx, result), nil
}

// ArrayReduce implements Array.prototype.reduce.
func ArrayReduce(ctx *Context, this Value, args []Value) (Value, *Error) {
	return arrayReduceImpl(ctx, this, args, false)
}

// ArrayReduceRight implements Array.prototype.reduceRight.
func ArrayReduceRight(ctx *Context, this Value, args []Value) (Value, *Error) {
	return arrayReduceImpl(ctx, this, args, true)
}

func arrayReduceImpl(ctx *Context, this Value, args []Value, right bool) (Value, *Error) {
	o, err := thisObject(ctx, this, "reduce")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	var acc Value
	hasAcc := len(args) > 1
	if hasAcc {
		acc = args[1]
	}
	indices := make([]int64, 0, length)
	for i := int64(0); i < int64(length); i++ {
		indices = append(indices, i)
	}
	if right {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	for _, i := range indices {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if !hasAcc {
			acc = v
			hasAcc = true
			continue
		}
		next, cerr := callCallback(ctx, cb, Undefined, []Value{acc, v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		acc = next
	}
	if !hasAcc {
		return nil, NewTypeError("Reduce of empty array with no initial value")
	}
	return acc, nil
}

// ArrayEvery implements Array.prototype.every.
func ArrayEvery(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "every")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		if !ToBoolean(result) {
			return False, nil
		}
	}
	return True, nil
}

// ArraySome implements Array.prototype.some.
func ArraySome(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "some")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		if ToBoolean(result) {
			return True, nil
		}
	}
	return False, nil
}

func findImpl(ctx *Context, this Value, args []Value, wantIndex, fromLast bool) (Value, *Error) {
	o, err := thisObject(ctx, this, "find")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	indices := make([]int64, 0, length)
	for i := int64(0); i < int64(length); i++ {
		indices = append(indices, i)
	}
	if fromLast {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	for _, i := range indices {
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result, cerr := callCallback(ctx, cb, thisArg, []Value{v, NewNumber(float64(i)), o})
		if cerr != nil {
			return nil, cerr
		}
		if ToBoolean(result) {
			if wantIndex {
				return NewNumber(float64(i)), nil
			}
			return v, nil
		}
	}
	if wantIndex {
		return NewNumber(-1), nil
	}
	return Undefined, nil
}

func ArrayFind(ctx *Context, this Value, args []Value) (Value, *Error) {
	return findImpl(ctx, this, args, false, false)
}
func ArrayFindIndex(ctx *Context, this Value, args []Value) (Value, *Error) {
	return findImpl(ctx, this, args, true, false)
}
func ArrayFindLast(ctx *Context, this Value, args []Value) (Value, *Error) {
	return findImpl(ctx, this, args, false, true)
}
func ArrayFindLastIndex(ctx *Context, this Value, args []Value) (Value, *Error) {
	return findImpl(ctx, this, args, true, true)
}

// ArrayReverse implements Array.prototype.reverse, mutating in place.
func ArrayReverse(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "reverse")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	for i, j := uint32(0), length; i < j; i, j = i+1, j-1 {
		lo := j - 1
		if i == lo {
			break
		}
		hasI, _ := o.HasProperty(ctx, StringKey(itoa(int(i))))
		hasJ, _ := o.HasProperty(ctx, StringKey(itoa(int(lo))))
		var vi, vj Value
		if hasI {
			vi, _ = o.Get(ctx, StringKey(itoa(int(i))), o)
		}
		if hasJ {
			vj, _ = o.Get(ctx, StringKey(itoa(int(lo))), o)
		}
		switch {
		case hasI && hasJ:
			o.Set(ctx, StringKey(itoa(int(i))), vj, o, true)
			o.Set(ctx, StringKey(itoa(int(lo))), vi, o, true)
		case hasJ:
			o.Set(ctx, StringKey(itoa(int(i))), vj, o, true)
			o.Delete(ctx, StringKey(itoa(int(lo))), true)
		case hasI:
			o.Set(ctx, StringKey(itoa(int(lo))), vi, o, true)
			o.Delete(ctx, StringKey(itoa(int(i))), true)
		}
	}
	return o, nil
}

// ArraySort implements Array.prototype.sort: lexicographic string
// comparison with no comparator, otherwise the comparator's result is
// coerced to a number (NaN meaning "equal"), with undefined elements
// sorted to the end regardless of comparator (spec.md §4.E).
func ArraySort(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "sort")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	var comparator *Object
	if len(args) > 0 && args[0].ValueKind() != KindUndefined {
		fn, ok := AsObject(args[0])
		if !ok || fn.Callable == nil {
			return nil, NewTypeError("The comparator function must be either a function or undefined")
		}
		comparator = fn
	}
	type entry struct {
		v         Value
		undefined bool
		absent    bool
	}
	entries := make([]entry, length)
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			entries[i] = entry{absent: true}
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		entries[i] = entry{v: v, undefined: v.ValueKind() == KindUndefined}
	}
	var sortErr *Error
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.absent {
			return false
		}
		if b.absent {
			return true
		}
		if a.undefined {
			return false
		}
		if b.undefined {
			return true
		}
		if sortErr != nil {
			return false
		}
		if comparator != nil {
			result, cerr := comparator.Callable(ctx, Undefined, []Value{a.v, b.v})
			if cerr != nil {
				sortErr = cerr
				return false
			}
			n, nerr := ToNumber(ctx, result)
			if nerr != nil {
				sortErr = nerr
				return false
			}
			return n < 0
		}
		sa, serr := ToString(ctx, a.v)
		if serr != nil {
			sortErr = serr
			return false
		}
		sb, serr2 := ToString(ctx, b.v)
		if serr2 != nil {
			sortErr = serr2
			return false
		}
		return sa < sb
	})
	if sortErr != nil {
		return nil, sortErr
	}
	for i, e := range entries {
		key := StringKey(itoa(i))
		if e.absent {
			o.Delete(ctx, key, true)
		} else {
			o.Set(ctx, key, e.v, o, true)
		}
	}
	return o, nil
}

// ArrayFill implements Array.prototype.fill.
func ArrayFill(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "fill")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	value := arg(args, 0)
	start, err := normalizeRelativeIndex(ctx, arg(args, 1), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 2), length, float64(length))
	if err != nil {
		return nil, err
	}
	for i := start; i < end; i++ {
		if _, serr := o.Set(ctx, StringKey(itoa(int(i))), value, o, true); serr != nil {
			return nil, serr
		}
	}
	return o, nil
}

// ArrayCopyWithin implements Array.prototype.copyWithin.
func ArrayCopyWithin(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "copyWithin")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	target, err := normalizeRelativeIndex(ctx, arg(args, 0), length, 0)
	if err != nil {
		return nil, err
	}
	start, err := normalizeRelativeIndex(ctx, arg(args, 1), length, 0)
	if err != nil {
		return nil, err
	}
	end, err := normalizeRelativeIndex(ctx, arg(args, 2), length, float64(length))
	if err != nil {
		return nil, err
	}
	count := end - start
	if remaining := int64(length) - target; count > remaining {
		count = remaining
	}
	direction := int64(1)
	if start < target && target < start+count {
		direction = -1
		start = start + count - 1
		target = target + count - 1
	}
	for ; count > 0; count-- {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(start))))
		if herr != nil {
			return nil, herr
		}
		if has {
			v, gerr := o.Get(ctx, StringKey(itoa(int(start))), o)
			if gerr != nil {
				return nil, gerr
			}
			if _, serr := o.Set(ctx, StringKey(itoa(int(target))), v, o, true); serr != nil {
				return nil, serr
			}
		} else if _, derr := o.Delete(ctx, StringKey(itoa(int(target))), true); derr != nil {
			return nil, derr
		}
		start += direction
		target += direction
	}
	return o, nil
}

// ArrayAt implements Array.prototype.at.
func ArrayAt(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "at")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	n, err := ToIntegerOrInfinity(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	idx := n
	if idx < 0 {
		idx += float64(length)
	}
	if idx < 0 || idx >= float64(length) {
		return Undefined, nil
	}
	return o.Get(ctx, StringKey(itoa(int(idx))), o)
}

// ArrayFlat implements Array.prototype.flat.
func ArrayFlat(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "flat")
	if err != nil {
		return nil, err
	}
	depth := 1.0
	if len(args) > 0 && args[0].ValueKind() != KindUndefined {
		d, derr := ToIntegerOrInfinity(ctx, args[0])
		if derr != nil {
			return nil, derr
		}
		depth = d
	}
	result, ferr := flattenInto(ctx, o, depth, nil)
	if ferr != nil {
		return nil, ferr
	}
	return NewArray(ctx, result), nil
}

func flattenInto(ctx *Context, o *Object, depth float64, into []Value) ([]Value, *Error) {
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < length; i++ {
		has, herr := o.HasProperty(ctx, StringKey(itoa(int(i))))
		if herr != nil {
			return nil, herr
		}
		if !has {
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		if depth > 0 && IsArray(v) {
			sub, _ := AsObject(v)
			into, err = flattenInto(ctx, sub, depth-1, into)
			if err != nil {
				return nil, err
			}
		} else {
			into = append(into, v)
		}
	}
	return into, nil
}

// ArrayFlatMap implements Array.prototype.flatMap (map then flatten
// one level).
func ArrayFlatMap(ctx *Context, this Value, args []Value) (Value, *Error) {
	mapped, err := ArrayMap(ctx, this, args)
	if err != nil {
		return nil, err
	}
	mappedObj, _ := AsObject(mapped)
	result, ferr := flattenInto(ctx, mappedObj, 1, nil)
	if ferr != nil {
		return nil, ferr
	}
	return NewArray(ctx, result), nil
}

// ArrayToReversed implements Array.prototype.toReversed (non-mutating).
func ArrayToReversed(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "toReversed")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	result := make([]Value, length)
	for i := uint32(0); i < length; i++ {
		v, gerr := o.Get(ctx, StringKey(itoa(int(length-1-i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result[i] = v
	}
	return NewArray(ctx, result), nil
}

// ArrayToSorted implements Array.prototype.toSorted (non-mutating).
func ArrayToSorted(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "toSorted")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	copyVals := make([]Value, length)
	for i := uint32(0); i < length; i++ {
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		copyVals[i] = v
	}
	copyArr := NewArray(ctx, copyVals)
	if _, serr := ArraySort(ctx, copyArr, args); serr != nil {
		return nil, serr
	}
	return copyArr, nil
}

// ArrayToSpliced implements Array.prototype.toSpliced (non-mutating).
func ArrayToSpliced(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "toSpliced")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	copyVals := make([]Value, length)
	for i := uint32(0); i < length; i++ {
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		copyVals[i] = v
	}
	copyArr := NewArray(ctx, copyVals)
	if _, serr := ArraySplice(ctx, copyArr, args); serr != nil {
		return nil, serr
	}
	return copyArr, nil
}

// ArrayWith implements Array.prototype.with (non-mutating index
// replacement).
func ArrayWith(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := thisObject(ctx, this, "with")
	if err != nil {
		return nil, err
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	n, err := ToIntegerOrInfinity(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	idx := n
	if idx < 0 {
		idx += float64(length)
	}
	if idx < 0 || idx >= float64(length) {
		return nil, NewRangeError("Invalid index")
	}
	result := make([]Value, length)
	for i := uint32(0); i < length; i++ {
		if float64(i) == idx {
			result[i] = arg(args, 1)
			continue
		}
		v, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result[i] = v
	}
	return NewArray(ctx, result), nil
}
