package runtime

// Bootstrap allocates every built-in prototype on ctx and installs the
// native methods this package implements onto them, matching the
// teacher's `cmd/dwscript/cmd/root.go` bootstrap-once-at-startup shape
// but scoped to a single Context instead of process globals (spec.md
// §9, DESIGN.md's "Prototype/realm storage" decision). The Evaluator
// embedding this package calls Bootstrap once per realm, then
// registers its own globals (Math, global functions, the `eval`
// entry point) on top — those remain external per spec.md §1.
func Bootstrap(ctx *Context) {
	ctx.ObjectPrototype = NewObject(nil)
	ctx.FunctionPrototype = NewObject(ctx.ObjectPrototype)
	ctx.FunctionPrototype.Kind = ObjectKindNativeFunction
	ctx.FunctionPrototype.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) { return Undefined, nil }

	ctx.ArrayPrototype = NewObject(ctx.ObjectPrototype)
	ctx.ArrayPrototype.Kind = ObjectKindArray
	ctx.ArrayPrototype.arrayData = &arrayStorage{}
	ctx.ArrayPrototype.exotic = arrayExoticOps()

	ctx.StringPrototype = NewObject(ctx.ObjectPrototype)
	ctx.StringPrototype.Primitive = NewString("")
	ctx.NumberPrototype = NewObject(ctx.ObjectPrototype)
	ctx.NumberPrototype.Primitive = NewNumber(0)
	ctx.BooleanPrototype = NewObject(ctx.ObjectPrototype)
	ctx.BooleanPrototype.Primitive = False
	ctx.BigIntPrototype = NewObject(ctx.ObjectPrototype)
	ctx.SymbolPrototype = NewObject(ctx.ObjectPrototype)
	ctx.ErrorPrototype = NewObject(ctx.ObjectPrototype)
	ctx.PromisePrototype = NewObject(ctx.ObjectPrototype)
	ctx.MapPrototype = NewObject(ctx.ObjectPrototype)
	ctx.SetPrototype = NewObject(ctx.ObjectPrototype)
	ctx.WeakMapPrototype = NewObject(ctx.ObjectPrototype)
	ctx.WeakSetPrototype = NewObject(ctx.ObjectPrototype)
	ctx.TypedArrayPrototype = NewObject(ctx.ObjectPrototype)
	ctx.ArrayBufferPrototype = NewObject(ctx.ObjectPrototype)
	ctx.DataViewPrototype = NewObject(ctx.ObjectPrototype)
	ctx.RegExpPrototype = NewObject(ctx.ObjectPrototype)
	ctx.DatePrototype = NewObject(ctx.ObjectPrototype)

	bootstrapObjectPrototype(ctx)
	bootstrapFunctionPrototype(ctx)
	bootstrapArrayPrototype(ctx)
	bootstrapStringPrototype(ctx)
	bootstrapMapSetPrototypes(ctx)
	bootstrapWeakPrototypes(ctx)
	bootstrapPromisePrototype(ctx)
	bootstrapTypedArrayPrototypes(ctx)
	bootstrapArrayBufferPrototype(ctx)
	bootstrapDataViewPrototype(ctx)
	bootstrapErrorPrototypes(ctx)

	// originalArrayPrototypeMethods snapshot, taken after installation,
	// lets the Array fast path (arraymethods.go callers outside this
	// package) detect monkey-patched Array.prototype methods.
	for _, name := range []string{
		"push", "pop", "shift", "unshift", "slice", "splice", "concat",
		"join", "indexOf", "lastIndexOf", "includes", "forEach", "map",
		"filter", "reduce", "reduceRight", "every", "some", "find",
		"findIndex", "findLast", "findLastIndex", "reverse", "sort",
		"fill", "copyWithin", "at", "flat", "flatMap", "toReversed",
		"toSorted", "toSpliced", "with",
	} {
		if desc, ok := ctx.ArrayPrototype.GetOwnProperty(StringKey(name)); ok {
			if fn, ok := desc.Value.(*Object); ok {
				ctx.originalArrayPrototypeMethods[name] = fn
			}
		}
	}
}

func method(ctx *Context, proto *Object, name string, length int, impl CallFunc) {
	proto.DefineMethod(ctx, name, NewNativeFunction(ctx, name, length, impl))
}

func bootstrapObjectPrototype(ctx *Context) {
	p := ctx.ObjectPrototype
	method(ctx, p, "hasOwnProperty", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		o, err := thisObject(ctx, this, "hasOwnProperty")
		if err != nil {
			return nil, err
		}
		key, kerr := ToPropertyKey(ctx, arg(args, 0))
		if kerr != nil {
			return nil, kerr
		}
		_, ok := o.GetOwnProperty(key)
		return NewBoolean(ok), nil
	})
	method(ctx, p, "isPrototypeOf", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		o, err := thisObject(ctx, this, "isPrototypeOf")
		if err != nil {
			return nil, err
		}
		target, ok := AsObject(arg(args, 0))
		if !ok {
			return False, nil
		}
		for cur := target.Prototype(); cur != nil; cur = cur.Prototype() {
			if cur == o {
				return True, nil
			}
		}
		return False, nil
	})
	method(ctx, p, "propertyIsEnumerable", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		o, err := thisObject(ctx, this, "propertyIsEnumerable")
		if err != nil {
			return nil, err
		}
		key, kerr := ToPropertyKey(ctx, arg(args, 0))
		if kerr != nil {
			return nil, kerr
		}
		d, ok := o.GetOwnProperty(key)
		return NewBoolean(ok && d.Enumerable), nil
	})
	method(ctx, p, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		return NewString("[object Object]"), nil
	})
	method(ctx, p, "valueOf", 0, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		return this, nil
	})
}

func bootstrapFunctionPrototype(ctx *Context) {
	p := ctx.FunctionPrototype
	method(ctx, p, "call", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		fn, ok := AsObject(this)
		if !ok || fn.Callable == nil {
			return nil, NewTypeError("Function.prototype.call called on non-callable")
		}
		var callArgs []Value
		if len(args) > 1 {
			callArgs = args[1:]
		}
		return fn.Callable(ctx, arg(args, 0), callArgs)
	})
	method(ctx, p, "apply", 2, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		fn, ok := AsObject(this)
		if !ok || fn.Callable == nil {
			return nil, NewTypeError("Function.prototype.apply called on non-callable")
		}
		callArgs, err := arrayLikeToSlice(ctx, arg(args, 1))
		if err != nil {
			return nil, err
		}
		return fn.Callable(ctx, arg(args, 0), callArgs)
	})
	method(ctx, p, "bind", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		fn, ok := AsObject(this)
		if !ok || fn.Callable == nil {
			return nil, NewTypeError("Function.prototype.bind called on non-callable")
		}
		var boundArgs []Value
		if len(args) > 1 {
			boundArgs = args[1:]
		}
		return Bind(ctx, fn, arg(args, 0), boundArgs), nil
	})
}

func bootstrapArrayPrototype(ctx *Context) {
	p := ctx.ArrayPrototype
	type m struct {
		name   string
		length int
		fn     CallFunc
	}
	for _, e := range []m{
		{"push", 1, ArrayPush}, {"pop", 0, ArrayPop}, {"shift", 0, ArrayShift},
		{"unshift", 1, ArrayUnshift}, {"slice", 2, ArraySlice}, {"splice", 2, ArraySplice},
		{"concat", 1, ArrayConcat}, {"join", 1, ArrayJoin}, {"indexOf", 1, ArrayIndexOf},
		{"lastIndexOf", 1, ArrayLastIndexOf}, {"includes", 1, ArrayIncludes},
		{"forEach", 1, ArrayForEach}, {"map", 1, ArrayMap}, {"filter", 1, ArrayFilter},
		{"reduce", 1, ArrayReduce}, {"reduceRight", 1, ArrayReduceRight},
		{"every", 1, ArrayEvery}, {"some", 1, ArraySome}, {"find", 1, ArrayFind},
		{"findIndex", 1, ArrayFindIndex}, {"findLast", 1, ArrayFindLast},
		{"findLastIndex", 1, ArrayFindLastIndex}, {"reverse", 0, ArrayReverse},
		{"sort", 1, ArraySort}, {"fill", 1, ArrayFill}, {"copyWithin", 2, ArrayCopyWithin},
		{"at", 1, ArrayAt}, {"flat", 0, ArrayFlat}, {"flatMap", 1, ArrayFlatMap},
		{"toReversed", 0, ArrayToReversed}, {"toSorted", 1, ArrayToSorted},
		{"toSpliced", 2, ArrayToSpliced}, {"with", 2, ArrayWith},
	} {
		method(ctx, p, e.name, e.length, e.fn)
	}
}

func bootstrapStringPrototype(ctx *Context) {
	method(ctx, ctx.StringPrototype, "normalize", 0, StringNormalize)
}

func bootstrapMapSetPrototypes(ctx *Context) {
	mp := ctx.MapPrototype
	method(ctx, mp, "get", 1, MapGet)
	method(ctx, mp, "set", 2, MapSet)
	method(ctx, mp, "has", 1, MapHas)
	method(ctx, mp, "delete", 1, MapDelete)
	method(ctx, mp, "clear", 0, MapClear)
	method(ctx, mp, "forEach", 1, MapForEach)
	mp.DefineOwnProperty(ctx, StringKey("size"), NewAccessorDescriptor(NewNativeFunction(ctx, "get size", 0, MapSize), nil, false, true))

	sp := ctx.SetPrototype
	method(ctx, sp, "add", 1, SetAdd)
	method(ctx, sp, "has", 1, SetHas)
	method(ctx, sp, "delete", 1, SetDelete)
	method(ctx, sp, "clear", 0, SetClear)
	method(ctx, sp, "forEach", 1, SetForEach)
	sp.DefineOwnProperty(ctx, StringKey("size"), NewAccessorDescriptor(NewNativeFunction(ctx, "get size", 0, SetSize), nil, false, true))
}

func bootstrapWeakPrototypes(ctx *Context) {
	wm := ctx.WeakMapPrototype
	method(ctx, wm, "get", 1, WeakMapGet)
	method(ctx, wm, "set", 2, WeakMapSet)
	method(ctx, wm, "has", 1, WeakMapHas)
	method(ctx, wm, "delete", 1, WeakMapDelete)

	ws := ctx.WeakSetPrototype
	method(ctx, ws, "add", 1, WeakSetAdd)
	method(ctx, ws, "has", 1, WeakSetHas)
	method(ctx, ws, "delete", 1, WeakSetDelete)
}

func bootstrapPromisePrototype(ctx *Context) {
	p := ctx.PromisePrototype
	method(ctx, p, "then", 2, PromiseThen)
	method(ctx, p, "catch", 1, PromiseCatch)
	method(ctx, p, "finally", 1, PromiseFinally)
}

func bootstrapTypedArrayPrototypes(ctx *Context) {
	kinds := []TypedArrayKind{
		TypedArrayInt8, TypedArrayUint8, TypedArrayUint8Clamped, TypedArrayInt16,
		TypedArrayUint16, TypedArrayInt32, TypedArrayUint32, TypedArrayFloat16,
		TypedArrayFloat32, TypedArrayFloat64, TypedArrayBigInt64, TypedArrayBigUint64,
	}
	method(ctx, ctx.TypedArrayPrototype, "map", 1, TypedArrayMap)
	method(ctx, ctx.TypedArrayPrototype, "filter", 1, TypedArrayFilter)
	method(ctx, ctx.TypedArrayPrototype, "subarray", 2, TypedArraySubarray)
	method(ctx, ctx.TypedArrayPrototype, "slice", 2, TypedArraySlice)
	method(ctx, ctx.TypedArrayPrototype, "set", 2, TypedArraySetFrom)
	// Every generic Array.prototype method also applies to typed arrays
	// (spec.md §4.F); install the same implementations here so a typed
	// array's own prototype chain resolves them without falling through
	// to Array.prototype (which a typed array does not inherit from).
	for _, name := range []string{
		"join", "indexOf", "lastIndexOf", "includes", "forEach", "reduce",
		"reduceRight", "every", "some", "find", "findIndex", "findLast",
		"findLastIndex", "reverse", "fill", "copyWithin", "at",
	} {
		if desc, ok := ctx.ArrayPrototype.GetOwnProperty(StringKey(name)); ok {
			if fn, ok := desc.Value.(*Object); ok {
				ctx.TypedArrayPrototype.DefineMethod(ctx, name, fn)
			}
		}
	}
	for _, k := range kinds {
		proto := NewObject(ctx.TypedArrayPrototype)
		ctx.typedArrayPrototypes[k] = proto
	}
}

func bootstrapArrayBufferPrototype(ctx *Context) {
	method(ctx, ctx.ArrayBufferPrototype, "slice", 2, ArrayBufferSlice)
}

func bootstrapDataViewPrototype(ctx *Context) {
	p := ctx.DataViewPrototype
	type m struct {
		name   string
		length int
		fn     CallFunc
	}
	for _, e := range []m{
		{"getInt8", 1, DataViewGetInt8}, {"getUint8", 1, DataViewGetUint8},
		{"setInt8", 2, DataViewSetInt8}, {"setUint8", 2, DataViewSetUint8},
		{"getInt16", 1, DataViewGetInt16}, {"getUint16", 1, DataViewGetUint16},
		{"setInt16", 2, DataViewSetInt16}, {"setUint16", 2, DataViewSetUint16},
		{"getInt32", 1, DataViewGetInt32}, {"getUint32", 1, DataViewGetUint32},
		{"setInt32", 2, DataViewSetInt32}, {"setUint32", 2, DataViewSetUint32},
		{"getFloat32", 1, DataViewGetFloat32}, {"setFloat32", 2, DataViewSetFloat32},
		{"getFloat64", 1, DataViewGetFloat64}, {"setFloat64", 2, DataViewSetFloat64},
	} {
		method(ctx, p, e.name, e.length, e.fn)
	}
}

func bootstrapErrorPrototypes(ctx *Context) {
	ctx.ErrorPrototype.DefineDataProperty(ctx, StringKey("name"), NewString("Error"), true, false, true)
	ctx.ErrorPrototype.DefineDataProperty(ctx, StringKey("message"), NewString(""), true, false, true)
	method(ctx, ctx.ErrorPrototype, "toString", 0, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		o, err := thisObject(ctx, this, "toString")
		if err != nil {
			return nil, err
		}
		name, nerr := o.Get(ctx, StringKey("name"), o)
		if nerr != nil {
			return nil, nerr
		}
		msg, merr := o.Get(ctx, StringKey("message"), o)
		if merr != nil {
			return nil, merr
		}
		nameStr, serr := ToString(ctx, name)
		if serr != nil {
			return nil, serr
		}
		msgStr, serr := ToString(ctx, msg)
		if serr != nil {
			return nil, serr
		}
		if msgStr == "" {
			return NewString(nameStr), nil
		}
		if nameStr == "" {
			return NewString(msgStr), nil
		}
		return NewString(nameStr + ": " + msgStr), nil
	})

	for _, name := range []ErrorName{
		ErrorNameTypeError, ErrorNameRangeError, ErrorNameReferenceError,
		ErrorNameSyntaxError, ErrorNameURIError, ErrorNameAggregateError,
	} {
		proto := NewObject(ctx.ErrorPrototype)
		proto.DefineDataProperty(ctx, StringKey("name"), NewString(string(name)), true, false, true)
		ctor := NewNativeConstructor(ctx, string(name), 1, nil, nil)
		ctor.Construct = func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error) {
			msg := ""
			if len(args) > 0 && args[0] != Undefined {
				s, err := ToString(ctx, args[0])
				if err != nil {
					return nil, err
				}
				msg = s
			}
			o, err := OrdinaryCreateFromConstructor(ctx, newTarget, proto)
			if err != nil {
				return nil, err
			}
			o.Kind = ObjectKindError
			o.errorData = &errorInternalData{Name: name, Message: msg}
			o.DefineDataProperty(ctx, StringKey("message"), NewString(msg), true, false, true)
			return o, nil
		}
		ctor.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) {
			return ctor.Construct(ctx, args, ctor)
		}
		ctor.DefineDataProperty(ctx, StringKey("prototype"), proto, false, false, false)
		proto.DefineDataProperty(ctx, StringKey("constructor"), ctor, true, false, true)
		ctx.RegisterErrorConstructor(name, ctor)
	}
}
