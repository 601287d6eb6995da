package runtime

// The functions in this file implement the Reflect namespace
// (spec.md §4.G): each one is a thin, uniform wrapper over the
// fundamental object operations, using the Proxy-trap-aware
// ProxyGetOwnPropertyDescriptor/ProxyOwnKeys helpers so
// `Reflect.*(proxy, ...)` dispatches through the proxy's traps exactly
// like the corresponding language-level operation would.

// ReflectGet implements Reflect.get(target, key, receiver?).
func ReflectGet(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "get")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	receiver := Value(target)
	if len(args) > 2 {
		receiver = args[2]
	}
	return target.Get(ctx, key, receiver)
}

// ReflectSet implements Reflect.set(target, key, value, receiver?).
func ReflectSet(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "set")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	value := arg(args, 2)
	receiver := Value(target)
	if len(args) > 3 {
		receiver = args[3]
	}
	ok, serr := target.Set(ctx, key, value, receiver, false)
	if serr != nil {
		return nil, serr
	}
	return NewBoolean(ok), nil
}

// ReflectHas implements Reflect.has(target, key).
func ReflectHas(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "has")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	ok, herr := target.HasProperty(ctx, key)
	if herr != nil {
		return nil, herr
	}
	return NewBoolean(ok), nil
}

// ReflectDeleteProperty implements Reflect.deleteProperty(target, key).
func ReflectDeleteProperty(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "deleteProperty")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	ok, derr := target.Delete(ctx, key, false)
	if derr != nil {
		return nil, derr
	}
	return NewBoolean(ok), nil
}

// ReflectOwnKeys implements Reflect.ownKeys(target).
func ReflectOwnKeys(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "ownKeys")
	if err != nil {
		return nil, err
	}
	keys, kerr := ProxyOwnKeys(ctx, target)
	if kerr != nil {
		return nil, kerr
	}
	values := make([]Value, len(keys))
	for i, k := range keys {
		values[i] = propertyKeyToValue(k)
	}
	return NewArray(ctx, values), nil
}

// ReflectGetPrototypeOf implements Reflect.getPrototypeOf(target).
func ReflectGetPrototypeOf(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "getPrototypeOf")
	if err != nil {
		return nil, err
	}
	if p := target.Prototype(); p != nil {
		return p, nil
	}
	return Null, nil
}

// ReflectSetPrototypeOf implements Reflect.setPrototypeOf(target, proto).
func ReflectSetPrototypeOf(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "setPrototypeOf")
	if err != nil {
		return nil, err
	}
	var proto *Object
	if p, ok := AsObject(arg(args, 1)); ok {
		proto = p
	} else if arg(args, 1).ValueKind() != KindNull {
		return nil, NewTypeError("Reflect.setPrototypeOf called with non-object-or-null prototype")
	}
	return NewBoolean(target.SetPrototype(proto)), nil
}

// ReflectIsExtensible implements Reflect.isExtensible(target).
func ReflectIsExtensible(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "isExtensible")
	if err != nil {
		return nil, err
	}
	return NewBoolean(target.IsExtensible()), nil
}

// ReflectPreventExtensions implements Reflect.preventExtensions(target).
func ReflectPreventExtensions(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "preventExtensions")
	if err != nil {
		return nil, err
	}
	target.PreventExtensions()
	return True, nil
}

// ReflectDefineProperty implements Reflect.defineProperty(target, key, desc).
func ReflectDefineProperty(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "defineProperty")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	descObj, ok := AsObject(arg(args, 2))
	if !ok {
		return nil, NewTypeError("Property description must be an object")
	}
	pd, perr := objectToPropertyDescriptor(ctx, descObj)
	if perr != nil {
		return nil, perr
	}
	ok2, derr := target.DefineOwnProperty(ctx, key, pd)
	if derr != nil {
		return nil, derr
	}
	return NewBoolean(ok2), nil
}

// ReflectGetOwnPropertyDescriptor implements
// Reflect.getOwnPropertyDescriptor(target, key).
func ReflectGetOwnPropertyDescriptor(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectTarget(arg(args, 0), "getOwnPropertyDescriptor")
	if err != nil {
		return nil, err
	}
	key, err := ToPropertyKey(ctx, arg(args, 1))
	if err != nil {
		return nil, err
	}
	desc, ok, derr := ProxyGetOwnPropertyDescriptor(ctx, target, key)
	if derr != nil {
		return nil, derr
	}
	if !ok {
		return Undefined, nil
	}
	return descriptorToObject(ctx, ctx.ObjectPrototype, desc.ToPropertyDescriptor()), nil
}

// ReflectApply implements Reflect.apply(target, thisArg, argumentsList).
func ReflectApply(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, err := requireReflectCallable(arg(args, 0))
	if err != nil {
		return nil, err
	}
	callArgs, aerr := arrayLikeToSlice(ctx, arg(args, 2))
	if aerr != nil {
		return nil, aerr
	}
	return target.Callable(ctx, arg(args, 1), callArgs)
}

// ReflectConstruct implements Reflect.construct(target, argumentsList, newTarget?).
func ReflectConstruct(ctx *Context, this Value, args []Value) (Value, *Error) {
	target, ok := AsObject(arg(args, 0))
	if !ok || target.Construct == nil {
		return nil, NewTypeError("Reflect.construct target must be a constructor")
	}
	callArgs, aerr := arrayLikeToSlice(ctx, arg(args, 1))
	if aerr != nil {
		return nil, aerr
	}
	newTarget := target
	if len(args) > 2 {
		nt, ok := AsObject(args[2])
		if !ok || nt.Construct == nil {
			return nil, NewTypeError("Reflect.construct newTarget must be a constructor")
		}
		newTarget = nt
	}
	return target.Construct(ctx, callArgs, newTarget)
}

func requireReflectTarget(v Value, method string) (*Object, *Error) {
	o, ok := AsObject(v)
	if !ok {
		return nil, NewTypeError("Reflect.%s called on non-object", method)
	}
	return o, nil
}

func requireReflectCallable(v Value) (*Object, *Error) {
	o, ok := AsObject(v)
	if !ok || o.Callable == nil {
		return nil, NewTypeError("Reflect.apply target is not a function")
	}
	return o, nil
}

func arrayLikeToSlice(ctx *Context, v Value) ([]Value, *Error) {
	o, ok := AsObject(v)
	if !ok {
		return nil, NewTypeError("CreateListFromArrayLike called on non-object")
	}
	length, err := arrayLikeLength(ctx, o)
	if err != nil {
		return nil, err
	}
	result := make([]Value, length)
	for i := uint32(0); i < length; i++ {
		item, gerr := o.Get(ctx, StringKey(itoa(int(i))), o)
		if gerr != nil {
			return nil, gerr
		}
		result[i] = item
	}
	return result, nil
}
