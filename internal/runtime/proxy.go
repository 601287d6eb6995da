package runtime

// proxyData is the internal-slot payload for a Proxy exotic object
// (spec.md §4.G): every fundamental operation first checks whether
// Handler defines the corresponding trap, falling back to invoking the
// same operation on Target when it does not (spec.md §9's "dispatch
// table for overridden fundamental operations", applied to traps
// instead of object kinds).
type proxyData struct {
	Target  *Object
	Handler *Object
}

// NewProxy builds a Proxy object wrapping target with handler.
func NewProxy(ctx *Context, target, handler *Object) *Object {
	o := &Object{Kind: ObjectKindProxy, extensible: true, strProps: newStringPropertyTable(), symProps: newSymbolPropertyTable()}
	o.proxyData = &proxyData{Target: target, Handler: handler}
	o.exotic = proxyExoticOps()
	if target.Callable != nil {
		o.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) {
			return proxyApply(ctx, o, this, args)
		}
	}
	if target.Construct != nil {
		o.Construct = func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error) {
			return proxyConstruct(ctx, o, args, newTarget)
		}
	}
	return o
}

func proxyTrap(ctx *Context, o *Object, name string) (*Object, *Error) {
	d := o.proxyData
	if d.Handler == nil {
		return nil, NewTypeError("Cannot perform '%s' on a proxy that has been revoked", name)
	}
	trapVal, err := d.Handler.Get(ctx, StringKey(name), d.Handler)
	if err != nil {
		return nil, err
	}
	if trapVal.ValueKind() == KindUndefined {
		return nil, nil
	}
	fn, ok := AsObject(trapVal)
	if !ok || fn.Callable == nil {
		return nil, NewTypeError("Proxy trap '%s' is not a function", name)
	}
	return fn, nil
}

func proxyExoticOps() *exoticOps {
	return &exoticOps{
		Get: func(o *Object, ctx *Context, key PropertyKey, receiver Value) (Value, *Error) {
			d := o.proxyData
			trap, err := proxyTrap(ctx, o, "get")
			if err != nil {
				return nil, err
			}
			if trap == nil {
				return d.Target.Get(ctx, key, receiver)
			}
			return trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key), receiver})
		},
		Set: func(o *Object, ctx *Context, key PropertyKey, v Value, receiver Value) (bool, *Error) {
			d := o.proxyData
			trap, err := proxyTrap(ctx, o, "set")
			if err != nil {
				return false, err
			}
			if trap == nil {
				return d.Target.Set(ctx, key, v, receiver, false)
			}
			result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key), v, receiver})
			if cerr != nil {
				return false, cerr
			}
			return ToBoolean(result), nil
		},
		Has: func(o *Object, ctx *Context, key PropertyKey) (bool, *Error) {
			d := o.proxyData
			trap, err := proxyTrap(ctx, o, "has")
			if err != nil {
				return false, err
			}
			if trap == nil {
				return d.Target.HasProperty(ctx, key)
			}
			result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key)})
			if cerr != nil {
				return false, cerr
			}
			return ToBoolean(result), nil
		},
		Delete: func(o *Object, ctx *Context, key PropertyKey) (bool, *Error) {
			d := o.proxyData
			trap, err := proxyTrap(ctx, o, "deleteProperty")
			if err != nil {
				return false, err
			}
			if trap == nil {
				return d.Target.Delete(ctx, key, false)
			}
			result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key)})
			if cerr != nil {
				return false, cerr
			}
			return ToBoolean(result), nil
		},
		// GetOwn has no *Context/error channel in the exoticOps shape
		// (object.go), so the getOwnPropertyDescriptor trap — which can
		// run arbitrary user code and throw — is not reachable from
		// here; Reflect.getOwnPropertyDescriptor and
		// Object.getOwnPropertyDescriptor instead call
		// ProxyGetOwnPropertyDescriptor directly, which does have both.
		GetOwn: func(o *Object, key PropertyKey) (*Descriptor, bool) {
			return o.proxyData.Target.GetOwnProperty(key)
		},
		DefineOwn: func(o *Object, ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error) {
			d := o.proxyData
			trap, err := proxyTrap(ctx, o, "defineProperty")
			if err != nil {
				return false, err
			}
			if trap == nil {
				return d.Target.DefineOwnProperty(ctx, key, desc)
			}
			descObj := descriptorToObject(ctx, d.Target, desc)
			result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key), descObj})
			if cerr != nil {
				return false, cerr
			}
			return ToBoolean(result), nil
		},
		// OwnKeys likewise has no *Context/error channel; the ownKeys
		// trap is handled out-of-band by ProxyOwnKeys, which
		// Reflect.ownKeys calls; this hook never consults the trap.
		OwnKeys: func(o *Object) []PropertyKey {
			return o.proxyData.Target.ordinaryOwnKeys()
		},
	}
}

// ProxyGetOwnPropertyDescriptor implements the getOwnPropertyDescriptor
// trap dispatch that the exoticOps.GetOwn hook cannot express (it has
// no *Context/error channel). Callers that need trap-correct behavior
// (Object.getOwnPropertyDescriptor, Reflect.getOwnPropertyDescriptor)
// should call this instead of o.GetOwnProperty directly when o may be
// a Proxy.
func ProxyGetOwnPropertyDescriptor(ctx *Context, o *Object, key PropertyKey) (*Descriptor, bool, *Error) {
	if o.Kind != ObjectKindProxy {
		d, ok := o.GetOwnProperty(key)
		return d, ok, nil
	}
	d := o.proxyData
	trap, err := proxyTrap(ctx, o, "getOwnPropertyDescriptor")
	if err != nil {
		return nil, false, err
	}
	if trap == nil {
		desc, ok := d.Target.GetOwnProperty(key)
		return desc, ok, nil
	}
	result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, propertyKeyToValue(key)})
	if cerr != nil {
		return nil, false, cerr
	}
	if result.ValueKind() == KindUndefined {
		return nil, false, nil
	}
	resultObj, ok := AsObject(result)
	if !ok {
		return nil, false, NewTypeError("Proxy getOwnPropertyDescriptor trap must return an object or undefined")
	}
	pd, perr := objectToPropertyDescriptor(ctx, resultObj)
	if perr != nil {
		return nil, false, perr
	}
	resolved, valid := ValidateAndApplyDescriptor(true, nil, pd)
	if !valid {
		return nil, false, NewTypeError("Proxy getOwnPropertyDescriptor trap returned an invalid descriptor")
	}
	return resolved, true, nil
}

// ProxyOwnKeys implements the ownKeys trap dispatch that
// exoticOps.OwnKeys cannot express. Callers that need trap-correct
// behavior (Object.keys/values/entries, for-in, Reflect.ownKeys)
// should call this instead of o.OwnKeys directly when o may be a Proxy.
func ProxyOwnKeys(ctx *Context, o *Object) ([]PropertyKey, *Error) {
	if o.Kind != ObjectKindProxy {
		return o.OwnKeys(true, true), nil
	}
	d := o.proxyData
	trap, err := proxyTrap(ctx, o, "ownKeys")
	if err != nil {
		return nil, err
	}
	if trap == nil {
		return d.Target.OwnKeys(true, true), nil
	}
	result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target})
	if cerr != nil {
		return nil, cerr
	}
	resultObj, ok := AsObject(result)
	if !ok || resultObj.Kind != ObjectKindArray {
		return nil, NewTypeError("Proxy ownKeys trap must return an array")
	}
	length := ArrayLength(resultObj)
	keys := make([]PropertyKey, 0, length)
	for i := uint32(0); i < length; i++ {
		v, ok := ArrayGetElement(resultObj, i)
		if !ok {
			continue
		}
		if sym, ok := v.(*SymbolValue); ok {
			keys = append(keys, SymbolKey(sym))
			continue
		}
		s, serr := ToString(ctx, v)
		if serr != nil {
			return nil, serr
		}
		keys = append(keys, StringKey(s))
	}
	return keys, nil
}

func objectToPropertyDescriptor(ctx *Context, o *Object) (*PropertyDescriptor, *Error) {
	pd := &PropertyDescriptor{}
	has, err := o.HasProperty(ctx, StringKey("value"))
	if err != nil {
		return nil, err
	}
	if has {
		v, gerr := o.Get(ctx, StringKey("value"), o)
		if gerr != nil {
			return nil, gerr
		}
		pd.Value, pd.HasValue = v, true
	}
	if has, _ = o.HasProperty(ctx, StringKey("writable")); has {
		v, _ := o.Get(ctx, StringKey("writable"), o)
		pd.Writable, pd.HasWritable = ToBoolean(v), true
	}
	if has, _ = o.HasProperty(ctx, StringKey("get")); has {
		v, _ := o.Get(ctx, StringKey("get"), o)
		if g, ok := AsObject(v); ok {
			pd.Get = g
		}
		pd.HasGet = true
	}
	if has, _ = o.HasProperty(ctx, StringKey("set")); has {
		v, _ := o.Get(ctx, StringKey("set"), o)
		if s, ok := AsObject(v); ok {
			pd.Set = s
		}
		pd.HasSet = true
	}
	if has, _ = o.HasProperty(ctx, StringKey("enumerable")); has {
		v, _ := o.Get(ctx, StringKey("enumerable"), o)
		pd.Enumerable, pd.HasEnumerable = ToBoolean(v), true
	}
	if has, _ = o.HasProperty(ctx, StringKey("configurable")); has {
		v, _ := o.Get(ctx, StringKey("configurable"), o)
		pd.Configurable, pd.HasConfigurable = ToBoolean(v), true
	}
	return pd, nil
}

func propertyKeyToValue(key PropertyKey) Value {
	if key.IsSymbol() {
		return key.Symbol()
	}
	return NewString(key.String())
}

func descriptorToObject(ctx *Context, proto *Object, desc *PropertyDescriptor) *Object {
	o := NewObject(ctx.ObjectPrototype)
	if desc.HasValue {
		o.DefineDataProperty(ctx, StringKey("value"), desc.Value, true, true, true)
	}
	if desc.HasWritable {
		o.DefineDataProperty(ctx, StringKey("writable"), NewBoolean(desc.Writable), true, true, true)
	}
	if desc.HasGet {
		var v Value = Undefined
		if desc.Get != nil {
			v = desc.Get
		}
		o.DefineDataProperty(ctx, StringKey("get"), v, true, true, true)
	}
	if desc.HasSet {
		var v Value = Undefined
		if desc.Set != nil {
			v = desc.Set
		}
		o.DefineDataProperty(ctx, StringKey("set"), v, true, true, true)
	}
	if desc.HasEnumerable {
		o.DefineDataProperty(ctx, StringKey("enumerable"), NewBoolean(desc.Enumerable), true, true, true)
	}
	if desc.HasConfigurable {
		o.DefineDataProperty(ctx, StringKey("configurable"), NewBoolean(desc.Configurable), true, true, true)
	}
	return o
}

func proxyApply(ctx *Context, o *Object, this Value, args []Value) (Value, *Error) {
	d := o.proxyData
	trap, err := proxyTrap(ctx, o, "apply")
	if err != nil {
		return nil, err
	}
	if trap == nil {
		return d.Target.Callable(ctx, this, args)
	}
	return trap.Callable(ctx, d.Handler, []Value{d.Target, this, NewArray(ctx, args)})
}

func proxyConstruct(ctx *Context, o *Object, args []Value, newTarget *Object) (*Object, *Error) {
	d := o.proxyData
	trap, err := proxyTrap(ctx, o, "construct")
	if err != nil {
		return nil, err
	}
	if trap == nil {
		return d.Target.Construct(ctx, args, newTarget)
	}
	result, cerr := trap.Callable(ctx, d.Handler, []Value{d.Target, NewArray(ctx, args), newTarget})
	if cerr != nil {
		return nil, cerr
	}
	obj, ok := AsObject(result)
	if !ok {
		return nil, NewTypeError("Proxy construct trap must return an object")
	}
	return obj, nil
}

// RevokeProxy implements the revoke half of Proxy.revocable: after
// this call every trapped operation on the proxy throws TypeError.
func RevokeProxy(o *Object) {
	if o.Kind == ObjectKindProxy {
		o.proxyData.Handler = nil
		o.proxyData.Target = nil
	}
}
