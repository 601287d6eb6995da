package runtime

// functionData is the internal-slot payload for an ordinary scripted
// function object (ObjectKindFunction): the pieces the Evaluator needs
// back when this package calls into Evaluator.Call/Construct, plus the
// bookkeeping ECMAScript itself requires (HomeObject for `super`,
// strictness, the `length`/`name` the property system exposes).
type functionData struct {
	// Body is the Evaluator-owned handle to the parsed function body;
	// this package never inspects it, only threads it back through
	// Evaluator.Call.
	Body EnvRef

	// HomeObject anchors `super` property lookups inside methods
	// (spec.md §4.D).
	HomeObject *Object

	Strict        bool
	IsArrow       bool
	IsGenerator   bool
	IsAsync       bool
	ParameterCount int
	Name          string

	// FieldInitializers, when non-nil, are run against a freshly
	// allocated instance before the constructor body executes (class
	// instance field initializers, spec.md §4.D).
	FieldInitializers []EnvRef
}

// boundFunctionData is the internal-slot payload for a bound function
// exotic object produced by Function.prototype.bind (spec.md §4.D).
type boundFunctionData struct {
	Target    *Object
	BoundThis Value
	BoundArgs []Value
}

// NewNativeFunction builds a host-implemented function object: Callable
// is set directly to impl, with no Evaluator round-trip (spec.md §4.D,
// §6.1 — "native functions ... handled entirely inside this package").
func NewNativeFunction(ctx *Context, name string, length int, impl CallFunc) *Object {
	fn := NewObject(ctx.FunctionPrototype)
	fn.Kind = ObjectKindNativeFunction
	fn.Callable = impl
	fn.DefineDataProperty(ctx, StringKey("name"), NewString(name), false, false, true)
	fn.DefineDataProperty(ctx, StringKey("length"), NewNumber(float64(length)), false, false, true)
	return fn
}

// NewNativeConstructor builds a host-implemented object that is both
// callable and constructible (e.g. the built-in Array, Map, Promise
// constructors), sharing one underlying Go implementation for both
// [[Call]] and [[Construct]] paths.
func NewNativeConstructor(ctx *Context, name string, length int, call CallFunc, construct ConstructFunc) *Object {
	fn := NewNativeFunction(ctx, name, length, call)
	fn.Construct = construct
	return fn
}

// NewScriptedFunction builds a function object backed by the Evaluator:
// calling it delegates to ctx.Evaluator.Call, and — unless it is an
// arrow function, which can never be used with `new` — constructing it
// delegates to ctx.Evaluator.Construct (spec.md §4.D).
func NewScriptedFunction(ctx *Context, data *functionData, proto *Object) *Object {
	fn := NewObject(proto)
	fn.Kind = ObjectKindFunction
	fn.functionData = data
	fn.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) {
		return ctx.Evaluator.Call(fn, args, this)
	}
	if !data.IsArrow {
		fn.Construct = func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error) {
			return ctx.Evaluator.Construct(fn, args, newTarget)
		}
	}
	fn.DefineDataProperty(ctx, StringKey("name"), NewString(data.Name), false, false, true)
	fn.DefineDataProperty(ctx, StringKey("length"), NewNumber(float64(data.ParameterCount)), false, false, true)
	return fn
}

// Bind implements Function.prototype.bind (spec.md §4.D): the
// returned object's Callable prepends BoundArgs and substitutes
// BoundThis; its Construct (when target is itself constructible)
// forwards newTarget unchanged so `new` on a bound function still
// resolves prototype lookup against the original target.
func Bind(ctx *Context, target *Object, boundThis Value, boundArgs []Value) *Object {
	bound := NewObject(ctx.FunctionPrototype)
	bound.Kind = ObjectKindBoundFunction
	bound.boundData = &boundFunctionData{Target: target, BoundThis: boundThis, BoundArgs: boundArgs}
	bound.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) {
		return target.Callable(ctx, boundThis, append(append([]Value{}, boundArgs...), args...))
	}
	if target.Construct != nil {
		bound.Construct = func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error) {
			if newTarget == bound {
				newTarget = target
			}
			return target.Construct(ctx, append(append([]Value{}, boundArgs...), args...), newTarget)
		}
	}
	targetLen, _ := target.GetOwnProperty(StringKey("length"))
	length := 0.0
	if targetLen != nil && !targetLen.IsAccessor {
		if n, ok := targetLen.Value.(NumberValue); ok {
			length = n.Value - float64(len(boundArgs))
			if length < 0 {
				length = 0
			}
		}
	}
	bound.DefineDataProperty(ctx, StringKey("length"), NewNumber(length), false, false, true)
	targetName := "anonymous"
	if tn, ok := target.GetOwnProperty(StringKey("name")); ok && !tn.IsAccessor {
		if s, ok := tn.Value.(StringValue); ok {
			targetName = s.Value
		}
	}
	bound.DefineDataProperty(ctx, StringKey("name"), NewString("bound "+targetName), false, false, true)
	return bound
}

// OrdinaryCreateFromConstructor implements OrdinaryCreateFromConstructor
// (spec.md §4.D): allocates a new Ordinary object whose prototype comes
// from newTarget's own "prototype" property, falling back to
// fallbackProto if that property is absent or not an object (e.g. a
// subclass set `Derived.prototype = 42`).
func OrdinaryCreateFromConstructor(ctx *Context, newTarget *Object, fallbackProto *Object) (*Object, *Error) {
	proto := fallbackProto
	protoVal, err := newTarget.Get(ctx, StringKey("prototype"), newTarget)
	if err != nil {
		return nil, err
	}
	if p, ok := protoVal.(*Object); ok {
		proto = p
	}
	return NewObject(proto), nil
}
