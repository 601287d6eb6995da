package runtime

// Context is a realm: the per-Evaluator scope for built-in prototypes,
// the well-known symbol registry, and the accessor-reentrancy guard
// (spec.md §5, §9 Design Notes — "scoped to a runtime context object,
// allowing multiple independent Evaluators to coexist"). Nothing in
// this package keeps process-wide global state; every operation that
// needs a realm takes a *Context explicitly.
type Context struct {
	Evaluator Evaluator

	// Built-in prototypes, populated by Bootstrap.
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	StringPrototype   *Object
	NumberPrototype   *Object
	BooleanPrototype  *Object
	BigIntPrototype   *Object
	SymbolPrototype   *Object
	ErrorPrototype    *Object
	PromisePrototype  *Object
	MapPrototype      *Object
	SetPrototype      *Object
	WeakMapPrototype  *Object
	WeakSetPrototype  *Object
	TypedArrayPrototype *Object
	ArrayBufferPrototype *Object
	DataViewPrototype   *Object
	RegExpPrototype     *Object
	DatePrototype       *Object

	// Error constructors, keyed by name, used to convert an internal
	// *Error into a user-visible Error object (spec.md §6.3).
	errorConstructors map[ErrorName]*Object

	WellKnown WellKnownSymbols

	// reentrancyGuard tracks (object, key) pairs with a currently-active
	// getter, breaking getter self-recursion (spec.md §4.C).
	reentrancyGuard map[reentrancyKey]bool

	// originalArrayPrototypeMethods records the built-in Array.prototype
	// native functions at bootstrap time so the Array fast path can
	// detect whether user code has overridden them (spec.md §9).
	originalArrayPrototypeMethods map[string]*Object

	// typedArrayPrototypes holds each typed-array kind's own prototype
	// object, whose own prototype is the shared %TypedArray%.prototype
	// (TypedArrayPrototype above), matching the real prototype chain
	// (e.g. Uint8Array.prototype -> %TypedArray%.prototype -> Object.prototype).
	typedArrayPrototypes map[TypedArrayKind]*Object

	// weakMaps/weakSets track every WeakMap/WeakSet created in this
	// realm so CollectGarbage (weak.go) can sweep them.
	weakMaps []*weakMapStorage
	weakSets []*weakSetStorage
}

type reentrancyKey struct {
	obj *Object
	key PropertyKey
}

// NewContext creates a realm bound to the given Evaluator. Callers
// should follow it with Bootstrap(ctx) to populate built-in prototypes
// before running any script.
func NewContext(ev Evaluator) *Context {
	return &Context{
		Evaluator:                     ev,
		errorConstructors:             make(map[ErrorName]*Object),
		WellKnown:                     NewWellKnownSymbols(),
		reentrancyGuard:               make(map[reentrancyKey]bool),
		originalArrayPrototypeMethods: make(map[string]*Object),
		typedArrayPrototypes:          make(map[TypedArrayKind]*Object),
	}
}

// enterGetter marks (obj, key) as having an active getter; it returns
// false (refusing entry) if the same (obj, key) is already active,
// which the caller must treat as "return undefined" per spec.md §4.C.
func (ctx *Context) enterGetter(obj *Object, key PropertyKey) (leave func(), ok bool) {
	rk := reentrancyKey{obj: obj, key: key}
	if ctx.reentrancyGuard[rk] {
		return func() {}, false
	}
	ctx.reentrancyGuard[rk] = true
	return func() { delete(ctx.reentrancyGuard, rk) }, true
}

// RegisterErrorConstructor binds the constructor object the Evaluator
// uses for a given error name, so ToThrowable can produce
// `instanceof`-correct Error objects.
func (ctx *Context) RegisterErrorConstructor(name ErrorName, ctor *Object) {
	ctx.errorConstructors[name] = ctor
}

// ToThrowable converts an internal *Error into the Value that should
// actually be thrown to the Evaluator: the original value for
// NewThrow-wrapped throws, or a freshly constructed Error object
// otherwise.
func (ctx *Context) ToThrowable(err *Error) Value {
	if err == nil {
		return Undefined
	}
	if err.Thrown != nil {
		return err.Thrown
	}
	return NewErrorObject(ctx, err.Name, err.Message, err.Errors)
}
