package runtime

import (
	"sort"
	"strconv"
)

// ObjectKind discriminates the exotic behavior (if any) an object
// carries on top of the Ordinary substrate (spec.md §3, §9).
type ObjectKind uint8

const (
	ObjectKindOrdinary ObjectKind = iota
	ObjectKindArray
	ObjectKindFunction
	ObjectKindBoundFunction
	ObjectKindNativeFunction
	ObjectKindClass
	ObjectKindStringWrapper
	ObjectKindNumberWrapper
	ObjectKindBooleanWrapper
	ObjectKindBigIntWrapper
	ObjectKindSymbolWrapper
	ObjectKindArguments
	ObjectKindMap
	ObjectKindSet
	ObjectKindWeakMap
	ObjectKindWeakSet
	ObjectKindPromise
	ObjectKindTypedArray
	ObjectKindArrayBuffer
	ObjectKindDataView
	ObjectKindProxy
	ObjectKindRegExp
	ObjectKindDate
	ObjectKindError
)

var objectKindNames = [...]string{
	ObjectKindOrdinary:       "ordinary",
	ObjectKindArray:          "array",
	ObjectKindFunction:       "function",
	ObjectKindBoundFunction:  "bound-function",
	ObjectKindNativeFunction: "native-function",
	ObjectKindClass:          "class",
	ObjectKindStringWrapper:  "string-wrapper",
	ObjectKindNumberWrapper:  "number-wrapper",
	ObjectKindBooleanWrapper: "boolean-wrapper",
	ObjectKindBigIntWrapper:  "bigint-wrapper",
	ObjectKindSymbolWrapper:  "symbol-wrapper",
	ObjectKindArguments:      "arguments",
	ObjectKindMap:            "map",
	ObjectKindSet:            "set",
	ObjectKindWeakMap:        "weakmap",
	ObjectKindWeakSet:        "weakset",
	ObjectKindPromise:        "promise",
	ObjectKindTypedArray:     "typed-array",
	ObjectKindArrayBuffer:    "array-buffer",
	ObjectKindDataView:       "data-view",
	ObjectKindProxy:          "proxy",
	ObjectKindRegExp:         "regexp",
	ObjectKindDate:           "date",
	ObjectKindError:          "error",
}

// String returns a human-readable name for the object kind, used in
// diagnostics (internal/runtimedebug's dump, error messages).
func (k ObjectKind) String() string {
	if int(k) < len(objectKindNames) && objectKindNames[k] != "" {
		return objectKindNames[k]
	}
	return "unknown"
}

// PropertyKey is either a string key or a symbol key.
type PropertyKey struct {
	str string
	sym *SymbolValue
}

// StringKey builds a string-valued PropertyKey.
func StringKey(s string) PropertyKey { return PropertyKey{str: s} }

// SymbolKey builds a symbol-valued PropertyKey.
func SymbolKey(s *SymbolValue) PropertyKey { return PropertyKey{sym: s} }

// IsSymbol reports whether the key is a symbol key.
func (k PropertyKey) IsSymbol() bool { return k.sym != nil }

// String returns the string form of a string key; it panics (a Bug, not
// an engine exception) if called on a symbol key, since callers must
// branch on IsSymbol first.
func (k PropertyKey) String() string {
	if k.sym != nil {
		Panicf("PropertyKey.String called on a symbol key")
	}
	return k.str
}

// Symbol returns the symbol of a symbol key, or nil for a string key.
func (k PropertyKey) Symbol() *SymbolValue { return k.sym }

// CallFunc is the uniform calling convention for every callable object
// kind (spec.md §4.D): `this` is always passed explicitly as the first
// parameter, resolving the ambiguity flagged in spec.md §9's Open
// Questions about a `.call(thisArg, ...)` heuristic.
type CallFunc func(ctx *Context, this Value, args []Value) (Value, *Error)

// ConstructFunc is the uniform `new`-invocation convention. newTarget is
// the constructor `new` was originally applied to, distinct from the
// receiver when invoked through a super() call or Reflect.construct.
type ConstructFunc func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error)

// exoticOps is the per-kind override table for the fundamental
// operations (spec.md §9: "a dispatch table for overridden fundamental
// operations"). A nil field means "use the Ordinary implementation".
type exoticOps struct {
	GetOwn    func(o *Object, key PropertyKey) (*Descriptor, bool)
	DefineOwn func(o *Object, ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error)
	Get       func(o *Object, ctx *Context, key PropertyKey, receiver Value) (Value, *Error)
	Set       func(o *Object, ctx *Context, key PropertyKey, v Value, receiver Value) (bool, *Error)
	Has       func(o *Object, ctx *Context, key PropertyKey) (bool, *Error)
	Delete    func(o *Object, ctx *Context, key PropertyKey) (bool, *Error)
	OwnKeys   func(o *Object) []PropertyKey
}

// Object is the representation shared by every object kind: a
// prototype link, string- and symbol-keyed descriptor tables,
// extensibility, and kind-specific payload fields (spec.md §3). Rather
// than deep interface inheritance, exotic kinds install an exoticOps
// table at construction time (spec.md §9).
type Object struct {
	proto      *Object
	Kind       ObjectKind
	extensible bool

	strProps *stringPropertyTable
	symProps *symbolPropertyTable

	exotic *exoticOps

	// Callable/Construct implement [[Call]]/[[Construct]] uniformly
	// across scripted, native, bound, and class objects.
	Callable  CallFunc
	Construct ConstructFunc

	// Primitive holds [[PrimitiveValue]] for *Wrapper object kinds.
	Primitive Value

	// Kind-specific payloads; exactly one is non-nil for a given Kind.
	functionData   *functionData
	classData      *classData
	boundData      *boundFunctionData
	arrayData      *arrayStorage
	typedArrayData *typedArrayData
	bufferData     *bufferData
	dataViewData   *dataViewData
	mapData        *mapStorage
	setData        *setStorage
	weakMapData    *weakMapStorage
	weakSetData    *weakSetStorage
	promiseData    *promiseData
	proxyData      *proxyData
	errorData      *errorInternalData
}

// ValueKind implements Value: every *Object, regardless of its
// ObjectKind subtype, is the "object" variant of the tagged Value
// union (spec.md §3) — ObjectKind discriminates exotic behavior within
// that variant, it is not the variant tag itself.
func (o *Object) ValueKind() Kind { return KindObject }

// NewObject allocates a fresh, extensible Ordinary object with the
// given prototype (nil for "chain root").
func NewObject(proto *Object) *Object {
	return &Object{
		Kind:       ObjectKindOrdinary,
		proto:      proto,
		extensible: true,
		strProps:   newStringPropertyTable(),
		symProps:   newSymbolPropertyTable(),
	}
}

// Prototype returns the object's [[Prototype]], or nil at the chain root.
func (o *Object) Prototype() *Object { return o.proto }

// SetPrototype implements [[SetPrototypeOf]]. It refuses (returning
// false) a change that would introduce a cycle in the prototype chain
// (spec.md §9 Design Notes).
func (o *Object) SetPrototype(proto *Object) bool {
	if proto == o.proto {
		return true
	}
	if !o.extensible {
		return proto == o.proto
	}
	for p := proto; p != nil; p = p.proto {
		if p == o {
			return false
		}
	}
	o.proto = proto
	return true
}

// IsExtensible reports the object's extensibility flag.
func (o *Object) IsExtensible() bool { return o.extensible }

// PreventExtensions clears the extensibility flag; it never fails for
// an Ordinary object (spec.md §4.C).
func (o *Object) PreventExtensions() { o.extensible = false }

// ---------------------------------------------------------------------
// Ordinary [[GetOwnProperty]] / [[DefineOwnProperty]]
// ---------------------------------------------------------------------

func (o *Object) ordinaryGetOwn(key PropertyKey) (*Descriptor, bool) {
	if key.IsSymbol() {
		return o.symProps.get(key.Symbol())
	}
	return o.strProps.get(key.String())
}

// GetOwnProperty returns the object's own descriptor for key, if any,
// dispatching to the object's exotic override when present.
func (o *Object) GetOwnProperty(key PropertyKey) (*Descriptor, bool) {
	if o.exotic != nil && o.exotic.GetOwn != nil {
		return o.exotic.GetOwn(o, key)
	}
	return o.ordinaryGetOwn(key)
}

func (o *Object) ordinaryDefineOwn(ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error) {
	current, hasCurrent := o.ordinaryGetOwn(key)
	var cur *Descriptor
	if hasCurrent {
		cur = current
	}
	next, ok := ValidateAndApplyDescriptor(o.extensible, cur, desc)
	if !ok {
		return false, nil
	}
	if key.IsSymbol() {
		o.symProps.set(key.Symbol(), next)
	} else {
		o.strProps.set(key.String(), next)
	}
	return true, nil
}

// DefineOwnProperty implements [[DefineOwnProperty]], dispatching to
// the object's exotic override when present (e.g. the Array exotic's
// length-coupled index handling).
func (o *Object) DefineOwnProperty(ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error) {
	if o.exotic != nil && o.exotic.DefineOwn != nil {
		return o.exotic.DefineOwn(o, ctx, key, desc)
	}
	return o.ordinaryDefineOwn(ctx, key, desc)
}

// DefineDataProperty is a convenience wrapper for the overwhelmingly
// common case of installing a plain data property.
func (o *Object) DefineDataProperty(ctx *Context, key PropertyKey, value Value, writable, enumerable, configurable bool) {
	_, _ = o.DefineOwnProperty(ctx, key, NewDataDescriptor(value, writable, enumerable, configurable))
}

// DefineMethod installs a non-enumerable, writable, configurable data
// property — the shape every built-in prototype method uses.
func (o *Object) DefineMethod(ctx *Context, name string, fn *Object) {
	o.DefineDataProperty(ctx, StringKey(name), fn, true, false, true)
}

// ---------------------------------------------------------------------
// Ordinary [[Get]] / [[Set]] / [[HasProperty]] / [[Delete]]
// ---------------------------------------------------------------------

// Get implements [[Get]] (spec.md §4.C), walking the prototype chain
// and invoking accessor getters with `this = receiver`. The
// reentrancy guard breaks a getter that recurses into itself on the
// same (object, key) pair, returning undefined instead of overflowing.
func (o *Object) Get(ctx *Context, key PropertyKey, receiver Value) (Value, *Error) {
	if o.exotic != nil && o.exotic.Get != nil {
		return o.exotic.Get(o, ctx, key, receiver)
	}
	return o.ordinaryGet(ctx, key, receiver)
}

func (o *Object) ordinaryGet(ctx *Context, key PropertyKey, receiver Value) (Value, *Error) {
	desc, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto == nil {
			return Undefined, nil
		}
		return o.proto.Get(ctx, key, receiver)
	}
	if desc.IsAccessor {
		if desc.Get == nil {
			return Undefined, nil
		}
		leave, entered := ctx.enterGetter(o, key)
		defer leave()
		if !entered {
			return Undefined, nil
		}
		return desc.Get.Callable(ctx, receiver, nil)
	}
	return desc.Value, nil
}

// Set implements [[Set]] (spec.md §4.C). strict controls whether a
// rejected write (read-only property, accessor without setter,
// non-extensible receiver) throws TypeError or is silently ignored.
func (o *Object) Set(ctx *Context, key PropertyKey, v Value, receiver Value, strict bool) (bool, *Error) {
	if o.exotic != nil && o.exotic.Set != nil {
		return o.exotic.Set(o, ctx, key, v, receiver)
	}
	return o.ordinarySet(ctx, key, v, receiver, strict)
}

func (o *Object) ordinarySet(ctx *Context, key PropertyKey, v Value, receiver Value, strict bool) (bool, *Error) {
	ownDesc, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto != nil {
			// Prototype-chain accessor-setter lookup skips integer-index
			// keys to avoid pathological recursion on indexed setters
			// (spec.md §4.C).
			if key.IsSymbol() {
				return o.proto.setInherited(ctx, key, v, receiver, strict)
			}
			if _, isIndex := parseArrayIndex(key.String()); !isIndex {
				return o.proto.setInherited(ctx, key, v, receiver, strict)
			}
		}
		ownDesc = &Descriptor{Writable: true, Enumerable: true, Configurable: true, Value: Undefined}
		ok = false
	}
	return applySet(ctx, o, key, v, receiver, ownDesc, ok, strict)
}

// setInherited resolves a [[Set]] against an inherited descriptor found
// while walking up the prototype chain from the original receiver.
func (o *Object) setInherited(ctx *Context, key PropertyKey, v Value, receiver Value, strict bool) (bool, *Error) {
	desc, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto == nil {
			return applyNewOwnProperty(ctx, receiver, key, v, strict)
		}
		return o.proto.setInherited(ctx, key, v, receiver, strict)
	}
	return applySet(ctx, o, key, v, receiver, desc, true, strict)
}

func applySet(ctx *Context, found *Object, key PropertyKey, v Value, receiver Value, desc *Descriptor, foundOnOwner bool, strict bool) (bool, *Error) {
	if desc.IsAccessor {
		if desc.Set == nil {
			if strict {
				return false, NewTypeError("Cannot set property %s which has only a getter", keyLabel(key))
			}
			return false, nil
		}
		_, err := desc.Set.Callable(ctx, receiver, []Value{v})
		if err != nil {
			return false, err
		}
		return true, nil
	}
	if !desc.Writable {
		if strict {
			return false, NewTypeError("Cannot assign to read only property %s", keyLabel(key))
		}
		return false, nil
	}
	return applyNewOwnProperty(ctx, receiver, key, v, strict)
}

func applyNewOwnProperty(ctx *Context, receiver Value, key PropertyKey, v Value, strict bool) (bool, *Error) {
	recvObj, ok := receiver.(*Object)
	if !ok {
		if strict {
			return false, NewTypeError("Cannot create property %s on a non-object receiver", keyLabel(key))
		}
		return false, nil
	}
	existing, hasExisting := recvObj.GetOwnProperty(key)
	if hasExisting {
		if existing.IsAccessor {
			if strict {
				return false, NewTypeError("Cannot set property %s which has only a getter", keyLabel(key))
			}
			return false, nil
		}
		if !existing.Writable {
			if strict {
				return false, NewTypeError("Cannot assign to read only property %s", keyLabel(key))
			}
			return false, nil
		}
	}
	if !hasExisting && !recvObj.extensible {
		if strict {
			return false, NewTypeError("Cannot add property %s, object is not extensible", keyLabel(key))
		}
		return false, nil
	}
	ok2, err := recvObj.DefineOwnProperty(ctx, key, NewDataDescriptor(v, true, true, true))
	if err != nil {
		return false, err
	}
	if !ok2 && strict {
		return false, NewTypeError("Cannot assign to property %s", keyLabel(key))
	}
	return ok2, nil
}

func keyLabel(key PropertyKey) string {
	if key.IsSymbol() {
		return key.Symbol().String()
	}
	return "'" + key.String() + "'"
}

// HasProperty implements [[HasProperty]]: own-or-inherited existence.
func (o *Object) HasProperty(ctx *Context, key PropertyKey) (bool, *Error) {
	if o.exotic != nil && o.exotic.Has != nil {
		return o.exotic.Has(o, ctx, key)
	}
	if _, ok := o.GetOwnProperty(key); ok {
		return true, nil
	}
	if o.proto == nil {
		return false, nil
	}
	return o.proto.HasProperty(ctx, key)
}

// Delete implements [[Delete]]: succeeds if the key is absent or
// configurable; strict controls whether a non-configurable key throws
// TypeError or returns false.
func (o *Object) Delete(ctx *Context, key PropertyKey, strict bool) (bool, *Error) {
	if o.exotic != nil && o.exotic.Delete != nil {
		return o.exotic.Delete(o, ctx, key)
	}
	return o.ordinaryDelete(ctx, key, strict)
}

func (o *Object) ordinaryDelete(ctx *Context, key PropertyKey, strict bool) (bool, *Error) {
	desc, ok := o.GetOwnProperty(key)
	if !ok {
		return true, nil
	}
	if !desc.Configurable {
		if strict {
			return false, NewTypeError("Cannot delete property %s", keyLabel(key))
		}
		return false, nil
	}
	if key.IsSymbol() {
		o.symProps.delete(key.Symbol())
	} else {
		o.strProps.delete(key.String())
	}
	return true, nil
}

// OwnKeys returns own property keys in ECMAScript OwnPropertyKeys
// order: integer-index keys ascending numerically, then string keys
// in insertion order, then symbol keys in insertion order (spec.md
// §4.C). includeSymbols/includeNonEnumerable filter the result, for
// the Value API's own_keys operation (spec.md §6.2).
func (o *Object) OwnKeys(includeSymbols, includeNonEnumerable bool) []PropertyKey {
	var keys []PropertyKey
	if o.exotic != nil && o.exotic.OwnKeys != nil {
		keys = o.exotic.OwnKeys(o)
	} else {
		keys = o.ordinaryOwnKeys()
	}
	if includeSymbols && includeNonEnumerable {
		return keys
	}
	filtered := make([]PropertyKey, 0, len(keys))
	for _, k := range keys {
		if k.IsSymbol() && !includeSymbols {
			continue
		}
		if !includeNonEnumerable {
			desc, ok := o.GetOwnProperty(k)
			if !ok || !desc.Enumerable {
				continue
			}
		}
		filtered = append(filtered, k)
	}
	return filtered
}

func (o *Object) ordinaryOwnKeys() []PropertyKey {
	strKeys := o.strProps.orderedKeys()
	symKeys := o.symProps.order
	keys := make([]PropertyKey, 0, len(strKeys)+len(symKeys))
	for _, k := range strKeys {
		keys = append(keys, StringKey(k))
	}
	for _, s := range symKeys {
		keys = append(keys, SymbolKey(s))
	}
	return keys
}

// EnumerateForIn implements the for-in protocol: own enumerable string
// keys (integer-index first, ascending, then insertion order), then
// recursively the prototype's enumerables, skipping keys already
// seen, and stopping before a prototype with no further [[Prototype]]
// that is a well-known built-in root (spec.md §4.C). Callers pass the
// built-in Object.prototype so the walk can stop before it.
func EnumerateForIn(ctx *Context, o *Object, objectPrototype *Object) []string {
	seen := make(map[string]bool)
	var result []string
	for cur := o; cur != nil && cur != objectPrototype; cur = cur.proto {
		for _, key := range cur.OwnKeys(false, true) {
			k := key.String()
			if seen[k] {
				continue
			}
			seen[k] = true
			desc, _ := cur.GetOwnProperty(key)
			if desc != nil && desc.Enumerable {
				result = append(result, k)
			}
		}
	}
	return result
}

// parseArrayIndex parses a canonical array-index string (spec.md §3:
// "0 ≤ n < 2³²−1, string canonical form"). "08" and "-1" are not valid
// indices; "0" is.
func parseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] == '0' || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n >= maxArrayIndex {
		return 0, false
	}
	return uint32(n), true
}

const maxArrayIndex = 1<<32 - 1

// ---------------------------------------------------------------------
// Property tables
// ---------------------------------------------------------------------

type stringPropertyTable struct {
	descs map[string]*Descriptor
	order []string
}

func newStringPropertyTable() *stringPropertyTable {
	return &stringPropertyTable{descs: make(map[string]*Descriptor)}
}

func (t *stringPropertyTable) get(key string) (*Descriptor, bool) {
	d, ok := t.descs[key]
	return d, ok
}

func (t *stringPropertyTable) set(key string, d *Descriptor) {
	if _, exists := t.descs[key]; !exists {
		t.order = append(t.order, key)
	}
	t.descs[key] = d
}

func (t *stringPropertyTable) delete(key string) {
	if _, exists := t.descs[key]; !exists {
		return
	}
	delete(t.descs, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// orderedKeys returns integer-index keys ascending, then string keys
// in insertion order.
func (t *stringPropertyTable) orderedKeys() []string {
	var intKeys []uint32
	var strKeys []string
	for _, k := range t.order {
		if n, ok := parseArrayIndex(k); ok {
			intKeys = append(intKeys, n)
		} else {
			strKeys = append(strKeys, k)
		}
	}
	sort.Slice(intKeys, func(i, j int) bool { return intKeys[i] < intKeys[j] })
	result := make([]string, 0, len(intKeys)+len(strKeys))
	for _, n := range intKeys {
		result = append(result, strconv.FormatUint(uint64(n), 10))
	}
	result = append(result, strKeys...)
	return result
}

type symbolPropertyTable struct {
	descs map[*SymbolValue]*Descriptor
	order []*SymbolValue
}

func newSymbolPropertyTable() *symbolPropertyTable {
	return &symbolPropertyTable{descs: make(map[*SymbolValue]*Descriptor)}
}

func (t *symbolPropertyTable) get(key *SymbolValue) (*Descriptor, bool) {
	d, ok := t.descs[key]
	return d, ok
}

func (t *symbolPropertyTable) set(key *SymbolValue, d *Descriptor) {
	if _, exists := t.descs[key]; !exists {
		t.order = append(t.order, key)
	}
	t.descs[key] = d
}

func (t *symbolPropertyTable) delete(key *SymbolValue) {
	if _, exists := t.descs[key]; !exists {
		return
	}
	delete(t.descs, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}
