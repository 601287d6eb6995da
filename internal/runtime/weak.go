package runtime

import "weak"

// weakEntry pairs a weakly-held key with its value. The key is stored
// as a weak.Pointer so the Go garbage collector can reclaim the
// *Object once nothing else in the embedding program holds it,
// matching the "keys held by weak reference" requirement of spec.md
// §3/§5 without this package approximating its own tracing GC.
type weakEntry struct {
	key   weak.Pointer[Object]
	value Value
}

// weakMapStorage is the internal-slot payload for a WeakMap object.
type weakMapStorage struct {
	entries map[*Object]*weakEntry
}

func newWeakMapStorage() *weakMapStorage {
	return &weakMapStorage{entries: make(map[*Object]*weakEntry)}
}

// weakSetStorage is the internal-slot payload for a WeakSet object.
type weakSetStorage struct {
	entries map[*Object]weak.Pointer[Object]
}

func newWeakSetStorage() *weakSetStorage {
	return &weakSetStorage{entries: make(map[*Object]weak.Pointer[Object])}
}

// NewWeakMapObject builds an empty WeakMap object.
func NewWeakMapObject(ctx *Context) *Object {
	o := NewObject(ctx.WeakMapPrototype)
	o.Kind = ObjectKindWeakMap
	o.weakMapData = newWeakMapStorage()
	ctx.trackWeakCollection(o)
	return o
}

// NewWeakSetObject builds an empty WeakSet object.
func NewWeakSetObject(ctx *Context) *Object {
	o := NewObject(ctx.WeakSetPrototype)
	o.Kind = ObjectKindWeakSet
	o.weakSetData = newWeakSetStorage()
	ctx.trackWeakCollection(o)
	return o
}

func asWeakMap(this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindWeakMap {
		return nil, NewTypeError("WeakMap.prototype.%s called on incompatible receiver", method)
	}
	return o, nil
}

func asWeakSet(this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindWeakSet {
		return nil, NewTypeError("WeakSet.prototype.%s called on incompatible receiver", method)
	}
	return o, nil
}

func requireObjectKey(v Value, method string) (*Object, *Error) {
	k, ok := AsObject(v)
	if !ok {
		return nil, NewTypeError("Invalid value used as %s key", method)
	}
	return k, nil
}

// WeakMapGet implements WeakMap.prototype.get.
func WeakMapGet(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakMap(this, "get")
	if err != nil {
		return nil, err
	}
	k, err := requireObjectKey(arg(args, 0), "WeakMap")
	if err != nil {
		return Undefined, nil
	}
	if e, ok := o.weakMapData.entries[k]; ok {
		if _, alive := e.key.Value(); alive {
			return e.value, nil
		}
		delete(o.weakMapData.entries, k)
	}
	return Undefined, nil
}

// WeakMapSet implements WeakMap.prototype.set.
func WeakMapSet(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakMap(this, "set")
	if err != nil {
		return nil, err
	}
	k, err := requireObjectKey(arg(args, 0), "WeakMap")
	if err != nil {
		return nil, err
	}
	o.weakMapData.entries[k] = &weakEntry{key: weak.Make(k), value: arg(args, 1)}
	return o, nil
}

// WeakMapHas implements WeakMap.prototype.has.
func WeakMapHas(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakMap(this, "has")
	if err != nil {
		return nil, err
	}
	k, kerr := requireObjectKey(arg(args, 0), "WeakMap")
	if kerr != nil {
		return False, nil
	}
	e, ok := o.weakMapData.entries[k]
	if !ok {
		return False, nil
	}
	if _, alive := e.key.Value(); !alive {
		delete(o.weakMapData.entries, k)
		return False, nil
	}
	return True, nil
}

// WeakMapDelete implements WeakMap.prototype.delete.
func WeakMapDelete(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakMap(this, "delete")
	if err != nil {
		return nil, err
	}
	k, kerr := requireObjectKey(arg(args, 0), "WeakMap")
	if kerr != nil {
		return False, nil
	}
	if _, ok := o.weakMapData.entries[k]; ok {
		delete(o.weakMapData.entries, k)
		return True, nil
	}
	return False, nil
}

// WeakSetAdd implements WeakSet.prototype.add.
func WeakSetAdd(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakSet(this, "add")
	if err != nil {
		return nil, err
	}
	k, kerr := requireObjectKey(arg(args, 0), "WeakSet")
	if kerr != nil {
		return nil, kerr
	}
	o.weakSetData.entries[k] = weak.Make(k)
	return o, nil
}

// WeakSetHas implements WeakSet.prototype.has.
func WeakSetHas(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakSet(this, "has")
	if err != nil {
		return nil, err
	}
	k, kerr := requireObjectKey(arg(args, 0), "WeakSet")
	if kerr != nil {
		return False, nil
	}
	p, ok := o.weakSetData.entries[k]
	if !ok {
		return False, nil
	}
	if _, alive := p.Value(); !alive {
		delete(o.weakSetData.entries, k)
		return False, nil
	}
	return True, nil
}

// WeakSetDelete implements WeakSet.prototype.delete.
func WeakSetDelete(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asWeakSet(this, "delete")
	if err != nil {
		return nil, err
	}
	k, kerr := requireObjectKey(arg(args, 0), "WeakSet")
	if kerr != nil {
		return False, nil
	}
	if _, ok := o.weakSetData.entries[k]; ok {
		delete(o.weakSetData.entries, k)
		return True, nil
	}
	return False, nil
}

// CollectGarbage sweeps every WeakMap/WeakSet this package knows
// about (registered via trackWeakCollection) for entries whose key
// the Go garbage collector has already reclaimed. Go's own GC reclaims
// the *Object as soon as it is otherwise unreachable; this pass just
// prunes the bookkeeping map entries lazily left behind, so callers
// (e.g. `cmd/corescope gc`) can force a deterministic, observable
// cleanup point rather than relying on incidental future lookups.
func (ctx *Context) CollectGarbage() {
	for _, wm := range ctx.weakMaps {
		for k, e := range wm.entries {
			if _, alive := e.key.Value(); !alive {
				delete(wm.entries, k)
			}
		}
	}
	for _, ws := range ctx.weakSets {
		for k, p := range ws.entries {
			if _, alive := p.Value(); !alive {
				delete(ws.entries, k)
			}
		}
	}
}

// trackWeakCollection registers a WeakMap/WeakSet's storage with the
// realm so CollectGarbage can find it; called once from
// NewWeakMapObject/NewWeakSetObject.
func (ctx *Context) trackWeakCollection(o *Object) {
	switch o.Kind {
	case ObjectKindWeakMap:
		ctx.weakMaps = append(ctx.weakMaps, o.weakMapData)
	case ObjectKindWeakSet:
		ctx.weakSets = append(ctx.weakSets, o.weakSetData)
	}
}
