package runtime

import "math"

// mapEntry is one live (or tombstoned) slot in a Map's insertion-order
// entry list (spec.md §4.G): Map/Set iteration order is guaranteed
// insertion order, including entries re-inserted after deletion.
type mapEntry struct {
	key     Value
	value   Value
	deleted bool
}

// mapStorage is the internal-slot payload for a Map object: an
// insertion-ordered entry list plus a hash index keyed by each value's
// SameValueZero-canonical form, for O(1) average get/set/delete
// despite Value not being a single comparable Go type.
type mapStorage struct {
	entries []*mapEntry
	index   map[any][]int
}

func newMapStorage() *mapStorage {
	return &mapStorage{index: make(map[any][]int)}
}

// canonicalKey reduces a Value to a hashable Go value consistent with
// SameValueZero (spec.md §4.A): NaN canonicalizes to a single sentinel
// so every NaN key collides, and +0/-0 canonicalize to the same 0.
func canonicalKey(v Value) any {
	switch x := v.(type) {
	case UndefinedValue:
		return "undefined\x00sentinel"
	case NullValue:
		return "null\x00sentinel"
	case BooleanValue:
		return x.Value
	case NumberValue:
		if math.IsNaN(x.Value) {
			return "NaN\x00sentinel"
		}
		if x.Value == 0 {
			return float64(0)
		}
		return x.Value
	case StringValue:
		return "s\x00" + x.Value
	case BigIntValue:
		return "b\x00" + x.Value.String()
	case *SymbolValue:
		return x
	case *Object:
		return x
	default:
		Panicf("canonicalKey: unrecognized Value %T", v)
		return nil
	}
}

func (m *mapStorage) find(key Value) (int, bool) {
	ck := canonicalKey(key)
	for _, i := range m.index[ck] {
		e := m.entries[i]
		if !e.deleted && SameValueZero(e.key, key) {
			return i, true
		}
	}
	return 0, false
}

func (m *mapStorage) get(key Value) (Value, bool) {
	if i, ok := m.find(key); ok {
		return m.entries[i].value, true
	}
	return nil, false
}

func (m *mapStorage) set(key, value Value) {
	if i, ok := m.find(key); ok {
		m.entries[i].value = value
		return
	}
	ck := canonicalKey(key)
	i := len(m.entries)
	m.entries = append(m.entries, &mapEntry{key: key, value: value})
	m.index[ck] = append(m.index[ck], i)
}

func (m *mapStorage) delete(key Value) bool {
	i, ok := m.find(key)
	if !ok {
		return false
	}
	m.entries[i].deleted = true
	return true
}

func (m *mapStorage) size() int {
	n := 0
	for _, e := range m.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

func (m *mapStorage) clear() {
	m.entries = nil
	m.index = make(map[any][]int)
}

// liveEntries returns the currently-live entries in insertion order.
func (m *mapStorage) liveEntries() []*mapEntry {
	live := make([]*mapEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.deleted {
			live = append(live, e)
		}
	}
	return live
}

// setStorage reuses mapStorage's entry/index machinery with value ==
// key, matching how most engines implement Set atop their Map table.
type setStorage struct{ m *mapStorage }

func newSetStorage() *setStorage { return &setStorage{m: newMapStorage()} }

// NewMapObject builds an empty Map object (spec.md §4.G).
func NewMapObject(ctx *Context) *Object {
	o := NewObject(ctx.MapPrototype)
	o.Kind = ObjectKindMap
	o.mapData = newMapStorage()
	return o
}

// NewSetObject builds an empty Set object.
func NewSetObject(ctx *Context) *Object {
	o := NewObject(ctx.SetPrototype)
	o.Kind = ObjectKindSet
	o.setData = newSetStorage()
	return o
}

func asMap(ctx *Context, this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindMap {
		return nil, NewTypeError("Map.prototype.%s called on incompatible receiver", method)
	}
	return o, nil
}

func asSet(ctx *Context, this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindSet {
		return nil, NewTypeError("Set.prototype.%s called on incompatible receiver", method)
	}
	return o, nil
}

// MapGet implements Map.prototype.get.
func MapGet(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "get")
	if err != nil {
		return nil, err
	}
	if v, ok := o.mapData.get(arg(args, 0)); ok {
		return v, nil
	}
	return Undefined, nil
}

// MapSet implements Map.prototype.set.
func MapSet(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "set")
	if err != nil {
		return nil, err
	}
	o.mapData.set(arg(args, 0), arg(args, 1))
	return o, nil
}

// MapHas implements Map.prototype.has.
func MapHas(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "has")
	if err != nil {
		return nil, err
	}
	_, ok := o.mapData.get(arg(args, 0))
	return NewBoolean(ok), nil
}

// MapDelete implements Map.prototype.delete.
func MapDelete(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "delete")
	if err != nil {
		return nil, err
	}
	return NewBoolean(o.mapData.delete(arg(args, 0))), nil
}

// MapClear implements Map.prototype.clear.
func MapClear(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "clear")
	if err != nil {
		return nil, err
	}
	o.mapData.clear()
	return Undefined, nil
}

// MapSize implements the Map.prototype.size getter.
func MapSize(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "size")
	if err != nil {
		return nil, err
	}
	return NewNumber(float64(o.mapData.size())), nil
}

// MapForEach implements Map.prototype.forEach.
func MapForEach(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asMap(ctx, this, "forEach")
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for _, e := range o.mapData.liveEntries() {
		if _, cerr := callCallback(ctx, cb, thisArg, []Value{e.value, e.key, o}); cerr != nil {
			return nil, cerr
		}
	}
	return Undefined, nil
}

// SetAdd implements Set.prototype.add.
func SetAdd(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "add")
	if err != nil {
		return nil, err
	}
	v := arg(args, 0)
	o.setData.m.set(v, v)
	return o, nil
}

// SetHas implements Set.prototype.has.
func SetHas(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "has")
	if err != nil {
		return nil, err
	}
	_, ok := o.setData.m.get(arg(args, 0))
	return NewBoolean(ok), nil
}

// SetDelete implements Set.prototype.delete.
func SetDelete(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "delete")
	if err != nil {
		return nil, err
	}
	return NewBoolean(o.setData.m.delete(arg(args, 0))), nil
}

// SetClear implements Set.prototype.clear.
func SetClear(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "clear")
	if err != nil {
		return nil, err
	}
	o.setData.m.clear()
	return Undefined, nil
}

// SetSize implements the Set.prototype.size getter.
func SetSize(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "size")
	if err != nil {
		return nil, err
	}
	return NewNumber(float64(o.setData.m.size())), nil
}

// SetForEach implements Set.prototype.forEach.
func SetForEach(ctx *Context, this Value, args []Value) (Value, *Error) {
	o, err := asSet(ctx, this, "forEach")
	if err != nil {
		return nil, err
	}
	cb := arg(args, 0)
	thisArg := arg(args, 1)
	for _, e := range o.setData.m.liveEntries() {
		if _, cerr := callCallback(ctx, cb, thisArg, []Value{e.value, e.key, o}); cerr != nil {
			return nil, cerr
		}
	}
	return Undefined, nil
}
