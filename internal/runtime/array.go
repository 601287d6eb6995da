package runtime

import "sort"

// arrayStorage is the internal-slot payload for an Array exotic object
// (spec.md §3, §9). Dense elements live in Dense (index i holds slot
// i); a hole within the dense region is recorded in Holes. Indices at
// or beyond len(Dense) that are nonetheless present live in Sparse,
// avoiding an enormous backing slice for e.g. `a[1_000_000] = 1`.
type arrayStorage struct {
	Dense      []Value
	Holes      map[int]bool
	Sparse     map[uint32]*Descriptor
	lengthDesc *Descriptor
}

// NewArray builds a dense Array exotic object containing elements, all
// writable/enumerable/configurable own properties plus a writable,
// non-enumerable, non-configurable "length" (spec.md §4.E).
func NewArray(ctx *Context, elements []Value) *Object {
	dense := append([]Value{}, elements...)
	o := NewObject(ctx.ArrayPrototype)
	o.Kind = ObjectKindArray
	o.arrayData = &arrayStorage{
		Dense:  dense,
		Holes:  make(map[int]bool),
		Sparse: make(map[uint32]*Descriptor),
		lengthDesc: &Descriptor{
			Value: NewNumber(float64(len(dense))), Writable: true,
		},
	}
	o.exotic = arrayExoticOps()
	return o
}

// NewArrayWithLength builds an empty Array exotic object with a preset
// length and no own elements, matching `new Array(n)` (spec.md §4.E).
func NewArrayWithLength(ctx *Context, length uint32) *Object {
	o := NewArray(ctx, nil)
	o.arrayData.lengthDesc.Value = NewNumber(float64(length))
	return o
}

// ArrayLength reads an array's current length as a uint32.
func ArrayLength(o *Object) uint32 {
	n, _ := o.arrayData.lengthDesc.Value.(NumberValue)
	return uint32(n.Value)
}

// ArrayGetElement reads element i from a's dense/sparse storage,
// returning (value, true) if present and not a hole.
func ArrayGetElement(o *Object, i uint32) (Value, bool) {
	d := o.arrayData
	if int(i) < len(d.Dense) {
		if d.Holes[int(i)] {
			if desc, ok := d.Sparse[i]; ok {
				return desc.Value, true
			}
			return nil, false
		}
		return d.Dense[i], true
	}
	if desc, ok := d.Sparse[i]; ok {
		return desc.Value, true
	}
	return nil, false
}

func arrayExoticOps() *exoticOps {
	return &exoticOps{
		GetOwn:    arrayGetOwn,
		DefineOwn: arrayDefineOwn,
		OwnKeys:   arrayOwnKeys,
	}
}

func arrayGetOwn(o *Object, key PropertyKey) (*Descriptor, bool) {
	if key.IsSymbol() {
		return o.symProps.get(key.Symbol())
	}
	if key.String() == "length" {
		return o.arrayData.lengthDesc, true
	}
	if idx, ok := parseArrayIndex(key.String()); ok {
		d := o.arrayData
		if int(idx) < len(d.Dense) {
			if d.Holes[int(idx)] {
				if desc, ok := d.Sparse[idx]; ok {
					return desc, true
				}
				return nil, false
			}
			return &Descriptor{Value: d.Dense[idx], Writable: true, Enumerable: true, Configurable: true}, true
		}
		if desc, ok := d.Sparse[idx]; ok {
			return desc, true
		}
		return nil, false
	}
	return o.ordinaryGetOwn(key)
}

// arrayDefineOwn implements the Array exotic [[DefineOwnProperty]]
// (spec.md §4.E): writes to "length" resize/truncate the element
// storage (rejecting a shrink that would have to delete a
// non-configurable index), and index writes beyond the current length
// implicitly grow it.
func arrayDefineOwn(o *Object, ctx *Context, key PropertyKey, desc *PropertyDescriptor) (bool, *Error) {
	d := o.arrayData
	if !key.IsSymbol() && key.String() == "length" {
		if !desc.HasValue {
			next, ok := ValidateAndApplyDescriptor(true, d.lengthDesc, desc)
			if ok {
				d.lengthDesc = next
			}
			return ok, nil
		}
		newLenF, err := ToUint32(ctx, desc.Value)
		if err != nil {
			return false, err
		}
		checkLenF, err := ToNumber(ctx, desc.Value)
		if err != nil {
			return false, err
		}
		if float64(newLenF) != checkLenF {
			return false, NewRangeError("Invalid array length")
		}
		oldLen := ArrayLength(o)
		newDesc := *desc
		newDesc.Value = NewNumber(float64(newLenF))
		next, ok := ValidateAndApplyDescriptor(true, d.lengthDesc, &newDesc)
		if !ok {
			return false, nil
		}
		if newLenF < oldLen {
			// Delete every index in [newLenF, oldLen) in reverse. An index
			// that cannot be deleted because it is non-configurable is left
			// untouched (not deleted) and raises the floor the final length
			// may not drop below, but it does not stop the sweep: indices
			// both above and below it still get deleted (spec.md §4.E,
			// Scenario 2).
			succeeded := true
			finalLen := newLenF
			for i := oldLen; i > newLenF; i-- {
				idx := i - 1
				configurable := true
				hasOwn := true
				if int(idx) < len(d.Dense) {
					if d.Holes[int(idx)] {
						if sd, ok := d.Sparse[idx]; ok {
							configurable = sd.Configurable
						} else {
							hasOwn = false
						}
					}
				} else if sd, ok := d.Sparse[idx]; ok {
					configurable = sd.Configurable
				} else {
					hasOwn = false
				}
				if !hasOwn {
					continue
				}
				if !configurable {
					succeeded = false
					if idx+1 > finalLen {
						finalLen = idx + 1
					}
					continue
				}
				if int(idx) < len(d.Dense) {
					d.Holes[int(idx)] = true
				}
				delete(d.Sparse, idx)
			}
			if int(finalLen) < len(d.Dense) {
				d.Dense = d.Dense[:finalLen]
			}
			if !succeeded {
				finalDesc := *desc
				finalDesc.Value = NewNumber(float64(finalLen))
				next, _ = ValidateAndApplyDescriptor(true, d.lengthDesc, &finalDesc)
				d.lengthDesc = next
				return false, nil
			}
		}
		d.lengthDesc = next
		return true, nil
	}
	if !key.IsSymbol() {
		if idx, ok := parseArrayIndex(key.String()); ok {
			oldLen := ArrayLength(o)
			var current *Descriptor
			if int(idx) < len(d.Dense) && !d.Holes[int(idx)] {
				current = &Descriptor{Value: d.Dense[idx], Writable: true, Enumerable: true, Configurable: true}
			} else if sd, ok := d.Sparse[idx]; ok {
				current = sd
			}
			if current == nil && !o.extensible && idx >= oldLen {
				return false, nil
			}
			next, ok := ValidateAndApplyDescriptor(o.extensible, current, desc)
			if !ok {
				return false, nil
			}
			if idx < uint32(len(d.Dense)) && next.Writable && next.Enumerable && next.Configurable && !next.IsAccessor {
				d.Dense[idx] = next.Value
				delete(d.Holes, int(idx))
			} else {
				if idx < uint32(len(d.Dense)) {
					d.Holes[int(idx)] = true
				}
				d.Sparse[idx] = next
			}
			if idx >= oldLen {
				d.lengthDesc = &Descriptor{Value: NewNumber(float64(idx + 1)), Writable: d.lengthDesc.Writable}
			}
			return true, nil
		}
	}
	return o.ordinaryDefineOwn(ctx, key, desc)
}

func arrayOwnKeys(o *Object) []PropertyKey {
	d := o.arrayData
	indices := make([]uint32, 0, len(d.Dense)+len(d.Sparse))
	for i := range d.Dense {
		if !d.Holes[i] {
			indices = append(indices, uint32(i))
		}
	}
	for idx := range d.Sparse {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	keys := make([]PropertyKey, 0, len(indices)+1+len(o.strProps.order)+len(o.symProps.order))
	for _, idx := range indices {
		keys = append(keys, StringKey(itoa(int(idx))))
	}
	keys = append(keys, StringKey("length"))
	for _, s := range o.strProps.orderedKeys() {
		keys = append(keys, StringKey(s))
	}
	for _, s := range o.symProps.order {
		keys = append(keys, SymbolKey(s))
	}
	return keys
}

// ArraySetElement sets element i of a dense array's fast path directly,
// growing Dense/length as needed, without re-running full descriptor
// validation; ArrayMap uses it to fill its freshly allocated result
// array (push/pop/splice go through Set instead).
func ArraySetElement(ctx *Context, o *Object, i uint32, v Value) {
	d := o.arrayData
	if int(i) < len(d.Dense) {
		d.Dense[i] = v
		delete(d.Holes, int(i))
	} else if int(i) == len(d.Dense) && len(d.Sparse) == 0 {
		d.Dense = append(d.Dense, v)
	} else {
		d.Sparse[i] = &Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
	}
	if i >= ArrayLength(o) {
		d.lengthDesc = &Descriptor{Value: NewNumber(float64(i + 1)), Writable: d.lengthDesc.Writable}
	}
}

// ArraySetLength directly sets the length slot without adding or
// removing any Dense/Sparse elements.
func ArraySetLength(o *Object, n uint32) {
	o.arrayData.lengthDesc = &Descriptor{Value: NewNumber(float64(n)), Writable: o.arrayData.lengthDesc.Writable}
}

// IsArray implements the IsArray abstract operation for the Array
// exotic kind (spec.md §4.E); Proxy-wrapped arrays are handled by the
// Proxy's own IsArray forwarding in proxy.go.
func IsArray(v Value) bool {
	o, ok := v.(*Object)
	return ok && o.Kind == ObjectKindArray
}
