package runtime

// PropertyDescriptor is the caller-facing description of a property
// change, as passed to Object.DefineOwnProperty / the Value API's
// define_own (spec.md §4.B). Each "Has*" flag records whether the
// corresponding field was explicitly supplied, distinguishing (for
// example) `{configurable:true}` from `{value:undefined,
// configurable:true}` during Object.defineProperty.
type PropertyDescriptor struct {
	Value      Value
	HasValue   bool
	Get        *Object
	HasGet     bool
	Set        *Object
	HasSet     bool
	Writable      bool
	HasWritable   bool
	Enumerable    bool
	HasEnumerable bool
	Configurable  bool
	HasConfigurable bool
}

// IsAccessorDescriptor reports whether the caller supplied a getter or
// setter field (even if nil, i.e. explicitly absent).
func (d *PropertyDescriptor) IsAccessorDescriptor() bool {
	return d.HasGet || d.HasSet
}

// IsDataDescriptor reports whether the caller supplied a value or
// writable field.
func (d *PropertyDescriptor) IsDataDescriptor() bool {
	return d.HasValue || d.HasWritable
}

// IsGenericDescriptor reports whether the caller supplied none of
// value/writable/get/set — only enumerable/configurable, or nothing.
func (d *PropertyDescriptor) IsGenericDescriptor() bool {
	return !d.IsAccessorDescriptor() && !d.IsDataDescriptor()
}

// Descriptor is the fully-resolved, stored form of a property: exactly
// one of (data) or (accessor) applies, discriminated by IsAccessor.
type Descriptor struct {
	IsAccessor   bool
	Value        Value  // data descriptors only
	Get          *Object // accessor descriptors only (nil = absent getter)
	Set          *Object // accessor descriptors only (nil = absent setter)
	Writable     bool    // data descriptors only
	Enumerable   bool
	Configurable bool
}

// ToPropertyDescriptor converts a stored Descriptor back into the
// caller-facing, fully-specified form (every Has* flag true), used when
// returning a descriptor from Object.getOwnPropertyDescriptor.
func (d *Descriptor) ToPropertyDescriptor() *PropertyDescriptor {
	if d.IsAccessor {
		return &PropertyDescriptor{
			Get: d.Get, HasGet: true,
			Set: d.Set, HasSet: true,
			Enumerable: d.Enumerable, HasEnumerable: true,
			Configurable: d.Configurable, HasConfigurable: true,
		}
	}
	return &PropertyDescriptor{
		Value: d.Value, HasValue: true,
		Writable: d.Writable, HasWritable: true,
		Enumerable: d.Enumerable, HasEnumerable: true,
		Configurable: d.Configurable, HasConfigurable: true,
	}
}

// ValidateAndApplyDescriptor implements ECMAScript's
// ValidateAndApplyPropertyDescriptor algorithm (spec.md §4.B). extensible
// reports whether the owning object accepts new keys; current is the
// existing stored descriptor for this key, or nil if the key is absent.
// It returns the descriptor that should be stored (which may be
// current unchanged, current with fields merged from desc, or a brand
// new descriptor synthesized from desc's defaults), and ok reporting
// whether the change is permitted. Callers decide whether a rejected
// change throws (strict/define paths) or is silently ignored
// (non-strict set paths) per spec.md §4.B.
func ValidateAndApplyDescriptor(extensible bool, current *Descriptor, desc *PropertyDescriptor) (*Descriptor, bool) {
	if current == nil {
		if !extensible {
			return nil, false
		}
		return descriptorFromDefaults(desc), true
	}

	if !desc.HasValue && !desc.HasWritable && !desc.HasGet && !desc.HasSet &&
		!desc.HasEnumerable && !desc.HasConfigurable {
		// No-op definition: always permitted, current is returned unchanged.
		return current, true
	}

	if !current.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return nil, false
		}
		if desc.HasEnumerable && desc.Enumerable != current.Enumerable {
			return nil, false
		}
		if desc.IsAccessorDescriptor() != current.IsAccessor && desc.IsAccessorDescriptor() {
			// switching a non-configurable data property to accessor
			return nil, false
		}
		if !desc.IsAccessorDescriptor() && current.IsAccessor && desc.IsDataDescriptor() {
			// switching a non-configurable accessor property to data
			return nil, false
		}
		if current.IsAccessor {
			if desc.HasGet && desc.Get != current.Get {
				return nil, false
			}
			if desc.HasSet && desc.Set != current.Set {
				return nil, false
			}
		} else {
			if !current.Writable {
				if desc.HasWritable && desc.Writable {
					return nil, false
				}
				if desc.HasValue && !SameValue(desc.Value, current.Value) {
					return nil, false
				}
			}
		}
	}

	next := *current
	if desc.IsAccessorDescriptor() && !current.IsAccessor {
		next = Descriptor{IsAccessor: true, Enumerable: current.Enumerable, Configurable: current.Configurable}
	} else if desc.IsDataDescriptor() && current.IsAccessor {
		next = Descriptor{IsAccessor: false, Enumerable: current.Enumerable, Configurable: current.Configurable}
	}

	if desc.HasValue {
		next.Value = desc.Value
	}
	if desc.HasWritable {
		next.Writable = desc.Writable
	}
	if desc.HasGet {
		next.Get = desc.Get
	}
	if desc.HasSet {
		next.Set = desc.Set
	}
	if desc.HasEnumerable {
		next.Enumerable = desc.Enumerable
	}
	if desc.HasConfigurable {
		next.Configurable = desc.Configurable
	}
	return &next, true
}

// descriptorFromDefaults fills in ECMAScript's defaults (false/false/false,
// undefined value, nil getter/setter) for any field the caller omitted
// when defining a brand new property.
func descriptorFromDefaults(desc *PropertyDescriptor) *Descriptor {
	if desc.IsAccessorDescriptor() {
		d := &Descriptor{IsAccessor: true}
		if desc.HasGet {
			d.Get = desc.Get
		}
		if desc.HasSet {
			d.Set = desc.Set
		}
		d.Enumerable = desc.HasEnumerable && desc.Enumerable
		d.Configurable = desc.HasConfigurable && desc.Configurable
		return d
	}
	d := &Descriptor{}
	if desc.HasValue {
		d.Value = desc.Value
	} else {
		d.Value = Undefined
	}
	d.Writable = desc.HasWritable && desc.Writable
	d.Enumerable = desc.HasEnumerable && desc.Enumerable
	d.Configurable = desc.HasConfigurable && desc.Configurable
	return d
}

// NewDataDescriptor builds a fully-specified data PropertyDescriptor,
// the common case used by ordinary property creation (e.g. array
// index writes, object literal properties).
func NewDataDescriptor(value Value, writable, enumerable, configurable bool) *PropertyDescriptor {
	return &PropertyDescriptor{
		Value: value, HasValue: true,
		Writable: writable, HasWritable: true,
		Enumerable: enumerable, HasEnumerable: true,
		Configurable: configurable, HasConfigurable: true,
	}
}

// NewAccessorDescriptor builds a fully-specified accessor
// PropertyDescriptor.
func NewAccessorDescriptor(get, set *Object, enumerable, configurable bool) *PropertyDescriptor {
	return &PropertyDescriptor{
		Get: get, HasGet: true,
		Set: set, HasSet: true,
		Enumerable: enumerable, HasEnumerable: true,
		Configurable: configurable, HasConfigurable: true,
	}
}
