package runtime

// classData is the internal-slot payload for a class object
// (ObjectKindClass): it differs from an ordinary scripted function in
// carrying an explicit super-class link and a derived flag, both of
// which the constructor-invocation path needs (spec.md §4.D — a
// derived class must call super() before touching `this`).
type classData struct {
	functionData
	SuperClass *Object
	IsDerived  bool
}

// NewClass builds a class constructor object. Calling it directly
// (without `new`) always throws TypeError — classes are `typeof
// "function"` but not callable per ECMAScript (spec.md §4.D); only
// Construct performs real construction, delegating to the Evaluator to
// run field initializers and the constructor body in the right order.
func NewClass(ctx *Context, data *classData, proto *Object) *Object {
	cls := NewObject(ctx.FunctionPrototype)
	cls.Kind = ObjectKindClass
	cls.classData = data
	cls.Callable = func(ctx *Context, this Value, args []Value) (Value, *Error) {
		return nil, NewTypeError("Class constructor %s cannot be invoked without 'new'", data.Name)
	}
	cls.Construct = func(ctx *Context, args []Value, newTarget *Object) (*Object, *Error) {
		return ctx.Evaluator.Construct(cls, args, newTarget)
	}
	if data.SuperClass != nil {
		cls.SetPrototype(data.SuperClass)
	}
	cls.DefineDataProperty(ctx, StringKey("name"), NewString(data.Name), false, false, true)
	cls.DefineDataProperty(ctx, StringKey("length"), NewNumber(float64(data.ParameterCount)), false, false, true)
	cls.DefineDataProperty(ctx, StringKey("prototype"), proto, false, false, false)
	proto.DefineDataProperty(ctx, StringKey("constructor"), cls, true, false, true)
	return cls
}

// GetSuperClass returns the class's super-class constructor object, or
// nil for a base class. It panics (a Bug) if called on a non-class
// object, since the Evaluator is expected to have already confirmed
// the object's kind before consulting this.
func GetSuperClass(cls *Object) *Object {
	if cls.Kind != ObjectKindClass {
		Panicf("GetSuperClass called on non-class object")
	}
	return cls.classData.SuperClass
}

// IsDerivedClass reports whether cls extends another class, meaning a
// `super()` call is mandatory before `this` may be accessed in its
// constructor (spec.md §4.D).
func IsDerivedClass(cls *Object) bool {
	return cls.Kind == ObjectKindClass && cls.classData.IsDerived
}

// FieldInitializers returns the Evaluator-owned handles for the
// class's instance field initializers, run in declaration order
// against a freshly constructed (and, for a derived class,
// already-super()-initialized) instance before the constructor body.
func FieldInitializers(cls *Object) []EnvRef {
	if cls.Kind != ObjectKindClass {
		return nil
	}
	return cls.classData.FieldInitializers
}
