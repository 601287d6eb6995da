package runtime

// NewErrorObject builds a user-visible Error-kind object for the given
// internal error name (spec.md §6.3): its prototype comes from the
// realm's registered constructor for that name (falling back to the
// base Error.prototype if none was registered, e.g. in tests that
// never ran full bootstrap), and its own "message"/"name" properties
// plus (for AggregateError) "errors" are populated the way the
// Evaluator's `throw` surfaces an internal failure to script code.
func NewErrorObject(ctx *Context, name ErrorName, message string, errs []Value) *Object {
	proto := ctx.ErrorPrototype
	if ctor, ok := ctx.errorConstructors[name]; ok {
		if protoVal, err := ctor.Get(ctx, StringKey("prototype"), ctor); err == nil {
			if p, ok := protoVal.(*Object); ok {
				proto = p
			}
		}
	}
	o := NewObject(proto)
	o.Kind = ObjectKindError
	o.errorData = &errorInternalData{Name: name, Message: message, Errors: errs}
	o.DefineDataProperty(ctx, StringKey("message"), NewString(message), true, false, true)
	if _, hasOwnName := proto.GetOwnProperty(StringKey("name")); !hasOwnName {
		o.DefineDataProperty(ctx, StringKey("name"), NewString(string(name)), true, false, true)
	}
	if name == ErrorNameAggregateError {
		arr := NewArray(ctx, errs)
		o.DefineDataProperty(ctx, StringKey("errors"), arr, true, false, true)
	}
	return o
}
