package runtime

// fakeEvaluator is the minimal in-repo Evaluator used solely by this
// package's own tests (spec.md §6.1's capability interface needs a real
// implementor to exercise Call/Construct/EnqueueMicrotask paths without
// a real lexer/parser/statement-evaluator, grounded on the teacher's
// own table-driven `testing` fixture style rather than
// inventing a bespoke test harness).
type fakeEvaluator struct {
	ctx        *Context
	queue      *MicrotaskQueue
	strictMode bool
}

func newFakeEvaluator() *fakeEvaluator {
	return &fakeEvaluator{queue: NewMicrotaskQueue()}
}

func (f *fakeEvaluator) Call(fn *Object, args []Value, thisBinding Value) (Value, *Error) {
	if body, ok := fn.functionData.Body.(func(this Value, args []Value) (Value, *Error)); ok {
		return body(thisBinding, args)
	}
	return Undefined, nil
}

func (f *fakeEvaluator) Construct(fn *Object, args []Value, newTarget *Object) (*Object, *Error) {
	return OrdinaryCreateFromConstructor(f.ctx, newTarget, fn.functionData.HomeObject)
}

func (f *fakeEvaluator) CurrentStrictMode() bool { return f.strictMode }

func (f *fakeEvaluator) CurrentCaller(callee *Object) Value { return Undefined }

func (f *fakeEvaluator) EnqueueMicrotask(thunk func()) { f.queue.Enqueue(thunk) }

func (f *fakeEvaluator) Parse(source string) (ScriptRef, *Error) {
	return nil, NewSyntaxError("fakeEvaluator does not implement eval")
}

func newTestContext() *Context {
	ev := newFakeEvaluator()
	ctx := NewContext(ev)
	ev.ctx = ctx
	Bootstrap(ctx)
	return ctx
}
