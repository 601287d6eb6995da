package runtime

// promiseState is the internal-slot state machine of a Promise object
// (spec.md §4.H): pending -> fulfilled XOR pending -> rejected,
// exactly once.
type promiseState int

const (
	promisePending promiseState = iota
	promiseFulfilled
	promiseRejected
)

type promiseReaction struct {
	onFulfilled *Object
	onRejected  *Object
	result      *Object // the Promise returned by .then, to settle once the reaction runs
}

// promiseData is the internal-slot payload for a Promise object.
type promiseData struct {
	state   promiseState
	value   Value
	handled bool

	// reactions queued while pending; drained (as microtasks) the
	// instant the promise settles.
	reactions []promiseReaction
}

// NewPromiseObject allocates a pending Promise with no reactions.
func NewPromiseObject(ctx *Context) *Object {
	o := NewObject(ctx.PromisePrototype)
	o.Kind = ObjectKindPromise
	o.promiseData = &promiseData{state: promisePending}
	return o
}

func asPromise(this Value, method string) (*Object, *Error) {
	o, ok := AsObject(this)
	if !ok || o.Kind != ObjectKindPromise {
		return nil, NewTypeError("Promise.prototype.%s called on incompatible receiver", method)
	}
	return o, nil
}

// resolvePromise implements the `resolve` capability passed to the
// executor: idempotent, and if resolved with a thenable, adopts its
// settlement instead of fulfilling with the thenable itself.
func resolvePromise(ctx *Context, p *Object, value Value) {
	d := p.promiseData
	if d.state != promisePending {
		return
	}
	if same, ok := AsObject(value); ok && same == p {
		settlePromise(ctx, p, promiseRejected, NewErrorObjectValue(ctx, NewTypeError("Chaining cycle detected for promise")))
		return
	}
	thenObj, ok := AsObject(value)
	if ok {
		then, err := thenObj.Get(ctx, StringKey("then"), thenObj)
		if err != nil {
			settlePromise(ctx, p, promiseRejected, ctx.ToThrowable(err))
			return
		}
		if IsCallable(then) {
			thenFn := then.(*Object)
			resolveFn, rejectFn := makeResolvingFunctions(ctx, p)
			ctx.Evaluator.EnqueueMicrotask(func() {
				_, err := thenFn.Callable(ctx, thenObj, []Value{resolveFn, rejectFn})
				if err != nil {
					resolvePromiseReject(ctx, p, ctx.ToThrowable(err))
				}
			})
			return
		}
	}
	settlePromise(ctx, p, promiseFulfilled, value)
}

func resolvePromiseReject(ctx *Context, p *Object, reason Value) {
	if p.promiseData.state != promisePending {
		return
	}
	settlePromise(ctx, p, promiseRejected, reason)
}

func settlePromise(ctx *Context, p *Object, state promiseState, value Value) {
	d := p.promiseData
	if d.state != promisePending {
		return
	}
	d.state = state
	d.value = value
	reactions := d.reactions
	d.reactions = nil
	for _, r := range reactions {
		triggerReaction(ctx, r, state, value)
	}
}

// makeResolvingFunctions builds the paired resolve/reject natives
// passed to a Promise executor (spec.md §4.H: "non-constructors with
// length 1 and empty name").
func makeResolvingFunctions(ctx *Context, p *Object) (Value, Value) {
	resolve := NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		resolvePromise(ctx, p, arg(args, 0))
		return Undefined, nil
	})
	reject := NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		resolvePromiseReject(ctx, p, arg(args, 0))
		return Undefined, nil
	})
	return resolve, reject
}

// NewPromiseWithExecutor builds a Promise and synchronously invokes
// the executor with its resolve/reject capability pair, per spec.md
// §4.H's Construction paragraph.
func NewPromiseWithExecutor(ctx *Context, executor *Object) (*Object, *Error) {
	if !IsCallable(executor) {
		return nil, NewTypeError("Promise resolver is not a function")
	}
	p := NewPromiseObject(ctx)
	resolve, reject := makeResolvingFunctions(ctx, p)
	_, err := executor.Callable(ctx, Undefined, []Value{resolve, reject})
	if err != nil {
		resolvePromiseReject(ctx, p, ctx.ToThrowable(err))
	}
	return p, nil
}

// PromiseThen implements Promise.prototype.then: it always returns a
// new Promise, and callbacks always run as microtasks, never
// synchronously (spec.md §4.H).
func PromiseThen(ctx *Context, this Value, args []Value) (Value, *Error) {
	p, err := asPromise(this, "then")
	if err != nil {
		return nil, err
	}
	var onFulfilled, onRejected *Object
	if f, ok := AsObject(arg(args, 0)); ok && IsCallable(f) {
		onFulfilled = f
	}
	if f, ok := AsObject(arg(args, 1)); ok && IsCallable(f) {
		onRejected = f
	}
	result := NewPromiseObject(ctx)
	p.promiseData.handled = true
	reaction := promiseReaction{onFulfilled: onFulfilled, onRejected: onRejected, result: result}
	switch p.promiseData.state {
	case promisePending:
		p.promiseData.reactions = append(p.promiseData.reactions, reaction)
	default:
		state, value := p.promiseData.state, p.promiseData.value
		triggerReaction(ctx, reaction, state, value)
	}
	return result, nil
}

// triggerReaction enqueues a single microtask that runs the
// appropriate callback (or passes the value/reason through when none
// is given) and settles the reaction's result Promise accordingly.
func triggerReaction(ctx *Context, r promiseReaction, state promiseState, value Value) {
	ctx.Evaluator.EnqueueMicrotask(func() {
		var handler *Object
		if state == promiseFulfilled {
			handler = r.onFulfilled
		} else {
			handler = r.onRejected
		}
		if handler == nil {
			if state == promiseFulfilled {
				resolvePromise(ctx, r.result, value)
			} else {
				resolvePromiseReject(ctx, r.result, value)
			}
			return
		}
		out, err := handler.Callable(ctx, Undefined, []Value{value})
		if err != nil {
			resolvePromiseReject(ctx, r.result, ctx.ToThrowable(err))
			return
		}
		resolvePromise(ctx, r.result, out)
	})
}

// PromiseCatch implements Promise.prototype.catch as then(undefined, onRejected).
func PromiseCatch(ctx *Context, this Value, args []Value) (Value, *Error) {
	return PromiseThen(ctx, this, []Value{Undefined, arg(args, 0)})
}

// PromiseFinally implements Promise.prototype.finally: f runs with no
// arguments on both settlement paths and the original value/reason
// passes through untouched (spec.md §4.H).
func PromiseFinally(ctx *Context, this Value, args []Value) (Value, *Error) {
	_, err := asPromise(this, "finally")
	if err != nil {
		return nil, err
	}
	f, ok := AsObject(arg(args, 0))
	if !ok || !IsCallable(f) {
		return PromiseThen(ctx, this, []Value{arg(args, 0), arg(args, 0)})
	}
	onFulfilled := NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		if _, err := f.Callable(ctx, Undefined, nil); err != nil {
			return nil, err
		}
		return arg(args, 0), nil
	})
	onRejected := NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		if _, err := f.Callable(ctx, Undefined, nil); err != nil {
			return nil, err
		}
		return nil, NewThrow(arg(args, 0))
	})
	return PromiseThen(ctx, this, []Value{onFulfilled, onRejected})
}

// PromiseResolve implements Promise.resolve(x): any Promise object is
// returned as-is, without checking its constructor; any other value is
// wrapped in a new Promise resolved with it.
func PromiseResolve(ctx *Context, x Value) Value {
	if o, ok := AsObject(x); ok && o.Kind == ObjectKindPromise {
		return o
	}
	p := NewPromiseObject(ctx)
	resolvePromise(ctx, p, x)
	return p
}

// PromiseReject implements Promise.reject(r): an immediately rejected Promise.
func PromiseReject(ctx *Context, reason Value) Value {
	p := NewPromiseObject(ctx)
	resolvePromiseReject(ctx, p, reason)
	return p
}

// PromiseAll implements Promise.all(iterable).
func PromiseAll(ctx *Context, this Value, args []Value) (Value, *Error) {
	items, err := iterableToSlice(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	result := NewPromiseObject(ctx)
	if len(items) == 0 {
		resolvePromise(ctx, result, NewArray(ctx, nil))
		return result, nil
	}
	values := make([]Value, len(items))
	remaining := len(items)
	for i, item := range items {
		i := i
		p := AsPromiseValue(ctx, item)
		PromiseThen(ctx, p, []Value{
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				values[i] = arg(args, 0)
				remaining--
				if remaining == 0 {
					resolvePromise(ctx, result, NewArray(ctx, values))
				}
				return Undefined, nil
			}),
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				resolvePromiseReject(ctx, result, arg(args, 0))
				return Undefined, nil
			}),
		})
	}
	return result, nil
}

// PromiseAllSettled implements Promise.allSettled(iterable).
func PromiseAllSettled(ctx *Context, this Value, args []Value) (Value, *Error) {
	items, err := iterableToSlice(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	result := NewPromiseObject(ctx)
	if len(items) == 0 {
		resolvePromise(ctx, result, NewArray(ctx, nil))
		return result, nil
	}
	records := make([]Value, len(items))
	remaining := len(items)
	settle := func() {
		remaining--
		if remaining == 0 {
			resolvePromise(ctx, result, NewArray(ctx, records))
		}
	}
	for i, item := range items {
		i := i
		p := AsPromiseValue(ctx, item)
		PromiseThen(ctx, p, []Value{
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				rec := NewObject(ctx.ObjectPrototype)
				rec.DefineDataProperty(ctx, StringKey("status"), NewString("fulfilled"), true, true, true)
				rec.DefineDataProperty(ctx, StringKey("value"), arg(args, 0), true, true, true)
				records[i] = rec
				settle()
				return Undefined, nil
			}),
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				rec := NewObject(ctx.ObjectPrototype)
				rec.DefineDataProperty(ctx, StringKey("status"), NewString("rejected"), true, true, true)
				rec.DefineDataProperty(ctx, StringKey("reason"), arg(args, 0), true, true, true)
				records[i] = rec
				settle()
				return Undefined, nil
			}),
		})
	}
	return result, nil
}

// PromiseRace implements Promise.race(iterable): adopts the first settlement.
func PromiseRace(ctx *Context, this Value, args []Value) (Value, *Error) {
	items, err := iterableToSlice(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	result := NewPromiseObject(ctx)
	for _, item := range items {
		p := AsPromiseValue(ctx, item)
		PromiseThen(ctx, p, []Value{
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				resolvePromise(ctx, result, arg(args, 0))
				return Undefined, nil
			}),
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				resolvePromiseReject(ctx, result, arg(args, 0))
				return Undefined, nil
			}),
		})
	}
	return result, nil
}

// PromiseAny implements Promise.any(iterable): resolves with the
// first fulfillment; if every input rejects (or the input is empty),
// rejects with an AggregateError carrying all reasons.
func PromiseAny(ctx *Context, this Value, args []Value) (Value, *Error) {
	items, err := iterableToSlice(ctx, arg(args, 0))
	if err != nil {
		return nil, err
	}
	result := NewPromiseObject(ctx)
	if len(items) == 0 {
		resolvePromiseReject(ctx, result, NewErrorObjectValue(ctx, NewAggregateError("All promises were rejected", nil)))
		return result, nil
	}
	errs := make([]Value, len(items))
	remaining := len(items)
	for i, item := range items {
		i := i
		p := AsPromiseValue(ctx, item)
		PromiseThen(ctx, p, []Value{
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				resolvePromise(ctx, result, arg(args, 0))
				return Undefined, nil
			}),
			NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
				errs[i] = arg(args, 0)
				remaining--
				if remaining == 0 {
					resolvePromiseReject(ctx, result, NewErrorObjectValue(ctx, NewAggregateError("All promises were rejected", errs)))
				}
				return Undefined, nil
			}),
		})
	}
	return result, nil
}

// AsPromiseValue coerces an arbitrary iterable element into a Promise
// the way Promise.all/race/any/allSettled implicitly do via an
// internal PromiseResolve step.
func AsPromiseValue(ctx *Context, v Value) Value {
	return PromiseResolve(ctx, v)
}

// NewErrorObjectValue builds the Value an internal *Error converts to
// when it must be handed directly to resolvePromiseReject/settlePromise
// instead of going through ctx.ToThrowable at a throw site.
func NewErrorObjectValue(ctx *Context, err *Error) Value {
	return ctx.ToThrowable(err)
}

// iterableToSlice consumes an array-like or an iterable (via
// Symbol.iterator) into a Go slice, eagerly, the way the combinators
// need their input materialized (spec.md §4.H: "Promise.all(iter)").
func iterableToSlice(ctx *Context, v Value) ([]Value, *Error) {
	o, ok := AsObject(v)
	if !ok {
		return nil, NewTypeError("is not iterable")
	}
	iterFn, err := o.Get(ctx, SymbolKey(ctx.WellKnown.Iterator), o)
	if err != nil {
		return nil, err
	}
	iterFnObj, ok := AsObject(iterFn)
	if !ok || !IsCallable(iterFnObj) {
		return arrayLikeToSlice(ctx, v)
	}
	iterator, err := iterFnObj.Callable(ctx, o, nil)
	if err != nil {
		return nil, err
	}
	iterObj, ok := AsObject(iterator)
	if !ok {
		return nil, NewTypeError("Result of Symbol.iterator is not an object")
	}
	nextFn, err := iterObj.Get(ctx, StringKey("next"), iterObj)
	if err != nil {
		return nil, err
	}
	nextFnObj, ok := AsObject(nextFn)
	if !ok || !IsCallable(nextFnObj) {
		return nil, NewTypeError("Iterator result next is not callable")
	}
	var items []Value
	for {
		res, err := nextFnObj.Callable(ctx, iterObj, nil)
		if err != nil {
			return nil, err
		}
		resObj, ok := AsObject(res)
		if !ok {
			return nil, NewTypeError("Iterator result is not an object")
		}
		done, err := resObj.Get(ctx, StringKey("done"), resObj)
		if err != nil {
			return nil, err
		}
		if ToBoolean(done) {
			return items, nil
		}
		value, err := resObj.Get(ctx, StringKey("value"), resObj)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
}
