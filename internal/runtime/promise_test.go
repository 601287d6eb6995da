package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromiseThenRunsAsMicrotaskInOrder(t *testing.T) {
	ctx := newTestContext()
	fe := ctx.Evaluator.(*fakeEvaluator)

	p := NewPromiseObject(ctx)
	var order []string

	record := func(name string) *Object {
		return NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
			order = append(order, name)
			return arg(args, 0), nil
		})
	}
	_, err := PromiseThen(ctx, p, []Value{record("first"), Undefined})
	require.Nil(t, err)
	_, err = PromiseThen(ctx, p, []Value{record("second"), Undefined})
	require.Nil(t, err)

	assert.Empty(t, order, "callbacks must not run synchronously")
	resolvePromise(ctx, p, NewNumber(1))
	assert.Empty(t, order, "settling must not run reactions synchronously either")

	fe.queue.Drain()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPromiseAllRejectsOnFirstRejection(t *testing.T) {
	ctx := newTestContext()
	fe := ctx.Evaluator.(*fakeEvaluator)

	ok := NewPromiseObject(ctx)
	bad := NewPromiseObject(ctx)
	arr := NewArray(ctx, []Value{ok, bad})

	result, err := PromiseAll(ctx, Undefined, []Value{arr})
	require.Nil(t, err)
	resultPromise := result.(*Object)

	resolvePromiseReject(ctx, bad, NewString("boom"))
	resolvePromise(ctx, ok, NewNumber(1))
	fe.queue.Drain()

	assert.Equal(t, promiseRejected, resultPromise.promiseData.state)
	assert.Equal(t, NewString("boom"), resultPromise.promiseData.value)
}

func TestPromiseAnyResolvesWithFirstFulfillment(t *testing.T) {
	ctx := newTestContext()
	fe := ctx.Evaluator.(*fakeEvaluator)

	a := NewPromiseObject(ctx)
	b := NewPromiseObject(ctx)
	arr := NewArray(ctx, []Value{a, b})

	result, err := PromiseAny(ctx, Undefined, []Value{arr})
	require.Nil(t, err)
	resultPromise := result.(*Object)

	resolvePromiseReject(ctx, a, NewString("nope"))
	resolvePromise(ctx, b, NewNumber(42))
	fe.queue.Drain()

	assert.Equal(t, promiseFulfilled, resultPromise.promiseData.state)
	assert.Equal(t, NewNumber(42), resultPromise.promiseData.value)
}
