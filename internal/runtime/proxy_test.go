package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyGetTrapReceivesTargetKeyReceiver(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(ctx.ObjectPrototype)
	target.DefineDataProperty(ctx, StringKey("name"), NewString("ordinary"), true, true, true)

	var gotKey string
	var gotTarget, gotReceiver Value
	handler := NewObject(ctx.ObjectPrototype)
	trap := NewNativeFunction(ctx, "get", 3, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		gotTarget = args[0]
		gotKey = args[1].(StringValue).Value
		gotReceiver = args[2]
		return NewString("trapped"), nil
	})
	handler.DefineDataProperty(ctx, StringKey("get"), trap, true, true, true)

	p := NewProxy(ctx, target, handler)
	v, err := p.Get(ctx, StringKey("name"), p)
	require.Nil(t, err)
	assert.Equal(t, NewString("trapped"), v)
	assert.Equal(t, "name", gotKey)
	assert.Same(t, target, gotTarget)
	assert.Same(t, p, gotReceiver)
}

func TestProxyWithoutTrapFallsThroughToTarget(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(ctx.ObjectPrototype)
	target.DefineDataProperty(ctx, StringKey("age"), NewNumber(7), true, true, true)
	handler := NewObject(ctx.ObjectPrototype)

	p := NewProxy(ctx, target, handler)
	v, err := p.Get(ctx, StringKey("age"), p)
	require.Nil(t, err)
	assert.Equal(t, NewNumber(7), v)
}

func TestReflectHasAndGetMirrorOrdinaryLookup(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(ctx.ObjectPrototype)
	target.DefineDataProperty(ctx, StringKey("x"), NewNumber(1), true, true, true)

	has, err := ReflectHas(ctx, Undefined, []Value{target, NewString("x")})
	require.Nil(t, err)
	assert.Equal(t, True, has)

	missing, err := ReflectHas(ctx, Undefined, []Value{target, NewString("y")})
	require.Nil(t, err)
	assert.Equal(t, False, missing)

	v, err := ReflectGet(ctx, Undefined, []Value{target, NewString("x")})
	require.Nil(t, err)
	assert.Equal(t, NewNumber(1), v)
}

func TestReflectDeletePropertyRemovesOwnProperty(t *testing.T) {
	ctx := newTestContext()
	target := NewObject(ctx.ObjectPrototype)
	target.DefineDataProperty(ctx, StringKey("z"), NewNumber(9), true, true, true)

	ok, err := ReflectDeleteProperty(ctx, Undefined, []Value{target, NewString("z")})
	require.Nil(t, err)
	assert.Equal(t, True, ok)

	_, found := target.GetOwnProperty(StringKey("z"))
	assert.False(t, found)
}
