package runtime

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	ctx := newTestContext()
	m := NewMapObject(ctx)
	_, err := MapSet(ctx, m, []Value{NewString("b"), NewNumber(2)})
	require.Nil(t, err)
	_, err = MapSet(ctx, m, []Value{NewString("a"), NewNumber(1)})
	require.Nil(t, err)

	var seen []string
	cb := NewNativeFunction(ctx, "", 3, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		k := arg(args, 1).(StringValue)
		seen = append(seen, k.Value)
		return Undefined, nil
	})
	_, err = MapForEach(ctx, m, []Value{cb})
	require.Nil(t, err)
	assert.Equal(t, []string{"b", "a"}, seen)
}

func TestMapSameValueZeroTreatsNaNAndNegativeZero(t *testing.T) {
	ctx := newTestContext()
	m := NewMapObject(ctx)
	nan := NewNumber(mathNaN())
	_, err := MapSet(ctx, m, []Value{nan, NewString("first")})
	require.Nil(t, err)
	_, err = MapSet(ctx, m, []Value{NewNumber(mathNaN()), NewString("second")})
	require.Nil(t, err)

	size, _ := MapSize(ctx, m, nil)
	assert.Equal(t, NewNumber(1), size, "two distinct NaN values must collapse to one key")

	_, err = MapSet(ctx, m, []Value{NewNumber(0), NewString("zero")})
	require.Nil(t, err)
	negZeroVal, err := MapGet(ctx, m, []Value{NewNumber(negZero())})
	require.Nil(t, err)
	assert.Equal(t, NewString("zero"), negZeroVal, "+0 and -0 must be the same key")
}

func TestWeakMapEntryDisappearsAfterKeyIsCollected(t *testing.T) {
	ctx := newTestContext()
	wm := NewWeakMapObject(ctx)

	func() {
		key := NewObject(ctx.ObjectPrototype)
		_, err := WeakMapSet(ctx, wm, []Value{key, NewString("payload")})
		require.Nil(t, err)
		has, _ := WeakMapHas(ctx, wm, []Value{key})
		assert.Equal(t, True, has)
	}()

	runtime.GC()
	ctx.CollectGarbage()
	assert.Empty(t, wm.weakMapData.entries, "entry should be pruned once its key is unreachable and collected")
}

func mathNaN() float64 {
	var zero float64
	return zero / zero
}

func negZero() float64 {
	var zero float64
	return -zero
}
