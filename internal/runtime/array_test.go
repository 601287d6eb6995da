package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayLengthTruncationStopsAtNonConfigurable(t *testing.T) {
	ctx := newTestContext()
	arr := NewArray(ctx, []Value{NewNumber(0), NewNumber(1), NewNumber(2), NewNumber(3)})

	// Make index 1 non-configurable so truncating length to 0 must stop there.
	ok, err := arr.DefineOwnProperty(ctx, StringKey("1"), &PropertyDescriptor{
		Value: NewNumber(1), HasValue: true,
		Writable: true, HasWritable: true,
		Enumerable: true, HasEnumerable: true,
		Configurable: false, HasConfigurable: true,
	})
	require.NoError(t, err.OrNil())
	require.True(t, ok)

	ok, err = arr.DefineOwnProperty(ctx, StringKey("length"), &PropertyDescriptor{
		Value: NewNumber(0), HasValue: true,
	})
	require.NoError(t, err.OrNil())
	assert.False(t, ok, "length define should report failure when it could not reach the requested value")

	length := ArrayLength(arr)
	assert.Equal(t, uint32(2), length, "length should stop just past the non-configurable index")

	has0, _ := arr.HasProperty(ctx, StringKey("0"))
	assert.False(t, has0, "index 0 should have been deleted")
	has1, _ := arr.HasProperty(ctx, StringKey("1"))
	assert.True(t, has1, "non-configurable index 1 must survive truncation")
}

func TestArrayMapPreservesHoles(t *testing.T) {
	ctx := newTestContext()
	arr := NewArrayWithLength(ctx, 3)
	ArraySetElement(ctx, arr, 0, NewNumber(1))
	ArraySetElement(ctx, arr, 2, NewNumber(3))

	double := NewNativeFunction(ctx, "", 1, func(ctx *Context, this Value, args []Value) (Value, *Error) {
		n, err := ToNumber(ctx, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return NewNumber(n * 2), nil
	})
	result, err := ArrayMap(ctx, arr, []Value{double})
	require.Nil(t, err)
	mapped := result.(*Object)

	has1, _ := mapped.HasProperty(ctx, StringKey("1"))
	assert.False(t, has1, "mapping over a hole must leave a hole, not call the callback")

	v0, _ := mapped.Get(ctx, StringKey("0"), mapped)
	assert.Equal(t, NumberValue{Value: 2}, v0)
}

func TestArraySortDefaultIsLexicographic(t *testing.T) {
	ctx := newTestContext()
	arr := NewArray(ctx, []Value{NewNumber(10), NewNumber(2), NewNumber(1)})
	_, err := ArraySort(ctx, arr, []Value{Undefined})
	require.Nil(t, err)

	want := []string{"1", "10", "2"}
	for i, w := range want {
		v, _ := arr.Get(ctx, StringKey(itoa(i)), arr)
		s, _ := ToString(ctx, v)
		assert.Equal(t, w, s)
	}
}

// OrNil lets test assertions treat a nil *Error the same as a nil error.
func (e *Error) OrNil() error {
	if e == nil {
		return nil
	}
	return e
}
