package runtimedebug_test

import (
	"testing"

	"github.com/cwbudde/ecmacore/internal/runtime"
	"github.com/cwbudde/ecmacore/internal/runtimedebug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type noopEvaluator struct{}

func (noopEvaluator) Call(fn *runtime.Object, args []runtime.Value, thisBinding runtime.Value) (runtime.Value, *runtime.Error) {
	return runtime.Undefined, nil
}

func (noopEvaluator) Construct(fn *runtime.Object, args []runtime.Value, newTarget *runtime.Object) (*runtime.Object, *runtime.Error) {
	return nil, runtime.NewTypeError("construct not supported in debug dump tests")
}

func (noopEvaluator) CurrentStrictMode() bool { return false }
func (noopEvaluator) CurrentCaller(*runtime.Object) runtime.Value {
	return runtime.Undefined
}
func (noopEvaluator) EnqueueMicrotask(func()) {}
func (noopEvaluator) Parse(string) (runtime.ScriptRef, *runtime.Error) {
	return nil, runtime.NewSyntaxError("debug dump tests do not implement eval")
}

func newTestContext(t *testing.T) *runtime.Context {
	t.Helper()
	ctx := runtime.NewContext(noopEvaluator{})
	runtime.Bootstrap(ctx)
	return ctx
}

func TestDumpPrimitives(t *testing.T) {
	ctx := newTestContext(t)

	assert.Equal(t, `"undefined"`, gjson.Get(runtimedebug.Dump(ctx, runtime.Undefined), "value").Raw)
	assert.Equal(t, "true", gjson.Get(runtimedebug.Dump(ctx, runtime.True), "value").Raw)
	assert.Equal(t, "1", gjson.Get(runtimedebug.Dump(ctx, runtime.NewNumber(1)), "value").Raw)
	assert.Equal(t, `"hi"`, gjson.Get(runtimedebug.Dump(ctx, runtime.NewString("hi")), "value").Raw)
}

func TestDumpArrayIncludesHolesAndLength(t *testing.T) {
	ctx := newTestContext(t)
	arr := runtime.NewArrayWithLength(ctx, 3)
	runtime.ArraySetElement(ctx, arr, 0, runtime.NewNumber(1))
	runtime.ArraySetElement(ctx, arr, 2, runtime.NewNumber(3))

	out := runtimedebug.Dump(ctx, arr)
	require.Equal(t, "array", gjson.Get(out, "kind").Str)
	assert.Equal(t, float64(3), gjson.Get(out, "length").Num)
	assert.Equal(t, float64(1), gjson.Get(out, "elements.0").Num)
	assert.Equal(t, `"<hole>"`, gjson.Get(out, "elements.1").Raw)
	assert.Equal(t, float64(3), gjson.Get(out, "elements.2").Num)
}

func TestDumpObjectBreaksCycles(t *testing.T) {
	ctx := newTestContext(t)
	o := runtime.NewObject(ctx.ObjectPrototype)
	o.DefineDataProperty(ctx, runtime.StringKey("self"), o, true, true, true)

	out := runtimedebug.Dump(ctx, o)
	ref := gjson.Get(out, `properties.self`)
	assert.Contains(t, ref.String(), "$ref:")
}
