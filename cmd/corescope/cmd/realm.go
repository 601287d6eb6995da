package cmd

import (
	"github.com/cwbudde/ecmacore/internal/runtime"
)

// cliEvaluator is the minimal Evaluator corescope supplies when it
// boots a runtime.Context on its own, with no source-level
// lexer/parser/statement-evaluator in front of it (that collaborator
// is out of scope for this module, spec.md §1): Call/Construct are
// never reached because the CLI never creates scripted functions or
// classes, and eval is simply unsupported.
type cliEvaluator struct {
	queue *runtime.MicrotaskQueue
}

func newCLIEvaluator() *cliEvaluator {
	return &cliEvaluator{queue: runtime.NewMicrotaskQueue()}
}

func (e *cliEvaluator) Call(fn *runtime.Object, args []runtime.Value, thisBinding runtime.Value) (runtime.Value, *runtime.Error) {
	return nil, runtime.NewTypeError("corescope does not execute scripted function bodies")
}

func (e *cliEvaluator) Construct(fn *runtime.Object, args []runtime.Value, newTarget *runtime.Object) (*runtime.Object, *runtime.Error) {
	return nil, runtime.NewTypeError("corescope does not construct scripted classes")
}

func (e *cliEvaluator) CurrentStrictMode() bool { return true }

func (e *cliEvaluator) CurrentCaller(*runtime.Object) runtime.Value { return runtime.Undefined }

func (e *cliEvaluator) EnqueueMicrotask(thunk func()) { e.queue.Enqueue(thunk) }

func (e *cliEvaluator) Parse(string) (runtime.ScriptRef, *runtime.Error) {
	return nil, runtime.NewSyntaxError("corescope does not implement eval")
}

// newRealm boots a realm the way an embedder would: allocate the
// Context, bootstrap every built-in prototype, and return both it and
// the evaluator so callers can drive the microtask queue directly.
func newRealm() (*runtime.Context, *cliEvaluator) {
	ev := newCLIEvaluator()
	ctx := runtime.NewContext(ev)
	runtime.Bootstrap(ctx)
	return ctx, ev
}
