package runtime

// Evaluator is the capability this package requires from its host (the
// lexer/parser/statement-evaluator that walks a parsed AST), per
// spec.md §6.1. The core never parses or walks source text itself; it
// only calls back into the Evaluator to execute scripted function
// bodies, to construct instances of scripted classes, to answer
// strict-mode/caller questions the language surface needs, and to
// schedule microtasks.
type Evaluator interface {
	// Call invokes a scripted function object's body with the given
	// this-binding and arguments. It is never asked to call native or
	// bound functions — those are handled entirely inside this package.
	Call(fn *Object, args []Value, thisBinding Value) (Value, *Error)

	// Construct invokes a scripted class/function as a constructor.
	// newTarget is the original constructor referenced by `new`,
	// distinct from fn when called through Reflect.construct.
	Construct(fn *Object, args []Value, newTarget *Object) (*Object, *Error)

	// CurrentStrictMode reports whether the currently executing stack
	// frame is strict-mode, consulted by property-write and delete
	// rejection paths (spec.md §4.C, §7).
	CurrentStrictMode() bool

	// CurrentCaller walks the call stack to answer `.caller` access on
	// a sloppy-mode function object; returns Undefined if there is none.
	CurrentCaller(callee *Object) Value

	// EnqueueMicrotask schedules a zero-argument thunk to run once the
	// current synchronous execution (and any already-queued
	// microtasks ahead of it) completes (spec.md §5).
	EnqueueMicrotask(thunk func())

	// Parse compiles source text into an opaque AST handle for the
	// core's `eval` builtin. Implementations that do not support `eval`
	// may return a SyntaxError unconditionally.
	Parse(source string) (ScriptRef, *Error)
}

// ScriptRef is an opaque handle to a parsed AST, owned entirely by the
// Evaluator; this package never inspects it, only threads it back
// through Evaluator.Call / Evaluator.Construct.
type ScriptRef any

// EnvRef is an opaque handle to a captured lexical environment, owned
// entirely by the Evaluator.
type EnvRef any
