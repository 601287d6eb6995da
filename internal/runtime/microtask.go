package runtime

import "container/list"

// MicrotaskQueue is a plain FIFO queue of zero-argument thunks,
// backed by container/list exactly as a doubly linked list is meant
// to be used. spec.md §5 requires the Evaluator supply the actual
// scheduler (EnqueueMicrotask), but this package still needs a queue
// of its own: the fake Evaluator used by tests (see fake_evaluator_test.go)
// and the `cmd/corescope run-microtasks` diagnostics command both need
// a concrete, drainable queue rather than hand-rolling one per caller.
type MicrotaskQueue struct {
	tasks *list.List
}

// NewMicrotaskQueue returns an empty queue.
func NewMicrotaskQueue() *MicrotaskQueue {
	return &MicrotaskQueue{tasks: list.New()}
}

// Enqueue appends a thunk to the back of the queue.
func (q *MicrotaskQueue) Enqueue(thunk func()) {
	q.tasks.PushBack(thunk)
}

// Len reports how many thunks are currently queued.
func (q *MicrotaskQueue) Len() int {
	return q.tasks.Len()
}

// RunOne pops and runs the front thunk, reporting whether one was run.
func (q *MicrotaskQueue) RunOne() bool {
	front := q.tasks.Front()
	if front == nil {
		return false
	}
	q.tasks.Remove(front)
	thunk := front.Value.(func())
	thunk()
	return true
}

// Drain runs thunks in FIFO order until the queue is empty, including
// any further microtasks a thunk enqueues while running (spec.md §5:
// "a microtask that enqueues further microtasks processes them before
// control returns to the embedder's event loop").
func (q *MicrotaskQueue) Drain() {
	for q.RunOne() {
	}
}
