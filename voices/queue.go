package voices

import "sync/atomic"

type queueNode struct {
	next   atomic.Pointer[queueNode]
	action Action
}

// Queue is the unbounded multi-producer, single-consumer action channel.
//
// Producers never block: Push links a new node with one atomic swap. The
// consumer (the render context) pops without locking or allocating. Order is
// the order in which producers completed the swap, so events from a single
// producer are always seen in the order they were pushed.
type Queue struct {
	head atomic.Pointer[queueNode]
	tail *queueNode
	stub queueNode
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.head.Store(&q.stub)
	q.tail = &q.stub
	return q
}

// Push enqueues a. Safe for concurrent use by any number of producers.
func (q *Queue) Push(a Action) {
	n := &queueNode{action: a}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Pop dequeues the oldest visible action. Consumer side only.
func (q *Queue) Pop() (Action, bool) {
	next := q.tail.next.Load()
	if next == nil {
		return Action{}, false
	}
	q.tail = next
	a := next.action
	next.action = Action{}
	return a, true
}

// Drain pops every visible action in FIFO order and hands it to fn.
// Consumer side only. Returns the number of actions applied.
func (q *Queue) Drain(fn func(Action)) int {
	n := 0
	for {
		a, ok := q.Pop()
		if !ok {
			return n
		}
		fn(a)
		n++
	}
}
