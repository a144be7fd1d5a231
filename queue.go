// FILE: lixenwraith/asynclog/queue.go
package asynclog

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// queueNode is a link of the record queue
type queueNode struct {
	next   atomic.Pointer[queueNode]
	record *Record
}

// recordQueue is an unbounded multi-producer single-consumer queue.
// push is lock-free and wait-free for producers; pop, empty and discard
// must only be called from the single consumer.
type recordQueue struct {
	head  atomic.Pointer[queueNode] // last pushed node, swapped by producers
	tail  *queueNode                // consumer-owned, points at the consumed stub
	depth *xsync.Counter
}

func newRecordQueue() *recordQueue {
	stub := &queueNode{}
	q := &recordQueue{
		tail:  stub,
		depth: xsync.NewCounter(),
	}
	q.head.Store(stub)
	return q
}

// push appends r; safe for concurrent callers
func (q *recordQueue) push(r *Record) {
	n := &queueNode{record: r}
	q.depth.Inc()
	prev := q.head.Swap(n)
	// Between Swap and Store the consumer sees head != tail but no link yet,
	// which empty() reports as non-empty so the drain waits for the link.
	prev.next.Store(n)
}

// pop removes the oldest record, or returns nil when none is linked yet
func (q *recordQueue) pop() *Record {
	next := q.tail.next.Load()
	if next == nil {
		return nil
	}
	q.tail = next
	r := next.record
	next.record = nil
	q.depth.Dec()
	return r
}

// empty reports whether no record is queued or being pushed
func (q *recordQueue) empty() bool {
	return q.head.Load() == q.tail
}

// discard drops every linked record and returns how many were dropped
func (q *recordQueue) discard() int64 {
	var n int64
	for q.pop() != nil {
		n++
	}
	return n
}

// len is an approximate number of queued records
func (q *recordQueue) len() int64 {
	return q.depth.Value()
}
