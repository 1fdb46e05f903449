package util

import (
	"container/heap"
	"fmt"
)

/*
PriorityQueue is a min-heap ordered by a less-than predicate. The
element for which less() holds against every other element sits at
the top.

Push() grows the heap without limit, while Insert() keeps at most
Capacity() elements: once full, a new element only displaces the top
when it sorts after it. This is what top-K collection relies on.
Popping everything yields elements in ascending order, so callers that
want the best first fill their result slice from the back.
*/
type PriorityQueue[T any] struct {
	h heapSlice[T]
	// maximum number of elements kept by Insert
	capacity int
}

type heapSlice[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h heapSlice[T]) Len() int            { return len(h.items) }
func (h heapSlice[T]) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h heapSlice[T]) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *heapSlice[T]) Push(x interface{}) { h.items = append(h.items, x.(T)) }
func (h *heapSlice[T]) Pop() interface{} {
	n := len(h.items)
	ans := h.items[n-1]
	var zero T
	h.items[n-1] = zero
	h.items = h.items[0 : n-1]
	return ans
}

func NewPriorityQueue[T any](capacity int, less func(a, b T) bool) *PriorityQueue[T] {
	assert2(capacity >= 0, "capacity must be >= 0, got %v", capacity)
	return &PriorityQueue[T]{
		h:        heapSlice[T]{items: make([]T, 0, capacity), less: less},
		capacity: capacity,
	}
}

func (pq *PriorityQueue[T]) Len() int      { return len(pq.h.items) }
func (pq *PriorityQueue[T]) Capacity() int { return pq.capacity }

// Less applies the queue's ordering predicate.
func (pq *PriorityQueue[T]) Less(a, b T) bool { return pq.h.less(a, b) }

// Push adds x, growing the heap past its capacity if needed.
func (pq *PriorityQueue[T]) Push(x T) {
	heap.Push(&pq.h, x)
}

/*
Insert adds x if there is room or if x sorts after the current top,
in which case the top is dropped. Returns true if x was kept.
*/
func (pq *PriorityQueue[T]) Insert(x T) bool {
	if len(pq.h.items) < pq.capacity {
		heap.Push(&pq.h, x)
		return true
	}
	if len(pq.h.items) > 0 && pq.h.less(pq.h.items[0], x) {
		pq.h.items[0] = x
		heap.Fix(&pq.h, 0)
		return true
	}
	return false
}

// Top returns the least element without removing it.
func (pq *PriorityQueue[T]) Top() T {
	assert(len(pq.h.items) > 0)
	return pq.h.items[0]
}

func (pq *PriorityQueue[T]) Pop() T {
	assert(len(pq.h.items) > 0)
	return heap.Pop(&pq.h).(T)
}

// UpdateTop re-sinks the top after its ordering key changed in place.
func (pq *PriorityQueue[T]) UpdateTop() T {
	heap.Fix(&pq.h, 0)
	return pq.h.items[0]
}

func (pq *PriorityQueue[T]) Clear() {
	var zero T
	for i := range pq.h.items {
		pq.h.items[i] = zero
	}
	pq.h.items = pq.h.items[:0]
}

// Each visits the queued elements in heap order.
func (pq *PriorityQueue[T]) Each(fn func(T)) {
	for _, v := range pq.h.items {
		fn(v)
	}
}

func assert(ok bool) {
	if !ok {
		panic("assert fail")
	}
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}
