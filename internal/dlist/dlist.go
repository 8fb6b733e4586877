// Package dlist provides a minimal generic intrusive doubly-linked list,
// used to hold FIFO waiter queues with O(1) removal-by-handle.
//
// It plays the role of the "linked list" collaborator used by the
// reader-writer-upgrade lock's waiter queues: push to the tail, pop from
// the head, and remove an arbitrary node in constant time, given the node's
// handle. A [Node] remembers which [List] it belongs to (or none), so
// removing it twice, or removing a node that was already popped, is a safe
// no-op — this is what lets a cancellation callback race harmlessly against
// a waker that already removed the same node.
package dlist

// Node is an element of a List. The zero value is not usable; obtain a Node
// via List.PushBack.
type Node[T any] struct {
	list       *List[T]
	prev, next *Node[T]
	Value      T
}

// List is a FIFO doubly-linked list of Node[T]. The zero value is ready to
// use.
type List[T any] struct {
	root Node[T]
	len  int
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int { return l.len }

// Front returns the head node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// PushBack appends v to the tail of the list, returning the new node's
// handle, which may later be passed to Remove.
func (l *List[T]) PushBack(v T) *Node[T] {
	l.lazyInit()
	n := &Node[T]{list: l, Value: v}
	last := l.root.prev
	last.next = n
	n.prev = last
	n.next = &l.root
	l.root.prev = n
	l.len++
	return n
}

// Queued reports whether n is still attached to the list that produced it.
// A node that has been popped or removed (by any caller, including a
// concurrent one) reports false. This is what lets a cancellation path
// race harmlessly against a concurrent wake: whichever side observes
// Queued() == false knows the other side already won.
func (n *Node[T]) Queued() bool {
	return n != nil && n.list != nil
}

// Remove detaches n from the list, if it is still present. Removing a node
// that has already been removed (from this list or any other) is a no-op,
// which makes it safe to race a cancellation against a concurrent wake.
func (l *List[T]) Remove(n *Node[T]) {
	if n == nil || n.list != l {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	n.list = nil
	l.len--
}

// PopFront removes and returns the head node's value. The second return
// value is false if the list was empty.
func (l *List[T]) PopFront() (v T, ok bool) {
	n := l.Front()
	if n == nil {
		return v, false
	}
	l.Remove(n)
	return n.Value, true
}

// ForEach calls fn for every value currently in the list, in head-to-tail
// order. fn must not mutate the list.
func (l *List[T]) ForEach(fn func(T)) {
	for n := l.root.next; n != nil && n != &l.root; n = n.next {
		fn(n.Value)
	}
}
