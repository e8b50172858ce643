package internal

// Listener is anything that can be pushed a value and told when the state
// of what it listens to changes. Stream/Behavior/Future operator nodes all
// implement it so they can sit in another node's listener list.
type Listener interface {
	// push delivers a value produced at tick t from the parent this node
	// is linked against.
	push(t Tick, v any)

	// changeStateDown is called by a parent when its own state changes; the
	// receiver recomputes its state and, if it changed, must propagate
	// changeStateDown to its own listeners (spec.md §4.1).
	changeStateDown(newState State)
}

// ListenerNode is one entry of a Reactive's intrusive doubly-linked listener
// list (spec.md §3 "Node (listener entry)", modeled on the teacher's
// DependencyLink in internal/node.go / internal/link.go). Embedding the
// prev/next pointers directly on the node, rather than in a side table,
// gives O(1) unlink without a map lookup.
type ListenerNode struct {
	listener Listener

	owner *ListenerList // list this node currently belongs to, or nil

	prev *ListenerNode
	next *ListenerNode
}

// Listener returns the observer stored in this node.
func (n *ListenerNode) Listener() Listener { return n.listener }

// ListenerList is an intrusive doubly-linked list of ListenerNode, used by
// every Reactive to track its downstream listeners (spec.md §2 item 2).
// Head/tail pointers plus a count give O(1) insert, O(1) removal given the
// node, and edge-triggered activation at count 0↔1.
type ListenerList struct {
	head  *ListenerNode
	tail  *ListenerNode
	count int
}

// Len returns the number of listeners currently linked.
func (l *ListenerList) Len() int { return l.count }

// PushBack links a new node for listener at the tail of the list and
// returns it. Newly added listeners must not observe a push already in
// flight (spec.md §4.2 ordering rule); callers only insert between ticks or
// append to tails not yet visited by the in-flight walk (see Stream/Behavior
// publish loops, which snapshot `tail` before iterating).
func (l *ListenerList) PushBack(listener Listener) *ListenerNode {
	n := &ListenerNode{listener: listener, owner: l}

	if l.tail == nil {
		l.head = n
		l.tail = n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.count++

	return n
}

// Remove unlinks node from whatever list it belongs to. Safe to call twice;
// the second call is a no-op. O(1).
func (l *ListenerList) Remove(n *ListenerNode) {
	if n == nil || n.owner != l {
		return
	}

	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}

	n.prev = nil
	n.next = nil
	n.owner = nil
	l.count--
}

// Each walks the list front to back, calling fn for every listener present
// at the moment Each was invoked. It snapshots the tail up front so that
// nodes appended mid-walk (a combinator subscribing from within a push
// callback) are excluded, matching spec.md §4.2's "newly added listeners
// only observe subsequent ticks".
func (l *ListenerList) Each(fn func(*ListenerNode)) {
	stop := l.tail
	if stop == nil {
		return
	}

	for n := l.head; n != nil; {
		next := n.next
		fn(n)
		if n == stop {
			return
		}
		n = next
	}
}
