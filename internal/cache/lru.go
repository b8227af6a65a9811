package cache

// lruNode is a node in the doubly-linked recency list.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// LRU orders distinct keys by recency. The head is the most recently
// touched key, the tail the least. The zero value is ready to use.
type LRU[K comparable] struct {
	nodes map[K]*lruNode[K]
	head  *lruNode[K]
	tail  *lruNode[K]
}

// Len returns the number of keys.
func (l *LRU[K]) Len() int { return len(l.nodes) }

// Contains reports whether key is present.
func (l *LRU[K]) Contains(key K) bool {
	_, ok := l.nodes[key]
	return ok
}

// Touch makes key the most recent, adding it if absent.
func (l *LRU[K]) Touch(key K) {
	if l.nodes == nil {
		l.nodes = make(map[K]*lruNode[K])
	}
	node, ok := l.nodes[key]
	if ok {
		if node == l.head {
			return
		}
		l.unlink(node)
	} else {
		node = &lruNode[K]{key: key}
		l.nodes[key] = node
	}
	l.pushFront(node)
}

// Remove deletes key and reports whether it was present.
func (l *LRU[K]) Remove(key K) bool {
	node, ok := l.nodes[key]
	if !ok {
		return false
	}
	l.unlink(node)
	delete(l.nodes, key)
	return true
}

// Oldest returns the least recent key without removing it.
func (l *LRU[K]) Oldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.key, true
}

// RemoveOldest removes and returns the least recent key.
func (l *LRU[K]) RemoveOldest() (K, bool) {
	key, ok := l.Oldest()
	if ok {
		l.Remove(key)
	}
	return key, ok
}

// Find returns the most recent key for which match is true.
func (l *LRU[K]) Find(match func(K) bool) (K, bool) {
	for n := l.head; n != nil; n = n.next {
		if match(n.key) {
			return n.key, true
		}
	}
	var zero K
	return zero, false
}

// Drain removes every key, calling fn on each from most to least recent.
func (l *LRU[K]) Drain(fn func(K)) {
	for n := l.head; n != nil; n = n.next {
		if fn != nil {
			fn(n.key)
		}
	}
	l.nodes = nil
	l.head = nil
	l.tail = nil
}

func (l *LRU[K]) pushFront(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

// unlink detaches node, leaving its own pointers cleared.
func (l *LRU[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}
