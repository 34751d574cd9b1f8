package cache

import "sync"

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// LRUSeen is a thread-safe LRU set of record identifiers.
type LRUSeen struct {
	mu       sync.Mutex
	entries  map[string]*lruNode
	head     *lruNode // least recently seen
	tail     *lruNode // most recently seen
	capacity int
}

func NewLRUSeen(capacity int) *LRUSeen {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUSeen{
		entries:  make(map[string]*lruNode, capacity),
		capacity: capacity,
	}
}

func (c *LRUSeen) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	nd, seenBefore := c.entries[id]
	if seenBefore {
		c.moveToTail(nd)
	}
	return seenBefore
}

func (c *LRUSeen) Mark(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if nd, seenBefore := c.entries[id]; seenBefore {
		c.moveToTail(nd)
		return nil
	}

	if len(c.entries) >= c.capacity {
		c.evictHead()
	}

	nd := &lruNode{key: id}
	c.appendToTail(nd)
	c.entries[id] = nd
	return nil
}

func (c *LRUSeen) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*lruNode, c.capacity)
	c.head = nil
	c.tail = nil
}

func (c *LRUSeen) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUSeen) appendToTail(nd *lruNode) {
	if c.tail == nil {
		c.head = nd
		c.tail = nd
		return
	}
	nd.prev = c.tail
	c.tail.next = nd
	c.tail = nd
}

func (c *LRUSeen) moveToTail(nd *lruNode) {
	if nd == c.tail {
		return
	}
	c.unlink(nd)
	c.appendToTail(nd)
}

func (c *LRUSeen) evictHead() {
	if c.head == nil {
		return
	}
	evicted := c.head
	c.unlink(evicted)
	delete(c.entries, evicted.key)
}

func (c *LRUSeen) unlink(nd *lruNode) {
	if nd == nil {
		return
	}
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		c.head = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		c.tail = nd.prev
	}
	nd.prev = nil
	nd.next = nil
}
