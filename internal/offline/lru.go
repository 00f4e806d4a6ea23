package offline

import (
	"container/list"
	"sync"
	"time"
)

// memoryCache is a small LRU front for the SQLite store, so repeated reads in
// one run never touch disk. Entries expire on the same TTL the transport
// applies to the durable layer.
type memoryCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List
}

type memoryItem struct {
	key       string
	entry     Entry
	expiresAt time.Time
}

func newMemoryCache(maxSize int, ttl time.Duration) *memoryCache {
	return &memoryCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *memoryCache) get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}
	item := elem.Value.(*memoryItem)
	if time.Now().After(item.expiresAt) {
		c.remove(elem)
		return Entry{}, false
	}
	c.order.MoveToFront(elem)
	return item.entry, true
}

func (c *memoryCache) set(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &memoryItem{key: key, entry: e, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.order.MoveToFront(elem)
		return
	}
	c.items[key] = c.order.PushFront(item)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *memoryCache) remove(elem *list.Element) {
	item := elem.Value.(*memoryItem)
	delete(c.items, item.key)
	c.order.Remove(elem)
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
