package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/BRuslanB/OrderService/internal/cache"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/metrics"
)

// Проверка, что ResponseCache удовлетворяет интерфейсу ResponseCache.
var _ ports.ResponseCache = (*ResponseCache)(nil)

type entry struct {
	key       string
	payload   []byte
	expiresAt time.Time
}

// ResponseCache — in-process кэш ответов: LRU с TTL.
// Используется в тестах и в конфигурации без Redis.
// Хранит копии payload, чтобы вызывающий не мог изменить данные внутри кэша.
type ResponseCache struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewResponseCache(capacity int, ttl time.Duration) *ResponseCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResponseCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (c *ResponseCache) Get(_ context.Context, key string) ([]byte, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return clonePayload(ent.payload), true
}

func (c *ResponseCache) Set(_ context.Context, key string, payload []byte) error {
	if key == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*entry)
		ent.payload = clonePayload(payload)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		key:       key,
		payload:   clonePayload(payload),
		expiresAt: c.expiryFrom(now),
	})
	c.index[key] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
	return nil
}

func (c *ResponseCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if elem, ok := c.index[key]; ok {
			c.removeElement(elem)
			metrics.CacheOps.WithLabelValues("invalidated").Inc()
		}
	}
	metrics.CacheSize.Set(float64(len(c.index)))
	return nil
}

// InvalidateViews — сброс всех агрегатных представлений; точечные записи остаются.
func (c *ResponseCache) InvalidateViews(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeMatching(func(key string) bool { return cache.IsView(key) })
	return nil
}

// InvalidateAll — полный сброс кэша.
func (c *ResponseCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeMatching(func(string) bool { return true })
	return nil
}

// ------вспомогательные функции------

func (c *ResponseCache) removeMatching(match func(key string) bool) {
	for key, elem := range c.index {
		if match(key) {
			c.removeElement(elem)
			metrics.CacheOps.WithLabelValues("invalidated").Inc()
		}
	}
	metrics.CacheSize.Set(float64(len(c.index)))
}

func (c *ResponseCache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

func (c *ResponseCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.index, ent.key)
	}
	c.ll.Remove(elem)
}

func (c *ResponseCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *ResponseCache) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

func (c *ResponseCache) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for {
		back := c.ll.Back()
		if back == nil {
			return
		}
		ent := back.Value.(*entry)
		if now.After(ent.expiresAt) {
			c.removeElement(back)
			metrics.CacheOps.WithLabelValues("expired").Inc()
			metrics.CacheSize.Set(float64(len(c.index)))
			continue
		}
		return
	}
}

func clonePayload(payload []byte) []byte {
	if payload == nil {
		return nil
	}
	return append([]byte(nil), payload...)
}
