// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package cache is a bounded, time-expiring in-memory cache keyed by a
// stable hash of a canonicalized JSON payload. It memoizes collaborator
// responses for identical inputs.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Key returns a stable content-addressed key for payload under prefix.
// JSON marshaling sorts map keys, so equal payloads hash equally.
func Key(prefix string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payloads are our own marshalable types; fall back to the
		// unhashed representation rather than failing a request.
		raw = fmt.Appendf(nil, "%+v", payload)
	}
	sum := sha256.Sum256(raw)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

type item struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a TTL + LRU bounded key-value store.
type Cache struct {
	mu sync.Mutex

	items   map[string]*list.Element
	lru     *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// New returns a Cache holding at most maxSize entries, each expiring
// ttl after it was set.
func New(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false on a miss or expiry.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	it := elem.Value.(*item)
	if c.now().After(it.expiresAt) {
		c.lru.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return it.value, true
}

// Set stores value under key, evicting the least recently used entry
// when full.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		it := elem.Value.(*item)
		it.value = value
		it.expiresAt = c.now().Add(c.ttl)
		c.lru.MoveToFront(elem)
		return
	}

	for c.lru.Len() >= c.maxSize {
		if back := c.lru.Back(); back != nil {
			c.lru.Remove(back)
			delete(c.items, back.Value.(*item).key)
		}
	}
	c.items[key] = c.lru.PushFront(&item{key: key, value: value, expiresAt: c.now().Add(c.ttl)})
}

// Len returns the number of entries, counting any not yet evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
