// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package session tracks clarification sessions across generation
// rounds. The store is bounded and time-evicting so abandoned sessions
// cannot grow the table without limit.
package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/curioswitch/robochef/internal/robodb"
)

// State is the logical state of a session after its last round.
type State string

const (
	// StateCreated is the state immediately after the first round
	// completes, before its outcome is recorded.
	StateCreated State = "created"
	// StateAwaitingAnswers means the last plan carried open questions.
	StateAwaitingAnswers State = "awaiting_answers"
	// StateResolved means the last plan carried no open questions. A
	// resolved session can still be driven through another round.
	StateResolved State = "resolved"
)

// Session is the per-request state carried across clarification rounds.
type Session struct {
	// ID is the opaque session identifier.
	ID string

	// Request is the original generation request.
	Request robodb.GenerateRequest

	// Canonical is the recipe extracted for the first round. It is
	// never re-extracted on continuation.
	Canonical robodb.CanonicalRecipe

	// Answers are the accumulated user answers, keyed by question key.
	Answers map[string]any

	// LastQuestions is the question set most recently returned.
	LastQuestions []map[string]any

	// State is the outcome of the last round.
	State State

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// Store is a bounded, TTL-evicting session table. Expired entries are
// dropped lazily on access and the least recently used entry is dropped
// when the table is full.
type Store struct {
	mu sync.Mutex

	items   map[string]*list.Element
	lru     *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// NewStore returns a Store holding at most maxSize sessions, each
// expiring ttl after its last update.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put inserts or refreshes a session.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess.UpdatedAt = now

	if elem, ok := s.items[sess.ID]; ok {
		elem.Value.(*entry).session = sess
		elem.Value.(*entry).expiresAt = now.Add(s.ttl)
		s.lru.MoveToFront(elem)
		return
	}

	for s.lru.Len() >= s.maxSize {
		s.evictOldest()
	}
	s.items[sess.ID] = s.lru.PushFront(&entry{session: sess, expiresAt: now.Add(s.ttl)})
}

// Get returns the session for id, or false if it is unknown or expired.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if s.now().After(ent.expiresAt) {
		s.remove(elem)
		return nil, false
	}
	s.lru.MoveToFront(elem)
	return ent.session, true
}

// MergeAnswers merges answers into the session's accumulated answer
// set, key-wise, overwriting repeated keys and never deleting. It
// returns the merged set, or false if the session is unknown or
// expired. The merge holds the store lock so concurrent continuations
// against one session cannot interleave within a single merge.
func (s *Store) MergeAnswers(id string, answers map[string]any) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if s.now().After(ent.expiresAt) {
		s.remove(elem)
		return nil, false
	}

	sess := ent.session
	if sess.Answers == nil {
		sess.Answers = make(map[string]any, len(answers))
	}
	for k, v := range answers {
		sess.Answers[k] = v
	}

	merged := make(map[string]any, len(sess.Answers))
	for k, v := range sess.Answers {
		merged[k] = v
	}
	return merged, true
}

// Len returns the number of live entries, counting any not yet evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Store) evictOldest() {
	if elem := s.lru.Back(); elem != nil {
		s.remove(elem)
	}
}

func (s *Store) remove(elem *list.Element) {
	s.lru.Remove(elem)
	delete(s.items, elem.Value.(*entry).session.ID)
}
