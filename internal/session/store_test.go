package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/robochef/internal/robodb"
)

func newTestStore(maxSize int, ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(maxSize, ttl)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_PutGet(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)

	s.Put(&Session{ID: "s1", Request: robodb.GenerateRequest{Query: "borscht"}, State: StateAwaitingAnswers})

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "borscht", got.Request.Query)
	assert.Equal(t, StateAwaitingAnswers, got.State)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_TTLExpiry(t *testing.T) {
	s, now := newTestStore(10, time.Hour)

	s.Put(&Session{ID: "s1"})

	*now = now.Add(59 * time.Minute)
	_, ok := s.Get("s1")
	assert.True(t, ok)

	*now = now.Add(2 * time.Minute)
	_, ok = s.Get("s1")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestStore_CapacityEvictsLRU(t *testing.T) {
	s, _ := newTestStore(3, time.Hour)

	for i := 1; i <= 3; i++ {
		s.Put(&Session{ID: fmt.Sprintf("s%d", i)})
	}
	// Touch s1 so s2 becomes the eviction candidate.
	_, ok := s.Get("s1")
	require.True(t, ok)

	s.Put(&Session{ID: "s4"})

	assert.Equal(t, 3, s.Len())
	_, ok = s.Get("s2")
	assert.False(t, ok)
	_, ok = s.Get("s1")
	assert.True(t, ok)
	_, ok = s.Get("s4")
	assert.True(t, ok)
}

func TestStore_MergeAnswersOverwritesAndAccumulates(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	s.Put(&Session{ID: "s1"})

	merged, ok := s.MergeAnswers("s1", map[string]any{"k": "a", "servings": 2})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"k": "a", "servings": 2}, merged)

	merged, ok = s.MergeAnswers("s1", map[string]any{"k": "b"})
	require.True(t, ok)
	// Repeated key overwrites, unmentioned keys keep their value.
	assert.Equal(t, map[string]any{"k": "b", "servings": 2}, merged)

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "b", got.Answers["k"])
	assert.Equal(t, 2, got.Answers["servings"])
}

func TestStore_MergeAnswersUnknownSession(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)

	_, ok := s.MergeAnswers("nope", map[string]any{"k": "v"})
	assert.False(t, ok)
}

func TestStore_MergeAnswersReturnsCopy(t *testing.T) {
	s, _ := newTestStore(10, time.Hour)
	s.Put(&Session{ID: "s1"})

	merged, ok := s.MergeAnswers("s1", map[string]any{"k": "a"})
	require.True(t, ok)
	merged["k"] = "mutated"

	got, _ := s.Get("s1")
	assert.Equal(t, "a", got.Answers["k"])
}

func TestStore_PutRefreshesExisting(t *testing.T) {
	s, now := newTestStore(10, time.Hour)
	s.Put(&Session{ID: "s1", State: StateAwaitingAnswers})

	*now = now.Add(50 * time.Minute)
	s.Put(&Session{ID: "s1", State: StateResolved})

	*now = now.Add(50 * time.Minute)
	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, StateResolved, got.State)
	assert.Equal(t, 1, s.Len())
}
