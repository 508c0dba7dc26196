package nutrition

import (
	"testing"
	"time"

	"Nutrilog-Backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discussionItems() []domain.NamedMacroItem {
	return []domain.NamedMacroItem{
		{Name: "Prime Rib", Macros: domain.Macros{Kcal: 340, ProteinG: 28, FatG: 24}},
		{Name: "Scrambled Eggs", Macros: domain.Macros{Kcal: 180, ProteinG: 12, FatG: 13}},
		{Name: "Toast", Macros: domain.Macros{Kcal: 80, ProteinG: 3, CarbsG: 15}},
	}
}

func TestFollowupCache_RememberRecallConsume(t *testing.T) {
	current := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cache := &followupCache{
		slots: make(map[string]*followupSlot),
		now:   func() time.Time { return current },
	}

	_, ok := cache.Recall("user-1")
	assert.False(t, ok)

	cache.Remember("user-1", discussionItems())
	got, ok := cache.Recall("user-1")
	require.True(t, ok)
	assert.Len(t, got, 3)

	// a consumed slot cannot be logged twice
	cache.Consume("user-1")
	_, ok = cache.Recall("user-1")
	assert.False(t, ok)

	// a new discussion reopens the slot
	cache.Remember("user-1", discussionItems()[:1])
	got, ok = cache.Recall("user-1")
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestFollowupCache_TTLExpiry(t *testing.T) {
	current := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cache := &followupCache{
		slots: make(map[string]*followupSlot),
		now:   func() time.Time { return current },
	}

	cache.Remember("user-1", discussionItems())

	current = current.Add(followupTTL - time.Second)
	_, ok := cache.Recall("user-1")
	assert.True(t, ok)

	current = current.Add(time.Second)
	_, ok = cache.Recall("user-1")
	assert.False(t, ok, "a discussion at the TTL boundary is no longer actionable")
}

func TestFollowupCache_SlotsArePerUser(t *testing.T) {
	cache := NewFollowupCache()
	cache.Remember("user-1", discussionItems())

	_, ok := cache.Recall("user-2")
	assert.False(t, ok)
}

func TestMatchFollowupSubset(t *testing.T) {
	cached := discussionItems()

	t.Run("bare command selects everything", func(t *testing.T) {
		for _, command := range []string{"log that", "log this", "log it", "Log all", "log"} {
			got := MatchFollowupSubset(command, cached)
			assert.Len(t, got, 3, "command %q", command)
		}
	})

	t.Run("named subset excludes the rest", func(t *testing.T) {
		got := MatchFollowupSubset("Log the prime rib and eggs", cached)
		require.Len(t, got, 2)
		assert.Equal(t, "Prime Rib", got[0].Name)
		assert.Equal(t, "Scrambled Eggs", got[1].Name)
	})

	t.Run("comma separated fragments", func(t *testing.T) {
		got := MatchFollowupSubset("log the toast, eggs", cached)
		require.Len(t, got, 2)
		assert.Equal(t, "Toast", got[0].Name)
		assert.Equal(t, "Scrambled Eggs", got[1].Name)
	})

	t.Run("no fragment matches yields empty", func(t *testing.T) {
		got := MatchFollowupSubset("log the pancakes", cached)
		assert.Empty(t, got)
	})

	t.Run("each cached item matches at most once", func(t *testing.T) {
		got := MatchFollowupSubset("log the eggs and eggs", cached)
		assert.Len(t, got, 1)
	})
}

func TestBuildFollowupSentence(t *testing.T) {
	got := BuildFollowupSentence(discussionItems()[:2])
	assert.Equal(t, "I ate Prime Rib, Scrambled Eggs", got)
}
