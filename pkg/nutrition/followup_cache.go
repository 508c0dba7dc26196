package nutrition

import (
	"strings"
	"sync"
	"time"

	"Nutrilog-Backend/domain"
)

// followupTTL bounds how long a macro discussion stays actionable for a
// terse "log that" command.
const followupTTL = 10 * time.Minute

type (
	// FollowupCache holds the single most recent unconsumed macro
	// discussion per user. Last write wins; a consumed slot cannot be
	// logged twice.
	FollowupCache interface {
		Remember(userID string, items []domain.NamedMacroItem)
		Recall(userID string) ([]domain.NamedMacroItem, bool)
		Consume(userID string)
	}

	followupSlot struct {
		items    []domain.NamedMacroItem
		setAt    time.Time
		consumed bool
	}

	followupCache struct {
		mu    sync.Mutex
		slots map[string]*followupSlot
		now   func() time.Time
	}
)

func NewFollowupCache() FollowupCache {
	return &followupCache{
		slots: make(map[string]*followupSlot),
		now:   time.Now,
	}
}

func (c *followupCache) Remember(userID string, items []domain.NamedMacroItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[userID] = &followupSlot{items: items, setAt: c.now()}
}

func (c *followupCache) Recall(userID string) ([]domain.NamedMacroItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.slots[userID]
	if !ok || slot.consumed {
		return nil, false
	}
	if c.now().Sub(slot.setAt) >= followupTTL {
		return nil, false
	}
	return slot.items, true
}

func (c *followupCache) Consume(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot, ok := c.slots[userID]; ok {
		slot.consumed = true
	}
}

// logCommandPrefixes are stripped before subset extraction.
var logCommandPrefixes = []string{"log that", "log this", "log it", "log all", "log"}

// MatchFollowupSubset filters cached items down to the ones a "log the X
// and Y" command names. An empty or bare "log" command selects everything.
// Fragments match by case-insensitive substring containment in either
// direction; the first containment wins a tie.
func MatchFollowupSubset(command string, cached []domain.NamedMacroItem) []domain.NamedMacroItem {
	phrase := strings.ToLower(strings.TrimSpace(command))
	for _, prefix := range logCommandPrefixes {
		if phrase == prefix {
			return cached
		}
		if strings.HasPrefix(phrase, prefix+" ") {
			phrase = strings.TrimSpace(strings.TrimPrefix(phrase, prefix+" "))
			break
		}
	}
	if phrase == "" {
		return cached
	}

	fragments := splitFragments(phrase)
	if len(fragments) == 0 {
		return cached
	}

	var matched []domain.NamedMacroItem
	seen := make(map[string]bool)
	for _, fragment := range fragments {
		for _, item := range cached {
			name := strings.ToLower(item.Name)
			if seen[name] {
				continue
			}
			if strings.Contains(name, fragment) || strings.Contains(fragment, name) {
				matched = append(matched, item)
				seen[name] = true
				break
			}
		}
	}
	return matched
}

func splitFragments(phrase string) []string {
	replaced := strings.ReplaceAll(phrase, " and ", ",")
	var fragments []string
	for _, part := range strings.Split(replaced, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "the ")
		part = strings.TrimSpace(part)
		if part != "" {
			fragments = append(fragments, part)
		}
	}
	return fragments
}

// BuildFollowupSentence synthesizes the parser input for matched items.
func BuildFollowupSentence(items []domain.NamedMacroItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return "I ate " + strings.Join(names, ", ")
}
