package reminder

import "github.com/google/uuid"

// Kind distinguishes the three reminder triggers.
type Kind string

const (
	KindDaily Kind = "daily"
	KindHour  Kind = "hour"
	KindHalf  Kind = "half"
)

// Key identifies one delivered reminder: a (task, assignee, kind, day) tuple.
// Day is a "YYYY-MM-DD" string, which scopes deduplication to one calendar
// day and sorts lexicographically in date order.
type Key struct {
	TaskID     uuid.UUID
	AssigneeID string
	Kind       Kind
	Day        string
}

// SentCache records which reminders have already fired. It is owned by a
// single scheduler goroutine: no other component reads or writes it, so it
// carries no lock. It starts empty at process start and grows as reminders
// fire; Evict drops days that have aged out so long-lived processes do not
// leak one day-key set per calendar day forever.
type SentCache struct {
	entries map[Key]struct{}
}

// NewSentCache returns an empty cache.
func NewSentCache() *SentCache {
	return &SentCache{entries: make(map[Key]struct{})}
}

// MarkIfNew records k and reports whether it was absent. A true result means
// the caller owns this reminder's single delivery attempt; the mark is
// permanent for the day regardless of whether that delivery succeeds.
func (c *SentCache) MarkIfNew(k Key) bool {
	if _, seen := c.entries[k]; seen {
		return false
	}
	c.entries[k] = struct{}{}
	return true
}

// Evict drops every key whose day is strictly before cutoffDay and returns
// how many were removed.
func (c *SentCache) Evict(cutoffDay string) int {
	n := 0
	for k := range c.entries {
		if k.Day < cutoffDay {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len reports how many keys are currently held.
func (c *SentCache) Len() int { return len(c.entries) }
