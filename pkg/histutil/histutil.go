// Package histutil keeps the in-memory command history: a bounded list of
// accepted lines, supporting recall navigation and prefix filtering.
package histutil

import (
	"errors"
	"strings"
)

// ErrEndOfHistory is returned by Cursor when the end of history is reached.
var ErrEndOfHistory = errors.New("end of history")

// DefaultCapacity is the number of entries a Store holds unless configured
// otherwise.
const DefaultCapacity = 64

// Store is a bounded command history. Entries are kept oldest first;
// capacity overflow evicts the oldest entry. Two equal lines accepted back
// to back are stored once.
type Store struct {
	cmds     []string
	capacity int
}

// NewStore creates an empty Store with the given capacity. A non-positive
// capacity means DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Add appends a line as the newest entry. It is a no-op when the line equals
// the current newest entry; arbitrary duplicates further back are kept. When
// the store is full the oldest entry is evicted first.
func (s *Store) Add(line string) {
	if n := len(s.cmds); n > 0 && s.cmds[n-1] == line {
		return
	}
	if len(s.cmds) == s.capacity {
		copy(s.cmds, s.cmds[1:])
		s.cmds[len(s.cmds)-1] = line
		return
	}
	s.cmds = append(s.cmds, line)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.cmds) }

// All returns the entries oldest first. The returned slice is a copy.
func (s *Store) All() []string {
	return append([]string(nil), s.cmds...)
}

// ByPrefix returns all entries starting with prefix, newest first.
func (s *Store) ByPrefix(prefix string) []string {
	var matches []string
	for i := len(s.cmds) - 1; i >= 0; i-- {
		if strings.HasPrefix(s.cmds[i], prefix) {
			matches = append(matches, s.cmds[i])
		}
	}
	return matches
}

// Cursor navigates a Store while the user pages through past commands. The
// zero value is not useful; use NewCursor.
type Cursor struct {
	store *Store
	// Index into the store, counted from the newest entry; -1 means the
	// cursor is inactive.
	index int
}

// NewCursor returns an inactive Cursor over the store.
func NewCursor(s *Store) *Cursor {
	return &Cursor{s, -1}
}

// Active returns whether the cursor points at a history entry.
func (c *Cursor) Active() bool { return c.index >= 0 }

// Reset deactivates the cursor. It is called whenever a new line is
// accepted.
func (c *Cursor) Reset() { c.index = -1 }

// Prev moves to the next older entry and returns it. The first call moves to
// the newest entry. At the oldest entry it returns ErrEndOfHistory and stays
// put; there is no wrapping.
func (c *Cursor) Prev() (string, error) {
	if c.index+1 >= c.store.Len() {
		return "", ErrEndOfHistory
	}
	c.index++
	return c.get(), nil
}

// Next moves to the next newer entry and returns it. Moving past the newest
// entry deactivates the cursor and returns ErrEndOfHistory, which signals
// "restore the line that was being composed before recall started".
func (c *Cursor) Next() (string, error) {
	if c.index < 0 {
		return "", ErrEndOfHistory
	}
	c.index--
	if c.index < 0 {
		return "", ErrEndOfHistory
	}
	return c.get(), nil
}

func (c *Cursor) get() string {
	return c.store.cmds[c.store.Len()-1-c.index]
}
