package edit

import "whelk.sh/pkg/histutil"

// suggestions tracks the completion candidates for the current buffer
// prefix, and which of them is selected. It is recomputed from scratch on
// every text change; the completion key advances the selection cyclically.
type suggestions struct {
	items []string
	// Index of the selected candidate; -1 for no selection.
	selected int
}

// refresh recomputes the candidates for the given prefix and clears the
// selection.
func (s *suggestions) refresh(store *histutil.Store, prefix string) {
	s.items = store.ByPrefix(prefix)
	s.selected = -1
}

// advance moves the selection to the next candidate, wrapping to the first
// after the last. It reports whether there was any candidate to select.
// Wrapping means the originally typed prefix is not restored by cycling past
// the end; this is a documented simplification.
func (s *suggestions) advance() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	if s.selected >= len(s.items)-1 || s.selected < 0 {
		s.selected = 0
	} else {
		s.selected++
	}
	return s.items[s.selected], true
}
