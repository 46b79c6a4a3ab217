package edit

import "unicode/utf8"

// buffer is the line being edited: its content and the dot (the cursor), a
// byte offset into the content. All operations move by whole runes and are
// no-ops at the buffer boundaries, so the dot always addresses a valid
// insertion point.
type buffer struct {
	content string
	dot     int
}

func (b *buffer) insert(r rune) {
	b.content = b.content[:b.dot] + string(r) + b.content[b.dot:]
	b.dot += utf8.RuneLen(r)
}

// backspace removes the rune before the dot.
func (b *buffer) backspace() {
	if b.dot == 0 {
		return
	}
	_, w := utf8.DecodeLastRuneInString(b.content[:b.dot])
	b.content = b.content[:b.dot-w] + b.content[b.dot:]
	b.dot -= w
}

// deleteAtDot removes the rune under the dot; the dot does not move.
func (b *buffer) deleteAtDot() {
	if b.dot == len(b.content) {
		return
	}
	_, w := utf8.DecodeRuneInString(b.content[b.dot:])
	b.content = b.content[:b.dot] + b.content[b.dot+w:]
}

func (b *buffer) left() {
	if b.dot == 0 {
		return
	}
	_, w := utf8.DecodeLastRuneInString(b.content[:b.dot])
	b.dot -= w
}

func (b *buffer) right() {
	if b.dot == len(b.content) {
		return
	}
	_, w := utf8.DecodeRuneInString(b.content[b.dot:])
	b.dot += w
}

func (b *buffer) home() { b.dot = 0 }

func (b *buffer) end() { b.dot = len(b.content) }

// replaceAll replaces the whole content and puts the dot at the end. Used by
// history recall and completion.
func (b *buffer) replaceAll(text string) {
	b.content = text
	b.dot = len(text)
}
