//go:build unix

package term

import (
	"os"
	"time"

	"whelk.sh/pkg/ui"
)

// reader reads terminal escape sequences and decodes them into events.
type reader struct {
	fr fileReader
}

func newReader(f *os.File) (*reader, error) {
	fr, err := newFileReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{fr}, nil
}

func (rd *reader) ReadEvent() (Event, error) {
	return readEvent(rd.fr)
}

func (rd *reader) Close() {
	rd.fr.Stop()
	rd.fr.Close()
}

// Used to signal the end of the current escape sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes within an escape sequence. Terminal emulators send whole
// sequences in one burst, so a short timeout suffices to tell a lone Escape
// key from the start of a sequence.
var keySeqTimeout = 10 * time.Millisecond

func readEvent(rd byteReaderWithTimeout) (event Event, err error) {
	var r rune
	r, err = readRune(rd, -1)
	if err != nil {
		return
	}

	currentSeq := string(r)
	// Reads a rune within keySeqTimeout, appending it to currentSeq. Returns
	// runeEndOfSeq on any error; the caller should then terminate the current
	// sequence.
	readSeqRune := func() rune {
		r, e := readRune(rd, keySeqTimeout)
		if e != nil {
			return runeEndOfSeq
		}
		currentSeq += string(r)
		return r
	}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}

	if r != 0x1b {
		return KeyEvent(ctrlModify(r)), nil
	}

	r2 := readSeqRune()
	// rxvt and derivatives prepend an extra ESC to CSI- and G3-style
	// sequences to signal Alt.
	hasTwoLeadingESC := false
	if r2 == 0x1b {
		hasTwoLeadingESC = true
		r2 = readSeqRune()
	}
	if r2 == runeEndOfSeq {
		// Nothing follows; a lone Escape.
		return KeyEvent{'[', ui.Ctrl}, nil
	}
	switch r2 {
	case '[':
		// CSI-style sequence.
		r = readSeqRune()
		if r == runeEndOfSeq {
			return KeyEvent{'[', ui.Alt}, nil
		}

		nums := make([]int, 0, 2)
		var starter rune

		switch r {
		case '<':
			// SGR-style mouse event; the parameters follow.
			starter = r
			r = readSeqRune()
		case 'M':
			// Legacy mouse event: three bytes of button and coordinates.
			return readLegacyMouse(readSeqRune, badSeq), err
		}
	CSISeq:
		for {
			switch {
			case r == ';':
				nums = append(nums, 0)
			case '0' <= r && r <= '9':
				if len(nums) == 0 {
					nums = append(nums, 0)
				}
				cur := len(nums) - 1
				nums[cur] = nums[cur]*10 + int(r-'0')
			case r == runeEndOfSeq:
				badSeq("incomplete CSI")
				return
			default: // Terminator.
				break CSISeq
			}
			r = readSeqRune()
		}
		switch {
		case starter == 0 && r == 'R':
			// Cursor position report.
			if len(nums) != 2 {
				badSeq("bad CPR")
				return
			}
			event = CursorPosition{nums[0], nums[1]}
		case starter == '<' && (r == 'm' || r == 'M'):
			if len(nums) != 3 {
				badSeq("bad SGR mouse event")
				return
			}
			down := r == 'M'
			button := nums[0] & 3
			mod := mouseModify(nums[0])
			event = MouseEvent{Pos{nums[2], nums[1]}, down, button, mod}
		case r == '~' && len(nums) == 1 && (nums[0] == 200 || nums[0] == 201):
			event = PasteSetting(nums[0] == 200)
		default:
			k := parseCSI(nums, r)
			if k == (ui.Key{}) {
				badSeq("bad CSI")
			} else {
				if hasTwoLeadingESC {
					k.Mod |= ui.Alt
				}
				event = KeyEvent(k)
			}
		}
	case 'O':
		// G3-style sequence: exactly one rune follows the O.
		r = readSeqRune()
		if r == runeEndOfSeq {
			// Nothing follows after the O; taken as Alt-O.
			return KeyEvent{'O', ui.Alt}, nil
		}
		k, ok := g3Seq[r]
		if !ok {
			badSeq("bad G3")
			return
		}
		if hasTwoLeadingESC {
			k.Mod |= ui.Alt
		}
		event = KeyEvent(k)
	default:
		// Any other rune after ESC is taken as an Alt-modified key, possibly
		// also Ctrl-modified.
		k := ctrlModify(r2)
		k.Mod |= ui.Alt
		event = KeyEvent(k)
	}
	return
}

func readLegacyMouse(readSeqRune func() rune, badSeq func(string)) Event {
	cb := readSeqRune()
	cx := readSeqRune()
	cy := readSeqRune()
	if cb == runeEndOfSeq || cx == runeEndOfSeq || cy == runeEndOfSeq {
		badSeq("incomplete mouse event")
		return nil
	}
	down := true
	button := int(cb & 3)
	if button == 3 {
		down = false
		button = -1
	}
	mod := mouseModify(int(cb))
	return MouseEvent{Pos{int(cy) - 32, int(cx) - 32}, down, button, mod}
}

// readRune reads a single UTF-8-encoded rune. A negative timeout blocks
// indefinitely for the first byte; continuation bytes always use the
// sequence timeout.
func readRune(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	leader, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return runeEndOfSeq, err
	}
	var (
		r       rune
		pending int
	)
	switch {
	case leader>>7 == 0:
		r = rune(leader)
	case leader>>5 == 0x6:
		r = rune(leader & 0x1f)
		pending = 1
	case leader>>4 == 0xe:
		r = rune(leader & 0xf)
		pending = 2
	case leader>>3 == 0x1e:
		r = rune(leader & 0x7)
		pending = 3
	default:
		return 0xfffd, nil
	}
	for i := 0; i < pending; i++ {
		b, err := rd.ReadByteWithTimeout(keySeqTimeout)
		if err != nil {
			return 0xfffd, nil
		}
		r = r<<6 + rune(b&0x3f)
	}
	return r, nil
}

// ctrlModify determines whether a rune corresponds to a Ctrl-modified key
// and returns the ui.Key the rune represents.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^J ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form.
		return ui.K(r)
	default:
		if 0x1 <= r && r <= 0x1d {
			return ui.K(r+0x40, ui.Ctrl)
		}
	}
	return ui.K(r)
}

// G3-style key sequences: \eO followed by exactly one character. Sent by
// xterm and tmux for arrow and function keys depending on mode, and by urxvt
// for Ctrl-modified arrows (lowercase).
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI-style key sequences identified by the last rune, e.g. \e[A for Up.
// When modified, two numerical arguments are added, the first always being 1
// and the second identifying the modifier, e.g. \e[1;5A for Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI-style key sequences ending in '~', identified by the first numerical
// argument, e.g. \e[3~ for Delete. An optional second argument identifies
// the modifier, e.g. \e[3;5~ for Ctrl-Delete.
var csiSeqTilde = map[int]rune{
	1: ui.Home, 4: ui.End,
	2: ui.Insert,
	3: ui.Delete,
	5: ui.PageUp, 6: ui.PageDown,
	7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// parseCSI parses a CSI-style key sequence, in both variants described
// above, plus the urxvt variant where the modifier changes the terminator
// ('$' for Shift, '^' for Ctrl, '@' for both).
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		switch {
		case len(nums) == 0:
			return k
		case len(nums) == 2 && nums[0] == 1:
			return xtermModify(k, nums[1])
		default:
			return ui.Key{}
		}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := ui.K(r)
				if len(nums) == 1 {
					return k
				}
				return xtermModify(k, nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod ui.Mod
				switch last {
				case '$':
					mod = ui.Shift
				case '^':
					mod = ui.Ctrl
				case '@':
					mod = ui.Shift | ui.Ctrl
				}
				return ui.K(r, mod)
			}
		}
	}

	return ui.Key{}
}

func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= ui.Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	if modFlags&0x8 != 0 {
		// This should be Meta, but we conflate Meta and Alt.
		k.Mod |= ui.Alt
	}
	return k
}

func mouseModify(n int) ui.Mod {
	var mod ui.Mod
	if n&4 != 0 {
		mod |= ui.Shift
	}
	if n&8 != 0 {
		mod |= ui.Alt
	}
	if n&16 != 0 {
		mod |= ui.Ctrl
	}
	return mod
}
