package stream

import (
	"fmt"
	"os"
)

// Access is the set of directions a Stream may be used in. It is computed
// once, when the Stream is created, and never re-derived.
type Access uint8

const (
	// AccessRead permits Read, ReadN, and Contents.
	AccessRead Access = 1 << iota
	// AccessWrite permits Write.
	AccessWrite

	// AccessReadWrite permits both directions.
	AccessReadWrite = AccessRead | AccessWrite
)

// Readable reports whether a includes AccessRead.
func (a Access) Readable() bool { return a&AccessRead != 0 }

// Writable reports whether a includes AccessWrite.
func (a Access) Writable() bool { return a&AccessWrite != 0 }

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "r"
	case AccessWrite:
		return "w"
	case AccessReadWrite:
		return "r+"
	}
	return "-"
}

// Mode is a parsed fopen-style mode string, like "r", "w+", or "ab".
type Mode struct {
	// Raw is the mode string as supplied.
	Raw string
	// Access is derived from Raw: readable when it contains 'r' or '+',
	// writable when it contains any of 'w', 'a', 'x', 'c', or '+'.
	Access Access
	// Flag holds the os.OpenFile flags the mode opens a path with.
	Flag int
}

// ParseMode parses an fopen-style mode string. The first character selects
// how a path is opened ('r', 'w', 'a', 'x', or 'c'); a '+' anywhere adds the
// missing direction, and 'b' and 't' are accepted and ignored.
func ParseMode(raw string) (Mode, error) {
	mode := Mode{Raw: raw}
	if raw == "" {
		return mode, fmt.Errorf("%w: empty", ErrInvalidMode)
	}
	for _, r := range raw {
		switch r {
		case 'r':
			mode.Access |= AccessRead
		case 'w', 'a', 'x', 'c':
			mode.Access |= AccessWrite
		case '+':
			mode.Access |= AccessReadWrite
		case 'b', 't':
		default:
			return Mode{}, fmt.Errorf("%w: %q", ErrInvalidMode, raw)
		}
	}

	switch raw[0] {
	case 'r':
	case 'w':
		mode.Flag = os.O_CREATE | os.O_TRUNC
	case 'a':
		mode.Flag = os.O_CREATE | os.O_APPEND
	case 'x':
		mode.Flag = os.O_CREATE | os.O_EXCL
	case 'c':
		mode.Flag = os.O_CREATE
	default:
		return Mode{}, fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}

	switch mode.Access {
	case AccessRead:
		mode.Flag |= os.O_RDONLY
	case AccessWrite:
		mode.Flag |= os.O_WRONLY
	default:
		mode.Flag |= os.O_RDWR
	}
	return mode, nil
}

// modeForAccess builds the canonical Mode for handles whose mode string is
// not known, only their access.
func modeForAccess(a Access, appending bool) Mode {
	raw := a.String()
	if appending && a == AccessWrite {
		raw = "a"
	} else if appending {
		raw = "a+"
	}
	m, err := ParseMode(raw)
	if err != nil {
		return Mode{Raw: raw, Access: a}
	}
	return m
}

// String returns the mode string.
func (m Mode) String() string {
	if m.Raw != "" {
		return m.Raw
	}
	return m.Access.String()
}
