package magicnumber

import (
	"errors"

	"github.com/h2non/filetype"
)

// the minimum number of bytes needed to determine the MIME type.
const minBytesNeeded = 261

// ErrUnsupportedFile is returned when the detected MIME type of the file isn't
// in the SupportedMIMEs list or the file is not large enough for us to detect
// a MIME type on it.
var ErrUnsupportedFile = errors.New("unsupported file")

// Checker is an io.WriteCloser that sniffs the MIME type of the data written
// to it.
//
// With SupportedMIMEs set, only the listed types are accepted: MatchedMIME is
// set to the type matched, and ErrUnsupportedFile is returned from Write as
// soon as an unlisted type is seen, or from Close if no type was detected.
//
// With SupportedMIMEs empty, the Checker only detects: MatchedMIME is set to
// whatever type is recognised, and no error is ever returned.
type Checker struct {
	buf            []byte
	SupportedMIMEs []string
	MatchedMIME    string
	done           bool
}

// Write buffers the incoming data until enough of it is available to look for
// magic number bytes. Once the type is decided, no more data is kept in
// memory and the function is a no-op.
func (m *Checker) Write(b []byte) (int, error) {
	if m.done {
		return len(b), nil
	}
	m.buf = append(m.buf, b...)
	if len(m.buf) < minBytesNeeded {
		return len(b), nil
	}
	return len(b), m.decide()
}

func (m *Checker) decide() error {
	m.done = true
	defer func() { m.buf = nil }()
	if len(m.SupportedMIMEs) == 0 {
		kind, err := filetype.Match(m.buf)
		if err == nil && kind != filetype.Unknown {
			m.MatchedMIME = kind.MIME.Value
		}
		return nil
	}
	for _, mime := range m.SupportedMIMEs {
		if filetype.IsMIME(m.buf, mime) {
			m.MatchedMIME = mime
			return nil
		}
	}
	return ErrUnsupportedFile
}

// Close makes a last attempt at detection for data shorter than the usual
// detection window. It returns ErrUnsupportedFile if SupportedMIMEs is set
// and none of them was matched.
func (m *Checker) Close() error {
	if !m.done && len(m.buf) > 0 {
		// the result is reported below
		_ = m.decide()
	}
	if m.MatchedMIME != "" || len(m.SupportedMIMEs) == 0 {
		return nil
	}
	return ErrUnsupportedFile
}
