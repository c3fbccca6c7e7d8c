// Package stream wraps a single byte-stream handle (a file, an in-memory
// buffer, or a pipe) behind a uniform, fail-fast API.
//
// A Stream is either available, while it owns its handle, or unavailable,
// once the handle has been closed or detached. The transition is one-way.
// Every operation other than Close, Detach, Metadata, and the capability
// queries fails with ErrUnavailable on an unavailable Stream.
//
// A Stream is not safe for concurrent use.
package stream

import (
	"errors"
	"fmt"
	"io"
)

// Metadata keys reported by Stream.Metadata.
const (
	MetaURI      = "uri"
	MetaMode     = "mode"
	MetaSeekable = "seekable"
	MetaEOF      = "eof"
)

// Metadata describes an available Stream.
type Metadata map[string]any

// Stream is an owned byte-stream handle with an access mode fixed at
// creation time.
type Stream struct {
	h        Handle // nil once closed or detached
	mode     Mode
	uri      string
	seekable bool
	eof      bool
}

// New wraps h, which must be open, in a Stream. mode describes how h was
// opened; it decides whether the Stream is readable and writable.
func New(h Handle, mode Mode) (*Stream, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil handle", ErrUnavailable)
	}
	s := &Stream{
		h:    h,
		mode: mode,
	}
	if n, ok := h.(namer); ok {
		s.uri = n.Name()
	}
	// pipes and sockets refuse to report a position
	if _, err := h.Seek(0, io.SeekCurrent); err == nil {
		s.seekable = true
	}
	return s, nil
}

// Available reports whether the Stream still owns its handle.
func (s *Stream) Available() bool {
	return s.h != nil
}

func (s *Stream) available() error {
	if s.h == nil {
		return ErrUnavailable
	}
	return nil
}

// String returns the whole contents of the Stream, rewinding first if the
// Stream is seekable. Any error results in an empty string.
func (s *Stream) String() string {
	if s.Seekable() {
		if err := s.Rewind(); err != nil {
			return ""
		}
	}
	b, err := s.Contents()
	if err != nil {
		return ""
	}
	return string(b)
}

// Close releases the handle and makes the Stream unavailable. Closing an
// unavailable Stream is a no-op. The Stream becomes unavailable even if
// releasing the handle fails; that error is returned.
func (s *Stream) Close() error {
	if s.h == nil {
		return nil
	}
	err := s.h.Close()
	s.Detach()
	if err != nil {
		return ioError("close", err)
	}
	return nil
}

// Detach makes the Stream unavailable and hands its handle, unreleased, to
// the caller. It returns nil if the Stream is already unavailable.
func (s *Stream) Detach() Handle {
	h := s.h
	s.h = nil
	return h
}

// Size returns the length of the underlying resource. The second return
// value is false when the Stream is unavailable or the size can't be
// determined.
func (s *Stream) Size() (int64, bool) {
	if s.h == nil {
		return 0, false
	}
	st, ok := s.h.(stater)
	if !ok {
		return 0, false
	}
	info, err := st.Stat()
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// Tell returns the current offset into the Stream.
func (s *Stream) Tell() (int64, error) {
	if err := s.available(); err != nil {
		return 0, err
	}
	pos, err := s.h.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, ioError("tell", err)
	}
	return pos, nil
}

// EOF reports whether a read has reached the end of the Stream. An
// unavailable Stream is always at EOF.
func (s *Stream) EOF() bool {
	return s.h == nil || s.eof
}

// Seekable reports whether the Stream is available and supports Seek.
func (s *Stream) Seekable() bool {
	return s.h != nil && s.seekable
}

// Seek moves the offset of the Stream, interpreting whence like io.Seeker.
// Seeking to a position before the start of the Stream fails and leaves the
// offset where it was.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if err := s.available(); err != nil {
		return 0, err
	}
	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, ioError("seek", fmt.Errorf("%w %d", errBadWhence, whence))
	}
	if !s.seekable {
		return 0, ioError("seek", errors.New("stream is not seekable"))
	}
	prev, err := s.h.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, ioError("seek", err)
	}
	pos, err := s.h.Seek(offset, whence)
	if err != nil {
		return prev, ioError("seek", err)
	}
	// some handles, like in-memory files, accept negative positions
	if pos < 0 {
		if _, err := s.h.Seek(prev, io.SeekStart); err != nil {
			return 0, ioError("seek", err)
		}
		return prev, ioError("seek", errNegativePos)
	}
	s.eof = false
	return pos, nil
}

// Rewind seeks to the start of the Stream.
func (s *Stream) Rewind() error {
	_, err := s.Seek(0, io.SeekStart)
	return err
}

// Writable reports whether the Stream is available and was opened for
// writing.
func (s *Stream) Writable() bool {
	return s.h != nil && s.mode.Access.Writable()
}

// Write writes p at the current offset, returning the number of bytes
// written.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.available(); err != nil {
		return 0, err
	}
	if !s.mode.Access.Writable() {
		return 0, ErrNotWritable
	}
	n, err := s.h.Write(p)
	if err != nil {
		return n, ioError("write", err)
	}
	if n > 0 {
		s.eof = false
	}
	return n, nil
}

// Readable reports whether the Stream is available and was opened for
// reading.
func (s *Stream) Readable() bool {
	return s.h != nil && s.mode.Access.Readable()
}

func (s *Stream) readable() error {
	if err := s.available(); err != nil {
		return err
	}
	if !s.mode.Access.Readable() {
		return ErrNotReadable
	}
	return nil
}

// Read implements io.Reader, returning io.EOF once the end of the Stream is
// reached.
func (s *Stream) Read(p []byte) (int, error) {
	if err := s.readable(); err != nil {
		return 0, err
	}
	n, err := s.h.Read(p)
	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	if err != nil {
		return n, ioError("read", err)
	}
	return n, nil
}

// ReadN reads up to length bytes. Fewer bytes are returned only when the end
// of the Stream is reached, after which EOF reports true.
func (s *Stream) ReadN(length int) ([]byte, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ioError("read", fmt.Errorf("%w %d", errNegativeLength, length))
	}
	// length is only an upper bound; don't allocate it up front
	buf, err := io.ReadAll(io.LimitReader(s.h, int64(length)))
	if err != nil {
		return nil, ioError("read", err)
	}
	if len(buf) < length {
		s.eof = true
	}
	return buf, nil
}

// Contents reads everything from the current offset to the end of the
// Stream.
func (s *Stream) Contents() ([]byte, error) {
	if err := s.readable(); err != nil {
		return nil, err
	}
	b, err := io.ReadAll(s.h)
	if err != nil {
		return nil, ioError("read", err)
	}
	s.eof = true
	return b, nil
}

// Metadata returns a description of the Stream, or nil if the Stream is
// unavailable.
func (s *Stream) Metadata() Metadata {
	if s.h == nil {
		return nil
	}
	return Metadata{
		MetaURI:      s.uri,
		MetaMode:     s.mode.String(),
		MetaSeekable: s.seekable,
		MetaEOF:      s.eof,
	}
}

// MetadataValue returns a single Metadata entry. The second return value is
// false when the Stream is unavailable or the key doesn't exist.
func (s *Stream) MetadataValue(key string) (any, bool) {
	v, ok := s.Metadata()[key]
	return v, ok
}

// Mode returns the mode the Stream was opened with.
func (s *Stream) Mode() Mode {
	return s.mode
}
