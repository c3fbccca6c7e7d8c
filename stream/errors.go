package stream

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrUnavailable is returned when an operation is attempted on a Stream
	// whose handle has already been closed or detached.
	ErrUnavailable = fmt.Errorf("stream resource is not available: %w", fs.ErrClosed)

	// ErrNotReadable is returned by the read operations of a Stream that
	// was not opened for reading.
	ErrNotReadable = fmt.Errorf("stream resource is not readable: %w", fs.ErrPermission)

	// ErrNotWritable is returned by Write on a Stream that was not opened
	// for writing.
	ErrNotWritable = fmt.Errorf("stream resource is not writable: %w", fs.ErrPermission)

	// ErrIO is wrapped by every error caused by a failing call to the
	// underlying handle.
	ErrIO = errors.New("stream i/o failure")

	// ErrInvalidMode is returned when a mode string can't be parsed.
	ErrInvalidMode = errors.New("invalid stream mode")

	errNegativeLength = errors.New("negative length")
	errNegativePos    = errors.New("position before start of stream")
	errBadWhence      = errors.New("invalid whence")
)

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
