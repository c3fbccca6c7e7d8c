// Package upfile represents files received from an upload, and moves them,
// exactly once, to where they should be kept.
package upfile

import (
	"errors"

	"impractical.co/upfile/stream"
)

var (
	// ErrAlreadyMoved is returned when a File that has already been moved
	// is moved again.
	ErrAlreadyMoved = errors.New("uploaded file already moved")

	// ErrInvalidTarget is returned when a File is moved to an empty path.
	ErrInvalidTarget = errors.New("invalid target path")
)

// Opener opens the Streams a File is moved into.
type Opener interface {
	FromPath(path, mode string) (*stream.Stream, error)
	DirWritable(dir string) bool
}

var _ Opener = &stream.Factory{}

// Options holds the details of an upload reported by whatever received it.
type Options struct {
	// Size is the size of the upload in bytes. If zero and SizeKnown is
	// unset, the size of the
	// Stream is used.
	Size int64
	// SizeKnown marks Size as given even when it is zero.
	SizeKnown bool
	// Status is the outcome of the upload.
	Status Status
	// ClientFilename is the filename the client sent. It is not trusted.
	ClientFilename string
	// ClientMediaType is the media type the client sent. It is not
	// trusted.
	ClientMediaType string
}

// File is an uploaded file, backed by a Stream, that can be moved to a
// permanent location once.
//
// A File is not safe for concurrent use.
type File struct {
	stream          *stream.Stream
	opener          Opener
	size            int64
	sizeKnown       bool
	status          Status
	clientFilename  string
	clientMediaType string
	moved           bool
}

// New returns a File reading from s, which will be moved using opener.
func New(opener Opener, s *stream.Stream, opts Options) *File {
	f := &File{
		stream:          s,
		opener:          opener,
		size:            opts.Size,
		sizeKnown:       opts.SizeKnown || opts.Size != 0,
		status:          opts.Status,
		clientFilename:  opts.ClientFilename,
		clientMediaType: opts.ClientMediaType,
	}
	if !f.sizeKnown && s != nil {
		f.size, f.sizeKnown = s.Size()
	}
	return f
}

// Stream returns the Stream holding the upload. Once the File has been
// moved, stream.ErrUnavailable is returned instead.
func (f *File) Stream() (*stream.Stream, error) {
	if f.moved || f.stream == nil {
		return nil, stream.ErrUnavailable
	}
	return f.stream, nil
}

// Size returns the size of the upload. The second return value is false
// when the size isn't known.
func (f *File) Size() (int64, bool) {
	return f.size, f.sizeKnown
}

// Status returns the outcome of the upload.
func (f *File) Status() Status {
	return f.status
}

// ClientFilename returns the filename sent by the client, or an empty
// string if none was sent.
func (f *File) ClientFilename() string {
	return f.clientFilename
}

// ClientMediaType returns the media type sent by the client, or an empty
// string if none was sent.
func (f *File) ClientMediaType() string {
	return f.clientMediaType
}

// Moved reports whether the File has been moved.
func (f *File) Moved() bool {
	return f.moved
}
