package stream

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"
)

// Handle is the byte-stream resource a Stream owns. *os.File satisfies it.
type Handle interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// stater is implemented by handles that can report their size.
type stater interface {
	Stat() (fs.FileInfo, error)
}

// namer is implemented by handles that know their own name.
type namer interface {
	Name() string
}

// billyHandle adapts a billy.File, which can't stat itself, into a Handle
// that can.
type billyHandle struct {
	billy.File
	fs   billy.Basic
	path string
}

// Stat returns the file info of the path the file was opened at.
func (h *billyHandle) Stat() (fs.FileInfo, error) {
	info, err := h.fs.Stat(h.path)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", h.path, err)
	}
	return info, nil
}

// Name returns the path the file was opened at.
func (h *billyHandle) Name() string {
	return h.path
}
