package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// contentMode is the mode of streams created from literal content.
const contentMode = "rw+"

// Factory opens Streams on a go-billy filesystem.
type Factory struct {
	fs     billy.Basic
	native bool
}

// NewFactory returns a Factory that opens paths on fsys.
func NewFactory(fsys billy.Basic) *Factory {
	return &Factory{
		fs: fsys,
	}
}

// NewOSFactory returns a Factory that opens paths on the native filesystem.
// Relative paths are resolved against the working directory.
func NewOSFactory() *Factory {
	return &Factory{
		fs:     &osfs.ChrootOS{},
		native: true,
	}
}

// FromContent returns a new readable and writable in-memory Stream holding
// content, positioned at its start.
func (f *Factory) FromContent(content []byte) (*Stream, error) {
	mode, err := ParseMode(contentMode)
	if err != nil {
		return nil, err
	}
	mem := memfs.New()
	const name = "/stream"
	file, err := mem.OpenFile(name, mode.Flag|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, ioError("open", fmt.Errorf("billy: openfile %q: %w", name, err))
	}
	h := &billyHandle{File: file, fs: mem, path: name}
	if _, err := h.Write(content); err != nil {
		_ = h.Close()
		return nil, ioError("write", err)
	}
	if _, err := h.Seek(0, io.SeekStart); err != nil {
		_ = h.Close()
		return nil, ioError("seek", err)
	}
	return New(h, mode)
}

// FromPath opens the file at path with an fopen-style mode string.
func (f *Factory) FromPath(path, mode string) (*Stream, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	file, err := f.fs.OpenFile(path, m.Flag, 0o666)
	if err != nil {
		return nil, ioError("open", fmt.Errorf("could not open file %s with mode %s: %w", path, mode, err))
	}
	return New(&billyHandle{File: file, fs: f.fs, path: path}, m)
}

// Wrap returns a Stream owning h. The access mode of an *os.File (or
// anything else exposing a file descriptor) is read from the operating
// system; other handles are assumed readable and writable.
func (f *Factory) Wrap(h Handle) (*Stream, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: nil handle", ErrUnavailable)
	}
	mode := modeForAccess(AccessReadWrite, false)
	if fd, ok := h.(interface{ Fd() uintptr }); ok {
		access, appending, err := fdAccess(fd.Fd())
		if err != nil {
			return nil, fmt.Errorf("%w: not an open stream: %w", ErrUnavailable, err)
		}
		mode = modeForAccess(access, appending)
	}
	return New(h, mode)
}

// DirWritable reports whether new files can be created in dir.
func (f *Factory) DirWritable(dir string) bool {
	info, err := f.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	if f.native {
		return dirAccessible(dir)
	}
	return info.Mode().Perm()&0o222 != 0
}
