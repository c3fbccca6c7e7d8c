package upfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"impractical.co/upfile/magicnumber"
	"impractical.co/upfile/stream"
	"yall.in"
)

// chunkSize is how many bytes are copied at a time when moving a File.
const chunkSize = 4096

// MoveOptions represents configuration parameters for optional behaviors of
// MoveTo.
type MoveOptions struct {
	// AcceptedMIMEs, if set, will only allow files with a detected MIME
	// type in the list to be moved.
	AcceptedMIMEs []string
}

// Record describes a File that has been moved.
type Record struct {
	Path            string
	Size            int64
	SHA256          string
	ContentType     string
	ClientFilename  string
	ClientMediaType string
}

// MoveTo copies the upload to targetPath, then closes and releases its
// Stream. It can succeed only once per File.
//
// Before anything is written, MoveTo returns ErrAlreadyMoved if the File was
// moved before, an error matching ErrUploadFailed if the upload didn't
// succeed, ErrInvalidTarget if targetPath is empty, and an error matching
// stream.ErrIO if the directory of targetPath isn't writable. These checks
// are made in that order, followed by stream.ErrUnavailable if the Stream was
// closed or detached and stream.ErrNotReadable if it can't be read.
//
// If copying fails, the File is not moved and its Stream stays open, so
// MoveTo may be retried. Anything already written to targetPath is left in
// place.
//
// If opts has AcceptedMIMEs set, the copied data has its MIME type checked,
// and the copy fails with magicnumber.ErrUnsupportedFile unless it matches
// one of the types listed.
func (f *File) MoveTo(ctx context.Context, targetPath string, opts MoveOptions) (Record, error) {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.opener", fmt.Sprintf("%T", f.opener))
	log = log.WithField("upfile.target", targetPath)
	log = log.WithField("upfile.client_filename", f.clientFilename)

	if f.moved {
		return Record{}, ErrAlreadyMoved
	}
	if err := f.status.Err(); err != nil {
		log.WithField("upfile.status", int(f.status)).Debug("[upfile] refusing to move failed upload")
		return Record{}, err
	}
	if strings.TrimSpace(targetPath) == "" {
		return Record{}, ErrInvalidTarget
	}
	dir := filepath.Dir(targetPath)
	if !f.opener.DirWritable(dir) {
		return Record{}, fmt.Errorf("%w: directory %q is not writable", stream.ErrIO, dir)
	}
	if f.stream == nil || !f.stream.Available() {
		return Record{}, stream.ErrUnavailable
	}
	// nothing may touch targetPath unless the upload can actually be read
	if !f.stream.Readable() {
		return Record{}, fmt.Errorf("error reading upload: %w", stream.ErrNotReadable)
	}

	log.Debug("[upfile] starting move")
	rec, err := f.copyTo(targetPath, opts)
	if err != nil {
		log.WithField("error", err.Error()).Debug("[upfile] move failed")
		return Record{}, err
	}
	log = log.WithField("upfile.size", rec.Size)
	log = log.WithField("upfile.sha256", rec.SHA256)

	if err := f.stream.Close(); err != nil {
		// the data is already in place; a leaked source handle isn't worth
		// failing the move for
		log.WithField("error", err.Error()).Debug("[upfile] error closing source stream")
	}
	f.stream = nil
	f.moved = true

	log.Debug("[upfile] completed move")
	return rec, nil
}

func (f *File) copyTo(targetPath string, opts MoveOptions) (rec Record, err error) {
	src := f.stream
	if src.Seekable() {
		if err := src.Rewind(); err != nil {
			return Record{}, fmt.Errorf("error rewinding upload: %w", err)
		}
	}

	dst, err := f.opener.FromPath(targetPath, "w")
	if err != nil {
		return Record{}, fmt.Errorf("error opening %s: %w", targetPath, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %s: %w", targetPath, closeErr)
		}
	}()

	hasher := sha256.New()
	checker := &magicnumber.Checker{SupportedMIMEs: opts.AcceptedMIMEs}

	var size int64
	for !src.EOF() {
		chunk, err := src.ReadN(chunkSize)
		if err != nil {
			return Record{}, fmt.Errorf("error reading upload: %w", err)
		}
		if len(chunk) == 0 {
			continue
		}
		if _, err := checker.Write(chunk); err != nil {
			return Record{}, err
		}
		if _, err := dst.Write(chunk); err != nil {
			return Record{}, fmt.Errorf("error writing %s: %w", targetPath, err)
		}
		hasher.Write(chunk) //nolint:errcheck // hash.Hash never returns an error
		size += int64(len(chunk))
	}
	if err := checker.Close(); err != nil {
		return Record{}, err
	}

	return Record{
		Path:            targetPath,
		Size:            size,
		SHA256:          hex.EncodeToString(hasher.Sum(nil)),
		ContentType:     checker.MatchedMIME,
		ClientFilename:  f.clientFilename,
		ClientMediaType: f.clientMediaType,
	}, nil
}
