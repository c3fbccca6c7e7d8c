package upfile

import (
	"errors"
	"fmt"
)

// Status is the outcome of receiving an upload, as reported by whatever
// accepted it. The values match the conventional upload error codes.
type Status int

const (
	// StatusOK means the upload was received in full.
	StatusOK Status = 0
	// StatusExceedsServerSize means the upload was larger than the
	// server allows.
	StatusExceedsServerSize Status = 1
	// StatusExceedsFormSize means the upload was larger than the form
	// declared it could be.
	StatusExceedsFormSize Status = 2
	// StatusPartial means only part of the upload was received.
	StatusPartial Status = 3
	// StatusNoFile means no file was uploaded.
	StatusNoFile Status = 4
	// StatusNoTempDir means there was nowhere to store the upload.
	StatusNoTempDir Status = 6
	// StatusCantWrite means the upload could not be written to disk.
	StatusCantWrite Status = 7
	// StatusExtension means an extension stopped the upload.
	StatusExtension Status = 8
)

var statusText = map[Status]string{
	StatusOK:                "ok",
	StatusExceedsServerSize: "exceeds server maximum size",
	StatusExceedsFormSize:   "exceeds form maximum size",
	StatusPartial:           "partially uploaded",
	StatusNoFile:            "no file uploaded",
	StatusNoTempDir:         "missing temporary directory",
	StatusCantWrite:         "failed to write to disk",
	StatusExtension:         "stopped by extension",
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("unknown upload status %d", int(s))
}

// ErrUploadFailed is matched by the error returned when an upload that
// didn't succeed is moved.
var ErrUploadFailed = errors.New("upload failed")

// StatusError carries the Status of a failed upload.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUploadFailed, e.Status)
}

// Is lets StatusError match ErrUploadFailed.
func (e *StatusError) Is(target error) bool {
	return target == ErrUploadFailed
}

// Err returns nil for StatusOK and a *StatusError for any other Status.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return &StatusError{Status: s}
}
