package upfile

import (
	"context"
	"fmt"
	"io"

	"yall.in"
)

// CopyTo writes the contents of the upload to dst without moving it,
// returning the number of bytes written. The Stream is rewound first when
// it's seekable, so CopyTo can be called repeatedly.
//
// CopyTo returns stream.ErrUnavailable once the File has been moved.
func (f *File) CopyTo(ctx context.Context, dst io.Writer) (int64, error) {
	log := yall.FromContext(ctx)
	log = log.WithField("upfile.destination", fmt.Sprintf("%T", dst))
	log = log.WithField("upfile.client_filename", f.clientFilename)

	src, err := f.Stream()
	if err != nil {
		return 0, err
	}
	if src.Seekable() {
		if err := src.Rewind(); err != nil {
			return 0, fmt.Errorf("error rewinding upload: %w", err)
		}
	}

	log.Debug("[upfile] starting data copy")
	n, err := io.Copy(dst, src)
	if err != nil {
		return n, fmt.Errorf("error copying upload to %T: %w", dst, err)
	}

	log = log.WithField("upfile.size", n)
	log.Debug("[upfile] copy complete")
	return n, nil
}
