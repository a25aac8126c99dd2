// Package iox holds small I/O helpers; its ErrWriter backs the CLI's
// microcode ROM-plane cache writer.
package iox

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and latches the first error it sees:
// subsequent Write calls become no-ops that keep returning it. This
// lets a writer chain several unconditional Write calls (a byte image,
// a ROM plane, a chunked upload buffer) and check err once at the end,
// adapted from db47h-ngaro's internal/ngi.ErrWriter.
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter wraps w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (e *ErrWriter) Write(p []byte) (n int, err error) {
	if e.Err != nil {
		return 0, e.Err
	}
	n, err = e.w.Write(p)
	if err != nil {
		e.Err = errors.Wrap(err, "write failed")
	}
	return n, e.Err
}
