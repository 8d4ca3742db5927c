package helpers

import (
	"io"

	"github.com/juju/errors"
)

// WriteAll repeats Write until b is written, serial drivers may accept part of it.
func WriteAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return errors.Trace(err)
		}
		if n == 0 {
			return errors.Trace(io.ErrShortWrite)
		}
		b = b[n:]
	}
	return nil
}
