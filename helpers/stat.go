package helpers

import (
	"expvar"
	"io"
)

// StatReader counts bytes passed through, e.g. serial traffic.
type StatReader struct {
	R io.Reader
	V *expvar.Int
}

var _ io.Reader = &StatReader{}

func NewStatReader(r io.Reader, v *expvar.Int) *StatReader {
	return &StatReader{R: r, V: v}
}

func (sr *StatReader) Read(p []byte) (n int, err error) {
	n, err = sr.R.Read(p)
	sr.V.Add(int64(n))
	return
}

type StatWriter struct {
	W io.Writer
	V *expvar.Int
}

var _ io.Writer = &StatWriter{}

func NewStatWriter(w io.Writer, v *expvar.Int) *StatWriter {
	return &StatWriter{W: w, V: v}
}

func (sw *StatWriter) Write(p []byte) (n int, err error) {
	n, err = sw.W.Write(p)
	sw.V.Add(int64(n))
	return
}
