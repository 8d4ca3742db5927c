package plm

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
)

const readChunk = 64

// Handler receives decoded message and its frame bytes as they came from
// modem, including echo and status bytes. raw is a copy owned by handler.
type Handler func(m message.Message, raw []byte)

type Stats struct {
	Frames  uint64
	Dropped uint64
	Unknown uint64
	Invalid uint64
}

type Reader struct {
	log   *log2.Log
	reg   *message.Registry
	r     io.Reader
	buf   []byte
	stats Stats
}

func NewReader(r io.Reader, reg *message.Registry, log *log2.Log) *Reader {
	if reg == nil {
		reg = message.DefaultRegistry()
	}
	return &Reader{
		log: log,
		reg: reg,
		r:   r,
		buf: make([]byte, 0, readChunk),
	}
}

func (self *Reader) Stats() Stats {
	return Stats{
		Frames:  atomic.LoadUint64(&self.stats.Frames),
		Dropped: atomic.LoadUint64(&self.stats.Dropped),
		Unknown: atomic.LoadUint64(&self.stats.Unknown),
		Invalid: atomic.LoadUint64(&self.stats.Invalid),
	}
}

// Buffered returns bytes waiting for the rest of frame.
func (self *Reader) Buffered() int { return len(self.buf) }

// Feed appends p to accumulator and calls fn for every complete frame.
// Not safe for concurrent use.
func (self *Reader) Feed(p []byte, fn Handler) {
	self.buf = append(self.buf, p...)
	for len(self.buf) > 0 {
		out := self.reg.Decode(self.buf)
		switch out.Status {
		case message.StatusDecoded:
			atomic.AddUint64(&self.stats.Frames, 1)
			self.log.Debugf("plm < %s", message.Format(self.buf[:out.Consumed]))
			raw := append([]byte(nil), self.buf[:out.Consumed]...)
			self.consume(out.Consumed)
			fn(out.Msg, raw)

		case message.StatusNeedMore:
			return

		case message.StatusInvalid:
			atomic.AddUint64(&self.stats.Invalid, 1)
			self.log.Errorf("plm drop invalid frame=%s err=%v", message.Format(self.buf[:out.Consumed]), out.Err)
			self.consume(out.Consumed)

		case message.StatusUnknownType:
			atomic.AddUint64(&self.stats.Unknown, 1)
			self.log.Errorf("plm unknown code=%02x", byte(out.Code))
			self.resync()

		default:
			self.resync()
		}
	}
}

// resync drops first byte and everything up to next StartByte.
func (self *Reader) resync() {
	n := len(self.buf)
	if i := bytes.IndexByte(self.buf[1:], message.StartByte); i >= 0 {
		n = 1 + i
	}
	atomic.AddUint64(&self.stats.Dropped, uint64(n))
	self.log.Debugf("plm resync drop=%s", message.Format(self.buf[:n]))
	self.consume(n)
}

func (self *Reader) consume(n int) {
	rest := copy(self.buf, self.buf[n:])
	self.buf = self.buf[:rest]
}

// Run reads until EOF, read error or a.Stop(). Blocked Read is released
// by closing the underlying reader.
func (self *Reader) Run(a *alive.Alive, fn Handler) error {
	if !a.Add(1) {
		return nil
	}
	defer a.Done()
	var chunk [readChunk]byte
	for a.IsRunning() {
		n, err := self.r.Read(chunk[:])
		if n > 0 {
			self.Feed(chunk[:n], fn)
		}
		if err != nil {
			if err == io.EOF || a.IsStopping() {
				return nil
			}
			return errors.Annotate(err, "plm read")
		}
	}
	return nil
}
