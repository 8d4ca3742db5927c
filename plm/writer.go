package plm

import (
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
)

// Sender accepts commands for the modem.
type Sender interface {
	Send(message.Message) error
}

// Writer encodes messages and writes them whole, safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	log *log2.Log
	reg *message.Registry
	w   io.Writer
}

func NewWriter(w io.Writer, reg *message.Registry, log *log2.Log) *Writer {
	if reg == nil {
		reg = message.DefaultRegistry()
	}
	return &Writer{log: log, reg: reg, w: w}
}

func (self *Writer) Send(m message.Message) error {
	b, err := self.reg.Encode(m)
	if err != nil {
		return errors.Annotatef(err, "plm send %v", m)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.log.Debugf("plm > %s", message.Format(b))
	if err = helpers.WriteAll(self.w, b); err != nil {
		return errors.Annotatef(err, "plm write %s", m.Code())
	}
	return nil
}
