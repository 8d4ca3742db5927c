package message

import (
	"github.com/juju/errors"
)

// Message is the capability set shared by all PLM message types.
type Message interface {
	Code() Code
	// Encode returns the frame as the host sends it, never with status byte.
	Encode() []byte
	String() string
}

type DecodeFunc func(b []byte) (Message, int, error)

// layout is the size rule of one Code.
type layout struct {
	code Code
	// host sends it, modem echoes it back with trailing status byte
	command bool
	// frame size without echo part, may look at header bytes present in b
	size func(b []byte) int
	// bytes modem inserts between echoed command and status byte
	echoExtra int
}

func fixed(n int) func([]byte) int { return func([]byte) int { return n } }

// check verifies header and length, returns host form size.
func (self layout) check(b []byte) (int, error) {
	if len(b) >= 1 && b[0] != StartByte {
		return 0, errors.Trace(MalformedHeaderError{Offset: 0, Expect: StartByte, Actual: b[0]})
	}
	if len(b) >= 2 && Code(b[1]) != self.code {
		return 0, errors.Trace(MalformedHeaderError{Offset: 1, Expect: byte(self.code), Actual: b[1]})
	}
	n := self.size(b)
	if len(b) < n {
		return 0, errors.Trace(IncompleteError{Code: self.code, Need: n - len(b)})
	}
	return n, nil
}

// status reads echo status byte when b holds full echo frame.
func (self layout) status(b []byte, n int) (Ack, int) {
	if !self.command {
		return AckNone, n
	}
	full := n + self.echoExtra + 1
	if len(b) < full {
		return AckNone, n
	}
	return AckFromByte(b[full-1]), full
}

// Kind describes wire format of one Code.
type Kind struct {
	layout
	Name   string
	decode DecodeFunc
}

func (self *Kind) Code() Code { return self.code }

// IsCommand reports whether modem echoes this message with status byte.
func (self *Kind) IsCommand() bool { return self.command }

// Size is the encoded frame length, for variable formats computed from
// bytes available in b, otherwise the minimum.
func (self *Kind) Size(b []byte) int { return self.size(b) }

// EchoSize is the length of frame as it arrives from modem.
func (self *Kind) EchoSize(b []byte) int {
	if !self.command {
		return self.size(b)
	}
	return self.size(b) + self.echoExtra + 1
}

// Decode reads exactly one frame: b is either the host form or, for
// commands, the whole echo form with status byte. Shorter input is
// IncompleteError, other lengths are NotValid. Use Registry.Decode on
// stream buffers. Returns bytes consumed.
func (self *Kind) Decode(b []byte) (Message, int, error) {
	if size := self.size(b); len(b) > size && len(b) != self.EchoSize(b) {
		return nil, 0, errors.NotValidf("%s length=%d host=%d echo=%d", self.Name, len(b), size, self.EchoSize(b))
	}
	return self.decode(b)
}

func header(code Code, size int) []byte {
	b := make([]byte, size)
	b[0] = StartByte
	b[1] = byte(code)
	return b
}
