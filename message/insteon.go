package message

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
)

// ExtendedDataSize is user data length of extended Insteon messages.
const ExtendedDataSize = 14

const (
	standardReceivedSize = headerSize + 2*insteon.AddressLength + 3
	extendedReceivedSize = standardReceivedSize + ExtendedDataSize
	sendStandardSize     = headerSize + insteon.AddressLength + 3
	sendExtendedSize     = sendStandardSize + ExtendedDataSize
)

var (
	layoutStandardReceived = layout{code: CodeStandardReceived, size: fixed(standardReceivedSize)}
	layoutExtendedReceived = layout{code: CodeExtendedReceived, size: fixed(extendedReceivedSize)}
	layoutSendInsteon      = layout{code: CodeSendInsteon, command: true, size: sendInsteonSize}
)

// sendInsteonSize: extended bit of flags at offset 5 selects 8 or 22 bytes.
func sendInsteonSize(b []byte) int {
	if len(b) > 5 && insteon.MsgFlags(b[5]).IsExtended() {
		return sendExtendedSize
	}
	return sendStandardSize
}

// StandardReceived is a standard Insteon message heard by the modem.
type StandardReceived struct {
	from  insteon.Address
	to    insteon.Address
	flags insteon.MsgFlags
	cmd1  byte
	cmd2  byte
}

func NewStandardReceived(from, to insteon.Address, flags insteon.MsgFlags, cmd1, cmd2 byte) (StandardReceived, error) {
	if flags.IsExtended() {
		return StandardReceived{}, invalidField(CodeStandardReceived, "flags", flags.String())
	}
	return StandardReceived{from: from, to: to, flags: flags, cmd1: cmd1, cmd2: cmd2}, nil
}

func decodeStandardReceived(b []byte) (Message, int, error) {
	n, err := layoutStandardReceived.check(b)
	if err != nil {
		return nil, 0, err
	}
	from, to, flags, err := decodeRoute(b)
	if err != nil {
		return nil, 0, err
	}
	return StandardReceived{from: from, to: to, flags: flags, cmd1: b[9], cmd2: b[10]}, n, nil
}

func (self StandardReceived) Code() Code              { return CodeStandardReceived }
func (self StandardReceived) From() insteon.Address   { return self.from }
func (self StandardReceived) To() insteon.Address     { return self.to }
func (self StandardReceived) Flags() insteon.MsgFlags { return self.flags }
func (self StandardReceived) Cmd1() byte              { return self.cmd1 }
func (self StandardReceived) Cmd2() byte              { return self.cmd2 }
func (self StandardReceived) IsBroadcast() bool {
	t := self.flags.Type()
	return t == insteon.MsgBroadcast || t == insteon.MsgAllLinkBroadcast
}

// Group of all-link broadcast is carried in low byte of to address.
func (self StandardReceived) Group() byte { return self.to[2] }

func (self StandardReceived) Encode() []byte {
	b := header(CodeStandardReceived, standardReceivedSize)
	self.from.Encode(b[2:])
	self.to.Encode(b[5:])
	b[8] = self.flags.Byte()
	b[9] = self.cmd1
	b[10] = self.cmd2
	return b
}

func (self StandardReceived) String() string {
	return fmt.Sprintf("StandardReceived: %s->%s %s cmd: %02x %02x",
		self.from, self.to, self.flags, self.cmd1, self.cmd2)
}

// ExtendedReceived is an extended Insteon message heard by the modem.
type ExtendedReceived struct {
	from  insteon.Address
	to    insteon.Address
	flags insteon.MsgFlags
	cmd1  byte
	cmd2  byte
	data  [ExtendedDataSize]byte
}

func NewExtendedReceived(from, to insteon.Address, flags insteon.MsgFlags, cmd1, cmd2 byte, data []byte) (ExtendedReceived, error) {
	m := ExtendedReceived{from: from, to: to, flags: flags.WithExtended(true), cmd1: cmd1, cmd2: cmd2}
	if len(data) != ExtendedDataSize {
		return ExtendedReceived{}, invalidField(CodeExtendedReceived, "data length", len(data))
	}
	copy(m.data[:], data)
	return m, nil
}

func decodeExtendedReceived(b []byte) (Message, int, error) {
	n, err := layoutExtendedReceived.check(b)
	if err != nil {
		return nil, 0, err
	}
	from, to, flags, err := decodeRoute(b)
	if err != nil {
		return nil, 0, err
	}
	m := ExtendedReceived{from: from, to: to, flags: flags, cmd1: b[9], cmd2: b[10]}
	copy(m.data[:], b[11:25])
	return m, n, nil
}

func (self ExtendedReceived) Code() Code                   { return CodeExtendedReceived }
func (self ExtendedReceived) From() insteon.Address        { return self.from }
func (self ExtendedReceived) To() insteon.Address          { return self.to }
func (self ExtendedReceived) Flags() insteon.MsgFlags      { return self.flags }
func (self ExtendedReceived) Cmd1() byte                   { return self.cmd1 }
func (self ExtendedReceived) Cmd2() byte                   { return self.cmd2 }
func (self ExtendedReceived) Data() [ExtendedDataSize]byte { return self.data }

func (self ExtendedReceived) Encode() []byte {
	b := header(CodeExtendedReceived, extendedReceivedSize)
	self.from.Encode(b[2:])
	self.to.Encode(b[5:])
	b[8] = self.flags.Byte()
	b[9] = self.cmd1
	b[10] = self.cmd2
	copy(b[11:], self.data[:])
	return b
}

func (self ExtendedReceived) String() string {
	return fmt.Sprintf("ExtendedReceived: %s->%s %s cmd: %02x %02x data: %x",
		self.from, self.to, self.flags, self.cmd1, self.cmd2, self.data[:])
}

// SendStandard sends standard Insteon message to device.
// Host form is 8 bytes, modem echo is 9 bytes.
type SendStandard struct {
	to    insteon.Address
	flags insteon.MsgFlags
	cmd1  byte
	cmd2  byte
	ack   Ack
}

func NewSendStandard(to insteon.Address, flags insteon.MsgFlags, cmd1, cmd2 byte) (SendStandard, error) {
	if flags.IsExtended() {
		return SendStandard{}, invalidField(CodeSendInsteon, "flags", flags.String())
	}
	return SendStandard{to: to, flags: flags, cmd1: cmd1, cmd2: cmd2}, nil
}

func (self SendStandard) Code() Code              { return CodeSendInsteon }
func (self SendStandard) To() insteon.Address     { return self.to }
func (self SendStandard) Flags() insteon.MsgFlags { return self.flags }
func (self SendStandard) Cmd1() byte              { return self.cmd1 }
func (self SendStandard) Cmd2() byte              { return self.cmd2 }
func (self SendStandard) Ack() Ack                { return self.ack }

func (self SendStandard) Encode() []byte {
	b := header(CodeSendInsteon, sendStandardSize)
	self.to.Encode(b[2:])
	b[5] = self.flags.Byte()
	b[6] = self.cmd1
	b[7] = self.cmd2
	return b
}

func (self SendStandard) String() string {
	return fmt.Sprintf("SendStandard: %s %s cmd: %02x %02x ack: %s",
		self.to, self.flags, self.cmd1, self.cmd2, self.ack)
}

// SendExtended sends extended Insteon message to device.
// Host form is 22 bytes, modem echo is 23 bytes.
type SendExtended struct {
	to    insteon.Address
	flags insteon.MsgFlags
	cmd1  byte
	cmd2  byte
	data  [ExtendedDataSize]byte
	ack   Ack
}

// NewSendExtended always sets extended bit in flags.
func NewSendExtended(to insteon.Address, flags insteon.MsgFlags, cmd1, cmd2 byte, data []byte) (SendExtended, error) {
	m := SendExtended{to: to, flags: flags.WithExtended(true), cmd1: cmd1, cmd2: cmd2}
	if len(data) != ExtendedDataSize {
		return SendExtended{}, invalidField(CodeSendInsteon, "data length", len(data))
	}
	copy(m.data[:], data)
	return m, nil
}

func (self SendExtended) Code() Code                   { return CodeSendInsteon }
func (self SendExtended) To() insteon.Address          { return self.to }
func (self SendExtended) Flags() insteon.MsgFlags      { return self.flags }
func (self SendExtended) Cmd1() byte                   { return self.cmd1 }
func (self SendExtended) Cmd2() byte                   { return self.cmd2 }
func (self SendExtended) Data() [ExtendedDataSize]byte { return self.data }
func (self SendExtended) Ack() Ack                     { return self.ack }

// WithChecksum returns copy with last data byte set to the i2cs checksum:
// two's complement of cmd1+cmd2+data[0:13].
func (self SendExtended) WithChecksum() SendExtended {
	sum := self.cmd1 + self.cmd2
	for _, d := range self.data[:ExtendedDataSize-1] {
		sum += d
	}
	self.data[ExtendedDataSize-1] = -sum
	return self
}

func (self SendExtended) Encode() []byte {
	b := header(CodeSendInsteon, sendExtendedSize)
	self.to.Encode(b[2:])
	b[5] = self.flags.Byte()
	b[6] = self.cmd1
	b[7] = self.cmd2
	copy(b[8:], self.data[:])
	return b
}

func (self SendExtended) String() string {
	return fmt.Sprintf("SendExtended: %s %s cmd: %02x %02x data: %x ack: %s",
		self.to, self.flags, self.cmd1, self.cmd2, self.data[:], self.ack)
}

// decodeRoute reads from, to and flags of received Insteon message.
func decodeRoute(b []byte) (from, to insteon.Address, flags insteon.MsgFlags, err error) {
	if from, err = insteon.AddressFromBytes(b, 2); err != nil {
		return from, to, flags, errors.Trace(err)
	}
	if to, err = insteon.AddressFromBytes(b, 5); err != nil {
		return from, to, flags, errors.Trace(err)
	}
	flags, err = insteon.MsgFlagsFromBytes(b, 8)
	return from, to, flags, errors.Trace(err)
}

// decodeSendInsteon returns SendStandard or SendExtended by flags.
func decodeSendInsteon(b []byte) (Message, int, error) {
	n, err := layoutSendInsteon.check(b)
	if err != nil {
		return nil, 0, err
	}
	to, err := insteon.AddressFromBytes(b, 2)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	flags, err := insteon.MsgFlagsFromBytes(b, 5)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	ack, consumed := layoutSendInsteon.status(b, n)
	if flags.IsExtended() {
		m := SendExtended{to: to, flags: flags, cmd1: b[6], cmd2: b[7], ack: ack}
		copy(m.data[:], b[8:22])
		return m, consumed, nil
	}
	return SendStandard{to: to, flags: flags, cmd1: b[6], cmd2: b[7], ack: ack}, consumed, nil
}
