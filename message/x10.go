package message

import "fmt"

// X10 flag byte: raw byte is house+unit code or house+command.
const (
	X10FlagUnit    byte = 0x00
	X10FlagCommand byte = 0x80
)

const x10Size = headerSize + 2

var (
	layoutX10Received = layout{code: CodeX10Received, size: fixed(x10Size)}
	layoutX10Send     = layout{code: CodeX10Send, command: true, size: fixed(x10Size)}
)

func validX10Flag(code Code, flag byte) error {
	if flag != X10FlagUnit && flag != X10FlagCommand {
		return invalidField(code, "x10 flag", fmt.Sprintf("%02x", flag))
	}
	return nil
}

func x10String(flag byte) string {
	if flag == X10FlagCommand {
		return "cmd"
	}
	return "unit"
}

type X10Received struct {
	raw  byte
	flag byte
}

func NewX10Received(raw, flag byte) (X10Received, error) {
	if err := validX10Flag(CodeX10Received, flag); err != nil {
		return X10Received{}, err
	}
	return X10Received{raw: raw, flag: flag}, nil
}

func decodeX10Received(b []byte) (Message, int, error) {
	n, err := layoutX10Received.check(b)
	if err != nil {
		return nil, 0, err
	}
	return X10Received{raw: b[2], flag: b[3]}, n, nil
}

func (self X10Received) Code() Code      { return CodeX10Received }
func (self X10Received) Raw() byte       { return self.raw }
func (self X10Received) Flag() byte      { return self.flag }
func (self X10Received) IsCommand() bool { return self.flag == X10FlagCommand }

func (self X10Received) Encode() []byte {
	b := header(CodeX10Received, x10Size)
	b[2] = self.raw
	b[3] = self.flag
	return b
}

func (self X10Received) String() string {
	return fmt.Sprintf("X10Received: %02x %s", self.raw, x10String(self.flag))
}

type X10Send struct {
	raw  byte
	flag byte
	ack  Ack
}

func NewX10Send(raw, flag byte) (X10Send, error) {
	if err := validX10Flag(CodeX10Send, flag); err != nil {
		return X10Send{}, err
	}
	return X10Send{raw: raw, flag: flag}, nil
}

func decodeX10Send(b []byte) (Message, int, error) {
	n, err := layoutX10Send.check(b)
	if err != nil {
		return nil, 0, err
	}
	if err := validX10Flag(CodeX10Send, b[3]); err != nil {
		return nil, 0, err
	}
	m := X10Send{raw: b[2], flag: b[3]}
	var consumed int
	m.ack, consumed = layoutX10Send.status(b, n)
	return m, consumed, nil
}

func (self X10Send) Code() Code { return CodeX10Send }
func (self X10Send) Raw() byte  { return self.raw }
func (self X10Send) Flag() byte { return self.flag }
func (self X10Send) Ack() Ack   { return self.ack }

func (self X10Send) Encode() []byte {
	b := header(CodeX10Send, x10Size)
	b[2] = self.raw
	b[3] = self.flag
	return b
}

func (self X10Send) String() string {
	return fmt.Sprintf("X10Send: %02x %s ack: %s", self.raw, x10String(self.flag), self.ack)
}
