package message

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
)

// AllLinkUpdateCmd selects the operation on modem all-link database.
type AllLinkUpdateCmd byte

const (
	UpdateExists        AllLinkUpdateCmd = 0x00
	UpdateSearch        AllLinkUpdateCmd = 0x01
	UpdateUpdate        AllLinkUpdateCmd = 0x20
	UpdateAddController AllLinkUpdateCmd = 0x40
	UpdateAddResponder  AllLinkUpdateCmd = 0x41
	UpdateDelete        AllLinkUpdateCmd = 0x80
)

func (self AllLinkUpdateCmd) Valid() bool {
	switch self {
	case UpdateExists, UpdateSearch, UpdateUpdate, UpdateAddController, UpdateAddResponder, UpdateDelete:
		return true
	}
	return false
}

func (self AllLinkUpdateCmd) String() string {
	switch self {
	case UpdateExists:
		return "EXISTS"
	case UpdateSearch:
		return "SEARCH"
	case UpdateUpdate:
		return "UPDATE"
	case UpdateAddController:
		return "ADD_CTRL"
	case UpdateAddResponder:
		return "ADD_RESP"
	case UpdateDelete:
		return "DELETE"
	}
	return fmt.Sprintf("INVALID(%02x)", byte(self))
}

const allLinkUpdateSize = headerSize + 1 + 1 + 1 + insteon.AddressLength + 3

var layoutAllLinkUpdate = layout{code: CodeAllLinkUpdate, command: true, size: fixed(allLinkUpdateSize)}

// AllLinkUpdate manages one record in the modem all-link database.
// Host form is 11 bytes, modem echo is 12 bytes.
type AllLinkUpdate struct {
	cmd   AllLinkUpdateCmd
	flags insteon.DbFlags
	group byte
	addr  insteon.Address
	data  [3]byte
	ack   Ack
}

// NewAllLinkUpdate data may be nil (three zero bytes) or exactly 3 bytes.
func NewAllLinkUpdate(cmd AllLinkUpdateCmd, flags insteon.DbFlags, group byte, addr insteon.Address, data []byte) (AllLinkUpdate, error) {
	m := AllLinkUpdate{cmd: cmd, flags: flags, group: group, addr: addr}
	if !cmd.Valid() {
		return AllLinkUpdate{}, invalidField(CodeAllLinkUpdate, "cmd", fmt.Sprintf("%02x", byte(cmd)))
	}
	switch len(data) {
	case 0:
	case len(m.data):
		copy(m.data[:], data)
	default:
		return AllLinkUpdate{}, invalidField(CodeAllLinkUpdate, "data length", len(data))
	}
	return m, nil
}

func decodeAllLinkUpdate(b []byte) (Message, int, error) {
	n, err := layoutAllLinkUpdate.check(b)
	if err != nil {
		return nil, 0, err
	}
	cmd := AllLinkUpdateCmd(b[2])
	if !cmd.Valid() {
		return nil, 0, invalidField(CodeAllLinkUpdate, "cmd", fmt.Sprintf("%02x", b[2]))
	}
	flags, err := insteon.DbFlagsFromBytes(b, 3)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	addr, err := insteon.AddressFromBytes(b, 5)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	m := AllLinkUpdate{
		cmd:   cmd,
		flags: flags,
		group: b[4],
		addr:  addr,
	}
	copy(m.data[:], b[8:11])
	var consumed int
	m.ack, consumed = layoutAllLinkUpdate.status(b, n)
	return m, consumed, nil
}

func (self AllLinkUpdate) Code() Code               { return CodeAllLinkUpdate }
func (self AllLinkUpdate) Cmd() AllLinkUpdateCmd    { return self.cmd }
func (self AllLinkUpdate) Flags() insteon.DbFlags   { return self.flags }
func (self AllLinkUpdate) Group() byte              { return self.group }
func (self AllLinkUpdate) Address() insteon.Address { return self.addr }
func (self AllLinkUpdate) Data() [3]byte            { return self.data }
func (self AllLinkUpdate) Ack() Ack                 { return self.ack }

func (self AllLinkUpdate) Encode() []byte {
	b := header(CodeAllLinkUpdate, allLinkUpdateSize)
	b[2] = byte(self.cmd)
	b[3] = self.flags.Byte()
	b[4] = self.group
	self.addr.Encode(b[5:])
	copy(b[8:11], self.data[:])
	return b
}

func (self AllLinkUpdate) String() string {
	return fmt.Sprintf("AllLinkUpdate: %s grp: %d %s flags: %02x data: %x ack: %s",
		self.addr, self.group, self.cmd, self.flags.Byte(), self.data[:], self.ack)
}
