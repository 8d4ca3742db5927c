package message

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
)

// LinkMode is the all-linking role byte of StartAllLink and AllLinkComplete.
type LinkMode byte

const (
	LinkResponder  LinkMode = 0x00
	LinkController LinkMode = 0x01
	LinkEither     LinkMode = 0x03
	LinkDelete     LinkMode = 0xff
)

func (self LinkMode) Valid() bool {
	switch self {
	case LinkResponder, LinkController, LinkEither, LinkDelete:
		return true
	}
	return false
}

func (self LinkMode) String() string {
	switch self {
	case LinkResponder:
		return "RESP"
	case LinkController:
		return "CTRL"
	case LinkEither:
		return "EITHER"
	case LinkDelete:
		return "DELETE"
	}
	return fmt.Sprintf("MODE(%02x)", byte(self))
}

const (
	allLinkCompleteSize = headerSize + 2 + insteon.AddressLength + 3
	allLinkFailureSize  = headerSize + 2 + insteon.AddressLength
	allLinkRecordSize   = headerSize + 2 + insteon.AddressLength + 3
	allLinkStatusSize   = headerSize + 1
	allLinkSendSize     = headerSize + 3
	startAllLinkSize    = headerSize + 2

	allLinkFailureMarker byte = 0x01
)

var (
	layoutAllLinkComplete = layout{code: CodeAllLinkComplete, size: fixed(allLinkCompleteSize)}
	layoutAllLinkFailure  = layout{code: CodeAllLinkFailure, size: fixed(allLinkFailureSize)}
	layoutAllLinkRecord   = layout{code: CodeAllLinkRecord, size: fixed(allLinkRecordSize)}
	layoutAllLinkStatus   = layout{code: CodeAllLinkStatus, size: fixed(allLinkStatusSize)}
	layoutAllLinkSend     = layout{code: CodeAllLinkSend, command: true, size: fixed(allLinkSendSize)}
	layoutStartAllLink    = layout{code: CodeStartAllLink, command: true, size: fixed(startAllLinkSize)}
)

// AllLinkComplete reports finished linking with device.
type AllLinkComplete struct {
	mode     LinkMode
	group    byte
	addr     insteon.Address
	cat      byte
	subcat   byte
	firmware byte
}

func NewAllLinkComplete(mode LinkMode, group byte, addr insteon.Address, cat, subcat, firmware byte) AllLinkComplete {
	return AllLinkComplete{mode: mode, group: group, addr: addr, cat: cat, subcat: subcat, firmware: firmware}
}

func decodeAllLinkComplete(b []byte) (Message, int, error) {
	n, err := layoutAllLinkComplete.check(b)
	if err != nil {
		return nil, 0, err
	}
	addr, err := insteon.AddressFromBytes(b, 4)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	m := AllLinkComplete{mode: LinkMode(b[2]), group: b[3], addr: addr, cat: b[7], subcat: b[8], firmware: b[9]}
	return m, n, nil
}

func (self AllLinkComplete) Code() Code               { return CodeAllLinkComplete }
func (self AllLinkComplete) Mode() LinkMode           { return self.mode }
func (self AllLinkComplete) Group() byte              { return self.group }
func (self AllLinkComplete) Address() insteon.Address { return self.addr }
func (self AllLinkComplete) Category() (cat, subcat byte) {
	return self.cat, self.subcat
}
func (self AllLinkComplete) Firmware() byte { return self.firmware }

func (self AllLinkComplete) Encode() []byte {
	b := header(CodeAllLinkComplete, allLinkCompleteSize)
	b[2] = byte(self.mode)
	b[3] = self.group
	self.addr.Encode(b[4:])
	b[7] = self.cat
	b[8] = self.subcat
	b[9] = self.firmware
	return b
}

func (self AllLinkComplete) String() string {
	return fmt.Sprintf("AllLinkComplete: %s grp: %d %s cat: %02x.%02x fw: %02x",
		self.addr, self.group, self.mode, self.cat, self.subcat, self.firmware)
}

// AllLinkFailure reports device that did not answer all-link cleanup.
type AllLinkFailure struct {
	group byte
	addr  insteon.Address
}

func NewAllLinkFailure(group byte, addr insteon.Address) AllLinkFailure {
	return AllLinkFailure{group: group, addr: addr}
}

func decodeAllLinkFailure(b []byte) (Message, int, error) {
	n, err := layoutAllLinkFailure.check(b)
	if err != nil {
		return nil, 0, err
	}
	if b[2] != allLinkFailureMarker {
		return nil, 0, invalidField(CodeAllLinkFailure, "marker", fmt.Sprintf("%02x", b[2]))
	}
	addr, err := insteon.AddressFromBytes(b, 4)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	return AllLinkFailure{group: b[3], addr: addr}, n, nil
}

func (self AllLinkFailure) Code() Code               { return CodeAllLinkFailure }
func (self AllLinkFailure) Group() byte              { return self.group }
func (self AllLinkFailure) Address() insteon.Address { return self.addr }

func (self AllLinkFailure) Encode() []byte {
	b := header(CodeAllLinkFailure, allLinkFailureSize)
	b[2] = allLinkFailureMarker
	b[3] = self.group
	self.addr.Encode(b[4:])
	return b
}

func (self AllLinkFailure) String() string {
	return fmt.Sprintf("AllLinkFailure: %s grp: %d", self.addr, self.group)
}

// AllLinkRecord is one modem database record, reply to GetFirst/GetNextAllLink.
type AllLinkRecord struct {
	flags insteon.DbFlags
	group byte
	addr  insteon.Address
	data  [3]byte
}

func NewAllLinkRecord(flags insteon.DbFlags, group byte, addr insteon.Address, data []byte) (AllLinkRecord, error) {
	m := AllLinkRecord{flags: flags, group: group, addr: addr}
	switch len(data) {
	case 0:
	case len(m.data):
		copy(m.data[:], data)
	default:
		return AllLinkRecord{}, invalidField(CodeAllLinkRecord, "data length", len(data))
	}
	return m, nil
}

func decodeAllLinkRecord(b []byte) (Message, int, error) {
	n, err := layoutAllLinkRecord.check(b)
	if err != nil {
		return nil, 0, err
	}
	flags, err := insteon.DbFlagsFromBytes(b, 2)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	addr, err := insteon.AddressFromBytes(b, 4)
	if err != nil {
		return nil, 0, errors.Trace(err)
	}
	m := AllLinkRecord{flags: flags, group: b[3], addr: addr}
	copy(m.data[:], b[7:10])
	return m, n, nil
}

func (self AllLinkRecord) Code() Code               { return CodeAllLinkRecord }
func (self AllLinkRecord) Flags() insteon.DbFlags   { return self.flags }
func (self AllLinkRecord) Group() byte              { return self.group }
func (self AllLinkRecord) Address() insteon.Address { return self.addr }
func (self AllLinkRecord) Data() [3]byte            { return self.data }

func (self AllLinkRecord) Encode() []byte {
	b := header(CodeAllLinkRecord, allLinkRecordSize)
	b[2] = self.flags.Byte()
	b[3] = self.group
	self.addr.Encode(b[4:])
	copy(b[7:], self.data[:])
	return b
}

func (self AllLinkRecord) String() string {
	return fmt.Sprintf("AllLinkRecord: %s grp: %d %s data: %x",
		self.addr, self.group, self.flags, self.data[:])
}

// AllLinkStatus reports result of all-link cleanup sequence.
type AllLinkStatus struct {
	status Ack
}

func NewAllLinkStatus(ok bool) AllLinkStatus {
	if ok {
		return AllLinkStatus{status: AckAck}
	}
	return AllLinkStatus{status: AckNak}
}

func decodeAllLinkStatus(b []byte) (Message, int, error) {
	n, err := layoutAllLinkStatus.check(b)
	if err != nil {
		return nil, 0, err
	}
	return AllLinkStatus{status: AckFromByte(b[2])}, n, nil
}

func (self AllLinkStatus) Code() Code  { return CodeAllLinkStatus }
func (self AllLinkStatus) Status() Ack { return self.status }

func (self AllLinkStatus) Encode() []byte {
	b := header(CodeAllLinkStatus, allLinkStatusSize)
	b[2] = NakByte
	if self.status.IsAck() {
		b[2] = AckByte
	}
	return b
}

func (self AllLinkStatus) String() string {
	return fmt.Sprintf("AllLinkStatus: %s", self.status)
}

// AllLinkSend broadcasts command to group of linked responders.
type AllLinkSend struct {
	group byte
	cmd1  byte
	cmd2  byte
	ack   Ack
}

func NewAllLinkSend(group, cmd1, cmd2 byte) AllLinkSend {
	return AllLinkSend{group: group, cmd1: cmd1, cmd2: cmd2}
}

func decodeAllLinkSend(b []byte) (Message, int, error) {
	n, err := layoutAllLinkSend.check(b)
	if err != nil {
		return nil, 0, err
	}
	m := AllLinkSend{group: b[2], cmd1: b[3], cmd2: b[4]}
	var consumed int
	m.ack, consumed = layoutAllLinkSend.status(b, n)
	return m, consumed, nil
}

func (self AllLinkSend) Code() Code  { return CodeAllLinkSend }
func (self AllLinkSend) Group() byte { return self.group }
func (self AllLinkSend) Cmd1() byte  { return self.cmd1 }
func (self AllLinkSend) Cmd2() byte  { return self.cmd2 }
func (self AllLinkSend) Ack() Ack    { return self.ack }

func (self AllLinkSend) Encode() []byte {
	b := header(CodeAllLinkSend, allLinkSendSize)
	b[2] = self.group
	b[3] = self.cmd1
	b[4] = self.cmd2
	return b
}

func (self AllLinkSend) String() string {
	return fmt.Sprintf("AllLinkSend: grp: %d cmd: %02x %02x ack: %s", self.group, self.cmd1, self.cmd2, self.ack)
}

// StartAllLink puts modem into linking mode.
type StartAllLink struct {
	mode  LinkMode
	group byte
	ack   Ack
}

func NewStartAllLink(mode LinkMode, group byte) (StartAllLink, error) {
	if !mode.Valid() {
		return StartAllLink{}, invalidField(CodeStartAllLink, "mode", fmt.Sprintf("%02x", byte(mode)))
	}
	return StartAllLink{mode: mode, group: group}, nil
}

func decodeStartAllLink(b []byte) (Message, int, error) {
	n, err := layoutStartAllLink.check(b)
	if err != nil {
		return nil, 0, err
	}
	mode := LinkMode(b[2])
	if !mode.Valid() {
		return nil, 0, invalidField(CodeStartAllLink, "mode", fmt.Sprintf("%02x", b[2]))
	}
	m := StartAllLink{mode: mode, group: b[3]}
	var consumed int
	m.ack, consumed = layoutStartAllLink.status(b, n)
	return m, consumed, nil
}

func (self StartAllLink) Code() Code     { return CodeStartAllLink }
func (self StartAllLink) Mode() LinkMode { return self.mode }
func (self StartAllLink) Group() byte    { return self.group }
func (self StartAllLink) Ack() Ack       { return self.ack }

func (self StartAllLink) Encode() []byte {
	b := header(CodeStartAllLink, startAllLinkSize)
	b[2] = byte(self.mode)
	b[3] = self.group
	return b
}

func (self StartAllLink) String() string {
	return fmt.Sprintf("StartAllLink: grp: %d %s ack: %s", self.group, self.mode, self.ack)
}
