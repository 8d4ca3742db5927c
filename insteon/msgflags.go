package insteon

import "fmt"

// MsgType is the 3 bit Insteon message type at the top of MsgFlags.
type MsgType byte

const (
	MsgDirect           MsgType = 0 // direct
	MsgDirectAck        MsgType = 1 // direct-ack
	MsgAllLinkCleanup   MsgType = 2 // cleanup
	MsgCleanupAck       MsgType = 3 // cleanup-ack
	MsgBroadcast        MsgType = 4 // broadcast
	MsgDirectNak        MsgType = 5 // direct-nak
	MsgAllLinkBroadcast MsgType = 6 // all-link-broadcast
	MsgCleanupNak       MsgType = 7 // cleanup-nak
)

var msgTypeNames = [8]string{
	"direct", "direct-ack", "cleanup", "cleanup-ack",
	"broadcast", "direct-nak", "all-link-broadcast", "cleanup-nak",
}

func (self MsgType) String() string { return msgTypeNames[self&0x07] }

// MsgFlags is the Insteon message flags byte.
//
//	bits 7-5 MsgType
//	bit 4    extended (14 byte user data)
//	bits 3-2 hops left
//	bits 1-0 max hops
type MsgFlags byte

const msgFlagExtended MsgFlags = 1 << 4

func NewMsgFlags(typ MsgType, extended bool, hopsLeft, maxHops byte) MsgFlags {
	f := MsgFlags(typ&0x07) << 5
	if extended {
		f |= msgFlagExtended
	}
	f |= MsgFlags(hopsLeft&0x03) << 2
	f |= MsgFlags(maxHops & 0x03)
	return f
}

func MsgFlagsFromBytes(b []byte, offset int) (MsgFlags, error) {
	if err := checkRemain("msg flags", b, offset, 1); err != nil {
		return 0, err
	}
	return MsgFlags(b[offset]), nil
}

func (self MsgFlags) Byte() byte       { return byte(self) }
func (self MsgFlags) Type() MsgType    { return MsgType(self >> 5) }
func (self MsgFlags) IsExtended() bool { return self&msgFlagExtended != 0 }
func (self MsgFlags) HopsLeft() byte   { return byte(self>>2) & 0x03 }
func (self MsgFlags) MaxHops() byte    { return byte(self) & 0x03 }

// WithExtended returns copy with extended bit set or cleared.
func (self MsgFlags) WithExtended(ext bool) MsgFlags {
	if ext {
		return self | msgFlagExtended
	}
	return self &^ msgFlagExtended
}

func (self MsgFlags) String() string {
	ext := ""
	if self.IsExtended() {
		ext = " ext"
	}
	return fmt.Sprintf("%s%s hops=%d/%d", self.Type().String(), ext, self.HopsLeft(), self.MaxHops())
}
