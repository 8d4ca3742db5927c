package message

// Ack is the status byte the modem appends when echoing a command.
// AckNone means the message was built by the host or decoded without it.
type Ack uint8

const (
	AckNone Ack = iota
	AckAck
	AckNak
)

func AckFromByte(b byte) Ack {
	if b == AckByte {
		return AckAck
	}
	return AckNak
}

func (self Ack) IsAck() bool { return self == AckAck }
func (self Ack) IsNak() bool { return self == AckNak }

func (self Ack) String() string {
	switch self {
	case AckAck:
		return "ack"
	case AckNak:
		return "nak"
	default:
		return "none"
	}
}
