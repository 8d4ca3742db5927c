package message

import "fmt"

const (
	StartByte byte = 0x02
	AckByte   byte = 0x06
	NakByte   byte = 0x15

	headerSize = 2
)

// Code is the message type byte following StartByte.
type Code byte

const (
	CodeStandardReceived Code = 0x50
	CodeExtendedReceived Code = 0x51
	CodeX10Received      Code = 0x52
	CodeAllLinkComplete  Code = 0x53
	CodeButtonEvent      Code = 0x54
	CodeUserReset        Code = 0x55
	CodeAllLinkFailure   Code = 0x56
	CodeAllLinkRecord    Code = 0x57
	CodeAllLinkStatus    Code = 0x58

	CodeGetInfo         Code = 0x60
	CodeAllLinkSend     Code = 0x61
	CodeSendInsteon     Code = 0x62
	CodeX10Send         Code = 0x63
	CodeStartAllLink    Code = 0x64
	CodeCancelAllLink   Code = 0x65
	CodeSetHostCategory Code = 0x66
	CodeResetModem      Code = 0x67
	CodeGetFirstAllLink Code = 0x69
	CodeGetNextAllLink  Code = 0x6a
	CodeSetConfig       Code = 0x6b
	CodeAllLinkUpdate   Code = 0x6f
	CodeGetConfig       Code = 0x73
)

var codeNames = map[Code]string{
	CodeStandardReceived: "StandardReceived",
	CodeExtendedReceived: "ExtendedReceived",
	CodeX10Received:      "X10Received",
	CodeAllLinkComplete:  "AllLinkComplete",
	CodeButtonEvent:      "ButtonEvent",
	CodeUserReset:        "UserReset",
	CodeAllLinkFailure:   "AllLinkFailure",
	CodeAllLinkRecord:    "AllLinkRecord",
	CodeAllLinkStatus:    "AllLinkStatus",
	CodeGetInfo:          "GetInfo",
	CodeAllLinkSend:      "AllLinkSend",
	CodeSendInsteon:      "SendInsteon",
	CodeX10Send:          "X10Send",
	CodeStartAllLink:     "StartAllLink",
	CodeCancelAllLink:    "CancelAllLink",
	CodeSetHostCategory:  "SetHostCategory",
	CodeResetModem:       "ResetModem",
	CodeGetFirstAllLink:  "GetFirstAllLink",
	CodeGetNextAllLink:   "GetNextAllLink",
	CodeSetConfig:        "SetConfig",
	CodeAllLinkUpdate:    "AllLinkUpdate",
	CodeGetConfig:        "GetConfig",
}

func (self Code) String() string {
	if s, ok := codeNames[self]; ok {
		return s
	}
	return fmt.Sprintf("Code(0x%02x)", byte(self))
}

// Hex is the wire spelling, e.g. "0x6f".
func (self Code) Hex() string { return fmt.Sprintf("0x%02x", byte(self)) }
