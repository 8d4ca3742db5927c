package message

import (
	"fmt"
	"sort"

	"github.com/juju/errors"
)

// Kinds returns descriptors of every supported message type.
func Kinds() []Kind {
	return []Kind{
		{layout: layoutStandardReceived, Name: "StandardReceived", decode: decodeStandardReceived},
		{layout: layoutExtendedReceived, Name: "ExtendedReceived", decode: decodeExtendedReceived},
		{layout: layoutX10Received, Name: "X10Received", decode: decodeX10Received},
		{layout: layoutAllLinkComplete, Name: "AllLinkComplete", decode: decodeAllLinkComplete},
		{layout: layoutButtonEvent, Name: "ButtonEvent", decode: decodeButtonEvent},
		{layout: layoutUserReset, Name: "UserReset", decode: decodeUserReset},
		{layout: layoutAllLinkFailure, Name: "AllLinkFailure", decode: decodeAllLinkFailure},
		{layout: layoutAllLinkRecord, Name: "AllLinkRecord", decode: decodeAllLinkRecord},
		{layout: layoutAllLinkStatus, Name: "AllLinkStatus", decode: decodeAllLinkStatus},

		{layout: layoutGetInfo, Name: "GetInfo", decode: decodeGetInfo},
		{layout: layoutAllLinkSend, Name: "AllLinkSend", decode: decodeAllLinkSend},
		{layout: layoutSendInsteon, Name: "SendInsteon", decode: decodeSendInsteon},
		{layout: layoutX10Send, Name: "X10Send", decode: decodeX10Send},
		{layout: layoutStartAllLink, Name: "StartAllLink", decode: decodeStartAllLink},
		{layout: layoutCancelAllLink, Name: "CancelAllLink", decode: decodeModemCommand(layoutCancelAllLink)},
		{layout: layoutSetHostCategory, Name: "SetHostCategory", decode: decodeSetHostCategory},
		{layout: layoutResetModem, Name: "ResetModem", decode: decodeModemCommand(layoutResetModem)},
		{layout: layoutGetFirstAllLink, Name: "GetFirstAllLink", decode: decodeModemCommand(layoutGetFirstAllLink)},
		{layout: layoutGetNextAllLink, Name: "GetNextAllLink", decode: decodeModemCommand(layoutGetNextAllLink)},
		{layout: layoutSetConfig, Name: "SetConfig", decode: decodeSetConfig},
		{layout: layoutAllLinkUpdate, Name: "AllLinkUpdate", decode: decodeAllLinkUpdate},
		{layout: layoutGetConfig, Name: "GetConfig", decode: decodeGetConfig},
	}
}

type Status uint8

const (
	// Msg holds decoded frame, drop Consumed bytes.
	StatusDecoded Status = iota
	// Wait for at least Need more bytes, keep buffer.
	StatusNeedMore
	// Code not registered, Consumed is 0, caller picks resync policy.
	StatusUnknownType
	// First byte is not StartByte, caller resyncs.
	StatusMalformedHeader
	// Frame is complete but a field is outside its domain, Err tells which.
	// Consumed covers the frame.
	StatusInvalid
)

func (self Status) String() string {
	switch self {
	case StatusDecoded:
		return "decoded"
	case StatusNeedMore:
		return "need-more"
	case StatusUnknownType:
		return "unknown-type"
	case StatusMalformedHeader:
		return "malformed-header"
	case StatusInvalid:
		return "invalid"
	}
	return fmt.Sprintf("Status(%d)", uint8(self))
}

type Outcome struct {
	Status   Status
	Msg      Message
	Code     Code
	Consumed int
	Need     int
	Err      error
}

func (self Outcome) String() string {
	switch self.Status {
	case StatusDecoded:
		return fmt.Sprintf("decoded consumed=%d %s", self.Consumed, self.Msg.String())
	case StatusNeedMore:
		return fmt.Sprintf("need-more=%d", self.Need)
	case StatusUnknownType:
		return fmt.Sprintf("unknown-type code=%02x", byte(self.Code))
	}
	return fmt.Sprintf("%s err=%v", self.Status.String(), self.Err)
}

// Registry maps Code to Kind. Immutable after NewRegistry, safe for
// concurrent use.
type Registry struct {
	kinds map[Code]*Kind
}

// NewRegistry without arguments registers all Kinds().
func NewRegistry(kinds ...Kind) (*Registry, error) {
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	self := &Registry{kinds: make(map[Code]*Kind, len(kinds))}
	for i := range kinds {
		k := kinds[i]
		if k.decode == nil || k.size == nil {
			return nil, errors.NotValidf("code error kind=%s without decoder", k.Name)
		}
		if prev, ok := self.kinds[k.code]; ok {
			return nil, errors.AlreadyExistsf("kind code=%02x name=%s previous=%s", byte(k.code), k.Name, prev.Name)
		}
		self.kinds[k.code] = &k
	}
	return self, nil
}

var defaultRegistry = MustNewRegistry()

// DefaultRegistry is shared registry of all message types.
func DefaultRegistry() *Registry { return defaultRegistry }

func MustNewRegistry(kinds ...Kind) *Registry {
	r, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}
	return r
}

func (self *Registry) Kind(code Code) (*Kind, bool) {
	k, ok := self.kinds[code]
	return k, ok
}

// Codes returns registered codes in ascending order.
func (self *Registry) Codes() []Code {
	codes := make([]Code, 0, len(self.kinds))
	for c := range self.kinds {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Decode reads one frame from stream prefix b, as the modem sends it:
// commands are expected in echo form with status byte.
// Never panics on any input.
func (self *Registry) Decode(b []byte) Outcome {
	switch {
	case len(b) == 0:
		return Outcome{Status: StatusNeedMore, Need: headerSize}
	case b[0] != StartByte:
		return Outcome{
			Status: StatusMalformedHeader,
			Err:    errors.Trace(MalformedHeaderError{Offset: 0, Expect: StartByte, Actual: b[0]}),
		}
	case len(b) == 1:
		return Outcome{Status: StatusNeedMore, Need: 1}
	}
	code := Code(b[1])
	kind, ok := self.kinds[code]
	if !ok {
		return Outcome{Status: StatusUnknownType, Code: code, Err: errors.Trace(UnknownTypeError{Code: code})}
	}
	size := kind.EchoSize(b)
	if len(b) < size {
		return Outcome{Status: StatusNeedMore, Code: code, Need: size - len(b)}
	}
	msg, n, err := kind.decode(b[:size])
	if err != nil {
		if IsInvalidField(err) {
			return Outcome{Status: StatusInvalid, Code: code, Consumed: size, Err: err}
		}
		// only header or length errors left, which were checked above
		return Outcome{Status: StatusMalformedHeader, Code: code, Err: err}
	}
	return Outcome{Status: StatusDecoded, Msg: msg, Code: code, Consumed: n}
}

// Parse decodes exactly one frame in host or echo form, e.g. command
// received from MQTT. Trailing bytes are an error.
func (self *Registry) Parse(b []byte) (Message, error) {
	if len(b) < headerSize {
		return nil, errors.Trace(IncompleteError{Need: headerSize - len(b)})
	}
	if b[0] != StartByte {
		return nil, errors.Trace(MalformedHeaderError{Offset: 0, Expect: StartByte, Actual: b[0]})
	}
	code := Code(b[1])
	kind, ok := self.kinds[code]
	if !ok {
		return nil, errors.Trace(UnknownTypeError{Code: code})
	}
	msg, n, err := kind.decode(b)
	if err != nil {
		return nil, errors.Annotatef(err, "parse %s", Format(b))
	}
	if n != len(b) {
		return nil, errors.NotValidf("parse %s trailing bytes=%d", Format(b), len(b)-n)
	}
	return msg, nil
}

// Encode returns host form of m. Refuses unregistered codes.
func (self *Registry) Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, errors.NotValidf("code error encode nil message")
	}
	kind, ok := self.kinds[m.Code()]
	if !ok {
		return nil, errors.Trace(UnknownTypeError{Code: m.Code()})
	}
	b := m.Encode()
	if size := kind.Size(b); len(b) != size {
		return nil, errors.NotValidf("code error %s encoded length=%d expected=%d", kind.Name, len(b), size)
	}
	return b, nil
}
