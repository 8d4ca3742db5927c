package mqtt

import (
	"encoding/hex"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/config"
	"github.com/temoto/insteon-mqtt/message"
)

// Frame is view of one modem message published on rx topic.
type Frame struct {
	Code string `json:"code" cbor:"code"`
	Kind string `json:"kind" cbor:"kind"`
	Hex  string `json:"hex" cbor:"hex"`
	Text string `json:"text" cbor:"text"`
	Ack  string `json:"ack,omitempty" cbor:"ack,omitempty"`
}

// NewFrame builds view of m. Hex is raw when given, so echoed commands
// keep reply and status bytes, otherwise host form of m.
func NewFrame(reg *message.Registry, m message.Message, raw []byte) Frame {
	if len(raw) == 0 {
		raw = m.Encode()
	}
	f := Frame{
		Code: m.Code().Hex(),
		Kind: m.Code().String(),
		Hex:  hex.EncodeToString(raw),
		Text: m.String(),
	}
	if k, ok := reg.Kind(m.Code()); ok {
		f.Kind = k.Name
	}
	if a, ok := m.(interface{ Ack() message.Ack }); ok {
		f.Ack = a.Ack().String()
	}
	return f
}

// Marshal encodes frame as config.FormatJSON or config.FormatCBOR.
func (self Frame) Marshal(format string) ([]byte, error) {
	var b []byte
	var err error
	switch format {
	case config.FormatJSON, "":
		b, err = json.Marshal(self)
	case config.FormatCBOR:
		b, err = cbor.Marshal(self)
	default:
		return nil, errors.NotSupportedf("frame format=%s", format)
	}
	return b, errors.Annotatef(err, "frame %s", format)
}

func FrameFromCBOR(b []byte) (Frame, error) {
	var f Frame
	err := cbor.Unmarshal(b, &f)
	return f, errors.Annotate(err, "frame cbor")
}
