package message

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
)

const (
	buttonEventSize     = headerSize + 1
	setHostCategorySize = headerSize + 3
	setConfigSize       = headerSize + 1

	getInfoExtra   = insteon.AddressLength + 3
	getConfigExtra = 3
)

var (
	layoutButtonEvent     = layout{code: CodeButtonEvent, size: fixed(buttonEventSize)}
	layoutUserReset       = layout{code: CodeUserReset, size: fixed(headerSize)}
	layoutGetInfo         = layout{code: CodeGetInfo, command: true, size: fixed(headerSize), echoExtra: getInfoExtra}
	layoutSetHostCategory = layout{code: CodeSetHostCategory, command: true, size: fixed(setHostCategorySize)}
	layoutSetConfig       = layout{code: CodeSetConfig, command: true, size: fixed(setConfigSize)}
	layoutGetConfig       = layout{code: CodeGetConfig, command: true, size: fixed(headerSize), echoExtra: getConfigExtra}

	layoutCancelAllLink   = layout{code: CodeCancelAllLink, command: true, size: fixed(headerSize)}
	layoutResetModem      = layout{code: CodeResetModem, command: true, size: fixed(headerSize)}
	layoutGetFirstAllLink = layout{code: CodeGetFirstAllLink, command: true, size: fixed(headerSize)}
	layoutGetNextAllLink  = layout{code: CodeGetNextAllLink, command: true, size: fixed(headerSize)}
)

// ButtonEvent reports the modem set button was tapped, held or released.
type ButtonEvent struct {
	event byte
}

const (
	ButtonTapped   byte = 0x02
	ButtonHeld     byte = 0x03
	ButtonReleased byte = 0x04
)

func NewButtonEvent(event byte) ButtonEvent { return ButtonEvent{event: event} }

func decodeButtonEvent(b []byte) (Message, int, error) {
	n, err := layoutButtonEvent.check(b)
	if err != nil {
		return nil, 0, err
	}
	return ButtonEvent{event: b[2]}, n, nil
}

func (self ButtonEvent) Code() Code  { return CodeButtonEvent }
func (self ButtonEvent) Event() byte { return self.event }

func (self ButtonEvent) Encode() []byte {
	b := header(CodeButtonEvent, buttonEventSize)
	b[2] = self.event
	return b
}

func (self ButtonEvent) String() string {
	return fmt.Sprintf("ButtonEvent: %02x", self.event)
}

// UserReset reports the modem was factory reset with set button.
type UserReset struct{}

func decodeUserReset(b []byte) (Message, int, error) {
	n, err := layoutUserReset.check(b)
	if err != nil {
		return nil, 0, err
	}
	return UserReset{}, n, nil
}

func (self UserReset) Code() Code     { return CodeUserReset }
func (self UserReset) Encode() []byte { return header(CodeUserReset, headerSize) }
func (self UserReset) String() string { return "UserReset" }

// GetInfo asks modem for its address and device category.
// Host form is 2 bytes; the echo carries 6 info bytes and status, 9 total.
type GetInfo struct {
	addr     insteon.Address
	cat      byte
	subcat   byte
	firmware byte
	ack      Ack
}

func NewGetInfo() GetInfo { return GetInfo{} }

func decodeGetInfo(b []byte) (Message, int, error) {
	n, err := layoutGetInfo.check(b)
	if err != nil {
		return nil, 0, err
	}
	m := GetInfo{}
	var consumed int
	m.ack, consumed = layoutGetInfo.status(b, n)
	if consumed > n {
		if m.addr, err = insteon.AddressFromBytes(b, 2); err != nil {
			return nil, 0, errors.Trace(err)
		}
		m.cat, m.subcat, m.firmware = b[5], b[6], b[7]
	}
	return m, consumed, nil
}

func (self GetInfo) Code() Code               { return CodeGetInfo }
func (self GetInfo) Address() insteon.Address { return self.addr }
func (self GetInfo) Category() (cat, subcat byte) {
	return self.cat, self.subcat
}
func (self GetInfo) Firmware() byte { return self.firmware }
func (self GetInfo) Ack() Ack       { return self.ack }

func (self GetInfo) Encode() []byte { return header(CodeGetInfo, headerSize) }

func (self GetInfo) String() string {
	if self.ack == AckNone {
		return "GetInfo"
	}
	return fmt.Sprintf("GetInfo: %s cat: %02x.%02x fw: %02x ack: %s",
		self.addr, self.cat, self.subcat, self.firmware, self.ack)
}

// SetHostCategory sets device category the modem reports to peers.
type SetHostCategory struct {
	cat      byte
	subcat   byte
	firmware byte
	ack      Ack
}

func NewSetHostCategory(cat, subcat, firmware byte) SetHostCategory {
	return SetHostCategory{cat: cat, subcat: subcat, firmware: firmware}
}

func decodeSetHostCategory(b []byte) (Message, int, error) {
	n, err := layoutSetHostCategory.check(b)
	if err != nil {
		return nil, 0, err
	}
	m := SetHostCategory{cat: b[2], subcat: b[3], firmware: b[4]}
	var consumed int
	m.ack, consumed = layoutSetHostCategory.status(b, n)
	return m, consumed, nil
}

func (self SetHostCategory) Code() Code { return CodeSetHostCategory }
func (self SetHostCategory) Category() (cat, subcat byte) {
	return self.cat, self.subcat
}
func (self SetHostCategory) Firmware() byte { return self.firmware }
func (self SetHostCategory) Ack() Ack       { return self.ack }

func (self SetHostCategory) Encode() []byte {
	b := header(CodeSetHostCategory, setHostCategorySize)
	b[2], b[3], b[4] = self.cat, self.subcat, self.firmware
	return b
}

func (self SetHostCategory) String() string {
	return fmt.Sprintf("SetHostCategory: cat: %02x.%02x fw: %02x ack: %s",
		self.cat, self.subcat, self.firmware, self.ack)
}

// Modem configuration bits of SetConfig/GetConfig.
const (
	ConfigNoAutoLink  byte = 0x80
	ConfigMonitorMode byte = 0x40
	ConfigNoAutoLED   byte = 0x20
	ConfigNoDeadman   byte = 0x10
)

// SetConfig writes modem configuration byte.
type SetConfig struct {
	config byte
	ack    Ack
}

func NewSetConfig(config byte) SetConfig { return SetConfig{config: config} }

func decodeSetConfig(b []byte) (Message, int, error) {
	n, err := layoutSetConfig.check(b)
	if err != nil {
		return nil, 0, err
	}
	m := SetConfig{config: b[2]}
	var consumed int
	m.ack, consumed = layoutSetConfig.status(b, n)
	return m, consumed, nil
}

func (self SetConfig) Code() Code   { return CodeSetConfig }
func (self SetConfig) Config() byte { return self.config }
func (self SetConfig) Ack() Ack     { return self.ack }

func (self SetConfig) Encode() []byte {
	b := header(CodeSetConfig, setConfigSize)
	b[2] = self.config
	return b
}

func (self SetConfig) String() string {
	return fmt.Sprintf("SetConfig: %02x ack: %s", self.config, self.ack)
}

// GetConfig reads modem configuration byte.
// Host form is 2 bytes; the echo carries config, 2 spare bytes and status.
type GetConfig struct {
	config byte
	spare  [2]byte
	ack    Ack
}

func NewGetConfig() GetConfig { return GetConfig{} }

func decodeGetConfig(b []byte) (Message, int, error) {
	n, err := layoutGetConfig.check(b)
	if err != nil {
		return nil, 0, err
	}
	m := GetConfig{}
	var consumed int
	m.ack, consumed = layoutGetConfig.status(b, n)
	if consumed > n {
		m.config = b[2]
		copy(m.spare[:], b[3:5])
	}
	return m, consumed, nil
}

func (self GetConfig) Code() Code     { return CodeGetConfig }
func (self GetConfig) Config() byte   { return self.config }
func (self GetConfig) Spare() [2]byte { return self.spare }
func (self GetConfig) Ack() Ack       { return self.ack }

func (self GetConfig) Encode() []byte { return header(CodeGetConfig, headerSize) }

func (self GetConfig) String() string {
	if self.ack == AckNone {
		return "GetConfig"
	}
	return fmt.Sprintf("GetConfig: %02x ack: %s", self.config, self.ack)
}

// ModemCommand is one of the commands without body:
// CancelAllLink, ResetModem, GetFirstAllLink, GetNextAllLink.
type ModemCommand struct {
	code Code
	ack  Ack
}

func modemCommandLayout(code Code) (layout, bool) {
	switch code {
	case CodeCancelAllLink:
		return layoutCancelAllLink, true
	case CodeResetModem:
		return layoutResetModem, true
	case CodeGetFirstAllLink:
		return layoutGetFirstAllLink, true
	case CodeGetNextAllLink:
		return layoutGetNextAllLink, true
	}
	return layout{}, false
}

func NewModemCommand(code Code) (ModemCommand, error) {
	if _, ok := modemCommandLayout(code); !ok {
		return ModemCommand{}, invalidField(code, "code", code.Hex())
	}
	return ModemCommand{code: code}, nil
}

func decodeModemCommand(l layout) DecodeFunc {
	return func(b []byte) (Message, int, error) {
		n, err := l.check(b)
		if err != nil {
			return nil, 0, err
		}
		m := ModemCommand{code: l.code}
		var consumed int
		m.ack, consumed = l.status(b, n)
		return m, consumed, nil
	}
}

func (self ModemCommand) Code() Code     { return self.code }
func (self ModemCommand) Ack() Ack       { return self.ack }
func (self ModemCommand) Encode() []byte { return header(self.code, headerSize) }

func (self ModemCommand) String() string {
	return fmt.Sprintf("%s ack: %s", self.code.String(), self.ack)
}
