package message

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/insteon"
)

// MalformedHeaderError: buffer lacks StartByte or carries a different Code
// than the decoder expects. Caller must resynchronize.
type MalformedHeaderError struct {
	Offset int
	Expect byte
	Actual byte
}

func (self MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header offset=%d expected=%02x actual=%02x", self.Offset, self.Expect, self.Actual)
}

// UnknownTypeError: Code not registered.
type UnknownTypeError struct {
	Code Code
}

func (self UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type code=%02x", byte(self.Code))
}

// IncompleteError: buffer shorter than the frame, wait for Need more bytes.
type IncompleteError struct {
	Code Code
	Need int
}

func (self IncompleteError) Error() string {
	return fmt.Sprintf("incomplete frame code=%02x need=%d more bytes", byte(self.Code), self.Need)
}

// InvalidFieldError: field value outside its domain.
type InvalidFieldError struct {
	Code  Code
	Field string
	Value interface{}
}

func (self InvalidFieldError) Error() string {
	return fmt.Sprintf("%s invalid %s=%v", self.Code.String(), self.Field, self.Value)
}

func invalidField(code Code, field string, value interface{}) error {
	return errors.Trace(InvalidFieldError{Code: code, Field: field, Value: value})
}

func IsMalformedHeader(err error) bool {
	_, ok := errors.Cause(err).(MalformedHeaderError)
	return ok
}

func IsUnknownType(err error) bool {
	_, ok := errors.Cause(err).(UnknownTypeError)
	return ok
}

// IsIncomplete also matches insteon.ShortBufferError from field readers.
func IsIncomplete(err error) bool {
	if insteon.IsShortBuffer(err) {
		return true
	}
	_, ok := errors.Cause(err).(IncompleteError)
	return ok
}

func IsInvalidField(err error) bool {
	_, ok := errors.Cause(err).(InvalidFieldError)
	return ok
}
