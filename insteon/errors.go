package insteon

import (
	"fmt"

	"github.com/juju/errors"
)

// ShortBufferError reports that fewer bytes remain than a field needs.
type ShortBufferError struct {
	Field  string
	Need   int
	Remain int
}

func (self ShortBufferError) Error() string {
	return fmt.Sprintf("%s needs %d bytes, remain=%d", self.Field, self.Need, self.Remain)
}

func IsShortBuffer(err error) bool {
	_, ok := errors.Cause(err).(ShortBufferError)
	return ok
}

func checkRemain(field string, b []byte, offset, need int) error {
	remain := len(b) - offset
	if offset < 0 || remain < need {
		if remain < 0 {
			remain = 0
		}
		return errors.Trace(ShortBufferError{Field: field, Need: need, Remain: remain})
	}
	return nil
}
