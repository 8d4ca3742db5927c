//go:build !linux
// +build !linux

package plm

import (
	"os"

	"github.com/juju/errors"
)

const DefaultBaud = 19200

func OpenUart(path string, baud int) (*os.File, error) {
	return nil, errors.NotSupportedf("uart on this platform path=%s", path)
}
