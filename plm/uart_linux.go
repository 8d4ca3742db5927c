//go:build linux
// +build linux

package plm

import (
	"os"
	"syscall"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const DefaultBaud = 19200

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// OpenUart opens serial device in raw 8N1 mode, blocking reads.
func OpenUart(path string, baud int) (*os.File, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	speed, ok := baudRates[baud]
	if !ok {
		return nil, errors.NotSupportedf("baud=%d", baud)
	}
	f, err := os.OpenFile(path, syscall.O_RDWR|syscall.O_NOCTTY, 0600)
	if err != nil {
		return nil, errors.Annotatef(err, "uart open path=%s", path)
	}
	t := unix.Termios{
		Iflag:  unix.IGNPAR,
		Cflag:  unix.CS8 | unix.CLOCAL | unix.CREAD | speed,
		Ispeed: speed,
		Ospeed: speed,
	}
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err = unix.IoctlSetTermios(int(f.Fd()), unix.TCSETSF, &t); err != nil {
		f.Close()
		return nil, errors.Annotatef(err, "uart termios path=%s baud=%d", path, baud)
	}
	return f, nil
}
