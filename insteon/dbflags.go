package insteon

import "fmt"

// DbFlags is the all-link database record control byte.
//
//	bit 7   record in use
//	bit 6   1=controller 0=responder
//	bit 1   high water mark: 0 means this is the last record
//	others  reserved, kept as is
type DbFlags byte

const (
	dbFlagInUse      DbFlags = 1 << 7
	dbFlagController DbFlags = 1 << 6
	dbFlagUsedBefore DbFlags = 1 << 1

	dbFlagsReserved = ^(dbFlagInUse | dbFlagController | dbFlagUsedBefore)
)

func NewDbFlags(inUse, controller, lastRecord bool) DbFlags {
	var f DbFlags
	if inUse {
		f |= dbFlagInUse
	}
	if controller {
		f |= dbFlagController
	}
	if !lastRecord {
		f |= dbFlagUsedBefore
	}
	return f
}

func DbFlagsFromBytes(b []byte, offset int) (DbFlags, error) {
	if err := checkRemain("db flags", b, offset, 1); err != nil {
		return 0, err
	}
	return DbFlags(b[offset]), nil
}

func (self DbFlags) Byte() byte         { return byte(self) }
func (self DbFlags) InUse() bool        { return self&dbFlagInUse != 0 }
func (self DbFlags) IsController() bool { return self&dbFlagController != 0 }
func (self DbFlags) IsResponder() bool  { return !self.IsController() }
func (self DbFlags) IsLastRecord() bool { return self&dbFlagUsedBefore == 0 }
func (self DbFlags) Reserved() byte     { return byte(self & dbFlagsReserved) }

func (self DbFlags) String() string {
	role := "resp"
	if self.IsController() {
		role = "ctrl"
	}
	return fmt.Sprintf("in_use=%t %s last=%t", self.InUse(), role, self.IsLastRecord())
}
