package insteon

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
)

const AddressLength = 3

// Address is the 3 byte Insteon device id.
// Comparable, usable as map key.
type Address [AddressLength]byte

func AddressFromBytes(b []byte, offset int) (Address, error) {
	var a Address
	if err := checkRemain("address", b, offset, AddressLength); err != nil {
		return a, err
	}
	copy(a[:], b[offset:offset+AddressLength])
	return a, nil
}

// ParseAddress accepts "aa.bb.cc", "aa:bb:cc", "aa bb cc" or "aabbcc" in any case.
func ParseAddress(s string) (Address, error) {
	var a Address
	clean := strings.NewReplacer(".", "", ":", "", " ", "").Replace(strings.TrimSpace(s))
	if len(clean) != AddressLength*2 {
		return a, errors.NotValidf("address='%s'", s)
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return a, errors.NotValidf("address='%s'", s)
	}
	copy(a[:], b)
	return a, nil
}

func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (self Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, self[:])
	return b
}

// Encode writes 3 bytes into dst, which must have room for them.
func (self Address) Encode(dst []byte) {
	copy(dst[:AddressLength], self[:])
}

func (self Address) IsZero() bool { return self == Address{} }

func (self Address) String() string {
	return fmt.Sprintf("%02x.%02x.%02x", self[0], self[1], self[2])
}

func (self Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

func (self *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	a, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*self = a
	return nil
}
