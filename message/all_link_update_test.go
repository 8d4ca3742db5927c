package message

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/insteon"
)

func TestAllLinkUpdateScenario(t *testing.T) {
	t.Parallel()
	// decimal 10.20.30
	addr := insteon.Address{10, 20, 30}
	m, err := NewAllLinkUpdate(UpdateUpdate, insteon.DbFlags(0x00), 1, addr, []byte{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, AckNone, m.Ack())

	b := m.Encode()
	assert.Equal(t, "026f2000010a141e000000", hex.EncodeToString(b))
	assert.Len(t, b, 11)

	echo := append(b, AckByte)
	decoded, n, err := decodeAllLinkUpdate(echo)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	u := decoded.(AllLinkUpdate)
	assert.True(t, u.Ack().IsAck())
	assert.Equal(t, m.Cmd(), u.Cmd())
	assert.Equal(t, m.Flags(), u.Flags())
	assert.Equal(t, m.Group(), u.Group())
	assert.Equal(t, m.Address(), u.Address())
	assert.Equal(t, m.Data(), u.Data())
	assert.Equal(t, "AllLinkUpdate: 0a.14.1e grp: 1 UPDATE flags: 00 data: 000000 ack: ack", u.String())

	out := DefaultRegistry().Decode(echo)
	require.Equal(t, StatusDecoded, out.Status, out.String())
	assert.Equal(t, 12, out.Consumed)
	assert.Equal(t, u, out.Msg)
}

func TestAllLinkUpdateCmdDomain(t *testing.T) {
	t.Parallel()
	valid := map[byte]bool{0x00: true, 0x01: true, 0x20: true, 0x40: true, 0x41: true, 0x80: true}
	for i := 0; i < 256; i++ {
		cmd := AllLinkUpdateCmd(i)
		m, err := NewAllLinkUpdate(cmd, insteon.NewDbFlags(true, true, false), 1, testDevice, nil)
		if valid[byte(i)] {
			require.NoError(t, err, "cmd=%02x", i)
			assert.Equal(t, cmd, m.Cmd())
			continue
		}
		require.Error(t, err, "cmd=%02x", i)
		require.True(t, IsInvalidField(err))
		assert.Equal(t, AllLinkUpdate{}, m)
	}
}

func TestAllLinkUpdateData(t *testing.T) {
	t.Parallel()
	m, err := NewAllLinkUpdate(UpdateAddResponder, insteon.DbFlags(0xa2), 5, testDevice, []byte{0x01, 0x20, 0x41})
	require.NoError(t, err)
	assert.Equal(t, [3]byte{0x01, 0x20, 0x41}, m.Data())
	assert.Equal(t, "026f41a205448511012041", hex.EncodeToString(m.Encode()))

	_, err = NewAllLinkUpdate(UpdateDelete, 0, 1, testDevice, []byte{1, 2})
	assert.True(t, IsInvalidField(err))
	assert.Contains(t, err.Error(), "data length=2")
}

func TestAllLinkUpdateDecode(t *testing.T) {
	t.Parallel()
	type Case struct {
		name      string
		input     string
		expectN   int
		expectAck Ack
		expectErr func(error) bool
	}
	cases := []Case{
		{"host-form", "026f2000010a141e000000", 11, AckNone, nil},
		{"echo-ack", "026f2000010a141e00000006", 12, AckAck, nil},
		{"echo-nak", "026f2000010a141e00000015", 12, AckNak, nil},
		{"echo-and-next-frame", "026f2000010a141e000000060250", 12, AckAck, nil},
		{"short", "026f2000010a141e0000", 0, AckNone, IsIncomplete},
		{"bad-cmd", "026f3300010a141e000000", 0, AckNone, IsInvalidField},
		{"bad-marker", "016f2000010a141e000000", 0, AckNone, IsMalformedHeader},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			m, n, err := decodeAllLinkUpdate(helpers.MustHex(c.input))
			if c.expectErr != nil {
				require.Error(t, err)
				assert.True(t, c.expectErr(err), "err=%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expectN, n)
			assert.Equal(t, c.expectAck, m.(AllLinkUpdate).Ack())
		})
	}
}
