package plm

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
)

const (
	hexStandard = "02504485110a141e2b11ff"
	hexUpdate   = "026f2000010a141e00000006"
	hexButton   = "025403"
)

func collect(t testing.TB, r *Reader, input string) []string {
	var got []string
	r.Feed(helpers.MustHex(input), func(m message.Message, _ []byte) {
		got = append(got, m.Code().String())
	})
	return got
}

func TestReaderResync(t *testing.T) {
	t.Parallel()
	type Case struct {
		name     string
		input    string
		expect   []string
		buffered int
		dropped  uint64
		unknown  uint64
		invalid  uint64
	}
	cases := []Case{
		{"clean", hexStandard + hexButton, []string{"StandardReceived", "ButtonEvent"}, 0, 0, 0, 0},
		{"leading-garbage", "ffee15" + hexButton, []string{"ButtonEvent"}, 0, 3, 0, 0},
		{"lone-nak-between", hexButton + "15" + hexButton, []string{"ButtonEvent", "ButtonEvent"}, 0, 1, 0, 0},
		{"unknown-type-skips-to-next-marker", "02ff0102" + hexButton, []string{"ButtonEvent"}, 0, 3, 1, 0},
		{"unknown-type-marker-in-body", "02ff02" + hexButton, []string{"ButtonEvent"}, 0, 3, 2, 0},
		{"unknown-type-no-marker", "02ff0000", nil, 0, 4, 1, 0},
		{"garbage-then-partial", "aabb0250", nil, 2, 2, 0, 0},
		{"invalid-frame-dropped-whole", "026f3300010a141e00000006" + hexButton, []string{"ButtonEvent"}, 0, 0, 0, 1},
		{"partial-tail", hexUpdate + "026f20", []string{"AllLinkUpdate"}, 3, 0, 0, 0},
	}
	rand.New(rand.NewSource(time.Now().UnixNano())).Shuffle(len(cases), func(i int, j int) { cases[i], cases[j] = cases[j], cases[i] })
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r := NewReader(nil, nil, log2.NewTest(t, log2.LDebug))
			got := collect(t, r, c.input)
			assert.Equal(t, c.expect, got)
			assert.Equal(t, c.buffered, r.Buffered())
			st := r.Stats()
			assert.Equal(t, uint64(len(c.expect)), st.Frames)
			assert.Equal(t, c.dropped, st.Dropped)
			assert.Equal(t, c.unknown, st.Unknown)
			assert.Equal(t, c.invalid, st.Invalid)
		})
	}
}

func TestReaderRawFrame(t *testing.T) {
	t.Parallel()
	type Case struct {
		name   string
		input  string
		expect []string
	}
	cases := []Case{
		{"report", hexStandard, []string{hexStandard}},
		{"update-echo", hexUpdate, []string{hexUpdate}},
		{"get-info-echo", "026044851103159b06", []string{"026044851103159b06"}},
		{"get-config-echo-nak", "027348000015" + hexButton, []string{"027348000015", hexButton}},
		{"send-standard-echo-after-garbage", "ff02624485110f11ff15", []string{"02624485110f11ff15"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r := NewReader(nil, nil, log2.NewTest(t, log2.LDebug))
			var raws [][]byte
			r.Feed(helpers.MustHex(c.input), func(_ message.Message, raw []byte) { raws = append(raws, raw) })
			// reader buffer reuse must not alter frames already handed out
			r.Feed(helpers.MustHex("0262448511"), func(message.Message, []byte) { t.Fatal("partial frame decoded") })
			got := make([]string, len(raws))
			for i, raw := range raws {
				got[i] = hex.EncodeToString(raw)
			}
			assert.Equal(t, c.expect, got)
		})
	}
}

func TestReaderSplitFeed(t *testing.T) {
	t.Parallel()
	r := NewReader(nil, nil, log2.NewTest(t, log2.LError))
	stream := helpers.MustHex(hexStandard + hexUpdate + hexButton)
	var got []message.Message
	var raws []string
	for _, b := range stream {
		r.Feed([]byte{b}, func(m message.Message, raw []byte) {
			got = append(got, m)
			raws = append(raws, hex.EncodeToString(raw))
		})
	}
	require.Len(t, got, 3)
	assert.Equal(t, []string{hexStandard, hexUpdate, hexButton}, raws)
	u := got[1].(message.AllLinkUpdate)
	assert.True(t, u.Ack().IsAck())
	assert.Equal(t, "0a.14.1e", u.Address().String())
	assert.Equal(t, 0, r.Buffered())
}

func TestReaderRun(t *testing.T) {
	t.Parallel()
	src := iotest.OneByteReader(bytes.NewReader(helpers.MustHex("15" + hexStandard + "02ff" + hexUpdate)))
	r := NewReader(src, nil, log2.NewTest(t, log2.LDebug))
	a := alive.NewAlive()
	var got []message.Code
	err := r.Run(a, func(m message.Message, _ []byte) { got = append(got, m.Code()) })
	require.NoError(t, err)
	assert.Equal(t, []message.Code{message.CodeStandardReceived, message.CodeAllLinkUpdate}, got)
	assert.Equal(t, uint64(1), r.Stats().Unknown)
	assert.Equal(t, uint64(3), r.Stats().Dropped)
}

func TestReaderRunError(t *testing.T) {
	t.Parallel()
	src := iotest.TimeoutReader(bytes.NewReader(helpers.MustHex(hexButton + hexButton)))
	r := NewReader(src, nil, nil)
	a := alive.NewAlive()
	n := 0
	err := r.Run(a, func(message.Message, []byte) { n++ })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plm read")
	assert.Equal(t, 2, n)
}

func TestReaderRunStopped(t *testing.T) {
	t.Parallel()
	a := alive.NewAlive()
	a.Stop()
	r := NewReader(bytes.NewReader(helpers.MustHex(hexButton)), nil, nil)
	n := 0
	require.NoError(t, r.Run(a, func(message.Message, []byte) { n++ }))
	assert.Equal(t, 0, n)
}
