package config

import (
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/insteon-mqtt/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		sources   map[string]string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", map[string]string{"main": ""}, func(t testing.TB, c *Config) {
			assert.Equal(t, DefaultDevice, c.Plm.Device)
			assert.Equal(t, DefaultBaud, c.Plm.Baud)
			assert.Equal(t, DefaultBroker, c.Mqtt.Broker)
			assert.Equal(t, DefaultTopicPrefix, c.Mqtt.TopicPrefix)
			assert.Equal(t, DefaultKeepalive, c.Mqtt.KeepaliveSec)
			assert.Equal(t, FormatJSON, c.Mqtt.Format)
			assert.Regexp(t, `^insteon-mqtt-[0-9a-f]{8}$`, c.Mqtt.ClientID)
			assert.False(t, c.LogDebug)
		}, ""},

		{"plm-mqtt", map[string]string{"main": `
log_debug = true
plm { device = "/dev/ttyS3" baud = 9600 log_debug = true }
mqtt {
	broker = "tcp://broker:1883"
	client_id = "gw1"
	username = "u"
	password = "p"
	topic_prefix = "home/insteon"
	qos = 1
	format = "cbor"
}`}, func(t testing.TB, c *Config) {
			assert.True(t, c.LogDebug)
			assert.Equal(t, PlmConfig{Device: "/dev/ttyS3", Baud: 9600, LogDebug: true}, c.Plm)
			assert.Equal(t, "tcp://broker:1883", c.Mqtt.Broker)
			assert.Equal(t, "gw1", c.Mqtt.ClientID)
			assert.Equal(t, "u", c.Mqtt.Username)
			assert.Equal(t, "p", c.Mqtt.Password)
			assert.Equal(t, "home/insteon", c.Mqtt.TopicPrefix)
			assert.Equal(t, 1, c.Mqtt.Qos)
			assert.Equal(t, FormatCBOR, c.Mqtt.Format)
		}, ""},

		{"include-overrides", map[string]string{
			"main":  `plm { device = "/dev/a" } include "local" {}`,
			"local": `plm { baud = 38400 } mqtt { qos = 2 }`,
		}, func(t testing.TB, c *Config) {
			assert.Equal(t, "/dev/a", c.Plm.Device)
			assert.Equal(t, 38400, c.Plm.Baud)
			assert.Equal(t, 2, c.Mqtt.Qos)
		}, ""},

		{"include-optional-missing", map[string]string{
			"main": `include "absent" { optional = true }`,
		}, nil, ""},

		{"include-required-missing", map[string]string{
			"main": `include "absent" {}`,
		}, nil, "config required name=absent path=absent not found"},

		{"include-loop", map[string]string{
			"main": `include "main" {}`,
		}, nil, "config include loop: from=main include=main"},

		{"syntax", map[string]string{"main": `plm {`}, nil, "config unmarshal source=main"},

		{"qos-range", map[string]string{"main": `mqtt { qos = 3 }`}, nil, "config mqtt.qos=3 not valid"},
		{"format", map[string]string{"main": `mqtt { format = "xml" }`}, nil, "config mqtt.format=xml not valid"},
	}
	rand.New(rand.NewSource(time.Now().UnixNano())).Shuffle(len(cases), func(i int, j int) { cases[i], cases[j] = cases[j], cases[i] })
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(c.sources)
			cfg, err := ReadConfig(log, fs, "main")
			if c.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectErr)
				return
			}
			require.NoError(t, err)
			if c.check != nil {
				c.check(t, cfg)
			}
		})
	}
}

func TestReadConfigMultipleNames(t *testing.T) {
	t.Parallel()
	fs := NewMockFullReader(map[string]string{
		"a": `plm { device = "/dev/x" }`,
		"b": `mqtt { client_id = "second" }`,
	})
	cfg := MustReadConfig(log2.NewTest(t, log2.LDebug), fs, "a", "b")
	assert.Equal(t, "/dev/x", cfg.Plm.Device)
	assert.Equal(t, "second", cfg.Mqtt.ClientID)

	_, err := ReadConfig(log2.NewTest(t, log2.LDebug), fs, "a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config duplicate source=a")
}

func TestReadConfigNoNames(t *testing.T) {
	t.Parallel()
	_, err := ReadConfig(nil, NewMockFullReader(nil))
	require.Error(t, err)
}

func TestReadConfigKeepsNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	main := filepath.Join(dir, "main.hcl")
	require.NoError(t, ioutil.WriteFile(main, []byte(`include "local.hcl" {}
plm { device = "/dev/main" }`), 0600))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "local.hcl"), []byte(`mqtt { client_id = "local" }`), 0600))

	names := []string{main}
	for i := 0; i < 2; i++ {
		cfg, err := ReadConfig(log2.NewTest(t, log2.LDebug), NewOsFullReader(), names...)
		require.NoError(t, err, "read=%d", i)
		assert.Equal(t, "/dev/main", cfg.Plm.Device)
		assert.Equal(t, "local", cfg.Mqtt.ClientID)
		assert.Equal(t, []string{main}, names)
	}
}

func TestOsFullReaderNormalize(t *testing.T) {
	t.Parallel()
	fs := NewOsFullReader()
	fs.SetBase("/etc/insteon")
	assert.Equal(t, "/etc/insteon/local.hcl", fs.Normalize("local.hcl"))
	assert.Equal(t, "/opt/x.hcl", fs.Normalize("/opt/x.hcl"))
	b, err := fs.ReadAll("/nonexistent/insteon-mqtt.hcl")
	assert.NoError(t, err)
	assert.Nil(t, b)
}
