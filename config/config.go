// Package config reads gateway settings from HCL files.
//
//	include "local.hcl" { optional = true }
//	log_debug = false
//	plm { device = "/dev/ttyUSB0" baud = 19200 }
//	mqtt { broker = "tcp://127.0.0.1:1883" topic_prefix = "insteon" }
package config

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/log2"
)

const (
	DefaultDevice      = "/dev/ttyUSB0"
	DefaultBaud        = 19200
	DefaultBroker      = "tcp://127.0.0.1:1883"
	DefaultClientID    = "insteon-mqtt"
	DefaultTopicPrefix = "insteon"
	DefaultKeepalive   = 60

	FormatJSON = "json"
	FormatCBOR = "cbor"
)

type Config struct {
	includeSeen map[string]struct{}
	XXX_Include []Source `hcl:"include"`

	LogDebug bool       `hcl:"log_debug"`
	Plm      PlmConfig  `hcl:"plm"`
	Mqtt     MqttConfig `hcl:"mqtt"`
}

type PlmConfig struct { //nolint:maligned
	Device   string `hcl:"device"`
	Baud     int    `hcl:"baud"`
	LogDebug bool   `hcl:"log_debug"`
}

type MqttConfig struct { //nolint:maligned
	Broker       string `hcl:"broker"`
	ClientID     string `hcl:"client_id"`
	Username     string `hcl:"username"`
	Password     string `hcl:"password"`
	TopicPrefix  string `hcl:"topic_prefix"`
	Qos          int    `hcl:"qos"`
	KeepaliveSec int    `hcl:"keepalive_sec"`
	// rx payload encoding: json or cbor
	Format   string `hcl:"format"`
	LogDebug bool   `hcl:"log_debug"`
}

type Source struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source Source, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.AlreadyExistsf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	if err = hcl.Unmarshal(bs, c); err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []Source
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		if _, ok := c.includeSeen[fs.Normalize(include.Name)]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.Plm.Device == "" {
		c.Plm.Device = DefaultDevice
	}
	if c.Plm.Baud == 0 {
		c.Plm.Baud = DefaultBaud
	}
	if c.Mqtt.Broker == "" {
		c.Mqtt.Broker = DefaultBroker
	}
	if c.Mqtt.ClientID == "" {
		// unique per process, brokers drop older session with same id
		c.Mqtt.ClientID = DefaultClientID + "-" + uuid.New().String()[:8]
	}
	if c.Mqtt.Format == "" {
		c.Mqtt.Format = FormatJSON
	}
	if c.Mqtt.TopicPrefix == "" {
		c.Mqtt.TopicPrefix = DefaultTopicPrefix
	}
	if c.Mqtt.KeepaliveSec == 0 {
		c.Mqtt.KeepaliveSec = DefaultKeepalive
	}
}

func (c *Config) Validate() error {
	errs := make([]error, 0, 4)
	if c.Plm.Baud < 0 {
		errs = append(errs, errors.NotValidf("config plm.baud=%d", c.Plm.Baud))
	}
	if c.Mqtt.Qos < 0 || c.Mqtt.Qos > 2 {
		errs = append(errs, errors.NotValidf("config mqtt.qos=%d", c.Mqtt.Qos))
	}
	switch c.Mqtt.Format {
	case FormatJSON, FormatCBOR:
	default:
		errs = append(errs, errors.NotValidf("config mqtt.format=%s", c.Mqtt.Format))
	}
	if c.Mqtt.KeepaliveSec < 0 {
		errs = append(errs, errors.NotValidf("config mqtt.keepalive_sec=%d", c.Mqtt.KeepaliveSec))
	}
	return helpers.FoldErrors(errs)
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("code error [Must]ReadConfig() without names")
	}

	names = append([]string(nil), names...)
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, Source{Name: name}, &errs)
	}
	if err := helpers.FoldErrors(errs); err != nil {
		return c, err
	}
	c.Defaults()
	return c, c.Validate()
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
