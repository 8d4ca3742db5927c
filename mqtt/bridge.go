// Package mqtt exposes raw modem traffic over MQTT.
//
// Topics, relative to configured prefix:
//
//	<prefix>/plm/rx     decoded modem frames, JSON Frame
//	<prefix>/plm/tx     hex encoded host commands
//	<prefix>/plm/reply  Reply to every tx payload
//	<prefix>/state      retained "online", will "offline"
package mqtt

import (
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/insteon-mqtt/config"
	"github.com/temoto/insteon-mqtt/helpers"
	"github.com/temoto/insteon-mqtt/log2"
	"github.com/temoto/insteon-mqtt/message"
	"github.com/temoto/insteon-mqtt/plm"
)

const (
	StateOnline  = "online"
	StateOffline = "offline"

	disconnectQuiesce = 250 // ms
)

type ClientFactory func(*paho.ClientOptions) paho.Client

type Bridge struct {
	log    *log2.Log
	reg    *message.Registry
	sender plm.Sender
	m      paho.Client
	mopt   *paho.ClientOptions
	qos    byte
	format string

	// tests replace it with mock
	NewClient ClientFactory

	topicRx    string
	topicTx    string
	topicReply string
	topicState string
}

func NewBridge(log *log2.Log, c config.MqttConfig, reg *message.Registry, sender plm.Sender) *Bridge {
	if reg == nil {
		reg = message.DefaultRegistry()
	}
	prefix := strings.TrimSuffix(c.TopicPrefix, "/")
	self := &Bridge{
		log:        log,
		reg:        reg,
		sender:     sender,
		qos:        byte(c.Qos),
		format:     c.Format,
		NewClient:  paho.NewClient,
		topicRx:    fmt.Sprintf("%s/plm/rx", prefix),
		topicTx:    fmt.Sprintf("%s/plm/tx", prefix),
		topicReply: fmt.Sprintf("%s/plm/reply", prefix),
		topicState: fmt.Sprintf("%s/state", prefix),
	}
	keepAlive := helpers.IntSecondDefault(c.KeepaliveSec, config.DefaultKeepalive*time.Second)
	self.mopt = paho.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(c.ClientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetBinaryWill(self.topicState, []byte(StateOffline), self.qos, true).
		SetCleanSession(true).
		SetKeepAlive(keepAlive).
		SetPingTimeout(keepAlive / 2).
		SetOrderMatters(false).
		SetAutoReconnect(true).
		SetDefaultPublishHandler(self.messageHandler).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	return self
}

// SetPahoLog routes paho client diagnostics into log.
func SetPahoLog(log *log2.Log, debug bool) {
	if log == nil {
		return
	}
	paho.ERROR = log
	paho.CRITICAL = log
	paho.WARN = log
	if debug {
		paho.DEBUG = log
	}
}

func (self *Bridge) Options() *paho.ClientOptions { return self.mopt }

func (self *Bridge) Start() error {
	self.m = self.NewClient(self.mopt)
	self.log.Infof("mqtt connect broker=%v", self.mopt.Servers)
	if token := self.m.Connect(); token.Wait() && token.Error() != nil {
		return errors.Annotate(token.Error(), "mqtt connect")
	}
	return nil
}

func (self *Bridge) Stop() {
	if self.m == nil {
		return
	}
	self.log.Infof("mqtt unsubscribe")
	if token := self.m.Unsubscribe(self.topicTx); token.Wait() && token.Error() != nil {
		self.log.Errorf("mqtt unsubscribe err=%v", token.Error())
	}
	if token := self.m.Publish(self.topicState, self.qos, true, StateOffline); token.Wait() && token.Error() != nil {
		self.log.Errorf("mqtt publish state err=%v", token.Error())
	}
	self.m.Disconnect(disconnectQuiesce)
}

// Publish sends decoded modem message to rx topic. Matches plm.Handler.
func (self *Bridge) Publish(m message.Message, raw []byte) {
	if self.m == nil {
		return
	}
	payload, err := NewFrame(self.reg, m, raw).Marshal(self.format)
	if err != nil {
		self.log.Error(errors.ErrorStack(err))
		return
	}
	self.log.Debugf("mqtt publish topic=%s payload=%x", self.topicRx, payload)
	self.m.Publish(self.topicRx, self.qos, false, payload)
}

func (self *Bridge) reply(c paho.Client, r Reply) {
	b, err := r.JSON()
	if err != nil {
		self.log.Errorf("code error %s", errors.ErrorStack(err))
		return
	}
	c.Publish(self.topicReply, self.qos, false, b)
}

// Command parses one hex encoded frame and passes it to sender.
func (self *Bridge) Command(payload []byte) (message.Message, error) {
	b, err := message.ParseHex(string(payload))
	if err != nil {
		return nil, errors.Annotate(err, "mqtt command hex")
	}
	m, err := self.reg.Parse(b)
	if err != nil {
		return nil, errors.Annotate(err, "mqtt command")
	}
	if k, _ := self.reg.Kind(m.Code()); !k.IsCommand() {
		return nil, errors.NotSupportedf("mqtt command %s is modem report", m.Code())
	}
	if err = self.sender.Send(m); err != nil {
		return m, errors.Annotate(err, "mqtt command")
	}
	return m, nil
}

func (self *Bridge) messageHandler(c paho.Client, msg paho.Message) {
	defer msg.Ack()
	payload := msg.Payload()
	self.log.Infof("mqtt income topic=%s payload=%s", msg.Topic(), payload)
	if msg.Topic() != self.topicTx {
		self.log.Errorf("mqtt unexpected topic=%s", msg.Topic())
		return
	}
	m, err := self.Command(payload)
	if err != nil {
		self.log.Error(err)
		self.reply(c, NewReply(ReplyError, err.Error()))
		return
	}
	self.reply(c, NewReply(ReplyEnd, m.String()))
}

func (self *Bridge) connectLostHandler(c paho.Client, err error) {
	self.log.Infof("mqtt disconnect err=%v", err)
}

func (self *Bridge) onConnectHandler(c paho.Client) {
	self.log.Infof("mqtt connect")
	if token := c.Subscribe(self.topicTx, self.qos, self.messageHandler); token.Wait() && token.Error() != nil {
		self.log.Errorf("mqtt subscribe topic=%s err=%v", self.topicTx, token.Error())
		return
	}
	c.Publish(self.topicState, self.qos, true, StateOnline)
}
