package mqtt

import (
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

type MqttMock struct {
	sync.Mutex
	Opt       *paho.ClientOptions
	Pub       chan MockMsg
	subs      []MockSub
	connected bool
}
type MockSub struct {
	Pattern string
	Qos     byte
	Handler paho.MessageHandler
}

func NewMqttMock() *MqttMock {
	return &MqttMock{
		Pub:  make(chan MockMsg, 32),
		subs: make([]MockSub, 0, 16),
	}
}

func (self *MqttMock) MockNew(opt *paho.ClientOptions) paho.Client {
	self.Opt = opt
	return self
}

// TestPublish delivers message from broker side to subscribed handler.
func (self *MqttMock) TestPublish(t testing.TB, topic string, payload []byte) {
	self.Lock()
	subs := append([]MockSub(nil), self.subs...)
	self.Unlock()
	for _, sub := range subs {
		if topic == sub.Pattern {
			msg := MockMsg{T: topic, P: payload, Q: sub.Qos}
			if sub.Qos > 0 {
				msg.acked = make(chan struct{})
			}
			sub.Handler(self, msg)
			if sub.Qos > 0 {
				select {
				case <-msg.acked:
				default:
					t.Errorf("message='%s' handled without Ack()", string(payload))
				}
			}
			return
		}
	}
	t.Errorf("not subscribed for topic=%s", topic)
}

func (self *MqttMock) Disconnect(uint) {
	self.Lock()
	self.connected = false
	self.Unlock()
}
func (self *MqttMock) IsConnected() bool {
	self.Lock()
	defer self.Unlock()
	return self.connected
}
func (self *MqttMock) IsConnectionOpen() bool { return self.IsConnected() }

func (self *MqttMock) Connect() paho.Token {
	self.Lock()
	self.connected = true
	self.Unlock()
	if self.Opt != nil && self.Opt.OnConnect != nil {
		self.Opt.OnConnect(self)
	}
	return mockToken{nil}
}

func (self *MqttMock) Publish(topic string, qos byte, retain bool, payload interface{}) paho.Token {
	msg := MockMsg{T: topic, Q: qos, R: retain}
	switch p := payload.(type) {
	case []byte:
		msg.P = p
	case string:
		msg.P = []byte(p)
	default:
		return mockToken{errors.NotSupportedf("payload type %T", payload)}
	}
	self.Pub <- msg
	return mockToken{nil}
}

func (self *MqttMock) Subscribe(pattern string, qos byte, handler paho.MessageHandler) paho.Token {
	self.Lock()
	self.subs = append(self.subs, MockSub{pattern, qos, handler})
	self.Unlock()
	return mockToken{nil}
}

func (self *MqttMock) Unsubscribe(patterns ...string) paho.Token {
	self.Lock()
	defer self.Unlock()
	kept := self.subs[:0]
	for _, sub := range self.subs {
		drop := false
		for _, p := range patterns {
			drop = drop || p == sub.Pattern
		}
		if !drop {
			kept = append(kept, sub)
		}
	}
	self.subs = kept
	return mockToken{nil}
}

func (self *MqttMock) AddRoute(string, paho.MessageHandler) { panic("not implemented") }

func (self *MqttMock) OptionsReader() paho.ClientOptionsReader {
	panic("not implemented")
}

func (self *MqttMock) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	panic("not implemented")
}

// ExpectPub returns next published message or fails after timeout.
func (self *MqttMock) ExpectPub(t testing.TB) MockMsg {
	t.Helper()
	select {
	case msg := <-self.Pub:
		return msg
	case <-time.After(time.Second):
		t.Fatal("expected publish")
		return MockMsg{}
	}
}

type mockToken struct{ error }

func (tok mockToken) Error() error                   { return tok.error }
func (tok mockToken) Wait() bool                     { return !errors.IsTimeout(tok.error) }
func (tok mockToken) WaitTimeout(time.Duration) bool { return tok.Wait() }

type MockMsg struct {
	T     string
	P     []byte
	Q     byte
	R     bool
	acked chan struct{}
}

func (msg MockMsg) Ack() {
	if msg.acked != nil {
		close(msg.acked)
	}
}

func (msg MockMsg) Duplicate() bool   { return false }
func (msg MockMsg) MessageID() uint16 { return 0 }
func (msg MockMsg) Payload() []byte   { return msg.P }
func (msg MockMsg) Qos() byte         { return msg.Q }
func (msg MockMsg) Retained() bool    { return msg.R }
func (msg MockMsg) Topic() string     { return msg.T }
