package mqtt

import (
	"encoding/json"

	"github.com/juju/errors"
)

type ReplyType string

const (
	// command has finished
	ReplyEnd ReplyType = "END"
	// status message
	ReplyMessage ReplyType = "MESSAGE"
	ReplyError   ReplyType = "ERROR"
)

func (self ReplyType) Valid() bool {
	switch self {
	case ReplyEnd, ReplyMessage, ReplyError:
		return true
	}
	return false
}

// Reply is sent back to remote command line tool on reply topic.
type Reply struct {
	Type ReplyType   `json:"type"`
	Data interface{} `json:"data"`
}

func NewReply(typ ReplyType, data interface{}) Reply { return Reply{Type: typ, Data: data} }

func ReplyFromJSON(b []byte) (Reply, error) {
	var r Reply
	if err := json.Unmarshal(b, &r); err != nil {
		return Reply{}, errors.Annotate(err, "reply json")
	}
	if !r.Type.Valid() {
		return Reply{}, errors.NotValidf("reply type=%q", r.Type)
	}
	return r, nil
}

func (self Reply) JSON() ([]byte, error) {
	if !self.Type.Valid() {
		return nil, errors.NotValidf("reply type=%q", self.Type)
	}
	b, err := json.Marshal(self)
	return b, errors.Trace(err)
}
