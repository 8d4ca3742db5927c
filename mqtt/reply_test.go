package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyJSON(t *testing.T) {
	t.Parallel()
	b, err := NewReply(ReplyMessage, "linking 44.85.11").JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MESSAGE","data":"linking 44.85.11"}`, string(b))

	r, err := ReplyFromJSON([]byte(`{"type":"END","data":null}`))
	require.NoError(t, err)
	assert.Equal(t, ReplyEnd, r.Type)
	assert.Nil(t, r.Data)

	_, err = ReplyFromJSON([]byte(`{"type":"DONE"}`))
	assert.Error(t, err)
	_, err = ReplyFromJSON([]byte(`{`))
	assert.Error(t, err)
	_, err = NewReply("", nil).JSON()
	assert.Error(t, err)
}
