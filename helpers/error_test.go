package helpers

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	err := FoldErrors([]error{errors.New("plm"), nil, errors.New("mqtt")})
	assert.EqualError(t, err, "plm\nmqtt")
}
