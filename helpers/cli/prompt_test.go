package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecLines(t *testing.T) {
	t.Parallel()
	var lines []string
	err := ExecLines(strings.NewReader("0260\n\n  026f 2000 010a 141e 0000 00  \r\nhelp"), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0260", "026f 2000 010a 141e 0000 00", "help"}, lines)
}
