package lspcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdLSP(t *testing.T) {
	cmd := NewCmdLSP()
	assert.Equal(t, "lsp", cmd.Use)

	for _, name := range []string{"tcp", "log-file"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	require.NotNil(t, cmd.Args)
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
	assert.NoError(t, cmd.Args(cmd, nil))
}
