package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	prod := newLogger(&buf, false)
	prod.Debug("hidden")
	prod.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	dev := newLogger(&buf, true)
	assert.True(t, dev.Enabled(context.Background(), -4))
	dev.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestLoadConfig_RejectsInvalidAuthMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_MODE", "saml")

	_, err := LoadConfig()
	require.Error(t, err)
}
