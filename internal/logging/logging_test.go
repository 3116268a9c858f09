package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Level: "DEBUG", Format: "console"}.Validate())
	assert.Error(t, Config{Level: "loud"}.Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", DefaultFile)
	log, closeFn, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("entry added", zap.String("date", "2024-01-01"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"entry added"`)
	assert.Contains(t, string(data), `"date":"2024-01-01"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, _, err := New(Config{Level: "nope"})
	assert.Error(t, err)
}
