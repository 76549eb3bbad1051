package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"streamhub/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogSettings{Level: "chatty"})
	require.Error(t, err)
}

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamhub.log")
	settings := config.DefaultSettings().Log
	settings.File = path

	logger, err := New(settings)
	require.NoError(t, err)

	logger.Info("catalog fallback", zap.String("category", "featured"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"featured"`)
	assert.Contains(t, string(data), "catalog fallback")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	logger := zap.NewExample()
	assert.Same(t, logger, OrNop(logger))
}
