package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"streamhub/config"
)

func runLoadSettings(t *testing.T, args ...string) (config.Settings, error, error) {
	t.Helper()
	var (
		settings  config.Settings
		configErr error
		loadErr   error
	)
	app := &cli.App{
		Name:  "streamhub",
		Flags: globalFlags,
		Action: func(c *cli.Context) error {
			settings, configErr, loadErr = loadSettings(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"streamhub"}, args...)))
	return settings, configErr, loadErr
}

func TestLoadSettingsContinuesOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	settings, configErr, err := runLoadSettings(t, "--config", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Error(t, configErr)
	assert.Equal(t, config.DefaultSettings().Server.Addr, settings.Server.Addr)
	assert.Equal(t, "debug", settings.Log.Level)

	logger, err := newLogger(settings, configErr)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadSettingsReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o644))

	settings, configErr, err := runLoadSettings(t, "--config", path)
	require.NoError(t, err)
	assert.NoError(t, configErr)
	assert.Equal(t, ":9090", settings.Server.Addr)
}
