package di

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithMissingConfigUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c := NewContainer()
	defer c.Close()

	require.NoError(t, c.Initialize(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, c.InitializeClient())

	assert.Equal(t, 10*time.Second, c.Config.ConnectTimeout)
	assert.NotNil(t, c.Protocol)
	assert.NotNil(t, c.HTTPService)
	assert.Equal(t, "Casio Typewriter", c.Protocol.Options().UserAgent)
}

func TestInitializeClientAppliesOverrides(t *testing.T) {
	c := NewContainer()
	defer c.Close()
	require.NoError(t, c.Initialize(filepath.Join(t.TempDir(), "absent.yaml")))

	c.Config.FollowRedirects = true
	c.Config.ReadTimeout = time.Second
	require.NoError(t, c.InitializeClient())

	options := c.Protocol.Options()
	assert.True(t, options.FollowRedirects)
	assert.Equal(t, time.Second, options.ReadTimeout)
}

func TestInitializeClientRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"tls version", "tls_min_version: \"0.9\"\n"},
		{"encoding", "encoding: not-a-charset\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			c := NewContainer()
			defer c.Close()
			require.NoError(t, c.Initialize(path))
			assert.Error(t, c.InitializeClient())
		})
	}
}

func TestInitializeWithLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "manualhttp.log")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: info\nlog_file: "+logPath+"\n"), 0644))

	c := NewContainer()
	require.NoError(t, c.Initialize(configPath))
	c.Logger.Info("hello file")
	c.Close()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestConfigServiceLogsToLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "manualhttp.log")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: info\nlog_file: "+logPath+"\n"), 0644))

	c := NewContainer()
	require.NoError(t, c.Initialize(configPath))
	_, err := c.ConfigService.UpdateValue(configPath, "read_timeout", "3s")
	require.NoError(t, err)
	c.Close()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Configuration saved to "+configPath)
}
