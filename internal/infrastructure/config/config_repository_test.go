package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

func newTestRepository(t *testing.T) (*ConfigRepository, string) {
	t.Helper()
	dir := t.TempDir()
	return NewConfigRepositoryWithEnvFile(filepath.Join(dir, ".env")), filepath.Join(dir, "config.yaml")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	repo, path := newTestRepository(t)

	config, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.NewConfig(), config)
}

func TestSaveThenLoad(t *testing.T) {
	repo, path := newTestRepository(t)

	config := model.NewConfig()
	config.ConnectTimeout = 3 * time.Second
	config.ReadTimeout = 1500 * time.Millisecond
	config.UserAgent = "tester/1.0"
	config.Encoding = "iso-8859-1"
	config.TLSVerify = true
	config.TLSMinVersion = "1.2"
	config.FollowRedirects = true
	config.MaxRedirects = 2
	config.AttachCookies = true
	config.LogLevel = model.LogLevelDebug
	config.LogFile = "/tmp/manualhttp.log"

	require.NoError(t, repo.Save(config, path))

	loaded, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestSaveCreatesDirectory(t *testing.T) {
	repo, _ := newTestRepository(t)
	path := filepath.Join(t.TempDir(), "a", "b", "config.yaml")

	require.NoError(t, repo.Save(model.NewConfig(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, os.WriteFile(path, []byte("read_timeout: 4s\nuser_agent: from-file\n"), 0644))

	t.Setenv("MANUALHTTP_READ_TIMEOUT", "250ms")
	t.Setenv("MANUALHTTP_FOLLOW_REDIRECTS", "true")

	config, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, config.ReadTimeout)
	assert.Equal(t, "from-file", config.UserAgent)
	assert.True(t, config.FollowRedirects)
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, os.WriteFile(path, []byte("read_timeout: 4s\n"), 0644))
	require.NoError(t, os.WriteFile(repo.envFile, []byte("MANUALHTTP_ENCODING=iso-8859-1\n"), 0644))

	t.Setenv("MANUALHTTP_READ_TIMEOUT", "250ms")
	t.Setenv("MANUALHTTP_USER_AGENT", "from-env")

	config, err := repo.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, config.ReadTimeout)
	assert.Equal(t, model.NewConfig().UserAgent, config.UserAgent)
	assert.Equal(t, model.NewConfig().Encoding, config.Encoding)
}

func TestEnvFileIsLoaded(t *testing.T) {
	repo, path := newTestRepository(t)
	require.NoError(t, os.WriteFile(repo.envFile, []byte("MANUALHTTP_USER_AGENT=from-dotenv\n"), 0644))

	// register cleanup, then clear so the .env value is not shadowed
	t.Setenv("MANUALHTTP_USER_AGENT", "")
	require.NoError(t, os.Unsetenv("MANUALHTTP_USER_AGENT"))

	config, err := repo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", config.UserAgent)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative timeout", "connect_timeout: -1s\n"},
		{"negative redirects", "max_redirects: -3\n"},
		{"broken yaml", "connect_timeout: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, path := newTestRepository(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := repo.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestGetDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := NewConfigRepository().GetDefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".manualhttp", "config.yaml"), path)
}
