package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseEnv points CONFIG_FILE at nothing and sets the required keys, so each
// test only states what it changes.
func baseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_FILE_PATH", "/tmp/lectern.db")
	t.Setenv("JWT_SECRET", "env-secret")
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lectern.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
}

func TestNew_Defaults(t *testing.T) {
	baseEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.False(t, cfg.DatabaseDebug)
	assert.Empty(t, cfg.FrontendURL)
	assert.Equal(t, "/data/media", cfg.MediaDir)
	assert.Equal(t, int64(10<<20), cfg.MediaMaxUploadBytes)
	assert.Equal(t, int64(40000000), cfg.MediaMaxImagePixels)
	assert.Equal(t, 480, cfg.MediaThumbnailWidth)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 3690, cfg.ServerPort)
	assert.False(t, cfg.SessionCookieSecure)
}

func TestNew_MissingRequired(t *testing.T) {
	baseEnv(t)
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Equal(t,
		"missing required config: DATABASE_FILE_PATH (yaml: database_file_path), JWT_SECRET (yaml: jwt_secret)",
		err.Error())
}

func TestNew_EnvTypes(t *testing.T) {
	baseEnv(t)
	t.Setenv("DATABASE_BUSY_TIMEOUT", "250ms")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("MEDIA_THUMBNAIL_WIDTH", "320")
	t.Setenv("FRONTEND_URL", "https://courses.example.com")
	// not a config key, so it must not leak in anywhere
	t.Setenv("MEDIA", "ignored")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.DatabaseBusyTimeout)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, 320, cfg.MediaThumbnailWidth)
	assert.Equal(t, "https://courses.example.com", cfg.FrontendURL)
	assert.Equal(t, "/data/media", cfg.MediaDir)
}

func TestNew_FileThenEnv(t *testing.T) {
	baseEnv(t)
	// an empty variable still counts as set, so drop them entirely
	require.NoError(t, os.Unsetenv("DATABASE_FILE_PATH"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	writeConfig(t, `
database_file_path: /data/from-file.db
jwt_secret: file-secret
media_dir: /srv/media
server_port: 8080
`)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-file.db", cfg.DatabaseFilePath)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "/srv/media", cfg.MediaDir)
	assert.Equal(t, 8080, cfg.ServerPort)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	cfg, err = New()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "/srv/media", cfg.MediaDir)
}

func TestNew_BadConfigFile(t *testing.T) {
	baseEnv(t)
	writeConfig(t, "server_port: [not, a, number\n")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, 1, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestKnownKeys(t *testing.T) {
	keys := knownKeys()
	for _, k := range []string{"database_file_path", "jwt_secret", "media_thumbnail_width", "session_cookie_secure"} {
		assert.Contains(t, keys, k)
	}
	assert.NotContains(t, keys, "media")
}
