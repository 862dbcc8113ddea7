package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("MAX_FILE_MB", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("AI_MAX_TOKENS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 50<<20, cfg.MaxFileBytes())
	require.False(t, cfg.AI.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9000"
db_path: "history.db"
max_file_mb: 5
log_level: debug
ai:
  api_key: from-file
  timeout: 5s
`), 0o600))

	t.Setenv(EnvConfigPath, path)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("MAX_FILE_MB", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("AI_API_KEY", "from-env")
	t.Setenv("AI_MAX_TOKENS", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, "history.db", cfg.DBPath)
	require.Equal(t, 5, cfg.MaxFileMB)
	require.Equal(t, "from-env", cfg.AI.APIKey)
	require.Equal(t, 5*time.Second, cfg.AI.Timeout)
	require.Equal(t, 4096, cfg.AI.MaxTokens)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, "DEBUG", lvl.String())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("MAX_FILE_MB", "lots")
	_, err := Load()
	require.ErrorContains(t, err, "MAX_FILE_MB")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.MaxFileMB = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LogLevel = "loud"
	require.ErrorContains(t, cfg.Validate(), "log_level")
}
