package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	cfg := defaults()
	err := parseEnv(&cfg, map[string]string{
		"USERDESK_BASE_URL":           "https://env.example",
		"USERDESK_DEBOUNCE":           "350ms",
		"USERDESK_REQUEST_TIMEOUT":    "2s",
		"USERDESK_DELETE_CONCURRENCY": "3",
		"USERDESK_OTEL_ENDPOINT":      "http://collector:4318",
		"BASE_URL":                    "https://unprefixed.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.Equal(t, 350*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.DeleteConcurrency)
	assert.Equal(t, "http://collector:4318", cfg.OtelEndpoint)
	assert.Equal(t, "info", cfg.LogLevel, "unset variables keep their value")
}

func Test_parseEnv_BadValue(t *testing.T) {
	cfg := defaults()
	err := parseEnv(&cfg, map[string]string{"USERDESK_DELETE_CONCURRENCY": "many"})
	require.Error(t, err)
}

func Test_environment_ProcessWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	require.NoError(t, os.WriteFile(path, []byte("USERDESK_LOG_LEVEL=warn\nUSERDESK_STATE_DB=file.db\n"), 0o600))
	t.Setenv("USERDESK_LOG_LEVEL", "debug")

	vars, err := environment([]string{"-env", path})
	require.NoError(t, err)

	assert.Equal(t, "debug", vars["USERDESK_LOG_LEVEL"])
	assert.Equal(t, "file.db", vars["USERDESK_STATE_DB"])
}

func Test_environment_DefaultFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	vars, err := environment(nil)
	require.NoError(t, err)
	assert.NotNil(t, vars)
}
