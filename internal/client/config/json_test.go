package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cli.json", map[string]any{
		"server_endpoint_addr": "www.example:9000",
		"request_timeout":      "3s",
	})

	t.Run("loads file and keeps absent keys", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{StateDBPath: "keep.db"}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, "keep.db", cfg.StateDBPath)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	})

	t.Run("no file flag", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerEndpointAddr: "defaults:1234"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}

func Test_parseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	envFile := filepath.Join(t.TempDir(), "cli.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SOCIALHUB_STATE_DB=/var/lib/socialhub/state.db\n"), 0o600))
	os.Args = []string{"testbin", "-env", envFile}
	// restored by t.Setenv cleanup once the file has set it
	t.Setenv("SOCIALHUB_STATE_DB", "")
	require.NoError(t, os.Unsetenv("SOCIALHUB_STATE_DB"))
	t.Setenv("SOCIALHUB_SERVER_ADDR", "env:50051")

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "env:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, "/var/lib/socialhub/state.db", cfg.StateDBPath)
}
