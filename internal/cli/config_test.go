package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scbrown/tmcheck/internal/config"
)

func TestConfigCmdShowEmpty(t *testing.T) {
	out, err := runCLI(t, nil, "config")
	require.NoError(t, err)
	for _, want := range []string{"KEY", "VALUE", "cache_backend", "(not set)"} {
		assert.Contains(t, out, want)
	}
}

func TestConfigCmdListMasksKey(t *testing.T) {
	out, err := runCLI(t, &config.Config{RegistryKey: "abcdef123456"}, "config", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "abcdef123456", "registry key printed in clear")
	assert.Contains(t, out, "****3456")
}

func TestConfigCmdShowJSON(t *testing.T) {
	out, err := runCLI(t, &config.Config{CacheBackend: "sqlite", RegistryKey: "secret-key"}, "config", "--json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "sqlite", got["cache_backend"])
	assert.Equal(t, "****-key", got["registry_key"])
}

func TestConfigCmdSetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runWithConfig(t, path, nil, "config", "set", "cache_backend", "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "cache_backend = sqlite", strings.TrimSpace(out))

	out, err = runWithConfig(t, path, nil, "config", "get", "cache_backend")
	require.NoError(t, err)
	assert.Equal(t, "sqlite\n", out)

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.CacheBackend, "value persisted")

	_, err = runWithConfig(t, path, nil, "config", "set", "cache_backend")
	require.NoError(t, err, "omitting the value resets the key")
	out, err = runWithConfig(t, path, nil, "config", "get", "cache_backend")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigCmdInvalidValue(t *testing.T) {
	_, err := runCLI(t, nil, "config", "set", "cache_backend", "memcached")
	assert.Error(t, err)
}

func TestConfigCmdInvalidKey(t *testing.T) {
	_, err := runCLI(t, nil, "config", "get", "nonexistent")
	assert.Error(t, err)
}

func TestConfigCmdRepairsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("cache_backend = \"etcd\"\n"), 0o600))

	_, err := runWithConfig(t, path, nil, "check", "nike")
	require.Error(t, err, "check rejects the invalid file")

	_, err = runWithConfig(t, path, nil, "config", "set", "cache_backend", "memory")
	require.NoError(t, err, "config set works on an invalid file")

	_, err = runWithConfig(t, path, nil, "check", "nike")
	assert.NoError(t, err)
}

func TestMaskSecret(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abc", "****"},
		{"abcd", "****"},
		{"abcde", "****bcde"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskSecret(tt.in), "maskSecret(%q)", tt.in)
	}
}

func writeDictionary(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func configWithDictionary(path string) *config.Config {
	return &config.Config{DictionaryPath: path}
}
