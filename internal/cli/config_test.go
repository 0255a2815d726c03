package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
version: "1"
root_url: https://host.example.com/arcgis/rest/services
username: u
password: p
referer: https://app.example.com
`)

	require.NoError(t, LoadConfig(path))
	cfg := GetConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "https://host.example.com/arcgis/rest/services", cfg.RootURL)
	assert.Equal(t, "u", cfg.Username)

	cred := cfg.Credential()
	assert.Equal(t, "u", cred.Username)
	assert.Equal(t, "https://app.example.com", cred.Referer())
	assert.Equal(t, "referer", cred.Client())
}

func TestLoadConfigMissingRootURL(t *testing.T) {
	path := writeTempConfig(t, `
version: "1"
username: u
`)

	err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
version: "1"
root_url: https://host.example.com/arcgis/rest/services
username: file-user
`)
	t.Setenv("ARCREST_USERNAME", "env-user")
	t.Setenv("ARCREST_PASSWORD", "env-pass")

	require.NoError(t, LoadConfig(path))
	cfg := GetConfig()
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "env-pass", cfg.Password)
	assert.Equal(t, "https://host.example.com/arcgis/rest/services", cfg.RootURL)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	cfg := &Config{
		Version:      "1",
		RootURL:      "https://host.example.com/arcgis/rest/services",
		Username:     "u",
		CurrentToken: "tok",
		TokenExpiry:  1234,
	}
	require.NoError(t, cfg.WriteConfig(path))

	require.NoError(t, LoadConfig(path))
	got := GetConfig()
	assert.Equal(t, cfg.RootURL, got.RootURL)
	assert.Equal(t, "tok", got.CurrentToken)
	assert.Equal(t, int64(1234), got.TokenExpiry)
}

func TestConfigToken(t *testing.T) {
	cfg := &Config{
		Referer:      "https://app.example.com",
		CurrentToken: "tok",
		TokenExpiry:  1234,
	}

	tok := cfg.Token()
	assert.Equal(t, "tok", tok.Value)
	assert.Equal(t, int64(1234), tok.Expires)
	assert.Equal(t, "https://app.example.com", tok.Referer)
	assert.Empty(t, (&Config{}).Token().Value)
}
