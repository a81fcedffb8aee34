package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"HOMEBOX_URL", "HOMEBOX_TOKEN", "HEARTH_USER_ID",
		"FIREBASE_PROJECT_ID", "FIREBASE_SERVICE_ACCOUNT_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[homebox]
url   = http://homebox.local:3100/
token = secret
rate  = 2.5

[hearth]
user_id     = user-1
project_id  = hearth-prod
credentials = /keys/sa.json

[log]
level  = debug
format = json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://homebox.local:3100", cfg.HomeBox.URL)
	assert.Equal(t, "secret", cfg.HomeBox.Token)
	assert.Equal(t, 2.5, cfg.HomeBox.Rate)
	assert.Equal(t, "user-1", cfg.Hearth.UserID)
	assert.Equal(t, "hearth-prod", cfg.Hearth.ProjectID)
	assert.Equal(t, "/keys/sa.json", cfg.Hearth.Credentials)
	assert.Equal(t, "items", cfg.Hearth.Collection)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate(true))
}

func TestLoadEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMEBOX_TOKEN", "from-env")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY", "/env/sa.json")

	cfg, err := Load(writeConfig(t, "[homebox]\nurl = http://hb\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.HomeBox.Token)
	assert.Equal(t, "/env/sa.json", cfg.Hearth.Credentials)
	assert.Equal(t, defaultRate, cfg.HomeBox.Rate)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOMEBOX_URL", "http://hb")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://hb", cfg.HomeBox.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.ErrorContains(t, err, "load config")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "homebox.url")
	assert.Contains(t, err.Error(), "homebox.token")
	assert.NotContains(t, err.Error(), "hearth.user_id")

	err = cfg.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hearth.user_id")
}
