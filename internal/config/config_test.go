package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	conf, err := Load(writeConfig(t, "api:\n  port: \"9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "admin", conf.Admin.Password)
	assert.Equal(t, 1500*time.Millisecond, conf.Registration.SubmitDelay)
	assert.Equal(t, 12*time.Hour, conf.API.JWTTTL)
	assert.Equal(t, StorageFile, conf.Storage.Driver)
	assert.Equal(t, "gemini-2.5-flash", conf.Gemini.Model)
	assert.False(t, conf.SMTP.Enabled())

	loc, err := conf.API.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Taipei", loc.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOUSING_ADMIN_PASSWORD", "s3cret")
	t.Setenv("HOUSING_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")

	conf, err := Load(writeConfig(t, "admin:\n  password: file\n"))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", conf.Admin.Password)
	assert.Equal(t, "from-gemini-env", conf.Gemini.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DB: "housing", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=housing sslmode=disable", c.DSN())
}
