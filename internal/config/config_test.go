package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"CANVAS_HTTP_ADDR", "CANVAS_NATS_URL", "CANVAS_LOG_LEVEL", "CANVAS_LOG_FORMAT",
	"CANVAS_SCHEMA_DIR", "CANVAS_SCHEMA_VERSION", "CANVAS_SCHEMA_S3_BUCKET", "CANVAS_SCHEMA_S3_PREFIX",
	"CANVAS_SCHEMA_S3_REGION", "CANVAS_SCHEMA_S3_ENDPOINT", "CANVAS_GITHUB_API_URL", "CANVAS_GITHUB_TOKEN",
	"CANVAS_GITHUB_TIMEOUT", "CANVAS_CONNECT_THRESHOLD", "CANVAS_GRID_COLUMNS",
	"CANVAS_EXPORT_REGION", "CANVAS_EXPORT_PROVIDER_VERSION",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canvas.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 30*time.Second, c.GitHub.Timeout.Duration)
	assert.Equal(t, 30.0, c.Graph.ConnectThreshold)
	assert.Empty(t, c.NATSURL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearAllEnv(t)
	path := writeFile(t, `
http_addr = ":9000"
nats_url = "nats://file:4222"

[log]
level = "debug"
format = "text"

[schema]
dir = "schemas"
version = "5.31.0"

[github]
token = "from-file"
timeout = "5s"

[graph]
connect_threshold = 12.5
grid_columns = 6
`)
	t.Setenv("CANVAS_NATS_URL", "nats://env:4222")
	t.Setenv("CANVAS_GRID_COLUMNS", "3")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.HTTPAddr)
	assert.Equal(t, "nats://env:4222", c.NATSURL)
	assert.Equal(t, Log{Level: "debug", Format: "text"}, c.Log)
	assert.Equal(t, "schemas", c.Schema.Dir)
	assert.Equal(t, "5.31.0", c.Schema.Version)
	assert.Equal(t, "us-east-1", c.Schema.S3Region)
	assert.Equal(t, "from-file", c.GitHub.Token)
	assert.Equal(t, 5*time.Second, c.GitHub.Timeout.Duration)
	assert.Equal(t, 12.5, c.Graph.ConnectThreshold)
	assert.Equal(t, 3, c.Graph.GridColumns)
	assert.True(t, c.Export.EmitTfvars)
}

func TestLoad_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{name: "BadFormat", env: map[string]string{"CANVAS_LOG_FORMAT": "xml"}, want: "log format"},
		{name: "BadThreshold", env: map[string]string{"CANVAS_CONNECT_THRESHOLD": "near"}, want: "CANVAS_CONNECT_THRESHOLD"},
		{name: "ZeroThreshold", env: map[string]string{"CANVAS_CONNECT_THRESHOLD": "0"}, want: "connect threshold"},
		{name: "BadColumns", env: map[string]string{"CANVAS_GRID_COLUMNS": "-1"}, want: "grid columns"},
		{name: "BadTimeout", env: map[string]string{"CANVAS_GITHUB_TIMEOUT": "soon"}, want: "CANVAS_GITHUB_TIMEOUT"},
		{name: "BadFileDuration", file: "[github]\ntimeout = \"forever\"\n", want: "reading config"},
		{name: "MalformedFile", file: "http_addr = \n", want: "reading config"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeFile(t, tc.file)
			}
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearAllEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
