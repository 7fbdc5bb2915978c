package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYaml_OverlaysValues(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	content := `
endpoint_addr_http: ":9999"
secret_key: "file-secret"
token_expiry_seconds: 120
storage_root: "/srv/docs"
max_upload_size: 1048576
`

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Args = []string{"cmd", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseYaml(c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "file-secret", c.SecretKey)
	assert.Equal(t, 2*time.Minute, c.TokenExpiry)
	assert.Equal(t, "/srv/docs", c.StorageRoot)
	assert.Equal(t, int64(1048576), c.MaxUploadSize)

	// Untouched keys keep their defaults.
	assert.Equal(t, "http://localhost:8000", c.DocumentServerURL)
	assert.Equal(t, "en", c.EditorLang)
}

func TestParseYaml_NoFileFlagLeavesConfigAlone(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd"}

	c := &Config{}
	c.LoadDefaults()
	before := *c
	parseYaml(c)

	assert.Equal(t, before, *c)
}

func TestParseYaml_InvalidFilePanics(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o600))

	os.Args = []string{"cmd", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	assert.Panics(t, func() { parseYaml(c) })
}
