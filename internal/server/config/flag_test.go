package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-o", "http://docs:8000", "-b", "http://backend:9090",
			"-s", "secret", "-t", "600", "-r", "/data/docs", "-f", "docx,xlsx", "-m", "1024", "-l", "de",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:  "127.0.0.1:9090",
				DocumentServerURL: "http://docs:8000",
				BackendBaseURL:    "http://backend:9090",
				SecretKey:         "secret",
				TokenExpiry:       10 * time.Minute,
				StorageRoot:       "/data/docs",
				AllowedFileTypes:  "docx,xlsx",
				MaxUploadSize:     1024,
				EditorLang:        "de",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
