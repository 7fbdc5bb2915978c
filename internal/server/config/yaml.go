package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/docbridge/internal/flagx"
)

// YamlConfig defines a configuration structure tailored for YAML
// unmarshalling. Durations are accepted as integer seconds.
//
// This struct is an intermediate DTO used only for reading YAML
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct. A zero value means "not set" and leaves the
// current Config value untouched, so the file can override selectively.
type YamlConfig struct {
	EndpointAddrHTTP   string `yaml:"endpoint_addr_http"`
	DocumentServerURL  string `yaml:"document_server_url"`
	BackendBaseURL     string `yaml:"backend_base_url"`
	SecretKey          string `yaml:"secret_key"`
	TokenExpirySeconds int64  `yaml:"token_expiry_seconds"`
	StorageRoot        string `yaml:"storage_root"`
	AllowedFileTypes   string `yaml:"allowed_file_types"`
	MaxUploadSize      int64  `yaml:"max_upload_size"`
	EditorLang         string `yaml:"editor_lang"`
	FetchTimeoutSecs   int64  `yaml:"fetch_timeout_seconds"`
}

// parseYaml loads configuration values from a YAML file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no file is loaded. If the file cannot be read or contains invalid
// YAML, the function panics.
func parseYaml(config *Config) {

	yamlConfigFile := flagx.ConfigFileFlags()

	// nothing to load
	if yamlConfigFile == "" {
		return
	}

	c := &YamlConfig{}

	file, err := os.ReadFile(yamlConfigFile)
	if err != nil {
		panic(err)
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DocumentServerURL != "" {
		config.DocumentServerURL = c.DocumentServerURL
	}
	if c.BackendBaseURL != "" {
		config.BackendBaseURL = c.BackendBaseURL
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenExpirySeconds > 0 {
		config.TokenExpiry = time.Duration(c.TokenExpirySeconds) * time.Second
	}
	if c.StorageRoot != "" {
		config.StorageRoot = c.StorageRoot
	}
	if c.AllowedFileTypes != "" {
		config.AllowedFileTypes = c.AllowedFileTypes
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.EditorLang != "" {
		config.EditorLang = c.EditorLang
	}
	if c.FetchTimeoutSecs > 0 {
		config.FetchTimeout = time.Duration(c.FetchTimeoutSecs) * time.Second
	}
}
