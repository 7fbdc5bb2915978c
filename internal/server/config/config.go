// Package config handles configuration for the server component,
// including defaults, YAML overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the document broker.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DocumentServerURL: address of the external editing server (browser-facing).
//   - BackendBaseURL: address of this backend as reachable by the editing
//     server; callback and download URLs are built from it.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Must match
//     the editing server's configured secret. Do not use test defaults in prod.
//   - TokenExpiry: lifetime of issued session tokens.
//   - StorageRoot: directory holding stored documents.
//   - AllowedFileTypes: comma-separated extension allow-list for uploads.
//   - MaxUploadSize: upload size cap in bytes.
//   - EditorLang: locale passed to the editor.
//   - FetchTimeout: bound on fetching saved content from the editing server.
type Config struct {
	EndpointAddrHTTP  string
	DocumentServerURL string
	BackendBaseURL    string
	SecretKey         string
	TokenExpiry       time.Duration
	StorageRoot       string
	AllowedFileTypes  string
	MaxUploadSize     int64
	EditorLang        string
	FetchTimeout      time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DocumentServerURL = "http://localhost:8000"
	c.BackendBaseURL = "http://host.docker.internal:8080"
	c.SecretKey = "secretKey"
	c.TokenExpiry = 1 * time.Hour
	c.StorageRoot = "./uploads"
	c.AllowedFileTypes = "docx,xlsx,pptx,doc,xls,ppt,odt,ods,odp,csv,txt,pdf"
	c.MaxUploadSize = 100 << 20
	c.EditorLang = "en"
	c.FetchTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional YAML file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseYaml(cfg)
	parseFlags(cfg)
	return cfg
}
