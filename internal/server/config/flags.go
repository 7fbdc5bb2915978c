package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/docbridge/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-o string   document server URL
//	-b string   backend base URL (callback/download address)
//	-s string   token signing secret key
//	-t int      token expiry, seconds
//	-r string   storage root directory
//	-f string   allowed file types, comma-separated
//	-m int      max upload size, bytes
//	-l string   editor language
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The expiry flag is accepted as an integer in seconds and converted to
//     a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-b", "-s", "-t", "-r", "-f", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DocumentServerURL, "o", config.DocumentServerURL, "document server URL")
	fs.StringVar(&config.BackendBaseURL, "b", config.BackendBaseURL, "backend base URL")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenExpiry := fs.Int64("t", int64(config.TokenExpiry.Seconds()), "token expiry (in seconds)")

	fs.StringVar(&config.StorageRoot, "r", config.StorageRoot, "storage root directory")
	fs.StringVar(&config.AllowedFileTypes, "f", config.AllowedFileTypes, "allowed file types (comma-separated)")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size (bytes)")
	fs.StringVar(&config.EditorLang, "l", config.EditorLang, "editor language")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenExpiry = time.Duration(*tokenExpiry) * time.Second
}
