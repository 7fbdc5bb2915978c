// Package common defines the sentinel errors shared across the document
// broker. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Document identity errors.
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidPath       = errors.New("invalid file path")

	// Upload validation errors.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSizeLimitExceeded   = errors.New("size limit exceeded")

	// Token errors.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrTokenExpired      = errors.New("token expired")
	ErrMalformedToken    = errors.New("malformed token")

	// Callback processing errors.
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUnresolvableDocument = errors.New("unresolvable document key")
	ErrUpstreamFetchFailed  = errors.New("upstream fetch failed")

	// Storage / generic errors.
	ErrStorageIO = errors.New("storage i/o error")
	ErrInternal  = errors.New("internal error")
)
