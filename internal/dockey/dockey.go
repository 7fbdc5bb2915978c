// Package dockey derives the version key the editing server uses to identify
// a particular revision of a document.
//
// A key has the form base64url(documentID) + "_" + versionMarker, where the
// version marker is the decimal last-modified time of the stored file in epoch
// milliseconds. The marker is always decimal and therefore never contains the
// "_" separator; Decode relies on this and splits on the last "_" (the
// base64url alphabet itself may contain "_"). If the marker representation
// ever changes, this contract must be revisited.
//
// The editing server only accepts keys built from [0-9A-Za-z.=_-] with at
// most MaxKeyLength characters, which base64url output satisfies by
// construction.
package dockey

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/docbridge/internal/common"
)

// MaxKeyLength is the longest key the editing server accepts.
const MaxKeyLength = 128

var (
	ErrKeyTooLong   = errors.New("document key too long")
	ErrMalformedKey = errors.New("malformed document key")
)

// Encode builds the version key for a document id and version marker.
// The same inputs always produce the same key; ids whose encoding would
// exceed MaxKeyLength are rejected rather than truncated, so distinct
// inputs can never silently collide.
func Encode(id string, versionMarker int64) (string, error) {
	if id == "" {
		return "", common.ErrInvalidDocumentID
	}

	key := base64.RawURLEncoding.EncodeToString([]byte(id)) + "_" + strconv.FormatInt(versionMarker, 10)

	if len(key) > MaxKeyLength {
		return "", fmt.Errorf("%w: %d chars", ErrKeyTooLong, len(key))
	}

	return key, nil
}

// Decode extracts the document id from a version key. Malformed keys yield
// ErrMalformedKey; stale or retried callbacks can carry such keys, so callers
// on read paths log and move on rather than abort.
func Decode(key string) (string, error) {
	i := strings.LastIndex(key, "_")
	if i <= 0 {
		return "", fmt.Errorf("%w: no version marker separator", ErrMalformedKey)
	}

	id, err := base64.RawURLEncoding.DecodeString(key[:i])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	return string(id), nil
}
