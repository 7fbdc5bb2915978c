package dockey

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/docbridge/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	k1, err := Encode("report-2024", 1700000000000)
	require.NoError(t, err)

	k2, err := Encode("report-2024", 1700000000000)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestEncode_DifferentMarkersDifferentKeys(t *testing.T) {
	t.Parallel()

	k1, err := Encode("report-2024", 1700000000000)
	require.NoError(t, err)

	k2, err := Encode("report-2024", 1700000000001)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestEncode_KeyCharsetAndLength(t *testing.T) {
	t.Parallel()

	const allowed = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.=_-"

	key, err := Encode("годовой отчёт №3", 1700000000000)
	require.NoError(t, err)
	require.LessOrEqual(t, len(key), MaxKeyLength)

	for _, r := range key {
		assert.True(t, strings.ContainsRune(allowed, r), "unexpected rune %q in key %q", r, key)
	}
}

func TestEncode_RejectsOverflowInsteadOfTruncating(t *testing.T) {
	t.Parallel()

	_, err := Encode(strings.Repeat("x", 200), 1700000000000)
	require.ErrorIs(t, err, ErrKeyTooLong)
}

func TestEncode_EmptyID(t *testing.T) {
	t.Parallel()

	_, err := Encode("", 1)
	require.ErrorIs(t, err, common.ErrInvalidDocumentID)
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	ids := []string{"report-2024", "a", "my_document", "годовой отчёт", "file.name.v2"}

	for _, id := range ids {
		key, err := Encode(id, 42)
		require.NoError(t, err)

		got, err := Decode(key)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "no separator", key: "cmVwb3J0"},
		{name: "separator first", key: "_123"},
		{name: "invalid base64 prefix", key: "!!!!_123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.key)
			assert.ErrorIs(t, err, ErrMalformedKey)
		})
	}
}
