package save

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_RoundTrip(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"level_progress":{"1":{"completed":true}}}`), 100)

	compressed, err := comp.Compress(payload)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(payload))

	restored, err := comp.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}

func TestZstdCompressor_EmptyInput(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	compressed, err := comp.Compress([]byte{})
	require.NoError(t, err)

	restored, err := comp.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestZstdCompressor_RejectsGarbage(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	_, err = comp.Decompress([]byte("this is not a zstd frame"))
	assert.Error(t, err)
}
