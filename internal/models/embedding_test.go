package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingCodecRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 0, 3.75, 1e-7}
	got := DecodeEmbedding(EncodeEmbedding(vec))
	assert.Equal(t, vec, got)
}

func TestEmbeddingCodecEmpty(t *testing.T) {
	assert.Nil(t, EncodeEmbedding(nil))
	assert.Nil(t, DecodeEmbedding(nil))
	assert.Nil(t, DecodeEmbedding([]byte{}))
}

func TestDecodeEmbeddingTruncatedBlob(t *testing.T) {
	blob := EncodeEmbedding([]float32{1, 2, 3})
	// 尾部残缺字节被丢弃，只解出完整的float32
	got := DecodeEmbedding(blob[:len(blob)-2])
	assert.Equal(t, []float32{1, 2}, got)
}
