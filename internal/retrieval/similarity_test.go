package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotProduct(t *testing.T) {
	assert.InDelta(t, 1.0, DotProduct([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, DotProduct([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 0.5, DotProduct([]float32{0.5, 0.5}, []float32{1, 0}), 1e-9)
}

func TestDotProduct_LengthMismatch(t *testing.T) {
	// 损坏的历史向量不应让整个文档的检索失败
	assert.Equal(t, 0.0, DotProduct([]float32{1, 2, 3}, []float32{1, 2}))
	assert.Equal(t, 0.0, DotProduct(nil, []float32{1}))
}

func TestRank_Empty(t *testing.T) {
	assert.Nil(t, Rank([]float32{1, 0}, nil, 5))
	assert.Nil(t, Rank([]float32{1, 0}, []Candidate{}, 100))
}

func TestRank_OrdersByScoreDesc(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Content: "low", Vector: []float32{0.1, 0.9}},
		{Content: "high", Vector: []float32{0.9, 0.1}},
		{Content: "mid", Vector: []float32{0.5, 0.5}},
	}

	matches := Rank(query, candidates, 3)
	require.Len(t, matches, 3)
	assert.Equal(t, "high", matches[0].Content)
	assert.Equal(t, "mid", matches[1].Content)
	assert.Equal(t, "low", matches[2].Content)
}

func TestRank_TopKClamped(t *testing.T) {
	query := []float32{1}
	candidates := []Candidate{
		{Content: "a", Vector: []float32{1}},
		{Content: "b", Vector: []float32{0.5}},
	}
	assert.Len(t, Rank(query, candidates, 10), 2)
	assert.Len(t, Rank(query, candidates, 1), 1)
}

func TestRank_StableOnTies(t *testing.T) {
	query := []float32{1, 0}
	same := []float32{0.5, 0.5}
	candidates := []Candidate{
		{Content: "first", Vector: same},
		{Content: "second", Vector: same},
		{Content: "third", Vector: same},
	}

	matches := Rank(query, candidates, 3)
	require.Len(t, matches, 3)
	// 得分相同保持输入顺序
	assert.Equal(t, "first", matches[0].Content)
	assert.Equal(t, "second", matches[1].Content)
	assert.Equal(t, "third", matches[2].Content)
}

func TestRank_MismatchedVectorsScoreZero(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{Content: "good", Vector: []float32{0.7, 0.3}},
		{Content: "corrupt", Vector: []float32{1, 2, 3, 4}},
	}

	matches := Rank(query, candidates, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "good", matches[0].Content)
	assert.Equal(t, 0.0, matches[1].Score)
}
