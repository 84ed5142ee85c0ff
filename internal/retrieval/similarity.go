package retrieval

import (
	"sort"
)

// Candidate 待排序的分块候选
type Candidate struct {
	Content string
	Vector  []float32
}

// Match 排序结果
type Match struct {
	Content string
	Score   float64
}

// DotProduct 计算两个向量的点积。输入已由嵌入层做过L2归一化，
// 单位向量的点积即余弦相似度。长度不一致时返回0而不是报错，
// 避免个别损坏的历史记录拖垮整个文档的检索。
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Rank 按相似度降序返回top-k候选。排序稳定：得分相同的候选保持输入顺序。
// 空候选集返回空结果。
func Rank(query []float32, candidates []Candidate, k int) []Match {
	if len(candidates) == 0 || k <= 0 {
		return nil
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{
			Content: c.Content,
			Score:   DotProduct(query, c.Vector),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}
