package retrieval

import (
	"strings"
)

const (
	// DefaultChunkSize 默认分块大小（词数）
	DefaultChunkSize = 500
	// DefaultChunkOverlap 默认相邻分块重叠词数
	DefaultChunkOverlap = 50
)

// ChunkText 将文本按词切分为带重叠的滑动窗口。
// 纯函数，相同输入永远产生相同输出；空白输入返回nil。
// 最后一个窗口即使不足chunkSize也会保留，窗口起点到达词尾后停止。
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := chunkSize - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
