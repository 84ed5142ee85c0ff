package models

import (
	"encoding/binary"
	"math"
)

// EncodeEmbedding 将向量序列化为float32小端字节串（与chunk表embedding列格式一致）
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding 从字节串还原向量，长度不是4的倍数时丢弃尾部残余
func DecodeEmbedding(data []byte) []float32 {
	n := len(data) / 4
	if n == 0 {
		return nil
	}
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec
}
