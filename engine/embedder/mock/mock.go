package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// DefaultVectorSize matches all-MiniLM-L6-v2 dimensions.
const DefaultVectorSize = 384

// MockEmbedder generates deterministic embeddings from a text hash.
// It carries no semantic meaning but has the right shape, which keeps the
// vector store and everything above it operable when no real model is
// available, and makes test results reproducible.
type MockEmbedder struct {
	vectorSize int
}

// New creates a mock embedder with the default vector size.
func New() *MockEmbedder {
	return NewWithSize(DefaultVectorSize)
}

// NewWithSize creates a mock embedder with a custom vector size.
func NewWithSize(size int) *MockEmbedder {
	if size <= 0 {
		size = DefaultVectorSize
	}
	return &MockEmbedder{vectorSize: size}
}

// Embed returns one deterministic unit vector per input text.
func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.embedOne(text)
	}
	return vectors, nil
}

// VectorSize returns the embedding dimensionality.
func (m *MockEmbedder) VectorSize() int {
	return m.vectorSize
}

func (m *MockEmbedder) embedOne(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, m.vectorSize)
	for i := 0; i < m.vectorSize; i++ {
		// LCG seeded by the text hash: same text, same vector.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding)
}

// normalize converts the embedding to a unit vector.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}

	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}

	return normalized
}
