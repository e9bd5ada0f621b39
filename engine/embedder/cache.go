package embedder

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// Cached wraps an Embedder with a ristretto cache keyed by the exact input
// text. Letters and constitution excerpts are re-embedded on every query
// path; caching them keeps repeat upserts and searches off the model.
//
// Cache misses within one batch are still embedded in a single call to the
// inner embedder, so the one-embedding-call-per-upsert behavior is kept.
type Cached struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCached creates a caching wrapper around inner holding up to maxEntries
// vectors.
func NewCached(inner Embedder, maxEntries int64) (*Cached, error) {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Embed returns cached vectors where available and embeds the rest in one
// batch call.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if v, ok := c.cache.Get(text); ok {
			if vec, ok := v.([]float32); ok {
				vectors[i] = vec
				continue
			}
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	embedded, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailure, len(embedded), len(missTexts))
	}

	for j, vec := range embedded {
		vectors[missIdx[j]] = vec
		c.cache.Set(missTexts[j], vec, 1)
	}

	return vectors, nil
}

// VectorSize returns the inner embedder's dimensionality.
func (c *Cached) VectorSize() int {
	return c.inner.VectorSize()
}

// Wait blocks until pending cache writes are applied. Useful in tests;
// the hot path never needs it.
func (c *Cached) Wait() {
	c.cache.Wait()
}

// Close releases the cache.
func (c *Cached) Close() {
	c.cache.Close()
}
