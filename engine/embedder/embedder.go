// Package embedder converts text into fixed-dimension vectors for
// similarity search.
//
// Backends are selected by configuration, never by runtime detection: the
// ONNX backend does real semantic embedding with a local all-MiniLM-L6-v2
// model, and the mock backend produces deterministic hash-based vectors.
// If the configured real backend cannot initialize, the factory degrades to
// the mock so the rest of the engine keeps working with meaningless but
// well-shaped vectors.
package embedder

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jtoberling/logos/engine/embedder/mock"
	"github.com/jtoberling/logos/engine/embedder/onnx"
)

// ErrEmbeddingFailure indicates that no backend, not even the degraded
// fallback, could produce vectors for the given input.
var ErrEmbeddingFailure = errors.New("embedder: embedding failure")

// Embedder converts text batches to fixed-dimension vectors.
// Implementations: ONNXEmbedder (real, build tag "onnx"), MockEmbedder
// (deterministic fake for tests and degraded mode).
//
// Embed returns one vector per input text, in input order. The
// dimensionality is fixed per backend and reported by VectorSize.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	VectorSize() int
}

// Backend names accepted by Config.Backend.
const (
	BackendONNX = "onnx"
	BackendMock = "mock"
)

// Config selects and configures the embedding backend.
type Config struct {
	// Backend is "onnx" or "mock". Empty defaults to "mock".
	Backend string

	// ModelPath is the path to the ONNX model file (onnx backend only).
	ModelPath string

	// TokenizerPath is the path to tokenizer.json (onnx backend only).
	TokenizerPath string

	// VectorSize is the embedding dimensionality. Default: 384
	// (all-MiniLM-L6-v2).
	VectorSize int
}

// New creates the configured embedder.
//
// If the real backend fails to initialize (missing model file, runtime not
// installed), New logs the failure and returns the deterministic mock
// instead, so dependent components stay operable in degraded mode. Callers
// that must not run degraded should construct the backend package directly.
func New(cfg Config) Embedder {
	if cfg.VectorSize == 0 {
		cfg.VectorSize = mock.DefaultVectorSize
	}

	switch cfg.Backend {
	case BackendONNX:
		e, err := onnx.New(onnx.Config{
			ModelPath:     cfg.ModelPath,
			TokenizerPath: cfg.TokenizerPath,
			VectorSize:    cfg.VectorSize,
		})
		if err != nil {
			log.Printf("[EMBED] ONNX backend unavailable, falling back to mock vectors: %v", err)
			return mock.NewWithSize(cfg.VectorSize)
		}
		log.Printf("[EMBED] ONNX backend ready (dims=%d)", e.VectorSize())
		return e
	case BackendMock, "":
		return mock.NewWithSize(cfg.VectorSize)
	default:
		log.Printf("[EMBED] Unknown backend %q, using mock vectors", cfg.Backend)
		return mock.NewWithSize(cfg.VectorSize)
	}
}

// EmbedOne embeds a single text as a 1-element batch and returns the first
// vector.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: backend returned no vectors", ErrEmbeddingFailure)
	}
	return vectors[0], nil
}
