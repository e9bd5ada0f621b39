//go:build !onnx

package onnx

import (
	"context"
	"fmt"
)

// ONNXEmbedder requires the "onnx" build tag and the ONNX Runtime shared
// library. Without the tag, New always fails and the embedder factory runs
// degraded on mock vectors.
type ONNXEmbedder struct{}

// New reports that ONNX support is not compiled in.
func New(cfg Config) (*ONNXEmbedder, error) {
	return nil, fmt.Errorf("built without onnx support (rebuild with -tags onnx)")
}

// Embed is unreachable without the onnx build tag.
func (e *ONNXEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("built without onnx support")
}

// VectorSize is unreachable without the onnx build tag.
func (e *ONNXEmbedder) VectorSize() int { return 0 }

// Close is a no-op without the onnx build tag.
func (e *ONNXEmbedder) Close() error { return nil }
