package onnx

// Config configures the ONNX embedder.
type Config struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// TokenizerPath is the path to the tokenizer.json file.
	TokenizerPath string

	// VectorSize is the embedding dimensionality (default: 384 for
	// all-MiniLM-L6-v2).
	VectorSize int

	// SharedLibraryPath points at libonnxruntime.so. Falls back to the
	// ONNXRUNTIME_LIB environment variable, then the system default.
	SharedLibraryPath string
}
