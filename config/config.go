// Package config holds the explicit engine configuration. There are no
// module-level globals: Load builds a Config once and the caller passes it
// into each component's constructor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	// Backend is "onnx" or "mock".
	Backend string `yaml:"backend"`

	// ModelPath and TokenizerPath locate the ONNX model files.
	ModelPath     string `yaml:"model_path"`
	TokenizerPath string `yaml:"tokenizer_path"`

	// VectorSize is the embedding dimensionality (384 for the default
	// all-MiniLM-L6-v2 model). Must match across all collections.
	VectorSize int `yaml:"vector_size"`

	// CacheEntries bounds the embedding cache. 0 disables caching.
	CacheEntries int64 `yaml:"cache_entries"`
}

// ChunkConfig sizes knowledge-ingestion chunks.
type ChunkConfig struct {
	TargetSize int `yaml:"target_size"`
	MaxSize    int `yaml:"max_size"`
}

// Config is the engine configuration.
type Config struct {
	// DataDir is where the persistent vector index lives. Empty keeps the
	// index purely in memory.
	DataDir string `yaml:"data_dir"`

	// ManifestoPath locates the manifesto document loaded into the
	// constitution. A missing file is tolerated.
	ManifestoPath string `yaml:"manifesto_path"`

	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunk     ChunkConfig     `yaml:"chunk"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ManifestoPath: "docs/MANIFESTO.md",
		Embedding: EmbeddingConfig{
			Backend:      "mock",
			VectorSize:   384,
			CacheEntries: 10_000,
		},
		Chunk: ChunkConfig{TargetSize: 800, MaxSize: 1200},
	}
}

// Load builds the configuration: defaults, then an optional YAML file, then
// environment variables (highest precedence). A .env file in the working
// directory is loaded into the environment first if present.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file %s: %w", yamlPath, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config file %s: %w", yamlPath, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.DataDir, "LOGOS_DATA_DIR")
	setString(&c.ManifestoPath, "LOGOS_MANIFESTO_PATH")
	setString(&c.Embedding.Backend, "LOGOS_EMBEDDING_BACKEND")
	setString(&c.Embedding.ModelPath, "LOGOS_EMBEDDING_MODEL")
	setString(&c.Embedding.TokenizerPath, "LOGOS_EMBEDDING_TOKENIZER")
	setInt(&c.Embedding.VectorSize, "LOGOS_VECTOR_SIZE")
	setInt64(&c.Embedding.CacheEntries, "LOGOS_EMBEDDING_CACHE")
	setInt(&c.Chunk.TargetSize, "LOGOS_CHUNK_TARGET")
	setInt(&c.Chunk.MaxSize, "LOGOS_CHUNK_MAX")
}

// Validate checks field consistency and creates the data directory when one
// is configured.
func (c *Config) Validate() error {
	switch c.Embedding.Backend {
	case "onnx", "mock":
	default:
		return fmt.Errorf("invalid embedding backend %q (want onnx or mock)", c.Embedding.Backend)
	}
	if c.Embedding.VectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", c.Embedding.VectorSize)
	}
	if c.Chunk.MaxSize < c.Chunk.TargetSize {
		return fmt.Errorf("chunk max size %d is below target size %d", c.Chunk.MaxSize, c.Chunk.TargetSize)
	}
	if c.DataDir != "" {
		if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	return nil
}

// IndexPath returns the on-disk location of the vector index, or "" for a
// purely in-memory index.
func (c *Config) IndexPath() string {
	if c.DataDir == "" {
		return ""
	}
	return filepath.Join(c.DataDir, "index")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
