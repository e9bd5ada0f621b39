// Package main provides the CLI entry point for the Logos memory engine.
//
// Logos stores Letters for Future Self and project knowledge in an embedded
// vector index and assembles constitution-grounded context bundles for an
// external generation step.
//
// # Basic Usage
//
// Query for context:
//
//	logos query "what did we learn about testing"
//
// Record a memory:
//
//	logos letter write --summary "Fixed the indexing bug" --context productive
//
// Ingest extracted document text:
//
//	logos ingest notes.md
//
// # Environment Variables
//
//   - LOGOS_DATA_DIR: persistent index location (default: in-memory)
//   - LOGOS_MANIFESTO_PATH: manifesto document path
//   - LOGOS_EMBEDDING_BACKEND: "onnx" or "mock"
//   - LOGOS_EMBEDDING_MODEL / LOGOS_EMBEDDING_TOKENIZER: ONNX model files
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtoberling/logos/config"
	"github.com/jtoberling/logos/engine/embedder"
	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/knowledge"
	"github.com/jtoberling/logos/memory"
	"github.com/jtoberling/logos/personality"
	"github.com/jtoberling/logos/query"
	"github.com/jtoberling/logos/tools"
)

var configPath string

// engine bundles the wired components behind every command.
type engine struct {
	cfg      config.Config
	store    store.Store
	protocol *memory.Protocol
	service  *query.Service
	ingestor *knowledge.Ingestor
	registry *tools.Registry
}

// newEngine loads configuration and constructs the component graph:
// embedder (with cache), vector store, constitution, protocol, orchestrator.
func newEngine(cmd *cobra.Command) (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var emb embedder.Embedder = embedder.New(embedder.Config{
		Backend:       cfg.Embedding.Backend,
		ModelPath:     cfg.Embedding.ModelPath,
		TokenizerPath: cfg.Embedding.TokenizerPath,
		VectorSize:    cfg.Embedding.VectorSize,
	})
	if cfg.Embedding.CacheEntries > 0 {
		cached, err := embedder.NewCached(emb, cfg.Embedding.CacheEntries)
		if err != nil {
			return nil, err
		}
		emb = cached
	}

	var st *store.Chromem
	if path := cfg.IndexPath(); path != "" {
		st, err = store.NewPersistent(path, emb)
		if err != nil {
			return nil, err
		}
	} else {
		st = store.New(emb)
	}
	if err := st.EnsureCollections(cmd.Context()); err != nil {
		return nil, err
	}

	constitution := personality.New(cfg.ManifestoPath)
	prompts := personality.NewPromptManager(constitution)
	protocol := memory.NewProtocol(st)
	service := query.NewService(st, prompts)
	ingestor := knowledge.NewIngestor(st, knowledge.ChunkOptions{
		TargetSize: cfg.Chunk.TargetSize,
		MaxSize:    cfg.Chunk.MaxSize,
	})

	return &engine{
		cfg:      cfg,
		store:    st,
		protocol: protocol,
		service:  service,
		ingestor: ingestor,
		registry: tools.NewRegistry(service, protocol),
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "logos",
		Short:         "Logos digital memory engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "logos.yaml", "configuration file path")

	root.AddCommand(
		newQueryCmd(),
		newContextCmd(),
		newLetterCmd(),
		newIngestCmd(),
		newCollectionsCmd(),
		newConstitutionCmd(),
		newToolsCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
