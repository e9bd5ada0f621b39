package store

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"

	chromem "github.com/philippgille/chromem-go"
	"github.com/google/uuid"

	"github.com/jtoberling/logos/engine/embedder"
)

// Chromem implements Store over chromem-go, a pure Go embedded vector
// database with cosine similarity. Concurrent upserts and searches are
// delegated to chromem's own locking; this layer adds no serialization.
type Chromem struct {
	db       *chromem.DB
	embedder embedder.Embedder
}

// New creates an in-memory store.
func New(emb embedder.Embedder) *Chromem {
	return &Chromem{db: chromem.NewDB(), embedder: emb}
}

// NewPersistent creates a store backed by an on-disk chromem database at
// path.
func NewPersistent(path string, emb embedder.Embedder) (*Chromem, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open vector database: %w", err)
	}
	return &Chromem{db: db, embedder: emb}, nil
}

// EnsureCollections creates any of the three required collections that do
// not exist yet. Vector size is fixed by the embedder and must match across
// collections; chromem infers it from the first stored vector.
func (s *Chromem) EnsureCollections(ctx context.Context) error {
	existing := s.db.ListCollections()
	for name := range Collections {
		if _, ok := existing[name]; ok {
			continue
		}
		log.Printf("[STORE] Creating collection %q (dims=%d)", name, s.embedder.VectorSize())
		if _, err := s.db.GetOrCreateCollection(name, nil, nil); err != nil {
			return fmt.Errorf("create collection %q: %w", name, err)
		}
	}
	return nil
}

// Upsert embeds all texts in one batch and writes them in one call.
func (s *Chromem) Upsert(ctx context.Context, collection string, texts []string, metadatas []map[string]string) error {
	if len(texts) == 0 {
		return nil // nothing to do
	}

	col, err := s.collection(collection)
	if err != nil {
		return err
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %d texts: %w", len(texts), err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	docs := make([]chromem.Document, 0, len(texts))
	for i, text := range texts {
		// Payload starts as {"text": text}; metadata merges on top and may
		// override the text key. That precedence is part of the contract.
		payload := map[string]string{"text": text}
		if i < len(metadatas) {
			for k, v := range metadatas[i] {
				payload[k] = v
			}
		}

		content := payload["text"]
		delete(payload, "text")

		docs = append(docs, chromem.Document{
			ID:        uuid.NewString(),
			Content:   content,
			Embedding: vectors[i],
			Metadata:  payload,
		})
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("upsert %d points into %q: %w", len(docs), collection, err)
	}

	log.Printf("[STORE] Upserted %d points into %q", len(docs), collection)
	return nil
}

// Search returns up to limit results by cosine similarity, payload included.
func (s *Chromem) Search(ctx context.Context, collection, queryText string, limit int) ([]SearchResult, error) {
	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults larger than the collection, so clamp.
	if count := col.Count(); limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}

	queryVector, err := embedder.EmbedOne(ctx, s.embedder, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := col.QueryEmbedding(ctx, queryVector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", collection, err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		payload := map[string]string{"text": hit.Content}
		for k, v := range hit.Metadata {
			payload[k] = v
		}
		results = append(results, SearchResult{
			ID:      hit.ID,
			Payload: payload,
			Score:   hit.Similarity,
		})
	}
	return results, nil
}

// DeletePoints removes points by ID.
func (s *Chromem) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("delete %d points from %q: %w", len(ids), collection, err)
	}
	return nil
}

// CollectionInfo reports stats for one collection. Failures become a value
// with Status "error" rather than an error return.
func (s *Chromem) CollectionInfo(ctx context.Context, collection string) CollectionInfo {
	col := s.db.GetCollection(collection, nil)
	if col == nil {
		return CollectionInfo{
			Name:   collection,
			Status: "error",
			Error:  fmt.Sprintf("collection %q does not exist", collection),
		}
	}
	count := col.Count()
	return CollectionInfo{
		Name:         collection,
		VectorsCount: count,
		PointsCount:  count,
		Status:       "exists",
	}
}

// ListCollections returns all collection names, sorted.
func (s *Chromem) ListCollections(ctx context.Context) ([]string, error) {
	existing := s.db.ListCollections()
	names := make([]string, 0, len(existing))
	for name := range existing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ClearCollection removes every point while keeping the collection. chromem
// has no match-all delete, so clearing drops and recreates the collection
// with the same configuration.
func (s *Chromem) ClearCollection(ctx context.Context, collection string) error {
	if _, err := s.collection(collection); err != nil {
		return err
	}
	if err := s.db.DeleteCollection(collection); err != nil {
		return fmt.Errorf("clear %q: %w", collection, err)
	}
	if _, err := s.db.GetOrCreateCollection(collection, nil, nil); err != nil {
		return fmt.Errorf("recreate %q: %w", collection, err)
	}
	log.Printf("[STORE] Cleared collection %q", collection)
	return nil
}

// collection fetches an existing collection. Collections are created by
// EnsureCollections at startup, never implicitly on use.
func (s *Chromem) collection(name string) (*chromem.Collection, error) {
	col := s.db.GetCollection(name, nil)
	if col == nil {
		return nil, fmt.Errorf("collection %q does not exist (call EnsureCollections first)", name)
	}
	return col, nil
}
