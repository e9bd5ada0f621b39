// Package store is the vector-index seam: collection lifecycle, embedded
// upserts, and similarity search over the three fixed memory collections.
//
// Architecture:
//   - Store: the interface the domain layers depend on
//   - Chromem: embedded chromem-go implementation (in-memory or on-disk)
//   - Embedder: injected text-to-vector conversion
//
// Collections hold points of (UUID, vector, payload); the payload always
// carries the original text. Vector dimensionality is fixed per deployment
// by the embedder and must match across all collections.
package store

import "context"

// The three fixed logical collections. Names are case-sensitive and part of
// the persisted layout.
const (
	EssenceCollection   = "logos_essence"
	KnowledgeCollection = "project_knowledge"
	CanonCollection     = "canon"
)

// Collections maps each required collection to its purpose.
var Collections = map[string]string{
	EssenceCollection:   "Personality memories and letters for future self",
	KnowledgeCollection: "Project and technical knowledge",
	CanonCollection:     "Core documents and constitution",
}

// SearchResult is one similarity-search hit. Results are ephemeral,
// produced per query and not retained.
type SearchResult struct {
	ID      string            `json:"id"`
	Payload map[string]string `json:"payload"`
	Score   float32           `json:"score"`
}

// Text returns the payload text, or "" if absent.
func (r SearchResult) Text() string {
	return r.Payload["text"]
}

// Metadata returns the payload without the text field.
func (r SearchResult) Metadata() map[string]string {
	meta := make(map[string]string, len(r.Payload))
	for k, v := range r.Payload {
		if k != "text" {
			meta[k] = v
		}
	}
	return meta
}

// CollectionInfo describes one collection for status reports. Lookup
// failures land in Status/Error instead of an error return, so callers
// assembling reports need no per-collection error handling.
type CollectionInfo struct {
	Name         string `json:"name"`
	VectorsCount int    `json:"vectors_count,omitempty"`
	PointsCount  int    `json:"points_count,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// Store is the single seam between the domain and the vector index.
// Implementations: Chromem (embedded chromem-go index); tests use
// hand-rolled fakes.
type Store interface {
	// EnsureCollections creates any missing required collection.
	// Idempotent; safe to call on every startup.
	EnsureCollections(ctx context.Context) error

	// Upsert embeds texts in one batch and writes one point per text with a
	// fresh UUID. Empty texts is a no-op. metadatas may be shorter than
	// texts; missing entries get no extra payload fields. The payload always
	// starts as {"text": text} and the metadata is merged on top, so caller
	// metadata can override text.
	Upsert(ctx context.Context, collection string, texts []string, metadatas []map[string]string) error

	// Search embeds queryText and returns up to limit results ordered by
	// cosine similarity descending. No minimum-score threshold is applied.
	Search(ctx context.Context, collection, queryText string, limit int) ([]SearchResult, error)

	// DeletePoints removes points by ID.
	DeletePoints(ctx context.Context, collection string, ids []string) error

	// CollectionInfo reports collection stats; failures become a value with
	// Status "error".
	CollectionInfo(ctx context.Context, collection string) CollectionInfo

	// ListCollections returns the names of all existing collections.
	ListCollections(ctx context.Context) ([]string, error)

	// ClearCollection removes every point while preserving the collection.
	ClearCollection(ctx context.Context, collection string) error
}
