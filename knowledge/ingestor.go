// Package knowledge ingests already-extracted document text into the
// project-knowledge and canon collections. Format extraction (PDF, DOCX,
// HTML) happens upstream; this package receives plain text plus metadata
// and owns cleaning, chunking, and the storage contract.
package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jtoberling/logos/engine/store"
)

var spaceRuns = regexp.MustCompile(`[ \t]+`)

// CleanText normalizes extracted text: NUL bytes and control characters
// other than \n, \t, \r become spaces, runs of spaces and tabs collapse,
// and line edges are trimmed.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 32 || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Ingestor stores extracted document text as chunked, embedded points.
type Ingestor struct {
	store store.Store
	opts  ChunkOptions
}

// NewIngestor creates an ingestor with the given chunk sizing. Zero options
// select the defaults.
func NewIngestor(s store.Store, opts ChunkOptions) *Ingestor {
	if opts.TargetSize <= 0 {
		opts = DefaultChunkOptions()
	}
	return &Ingestor{store: s, opts: opts}
}

// IngestText cleans and chunks text, attaches per-chunk metadata on top of
// meta, and upserts every chunk in one call to the given collection.
// Returns the number of chunks stored.
//
// Per-chunk metadata: source fields from meta, plus chunk_index,
// chunk_count, size, checksum (sha256 of the full cleaned text), and
// ingested_at.
func (i *Ingestor) IngestText(ctx context.Context, collection, text string, meta map[string]string) (int, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return 0, fmt.Errorf("ingest into %q: no text after cleaning", collection)
	}

	chunks := Chunk(cleaned, i.opts)
	sum := sha256.Sum256([]byte(cleaned))
	checksum := hex.EncodeToString(sum[:])
	ingestedAt := time.Now().UTC().Format(time.RFC3339)

	metadatas := make([]map[string]string, len(chunks))
	for idx, chunk := range chunks {
		m := make(map[string]string, len(meta)+5)
		for k, v := range meta {
			m[k] = v
		}
		m["chunk_index"] = strconv.Itoa(idx)
		m["chunk_count"] = strconv.Itoa(len(chunks))
		m["size"] = strconv.Itoa(len(chunk))
		m["checksum"] = checksum
		m["ingested_at"] = ingestedAt
		metadatas[idx] = m
	}

	if err := i.store.Upsert(ctx, collection, chunks, metadatas); err != nil {
		return 0, fmt.Errorf("ingest %d chunks into %q: %w", len(chunks), collection, err)
	}

	log.Printf("[KNOWLEDGE] Ingested %d chunks into %q (checksum=%s)", len(chunks), collection, checksum[:12])
	return len(chunks), nil
}

// IngestKnowledge stores text in the project-knowledge collection.
func (i *Ingestor) IngestKnowledge(ctx context.Context, text string, meta map[string]string) (int, error) {
	return i.IngestText(ctx, store.KnowledgeCollection, text, meta)
}

// IngestCanon stores text in the canon collection of core documents.
func (i *Ingestor) IngestCanon(ctx context.Context, text string, meta map[string]string) (int, error) {
	return i.IngestText(ctx, store.CanonCollection, text, meta)
}
