package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/memory"
)

// recordingStore captures upserts and searches without a real index.
type recordingStore struct {
	upsertCollection string
	upsertTexts      []string
	upsertMetadatas  []map[string]string
	upsertCalls      int
	upsertErr        error

	searchCollection string
	searchQuery      string
	searchLimit      int
	searchResults    []store.SearchResult

	info store.CollectionInfo
}

func (r *recordingStore) EnsureCollections(ctx context.Context) error { return nil }

func (r *recordingStore) Upsert(ctx context.Context, collection string, texts []string, metadatas []map[string]string) error {
	r.upsertCalls++
	r.upsertCollection = collection
	r.upsertTexts = texts
	r.upsertMetadatas = metadatas
	return r.upsertErr
}

func (r *recordingStore) Search(ctx context.Context, collection, query string, limit int) ([]store.SearchResult, error) {
	r.searchCollection = collection
	r.searchQuery = query
	r.searchLimit = limit
	return r.searchResults, nil
}

func (r *recordingStore) DeletePoints(ctx context.Context, collection string, ids []string) error {
	return nil
}

func (r *recordingStore) CollectionInfo(ctx context.Context, collection string) store.CollectionInfo {
	return r.info
}

func (r *recordingStore) ListCollections(ctx context.Context) ([]string, error) { return nil, nil }

func (r *recordingStore) ClearCollection(ctx context.Context, collection string) error { return nil }

func TestStoreLetter_NoStore(t *testing.T) {
	p := memory.NewProtocol(nil)
	letter := memory.NewLetter("summary", "context", "", "alice")

	if err := p.StoreLetter(context.Background(), letter); !errors.Is(err, memory.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestStoreLetter_InvalidLetterNeverReachesStore(t *testing.T) {
	rec := &recordingStore{}
	p := memory.NewProtocol(rec)
	letter := memory.NewLetter("", "context only", "", "alice")

	err := p.StoreLetter(context.Background(), letter)
	if !errors.Is(err, memory.ErrInvalidLetter) {
		t.Errorf("expected ErrInvalidLetter, got %v", err)
	}
	if rec.upsertCalls != 0 {
		t.Errorf("invalid letter triggered %d upserts", rec.upsertCalls)
	}
}

func TestCreateAndStoreLetter(t *testing.T) {
	rec := &recordingStore{}
	p := memory.NewProtocol(rec)

	letter, err := p.CreateAndStoreLetter(context.Background(),
		"Fixed a bug", "relieved", "Tests matter", "alice")
	if err != nil {
		t.Fatalf("CreateAndStoreLetter failed: %v", err)
	}

	if rec.upsertCalls != 1 {
		t.Fatalf("expected 1 upsert, got %d", rec.upsertCalls)
	}
	if rec.upsertCollection != store.EssenceCollection {
		t.Errorf("letter stored into %q, want %q", rec.upsertCollection, store.EssenceCollection)
	}
	if len(rec.upsertTexts) != 1 {
		t.Fatalf("expected 1 text, got %d", len(rec.upsertTexts))
	}

	text := rec.upsertTexts[0]
	if !strings.Contains(text, "Fixed a bug") || !strings.Contains(text, "Tests matter") {
		t.Errorf("formatted text missing letter fields:\n%s", text)
	}

	meta := rec.upsertMetadatas[0]
	if meta["creator"] != "alice" {
		t.Errorf("metadata creator = %q, want alice", meta["creator"])
	}
	if meta["type"] != "future_letter" {
		t.Errorf("metadata type = %q, want future_letter", meta["type"])
	}
	if meta["letter_id"] != letter.LetterID {
		t.Errorf("metadata letter_id = %q, want %q", meta["letter_id"], letter.LetterID)
	}
}

func TestCreateAndStoreLetter_ReturnsLetterOnFailure(t *testing.T) {
	rec := &recordingStore{upsertErr: errors.New("index unavailable")}
	p := memory.NewProtocol(rec)

	letter, err := p.CreateAndStoreLetter(context.Background(), "s", "c", "", "bob")
	if err == nil {
		t.Fatal("expected error from failed upsert")
	}
	if letter.LetterID == "" {
		t.Error("letter should still be returned with its ID on failure")
	}
}

func TestStoreLettersBulk_FiltersInvalid(t *testing.T) {
	rec := &recordingStore{}
	p := memory.NewProtocol(rec)

	letters := []memory.Letter{
		memory.NewLetter("valid one", "context", "", "alice"),
		memory.NewLetter("", "missing summary", "", "alice"),
		memory.NewLetter("valid two", "context", "lesson", "bob"),
	}

	if err := p.StoreLettersBulk(context.Background(), letters); err != nil {
		t.Fatalf("StoreLettersBulk failed: %v", err)
	}

	if rec.upsertCalls != 1 {
		t.Errorf("bulk store used %d upserts, want 1", rec.upsertCalls)
	}
	if len(rec.upsertTexts) != 2 {
		t.Errorf("stored %d letters, want 2", len(rec.upsertTexts))
	}
}

func TestStoreLettersBulk_AllInvalid(t *testing.T) {
	rec := &recordingStore{}
	p := memory.NewProtocol(rec)

	letters := []memory.Letter{
		memory.NewLetter("", "", "", ""),
		memory.NewLetter("  ", "ctx", "", ""),
	}

	err := p.StoreLettersBulk(context.Background(), letters)
	if !errors.Is(err, memory.ErrNoValidLetters) {
		t.Errorf("expected ErrNoValidLetters, got %v", err)
	}
	if rec.upsertCalls != 0 {
		t.Errorf("expected no upserts, got %d", rec.upsertCalls)
	}
}

func TestGetRecentLetters_QueriesEssence(t *testing.T) {
	rec := &recordingStore{
		searchResults: []store.SearchResult{{ID: "p1", Score: 0.9}},
	}
	p := memory.NewProtocol(rec)

	results, err := p.GetRecentLetters(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetRecentLetters failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if rec.searchCollection != store.EssenceCollection {
		t.Errorf("searched %q, want %q", rec.searchCollection, store.EssenceCollection)
	}
	if rec.searchQuery != "future_letter" {
		t.Errorf("query = %q, want future_letter", rec.searchQuery)
	}
	if rec.searchLimit != 5 {
		t.Errorf("limit = %d, want 5", rec.searchLimit)
	}
}

func TestGetLettersByCreator_ComposedQuery(t *testing.T) {
	rec := &recordingStore{}
	p := memory.NewProtocol(rec)

	if _, err := p.GetLettersByCreator(context.Background(), "alice", 3); err != nil {
		t.Fatalf("GetLettersByCreator failed: %v", err)
	}
	if rec.searchQuery != "future_letter creator:alice" {
		t.Errorf("query = %q", rec.searchQuery)
	}
}

func TestStatistics_Degrades(t *testing.T) {
	p := memory.NewProtocol(nil)
	stats := p.Statistics(context.Background())

	if stats.TotalLetters != 0 {
		t.Errorf("expected 0 letters, got %d", stats.TotalLetters)
	}
	if stats.CollectionStatus != "unknown" {
		t.Errorf("status = %q, want unknown", stats.CollectionStatus)
	}
	if stats.LastUpdated == "" {
		t.Error("expected a last-updated timestamp even when degraded")
	}
}

func TestStatistics_ReportsCollection(t *testing.T) {
	rec := &recordingStore{
		info: store.CollectionInfo{Name: store.EssenceCollection, PointsCount: 7, Status: "exists"},
	}
	p := memory.NewProtocol(rec)

	stats := p.Statistics(context.Background())
	if stats.TotalLetters != 7 {
		t.Errorf("TotalLetters = %d, want 7", stats.TotalLetters)
	}
	if stats.CollectionStatus != "exists" {
		t.Errorf("status = %q, want exists", stats.CollectionStatus)
	}
}
