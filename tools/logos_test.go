package tools_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/memory"
	"github.com/jtoberling/logos/personality"
	"github.com/jtoberling/logos/query"
	"github.com/jtoberling/logos/tools"
)

// fakeStore backs the registry without a real index.
type fakeStore struct {
	results   []store.SearchResult
	lastQuery string
	upserts   int
}

func (f *fakeStore) EnsureCollections(ctx context.Context) error { return nil }

func (f *fakeStore) Upsert(ctx context.Context, collection string, texts []string, metadatas []map[string]string) error {
	f.upserts++
	return nil
}

func (f *fakeStore) Search(ctx context.Context, collection, queryText string, limit int) ([]store.SearchResult, error) {
	f.lastQuery = queryText
	return f.results, nil
}

func (f *fakeStore) DeletePoints(ctx context.Context, collection string, ids []string) error {
	return nil
}

func (f *fakeStore) CollectionInfo(ctx context.Context, collection string) store.CollectionInfo {
	return store.CollectionInfo{Name: collection, Status: "exists"}
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeStore) ClearCollection(ctx context.Context, collection string) error { return nil }

func newRegistry(f *fakeStore) *tools.Registry {
	prompts := personality.NewPromptManager(personality.New(""))
	service := query.NewService(f, prompts)
	protocol := memory.NewProtocol(f)
	return tools.NewRegistry(service, protocol)
}

func findTool(t *testing.T, r *tools.Registry, name string) tools.ToolDefinition {
	t.Helper()
	for _, def := range r.Definitions() {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("tool %q not defined", name)
	return tools.ToolDefinition{}
}

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("handler returned invalid JSON: %v\n%s", err, s)
	}
	return out
}

func TestDefinitions_Complete(t *testing.T) {
	r := newRegistry(&fakeStore{})
	defs := r.Definitions()

	want := []string{
		"query_logos",
		"get_constitution",
		"get_memory_context",
		"get_collection_stats",
		"get_version",
		"create_letter_for_future_self",
		"get_memory_statistics",
		"retrieve_recent_memories",
		"retrieve_memories_by_creator",
	}
	if len(defs) != len(want) {
		t.Fatalf("defined %d tools, want %d", len(defs), len(want))
	}

	seen := map[string]bool{}
	for _, def := range defs {
		if seen[def.Name] {
			t.Errorf("duplicate tool name %q", def.Name)
		}
		seen[def.Name] = true
		if def.Handler == nil {
			t.Errorf("tool %q has no handler", def.Name)
		}
		if def.Description == "" {
			t.Errorf("tool %q has no description", def.Name)
		}
		if def.InputSchema["type"] != "object" {
			t.Errorf("tool %q schema type = %v", def.Name, def.InputSchema["type"])
		}
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("missing tool %q", name)
		}
	}
}

func TestQueryLogos_Handler(t *testing.T) {
	f := &fakeStore{results: []store.SearchResult{
		{ID: "p1", Payload: map[string]string{"text": "a fact"}, Score: 0.9},
	}}
	r := newRegistry(f)
	def := findTool(t, r, "query_logos")

	out := decode(t, def.Handler(context.Background(), map[string]interface{}{
		"question": "what?",
		"limit":    float64(5), // JSON numbers decode to float64
	}))

	if out["constitution"] == "" {
		t.Error("response missing constitution")
	}
	meta, ok := out["metadata"].(map[string]interface{})
	if !ok {
		t.Fatal("response missing metadata")
	}
	if meta["query"] != "what?" {
		t.Errorf("metadata query = %v", meta["query"])
	}
}

func TestGetConstitution_PlainText(t *testing.T) {
	r := newRegistry(&fakeStore{})
	def := findTool(t, r, "get_constitution")

	out := def.Handler(context.Background(), nil)
	if !strings.Contains(out, "IDENTITY:") {
		t.Error("constitution text missing identity section")
	}
}

func TestCreateLetter_Success(t *testing.T) {
	f := &fakeStore{}
	r := newRegistry(f)
	def := findTool(t, r, "create_letter_for_future_self")

	out := decode(t, def.Handler(context.Background(), map[string]interface{}{
		"interaction_summary": "Fixed a bug",
		"emotional_context":   "relieved",
		"creator":             "alice",
	}))

	if out["success"] != true {
		t.Fatalf("expected success: %v", out)
	}
	if out["letter_id"] == "" {
		t.Error("response missing letter ID")
	}
	if out["creator"] != "alice" {
		t.Errorf("creator = %v", out["creator"])
	}
	if f.upserts != 1 {
		t.Errorf("expected 1 upsert, got %d", f.upserts)
	}
}

func TestCreateLetter_MissingFields(t *testing.T) {
	f := &fakeStore{}
	r := newRegistry(f)
	def := findTool(t, r, "create_letter_for_future_self")

	for _, args := range []map[string]interface{}{
		{"emotional_context": "fine"},
		{"interaction_summary": "did things"},
		{"interaction_summary": "  ", "emotional_context": "fine"},
	} {
		out := decode(t, def.Handler(context.Background(), args))
		if out["success"] != false {
			t.Errorf("args %v should fail: %v", args, out)
		}
		if out["error"] == "" {
			t.Errorf("args %v missing error message", args)
		}
	}
	if f.upserts != 0 {
		t.Errorf("invalid letters caused %d upserts", f.upserts)
	}
}

func TestGetMemoryContext_DefaultsToBoth(t *testing.T) {
	f := &fakeStore{}
	r := newRegistry(f)
	def := findTool(t, r, "get_memory_context")

	out := decode(t, def.Handler(context.Background(), map[string]interface{}{
		"question": "anything",
	}))

	meta, ok := out["metadata"].(map[string]interface{})
	if !ok {
		t.Fatal("response missing metadata")
	}
	if meta["collection"] != "both" {
		t.Errorf("default collection = %v, want both", meta["collection"])
	}
}

func TestRetrieveRecentMemories_LetterShaped(t *testing.T) {
	letter := memory.Letter{
		InteractionSummary: "learned chunking",
		EmotionalContext:   "curious",
		Creator:            "bob",
		Timestamp:          "2026-08-31T10:00:00Z",
		LetterID:           "id-789",
	}
	f := &fakeStore{results: []store.SearchResult{{
		ID: "p1",
		Payload: map[string]string{
			"text":              letter.Format(),
			"emotional_context": letter.EmotionalContext,
			"creator":           letter.Creator,
			"timestamp":         letter.Timestamp,
			"letter_id":         letter.LetterID,
		},
		Score: 0.88,
	}}}
	r := newRegistry(f)
	def := findTool(t, r, "retrieve_recent_memories")

	out := decode(t, def.Handler(context.Background(), map[string]interface{}{"limit": float64(5)}))

	if out["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", out["count"])
	}
	memories, ok := out["memories"].([]interface{})
	if !ok || len(memories) != 1 {
		t.Fatalf("memories = %v", out["memories"])
	}
	entry := memories[0].(map[string]interface{})
	if entry["interaction_summary"] != "learned chunking" {
		t.Errorf("summary = %v", entry["interaction_summary"])
	}
	if entry["creator"] != "bob" {
		t.Errorf("creator = %v", entry["creator"])
	}
	if entry["letter_id"] != "id-789" {
		t.Errorf("letter_id = %v", entry["letter_id"])
	}
}

func TestRetrieveMemoriesByCreator_EmptyCreator(t *testing.T) {
	r := newRegistry(&fakeStore{})
	def := findTool(t, r, "retrieve_memories_by_creator")

	out := decode(t, def.Handler(context.Background(), map[string]interface{}{}))
	if out["error"] == "" {
		t.Error("expected error for empty creator")
	}
	if out["count"] != float64(0) {
		t.Errorf("count = %v, want 0", out["count"])
	}
}

func TestRetrieveMemoriesByCreator_QueryComposition(t *testing.T) {
	f := &fakeStore{}
	r := newRegistry(f)
	def := findTool(t, r, "retrieve_memories_by_creator")

	decode(t, def.Handler(context.Background(), map[string]interface{}{"creator": "carol"}))
	if f.lastQuery != "future_letter creator:carol" {
		t.Errorf("search query = %q", f.lastQuery)
	}
}

func TestGetVersion_Handler(t *testing.T) {
	r := newRegistry(&fakeStore{})
	def := findTool(t, r, "get_version")

	out := decode(t, def.Handler(context.Background(), nil))
	if out["version"] == "" || out["author"] == "" {
		t.Errorf("incomplete version payload: %v", out)
	}
}
