// Package query is the orchestration layer: it fans a question out to the
// memory collections, merges the hits, and assembles the bundle an external
// gateway hands to generation.
package query

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jtoberling/logos"
	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/personality"
)

// essenceCap bounds personality hits per query so memories never crowd out
// technical grounding.
const essenceCap = 3

// Scored is one retrieved context entry.
type Scored struct {
	Collection string            `json:"collection,omitempty"`
	Text       string            `json:"text"`
	Metadata   map[string]string `json:"metadata"`
	Score      float32           `json:"score"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Query                   string `json:"query"`
	Timestamp               string `json:"timestamp,omitempty"`
	Collection              string `json:"collection,omitempty"`
	Limit                   int    `json:"limit,omitempty"`
	PersonalityResultsCount int    `json:"personality_results_count,omitempty"`
	ProjectResultsCount     int    `json:"project_results_count,omitempty"`
	ResultsCount            int    `json:"results_count,omitempty"`
	TotalResults            int    `json:"total_results,omitempty"`
	Error                   string `json:"error,omitempty"`
}

// Response is the full context bundle for one question. It is always
// well-formed: on failure the lists are empty, Error is set, and the
// constitution is still present whenever it could be fetched.
type Response struct {
	Constitution        string   `json:"constitution"`
	PersonalityMemories []Scored `json:"personality_memories"`
	ProjectKnowledge    []Scored `json:"project_knowledge"`
	Metadata            Metadata `json:"metadata"`
	Error               string   `json:"error,omitempty"`
}

// ContextResponse is the bundle for a collection-selective memory lookup.
type ContextResponse struct {
	Memories []Scored `json:"memories"`
	Metadata Metadata `json:"metadata"`
	Error    string   `json:"error,omitempty"`
}

// StatsResponse reports per-collection index stats.
type StatsResponse struct {
	Collections map[string]store.CollectionInfo `json:"collections"`
	Metadata    Metadata                        `json:"metadata"`
}

// VersionInfo identifies the running engine.
type VersionInfo struct {
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Timestamp   string `json:"timestamp"`
}

// Service orchestrates retrieval and prompt assembly. It holds no request
// state; concurrent calls coordinate only through the vector index.
type Service struct {
	store   store.Store
	prompts *personality.PromptManager
}

// NewService creates a query service.
func NewService(s store.Store, prompts *personality.PromptManager) *Service {
	return &Service{store: s, prompts: prompts}
}

// Constitution returns the complete constitution text.
func (s *Service) Constitution() string {
	return s.prompts.Constitution()
}

// Query searches the essence collection with min(limit, 3) and the project
// collection with the full limit, and returns the assembled bundle.
// Failures produce an error-shaped bundle, never an error return; the
// constitution is fetched independently so identity survives retrieval
// outages.
func (s *Service) Query(ctx context.Context, question string, limit int) *Response {
	log.Printf("[QUERY] query_logos question=%q limit=%d", question, limit)

	essenceLimit := limit
	if essenceLimit > essenceCap {
		essenceLimit = essenceCap
	}

	essenceHits, err := s.store.Search(ctx, store.EssenceCollection, question, essenceLimit)
	if err != nil {
		return s.errorResponse(question, fmt.Errorf("search %s: %w", store.EssenceCollection, err))
	}

	projectHits, err := s.store.Search(ctx, store.KnowledgeCollection, question, limit)
	if err != nil {
		return s.errorResponse(question, fmt.Errorf("search %s: %w", store.KnowledgeCollection, err))
	}

	total := len(essenceHits) + len(projectHits)
	log.Printf("[QUERY] query_logos found %d personality and %d project results", len(essenceHits), len(projectHits))

	return &Response{
		Constitution:        s.prompts.Constitution(),
		PersonalityMemories: toScored(essenceHits, ""),
		ProjectKnowledge:    toScored(projectHits, ""),
		Metadata: Metadata{
			Query:                   question,
			Timestamp:               now(),
			PersonalityResultsCount: len(essenceHits),
			ProjectResultsCount:     len(projectHits),
			TotalResults:            total,
		},
	}
}

// Collection selectors accepted by MemoryContext.
const (
	SelectEssence = "essence"
	SelectProject = "project"
	SelectBoth    = "both"
)

// MemoryContext searches the selected collection(s). With "both", each
// collection gets limit/2 and the merged results are sorted by score
// descending, the one place cross-collection ranking is explicit.
func (s *Service) MemoryContext(ctx context.Context, question, selector string, limit int) *ContextResponse {
	log.Printf("[QUERY] get_memory_context question=%q collection=%s limit=%d", question, selector, limit)

	var results []Scored

	if selector == SelectEssence || selector == SelectBoth {
		perCollection := limit
		if selector == SelectBoth {
			perCollection = limit / 2
		}
		hits, err := s.store.Search(ctx, store.EssenceCollection, question, perCollection)
		if err != nil {
			return s.contextError(question, err)
		}
		results = append(results, toScored(hits, store.EssenceCollection)...)
	}

	if selector == SelectProject || selector == SelectBoth {
		perCollection := limit
		if selector == SelectBoth {
			perCollection = limit / 2
		}
		hits, err := s.store.Search(ctx, store.KnowledgeCollection, question, perCollection)
		if err != nil {
			return s.contextError(question, err)
		}
		results = append(results, toScored(hits, store.KnowledgeCollection)...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return &ContextResponse{
		Memories: results,
		Metadata: Metadata{
			Query:        question,
			Collection:   selector,
			Limit:        limit,
			ResultsCount: len(results),
			Timestamp:    now(),
		},
	}
}

// SystemPrompt assembles the full instruction text for one question:
// constitution plus the retrieved context excerpts, formatted by the prompt
// manager. Generation itself is the caller's job.
func (s *Service) SystemPrompt(ctx context.Context, question string, limit int) string {
	bundle := s.Query(ctx, question, limit)

	personalityTexts := make([]string, 0, len(bundle.PersonalityMemories))
	for _, m := range bundle.PersonalityMemories {
		personalityTexts = append(personalityTexts, m.Text)
	}
	technicalTexts := make([]string, 0, len(bundle.ProjectKnowledge))
	for _, k := range bundle.ProjectKnowledge {
		technicalTexts = append(technicalTexts, k.Text)
	}

	return s.prompts.BuildSystemPrompt(personalityTexts, technicalTexts, nil)
}

// Stats reports index stats for every required collection. Per-collection
// failures arrive as Status "error" values from the store.
func (s *Service) Stats(ctx context.Context) *StatsResponse {
	infos := make(map[string]store.CollectionInfo, len(store.Collections))
	for name := range store.Collections {
		infos[name] = s.store.CollectionInfo(ctx, name)
	}
	return &StatsResponse{
		Collections: infos,
		Metadata:    Metadata{Timestamp: now()},
	}
}

// Version reports engine identity.
func (s *Service) Version() VersionInfo {
	return VersionInfo{
		Version:     logos.Version,
		Author:      logos.Author,
		Description: logos.Description,
		URL:         logos.URL,
		Timestamp:   now(),
	}
}

func (s *Service) errorResponse(question string, err error) *Response {
	log.Printf("[QUERY] query_logos failed: %v", err)
	return &Response{
		Error:               err.Error(),
		Constitution:        s.prompts.Constitution(),
		PersonalityMemories: []Scored{},
		ProjectKnowledge:    []Scored{},
		Metadata:            Metadata{Query: question, Error: err.Error()},
	}
}

func (s *Service) contextError(question string, err error) *ContextResponse {
	log.Printf("[QUERY] get_memory_context failed: %v", err)
	return &ContextResponse{
		Error:    fmt.Sprintf("memory search failed: %v", err),
		Memories: []Scored{},
		Metadata: Metadata{Query: question, Error: err.Error()},
	}
}

func toScored(hits []store.SearchResult, collection string) []Scored {
	scored := make([]Scored, 0, len(hits))
	for _, hit := range hits {
		scored = append(scored, Scored{
			Collection: collection,
			Text:       hit.Text(),
			Metadata:   hit.Metadata(),
			Score:      hit.Score,
		})
	}
	return scored
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
