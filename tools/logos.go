// Package tools exposes the engine's operations as self-describing tools:
// a definition (name, description, JSON schema) plus a handler that takes
// loosely-typed arguments and returns a JSON string. An external gateway
// (MCP server, RPC endpoint) maps these onto its own framing; everything
// here is an in-process call.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/memory"
	"github.com/jtoberling/logos/query"
)

// Handler executes one tool call and returns its JSON result. Handlers
// never return Go errors across this boundary: failures become an "error"
// field in the JSON, so gateways need no exception plumbing.
type Handler func(ctx context.Context, args map[string]interface{}) string

// ToolDefinition describes one callable tool.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
	Handler     Handler                `json:"-"`
}

// Registry holds the engine's tool surface.
type Registry struct {
	service  *query.Service
	protocol *memory.Protocol
}

// NewRegistry wires the tools to the query service and letter protocol.
func NewRegistry(service *query.Service, protocol *memory.Protocol) *Registry {
	return &Registry{service: service, protocol: protocol}
}

// Definitions returns every tool this engine exposes.
func (r *Registry) Definitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name: "query_logos",
			Description: "Query Logos for relevant context and constitution. Returns the constitution, " +
				"matching personality memories, and matching project knowledge; the caller handles the LLM call.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"question": StringProperty("The question to query for"),
				"limit":    IntegerProperty("Maximum results per collection (default: 5)"),
			}, "question"),
			Handler: r.queryLogos,
		},
		{
			Name:        "get_constitution",
			Description: "Get the complete constitution text that defines Logos' personality, rules, and behavioral guidelines.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
			Handler:     r.getConstitution,
		},
		{
			Name:        "get_memory_context",
			Description: "Get relevant memory context for a question from the selected collection(s).",
			InputSchema: ObjectSchema(map[string]interface{}{
				"question":   StringProperty("Question to search for"),
				"collection": StringEnumProperty("Which collection to search", "essence", "project", "both"),
				"limit":      IntegerProperty("Maximum results to return (default: 5)"),
			}, "question"),
			Handler: r.getMemoryContext,
		},
		{
			Name:        "get_collection_stats",
			Description: "Get statistics about the memory collections.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
			Handler:     r.getCollectionStats,
		},
		{
			Name:        "get_version",
			Description: "Get Logos version and system information.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
			Handler:     r.getVersion,
		},
		{
			Name: "create_letter_for_future_self",
			Description: "Create a Letter for Future Self: transform an interaction into a permanent memory " +
				"that becomes part of Logos' personality and learning experience.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"interaction_summary": StringProperty("What happened in the interaction"),
				"emotional_context":   StringProperty("How the interaction felt (productive, challenging, insightful, etc.)"),
				"lesson_learned":      StringProperty("Key lesson or insight gained (optional)"),
				"creator":             StringProperty("Identifier for who/what created this letter (optional)"),
			}, "interaction_summary", "emotional_context"),
			Handler: r.createLetter,
		},
		{
			Name:        "get_memory_statistics",
			Description: "Get statistics about stored Letters for Future Self.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
			Handler:     r.getMemoryStatistics,
		},
		{
			Name:        "retrieve_recent_memories",
			Description: "Retrieve recent Letters for Future Self from memory.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"limit": IntegerProperty("Maximum number of recent memories to retrieve (default: 10)"),
			}),
			Handler: r.retrieveRecentMemories,
		},
		{
			Name:        "retrieve_memories_by_creator",
			Description: "Retrieve Letters for Future Self created by a specific creator.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"creator": StringProperty("Creator identifier to search for"),
				"limit":   IntegerProperty("Maximum number of memories to retrieve (default: 20)"),
			}, "creator"),
			Handler: r.retrieveMemoriesByCreator,
		},
	}
}

func (r *Registry) queryLogos(ctx context.Context, args map[string]interface{}) string {
	question := argString(args, "question", "")
	limit := argInt(args, "limit", 5)
	return marshal(r.service.Query(ctx, question, limit))
}

func (r *Registry) getConstitution(ctx context.Context, args map[string]interface{}) string {
	return r.service.Constitution()
}

func (r *Registry) getMemoryContext(ctx context.Context, args map[string]interface{}) string {
	question := argString(args, "question", "")
	selector := argString(args, "collection", query.SelectBoth)
	limit := argInt(args, "limit", 5)
	return marshal(r.service.MemoryContext(ctx, question, selector, limit))
}

func (r *Registry) getCollectionStats(ctx context.Context, args map[string]interface{}) string {
	return marshal(r.service.Stats(ctx))
}

func (r *Registry) getVersion(ctx context.Context, args map[string]interface{}) string {
	return marshal(r.service.Version())
}

func (r *Registry) createLetter(ctx context.Context, args map[string]interface{}) string {
	summary := strings.TrimSpace(argString(args, "interaction_summary", ""))
	emotional := strings.TrimSpace(argString(args, "emotional_context", ""))
	lesson := strings.TrimSpace(argString(args, "lesson_learned", ""))
	creator := strings.TrimSpace(argString(args, "creator", "unknown"))

	if summary == "" {
		return marshal(map[string]interface{}{"success": false, "error": "Interaction summary cannot be empty"})
	}
	if emotional == "" {
		return marshal(map[string]interface{}{"success": false, "error": "Emotional context cannot be empty"})
	}

	letter, err := r.protocol.CreateAndStoreLetter(ctx, summary, emotional, lesson, creator)
	if err != nil {
		msg := "Failed to store letter in memory"
		if errors.Is(err, memory.ErrInvalidLetter) {
			msg = "Letter is missing required fields"
		}
		return marshal(map[string]interface{}{"success": false, "error": msg})
	}

	return marshal(map[string]interface{}{
		"success":             true,
		"letter_id":           letter.LetterID,
		"message":             "Letter for Future Self created and stored successfully",
		"interaction_summary": letter.InteractionSummary,
		"emotional_context":   letter.EmotionalContext,
		"lesson_learned":      letter.LessonLearned,
		"creator":             letter.Creator,
		"timestamp":           letter.Timestamp,
	})
}

func (r *Registry) getMemoryStatistics(ctx context.Context, args map[string]interface{}) string {
	return marshal(r.protocol.Statistics(ctx))
}

func (r *Registry) retrieveRecentMemories(ctx context.Context, args map[string]interface{}) string {
	limit := argInt(args, "limit", 10)

	results, err := r.protocol.GetRecentLetters(ctx, limit)
	if err != nil {
		return marshal(map[string]interface{}{
			"error":    "Failed to retrieve recent memories: " + err.Error(),
			"memories": []interface{}{},
			"count":    0,
		})
	}

	memories := letterMemories(results)
	return marshal(map[string]interface{}{
		"memories":        memories,
		"count":           len(memories),
		"limit_requested": limit,
	})
}

func (r *Registry) retrieveMemoriesByCreator(ctx context.Context, args map[string]interface{}) string {
	creator := strings.TrimSpace(argString(args, "creator", ""))
	limit := argInt(args, "limit", 20)

	if creator == "" {
		return marshal(map[string]interface{}{
			"error":    "Creator cannot be empty",
			"memories": []interface{}{},
			"count":    0,
		})
	}

	results, err := r.protocol.GetLettersByCreator(ctx, creator, limit)
	if err != nil {
		return marshal(map[string]interface{}{
			"error":    "Failed to retrieve memories: " + err.Error(),
			"memories": []interface{}{},
			"count":    0,
			"creator":  creator,
		})
	}

	memories := letterMemories(results)
	return marshal(map[string]interface{}{
		"creator":         creator,
		"memories":        memories,
		"count":           len(memories),
		"limit_requested": limit,
	})
}

// letterMemories flattens search hits into letter-shaped entries: the
// summary comes back out of the canonical letter text, the rest from the
// point payload.
func letterMemories(results []store.SearchResult) []map[string]interface{} {
	memories := make([]map[string]interface{}, 0, len(results))
	for _, result := range results {
		memories = append(memories, map[string]interface{}{
			"interaction_summary": memory.ParseSummary(result.Text()),
			"emotional_context":   payloadOr(result, "emotional_context", "unknown"),
			"lesson_learned":      payloadOr(result, "lesson_learned", ""),
			"creator":             payloadOr(result, "creator", "unknown"),
			"timestamp":           payloadOr(result, "timestamp", "unknown"),
			"letter_id":           payloadOr(result, "letter_id", "unknown"),
			"score":               result.Score,
		})
	}
	return memories
}

func payloadOr(result store.SearchResult, key, fallback string) string {
	if v, ok := result.Payload[key]; ok {
		return v
	}
	return fallback
}

func argString(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func marshal(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "failed to encode response"}`
	}
	return string(data)
}
