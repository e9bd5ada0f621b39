// Package memory implements the Letters for Future Self protocol: the
// letter entity, its canonical text format, and persistence into the
// essence collection.
package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// letterHeader is the first line of every formatted letter.
const letterHeader = "Letter for the Future Self"

// metadataPreviewLen caps summary and lesson copies in the point payload.
// The full text lives in the payload text; metadata is for filtering and
// preview only.
const metadataPreviewLen = 200

// Letter is a single personality-memory record: a crystallized interaction
// that becomes part of the long-lived identity. Letters are immutable after
// construction and never mutated once persisted.
type Letter struct {
	InteractionSummary string `json:"interaction_summary"`
	EmotionalContext   string `json:"emotional_context"`
	LessonLearned      string `json:"lesson_learned"`
	Creator            string `json:"creator"`
	Timestamp          string `json:"timestamp"`
	LetterID           string `json:"letter_id"`
}

// NewLetter constructs a letter with a fresh UUID and the current UTC
// timestamp. Construction always succeeds; validity is checked at store
// time, not here.
func NewLetter(interactionSummary, emotionalContext, lessonLearned, creator string) Letter {
	if creator == "" {
		creator = "unknown"
	}
	return Letter{
		InteractionSummary: interactionSummary,
		EmotionalContext:   emotionalContext,
		LessonLearned:      lessonLearned,
		Creator:            creator,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		LetterID:           uuid.NewString(),
	}
}

// IsValid reports whether both required fields are non-blank after trimming.
// Invalid letters are never persisted.
func (l Letter) IsValid() bool {
	return strings.TrimSpace(l.InteractionSummary) != "" &&
		strings.TrimSpace(l.EmotionalContext) != ""
}

// Format renders the canonical letter text. The format is fixed; search and
// round-trip consistency depend on it being reproduced exactly.
func (l Letter) Format() string {
	var b strings.Builder
	b.WriteString(letterHeader)
	b.WriteString("\n\nContext: ")
	b.WriteString(l.EmotionalContext)
	b.WriteString("\nSummary: ")
	b.WriteString(l.InteractionSummary)
	if l.LessonLearned != "" {
		b.WriteString("\nLesson: ")
		b.WriteString(l.LessonLearned)
	}
	b.WriteString("\nCreator: ")
	b.WriteString(l.Creator)
	b.WriteString("\nTimestamp: ")
	b.WriteString(l.Timestamp)
	b.WriteString("\nLetter ID: ")
	b.WriteString(l.LetterID)
	return b.String()
}

// payload builds the point metadata stored alongside the formatted text.
func (l Letter) payload() map[string]string {
	return map[string]string{
		"type":                "future_letter",
		"letter_id":           l.LetterID,
		"creator":             l.Creator,
		"emotional_context":   l.EmotionalContext,
		"timestamp":           l.Timestamp,
		"interaction_summary": truncate(l.InteractionSummary, metadataPreviewLen),
		"lesson_learned":      truncate(l.LessonLearned, metadataPreviewLen),
	}
}

// ParseSummary recovers the canonical Summary line from a formatted letter.
// Returns "" if the text does not look like a letter.
func ParseSummary(formatted string) string {
	const marker = "\nSummary: "
	start := strings.Index(formatted, marker)
	if start < 0 {
		return ""
	}
	rest := formatted[start+len(marker):]

	// The summary runs until the next canonical field line.
	end := len(rest)
	for _, next := range []string{"\nLesson: ", "\nCreator: "} {
		if i := strings.Index(rest, next); i >= 0 && i < end {
			end = i
		}
	}
	return rest[:end]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
