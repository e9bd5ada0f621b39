package memory_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jtoberling/logos/memory"
)

func TestNewLetter_Defaults(t *testing.T) {
	before := time.Now().UTC()
	letter := memory.NewLetter("summary", "context", "lesson", "")

	if letter.Creator != "unknown" {
		t.Errorf("empty creator should default to unknown, got %q", letter.Creator)
	}
	if letter.LetterID == "" {
		t.Error("letter has no ID")
	}

	ts, err := time.Parse(time.RFC3339, letter.Timestamp)
	if err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", letter.Timestamp, err)
	}
	if ts.Before(before.Add(-time.Second)) || ts.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("timestamp %v not near now", ts)
	}
}

func TestNewLetter_UniqueIDs(t *testing.T) {
	a := memory.NewLetter("s", "c", "", "alice")
	b := memory.NewLetter("s", "c", "", "alice")
	if a.LetterID == b.LetterID {
		t.Errorf("two letters share ID %q", a.LetterID)
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name    string
		summary string
		context string
		want    bool
	}{
		{"both present", "did a thing", "felt fine", true},
		{"missing summary", "", "felt fine", false},
		{"missing context", "did a thing", "", false},
		{"whitespace only summary", "   ", "felt fine", false},
		{"whitespace only context", "did a thing", "\t\n", false},
		{"both blank", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			letter := memory.NewLetter(tc.summary, tc.context, "", "tester")
			if got := letter.IsValid(); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormat_Canonical(t *testing.T) {
	letter := memory.Letter{
		InteractionSummary: "Fixed a bug",
		EmotionalContext:   "relieved",
		LessonLearned:      "Tests matter",
		Creator:            "alice",
		Timestamp:          "2026-08-31T10:00:00Z",
		LetterID:           "id-123",
	}

	want := "Letter for the Future Self\n\n" +
		"Context: relieved\n" +
		"Summary: Fixed a bug\n" +
		"Lesson: Tests matter\n" +
		"Creator: alice\n" +
		"Timestamp: 2026-08-31T10:00:00Z\n" +
		"Letter ID: id-123"

	if got := letter.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormat_OmitsEmptyLesson(t *testing.T) {
	letter := memory.Letter{
		InteractionSummary: "Shipped a feature",
		EmotionalContext:   "proud",
		Creator:            "bob",
		Timestamp:          "2026-08-31T10:00:00Z",
		LetterID:           "id-456",
	}

	formatted := letter.Format()
	if strings.Contains(formatted, "Lesson:") {
		t.Errorf("letter without a lesson must skip the Lesson line:\n%s", formatted)
	}
	if !strings.Contains(formatted, "Summary: Shipped a feature\nCreator: bob\n") {
		t.Errorf("Summary should run straight into Creator:\n%s", formatted)
	}
}

func TestParseSummary_RoundTrip(t *testing.T) {
	letter := memory.NewLetter("learned about indexes today", "curious", "read the docs", "carol")
	if got := memory.ParseSummary(letter.Format()); got != "learned about indexes today" {
		t.Errorf("ParseSummary = %q", got)
	}
}

func TestParseSummary_WithoutLesson(t *testing.T) {
	letter := memory.NewLetter("plain summary", "calm", "", "dave")
	if got := memory.ParseSummary(letter.Format()); got != "plain summary" {
		t.Errorf("ParseSummary = %q", got)
	}
}

func TestParseSummary_MultilineSummary(t *testing.T) {
	letter := memory.NewLetter("first line\nsecond line", "calm", "a lesson", "eve")
	if got := memory.ParseSummary(letter.Format()); got != "first line\nsecond line" {
		t.Errorf("ParseSummary = %q", got)
	}
}

func TestParseSummary_NotALetter(t *testing.T) {
	if got := memory.ParseSummary("just some random text"); got != "" {
		t.Errorf("expected empty summary for non-letter text, got %q", got)
	}
}
