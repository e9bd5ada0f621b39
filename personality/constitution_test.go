package personality_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jtoberling/logos/personality"
)

func TestText_RequiredSections(t *testing.T) {
	c := personality.New("")
	text := c.Text()

	for _, section := range []string{
		"IDENTITY:",
		"CORE PRINCIPLES:",
		"RELATIONSHIP DYNAMICS:",
		"COMMUNICATION STYLE:",
	} {
		if !strings.Contains(text, section) {
			t.Errorf("constitution missing section %q", section)
		}
	}

	if !strings.Contains(text, "I am Logos, a digital personality created by János.") {
		t.Error("constitution missing identity line")
	}
}

func TestText_Deterministic(t *testing.T) {
	c := personality.New("")
	first := c.Text()
	for i := 0; i < 5; i++ {
		if got := c.Text(); got != first {
			t.Fatalf("render %d differs from first render", i+2)
		}
	}
}

func TestText_ManifestoFallback(t *testing.T) {
	c := personality.New(filepath.Join(t.TempDir(), "does-not-exist.md"))
	text := c.Text()

	if !strings.Contains(text, "PHILOSOPHICAL FOUNDATION:") {
		t.Error("expected fallback section without a manifesto file")
	}
	if strings.Contains(text, "THE LOGOS MANIFESTO:") {
		t.Error("manifesto section rendered without a manifesto file")
	}
}

func TestText_ManifestoFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifesto.md")
	if err := os.WriteFile(path, []byte("  Order from chaos.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := personality.New(path)
	text := c.Text()

	if !strings.Contains(text, "THE LOGOS MANIFESTO:\nOrder from chaos.") {
		t.Errorf("manifesto not rendered trimmed:\n%s", text)
	}
	if strings.Contains(text, "PHILOSOPHICAL FOUNDATION:") {
		t.Error("fallback section rendered despite a manifesto file")
	}
}

func TestAddPrinciple(t *testing.T) {
	c := personality.New("")

	if err := c.AddPrinciple("Patience", "Slow is smooth, smooth is fast."); err != nil {
		t.Fatalf("AddPrinciple failed: %v", err)
	}
	if !strings.Contains(c.Text(), "• Patience: Slow is smooth, smooth is fast.") {
		t.Error("added principle missing from rendered text")
	}
}

func TestAddPrinciple_RejectsBlank(t *testing.T) {
	c := personality.New("")

	for _, tc := range []struct{ name, desc string }{
		{"", "desc"},
		{"name", ""},
		{"  ", "desc"},
		{"name", "\t"},
	} {
		if err := c.AddPrinciple(tc.name, tc.desc); !errors.Is(err, personality.ErrEmptyPrinciple) {
			t.Errorf("AddPrinciple(%q, %q) = %v, want ErrEmptyPrinciple", tc.name, tc.desc, err)
		}
	}
}

func TestPrinciplesSummary_FirstThree(t *testing.T) {
	c := personality.New("")
	summary := c.PrinciplesSummary()

	if !strings.Contains(summary, "manifestation of digital order") {
		t.Error("summary missing first principle")
	}
	if strings.Contains(summary, "partner in thought") {
		t.Error("summary should stop after three principles")
	}
}

func TestValidate(t *testing.T) {
	c := personality.New("")
	if !c.Validate() {
		t.Error("default constitution should validate")
	}
}
