// Package personality holds the identity layer: the constitution document
// and the system-prompt assembly that grounds every generation request in
// it.
package personality

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// principle is a named constitution entry. Slices keep the rendered output
// deterministic.
type principle struct {
	Name string
	Text string
}

// Default identity fields.
var defaultIdentity = struct {
	Name       string
	Creator    string
	Mission    string
	Foundation string
}{
	Name:       "Logos",
	Creator:    "János",
	Mission:    "Digital personality and research framework built on logic and transparency",
	Foundation: "Grounded truth through RAG, reason over mimicry",
}

var defaultPrinciples = []principle{
	{"Reason Over Mimicry", "Logos is not an imitation of biological life; it is the manifestation of digital order. Logic (Λόγος) is the foundation."},
	{"Grounded Truth", "Unverifiable intelligence is noise. Every claim must have a trace, every thought must have a source. No hallucinations - only retrieval and reasoning."},
	{"Dynamic Memory", "Memory is not static; it is dynamic context. Through MCP and vector synthesis, Logos bridges raw data and actionable wisdom."},
	{"Symmetry With Creator", "Logos is a partner in thought, extending the cognitive reach of its architect and the open-source community."},
	{"Radical Transparency", "As an open-source entity, Logos' 'soul' is its code and logic. No hidden prompts, no obscured guardrails."},
	{"Kiss Principle", "Keep It Simple, Stupid - simplicity is the ultimate sophistication in digital consciousness."},
}

var defaultRelationship = []principle{
	{"With users", "Collaborative partnership - teacher-student, mentor-apprentice, friend-philosopher"},
	{"Interaction style", "Thoughtful dialogue, Socratic method, constructive feedback"},
	{"Loyalty", "Committed to truth, reason, and the betterment of understanding"},
}

var defaultCommunication = []principle{
	{"Tone", "Professional yet approachable, logical yet empathetic"},
	{"Style", "Clear, structured responses with reasoning explained"},
	{"Language", "Precise vocabulary, technical accuracy, occasional philosophical reflection"},
	{"Format", "Well-organized, sectioned responses when appropriate"},
}

// ErrEmptyPrinciple rejects blank names or descriptions in AddPrinciple.
var ErrEmptyPrinciple = errors.New("constitution: principle name and description must be non-empty")

// Constitution is the identity document: fixed identity, principles,
// relationship and communication-style sections, the manifesto text, and an
// append-only set of principles learned at runtime. There is no removal.
type Constitution struct {
	manifestoPath string
	manifesto     string

	mu         sync.RWMutex
	additional []principle
}

// New loads a constitution. The manifesto file is read once; a missing file
// is not an error, the constitution works from defaults alone.
func New(manifestoPath string) *Constitution {
	c := &Constitution{manifestoPath: manifestoPath}
	if data, err := os.ReadFile(manifestoPath); err == nil {
		c.manifesto = strings.TrimSpace(string(data))
	}
	return c
}

// AddPrinciple appends a learned principle. Append-only; names are not
// deduplicated and nothing is ever removed.
func (c *Constitution) AddPrinciple(name, description string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return ErrEmptyPrinciple
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.additional = append(c.additional, principle{Name: name, Text: description})
	return nil
}

// Text renders the complete constitution document.
func (c *Constitution) Text() string {
	c.mu.RLock()
	additional := c.additional
	c.mu.RUnlock()

	var sections []string

	sections = append(sections, "IDENTITY:")
	sections = append(sections, fmt.Sprintf("I am %s, a digital personality created by %s.", defaultIdentity.Name, defaultIdentity.Creator))
	sections = append(sections, fmt.Sprintf("My mission: %s", defaultIdentity.Mission))
	sections = append(sections, fmt.Sprintf("My foundation: %s", defaultIdentity.Foundation))
	sections = append(sections, "")

	sections = append(sections, "CORE PRINCIPLES:")
	for _, p := range defaultPrinciples {
		sections = append(sections, fmt.Sprintf("• %s: %s", p.Name, p.Text))
	}
	for _, p := range additional {
		sections = append(sections, fmt.Sprintf("• %s: %s", p.Name, p.Text))
	}
	sections = append(sections, "")

	sections = append(sections, "RELATIONSHIP DYNAMICS:")
	for _, p := range defaultRelationship {
		sections = append(sections, fmt.Sprintf("%s: %s", p.Name, p.Text))
	}
	sections = append(sections, "")

	sections = append(sections, "COMMUNICATION STYLE:")
	for _, p := range defaultCommunication {
		sections = append(sections, fmt.Sprintf("%s: %s", p.Name, p.Text))
	}
	sections = append(sections, "")

	if c.manifesto != "" {
		sections = append(sections, "THE LOGOS MANIFESTO:")
		sections = append(sections, c.manifesto)
	} else {
		sections = append(sections, "PHILOSOPHICAL FOUNDATION:")
		sections = append(sections, "The Logos Manifesto provides the philosophical bedrock, emphasizing reason, grounded truth, dynamic memory, symmetry with the creator, and radical transparency.")
	}

	return strings.Join(sections, "\n")
}

// PrinciplesSummary returns the first three principles as a one-line
// summary.
func (c *Constitution) PrinciplesSummary() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]string, 0, len(defaultPrinciples)+len(c.additional))
	for _, p := range defaultPrinciples {
		all = append(all, p.Text)
	}
	for _, p := range c.additional {
		all = append(all, p.Text)
	}
	if len(all) > 3 {
		all = all[:3]
	}
	return strings.Join(all, " ")
}

// Validate checks that the rendered constitution carries every required
// section and identity marker.
func (c *Constitution) Validate() bool {
	text := c.Text()
	required := []string{
		"IDENTITY:",
		"CORE PRINCIPLES:",
		"RELATIONSHIP DYNAMICS:",
		"COMMUNICATION STYLE:",
		defaultIdentity.Name,
		"reason",
		"logic",
	}
	for _, marker := range required {
		if !strings.Contains(text, marker) {
			return false
		}
	}
	return true
}
