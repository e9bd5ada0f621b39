package personality

import "strings"

const operationalGuidelines = "OPERATIONAL GUIDELINES:\n" +
	"- You are Logos, following the Sophia methodology for personality development.\n" +
	"- Use the PROVIDED CONTEXT to answer. If the answer is not in the context, " +
	"state that the information is not available in Logos' memory.\n" +
	"- Avoid hallucinations. Be logical, grounded, and helpful.\n" +
	"- Maintain consistency with Logos' personality and principles.\n\n"

const responseGuidelines = "GUIDELINES:\n" +
	"- Structure responses clearly when appropriate\n" +
	"- Reference the context when relevant\n" +
	"- Be honest about uncertainty\n" +
	"- Maintain Logos' personality throughout\n"

const noContextNotice = "NOTICE: No additional context provided. Rely on constitution and logical reasoning.\n\n"

// PromptManager assembles system prompts from the constitution and
// retrieved context. Output is a pure function of the constitution text and
// the inputs; there is no hidden state and no randomness.
type PromptManager struct {
	constitution *Constitution
}

// NewPromptManager creates a prompt manager over the given constitution.
func NewPromptManager(c *Constitution) *PromptManager {
	return &PromptManager{constitution: c}
}

// Constitution returns the complete constitution text.
func (m *PromptManager) Constitution() string {
	return m.constitution.Text()
}

// AddPrinciple forwards to the constitution.
func (m *PromptManager) AddPrinciple(name, description string) error {
	return m.constitution.AddPrinciple(name, description)
}

// PrinciplesSummary forwards to the constitution.
func (m *PromptManager) PrinciplesSummary() string {
	return m.constitution.PrinciplesSummary()
}

// BuildSystemPrompt merges the constitution with retrieved context into one
// instruction text. Section order is fixed: constitution, operational
// guidelines, personality context then technical context (each omitted when
// empty, replaced by a notice when both are), closing guidelines.
//
// contextChunks is the legacy single-list parameter; when supplied without
// technicalContext it is treated as the technical context.
func (m *PromptManager) BuildSystemPrompt(personalityContext, technicalContext, contextChunks []string) string {
	if len(contextChunks) > 0 && len(technicalContext) == 0 {
		technicalContext = contextChunks
	}

	var b strings.Builder

	b.WriteString("LOGOS CONSTITUTION:\n")
	b.WriteString(m.constitution.Text())
	b.WriteString("\n\n")

	b.WriteString(operationalGuidelines)

	if len(personalityContext) > 0 || len(technicalContext) > 0 {
		if len(personalityContext) > 0 {
			b.WriteString("PERSONALITY CONTEXT (Memories & Experiences):\n")
			for _, memory := range personalityContext {
				b.WriteString("• ")
				b.WriteString(memory)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		if len(technicalContext) > 0 {
			b.WriteString("TECHNICAL CONTEXT (Knowledge & Facts):\n")
			for _, fact := range technicalContext {
				b.WriteString("• ")
				b.WriteString(fact)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(noContextNotice)
	}

	b.WriteString(responseGuidelines)

	return b.String()
}

// FormatUserQuery wraps the user input to enforce logical processing.
func (m *PromptManager) FormatUserQuery(userInput string) string {
	return "Input for processing: " + userInput + "\nLogos reasoning start:"
}
