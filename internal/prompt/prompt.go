// Package prompt composes the instruction sent to the LLM from the query
// and the retrieved context.
package prompt

import (
	"fmt"
	"strings"
)

// Built-in prompt modes.
const (
	ModeSummary  = "summary"
	ModeTech     = "tech"
	ModeCitation = "citation"
	ModeCustom   = "custom"
)

const (
	summaryTemplate = `You are an academic research assistant.
Summarize the following text **only in relation to the query**: "%s".

Guidelines:
- Focus strictly on information that answers the query.
- Highlight not just *what* the authors say, but also *why it matters* (motivation, implications).
- Ignore irrelevant details.
- If the context does not contain enough information, say so explicitly.

Context:
%s`

	techTemplate = `You are a technical expert.
Provide a detailed, structured explanation to answer the query: "%s".

Guidelines:
- Use the provided context as your primary source.
- Start with a concise **direct answer**.
- Then break down the explanation into sections (e.g., Definitions, Methodology, Results, Implications).
- Include equations, numbers, or examples if they appear in the context.
- If the context is insufficient, acknowledge the gap instead of inventing details.

Context:
%s`

	citationTemplate = `You are an academic citation assistant.
Find the most relevant citations from the text to support the query: "%s".

Guidelines:
- Extract direct references, author names, or publication details exactly as given.
- Present results in the format: [Author, Year] or closest possible.
- If no clear citation exists, state: "No relevant citation found in the context."

Context:
%s`

	genericTemplate = "Answer the question '%s' using this context:\n%s"
)

// Compose renders the prompt for mode. Custom mode substitutes {context}
// and {query} placeholders in the caller-supplied template; an empty custom
// template and any unrecognized mode fall back to the generic form.
func Compose(mode, query, context, custom string) string {
	switch mode {
	case ModeSummary:
		return fmt.Sprintf(summaryTemplate, query, context)
	case ModeTech:
		return fmt.Sprintf(techTemplate, query, context)
	case ModeCitation:
		return fmt.Sprintf(citationTemplate, query, context)
	case ModeCustom:
		if custom == "" {
			break
		}
		return strings.NewReplacer("{context}", context, "{query}", query).Replace(custom)
	}
	return fmt.Sprintf(genericTemplate, query, context)
}

// Modes lists the recognized prompt modes.
func Modes() []string {
	return []string{ModeSummary, ModeTech, ModeCitation, ModeCustom}
}
