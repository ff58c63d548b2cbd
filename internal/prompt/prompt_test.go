package prompt

import (
	"strings"
	"testing"
)

func TestComposeBuiltinModes(t *testing.T) {
	for _, mode := range []string{ModeSummary, ModeTech, ModeCitation} {
		got := Compose(mode, "what is attention?", "some context", "")
		if !strings.Contains(got, `"what is attention?"`) {
			t.Errorf("mode %s: prompt missing query: %q", mode, got)
		}
		if !strings.Contains(got, "some context") {
			t.Errorf("mode %s: prompt missing context: %q", mode, got)
		}
		if !strings.Contains(got, "Guidelines:") {
			t.Errorf("mode %s: prompt missing guideline block: %q", mode, got)
		}
	}
}

func TestSummaryPromptGuidelines(t *testing.T) {
	got := Compose(ModeSummary, "q", "c", "")
	for _, want := range []string{
		"academic research assistant",
		"*why it matters* (motivation, implications)",
		"If the context does not contain enough information, say so explicitly.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary prompt missing %q:\n%s", want, got)
		}
	}
}

func TestTechPromptGuidelines(t *testing.T) {
	got := Compose(ModeTech, "q", "c", "")
	for _, want := range []string{
		"technical expert",
		"**direct answer**",
		"break down the explanation into sections (e.g., Definitions, Methodology, Results, Implications)",
		"If the context is insufficient, acknowledge the gap instead of inventing details.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("tech prompt missing %q:\n%s", want, got)
		}
	}
}

func TestCitationPromptGuidelines(t *testing.T) {
	got := Compose(ModeCitation, "q", "c", "")
	for _, want := range []string{
		"academic citation assistant",
		"[Author, Year] or closest possible",
		`"No relevant citation found in the context."`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("citation prompt missing %q:\n%s", want, got)
		}
	}
}

func TestComposeCustomSubstitution(t *testing.T) {
	custom := "CTX={context} Q={query} again Q={query}"
	got := Compose(ModeCustom, "my query", "my context", custom)
	want := "CTX=my context Q=my query again Q=my query"
	if got != want {
		t.Errorf("Compose = %q, want %q", got, want)
	}
}

func TestComposeCustomEmptyTemplateFallsBack(t *testing.T) {
	got := Compose(ModeCustom, "q", "c", "")
	if got != Compose("anything-else", "q", "c", "") {
		t.Errorf("empty custom template should use the generic form, got %q", got)
	}
}

func TestComposeUnknownModeFallsBack(t *testing.T) {
	got := Compose("haiku", "q", "c", "")
	if !strings.Contains(got, "q") || !strings.Contains(got, "c") {
		t.Errorf("generic prompt missing parts: %q", got)
	}
	if got != "Answer the question 'q' using this context:\nc" {
		t.Errorf("unexpected generic prompt: %q", got)
	}
}
