// Package textnorm cleans raw per-page PDF text before chunking. The pipeline
// is an ordered list of pure string transforms; order matters because later
// steps assume the cleanup done by earlier ones.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"paperag/internal/models"
)

var (
	reHyphenBreak = regexp.MustCompile(`-\s*\n\s*`)
	reNewlines    = regexp.MustCompile(`\n+`)

	// Running header/footer noise.
	reArxivStamp = regexp.MustCompile(`arXiv:\d+\.\d+(v\d+)?`)
	rePageFooter = regexp.MustCompile(`Page \d+/\d+`)
	reCopyright  = regexp.MustCompile(`©.*?(\d{4})`)

	reNumericLine   = regexp.MustCompile(`(?m)^\d+\s*$`)
	reSeparatorRuns = regexp.MustCompile(`[-=*_]{3,}`)

	// Mathematical notation, citations and figure references. Block formulas
	// must be stripped before inline ones so $$...$$ is not half-eaten.
	mathPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\$.*?\$\$`),
		regexp.MustCompile(`\$.*?\$`),
		regexp.MustCompile(`\\\(.+?\\\)`),
		regexp.MustCompile(`\\\[.+?\\\]`),
		regexp.MustCompile(`[A-Za-z0-9\s]*=[^,.;]+`),
		regexp.MustCompile(`\b\d+/\d+\b`),
		regexp.MustCompile(`\b\d+\^\d+\b`),
		regexp.MustCompile(`\b(?:sin|cos|tan|log|ln|exp)\b`),
		regexp.MustCompile(`\[[0-9,\-\s]+\]`),
		regexp.MustCompile(`\bFig\.?\s*\d+|\bTable\s*\d+`),
		regexp.MustCompile(`\(\d+\)`),
		regexp.MustCompile(`[≈≥≤±⊗∑∫∂∞∇]`),
		regexp.MustCompile(`[α-ωΑ-Ω]`),
		regexp.MustCompile(`[\^_][{]?[A-Za-z0-9]+[}]?`),
		regexp.MustCompile(`\d+\s*[+\-*/^]\s*\d+`),
		regexp.MustCompile(`\d+\.\d+\s*%`),
		regexp.MustCompile(`∥[^∥]+∥`),
		regexp.MustCompile(`ˆ\s*\w*`),
		regexp.MustCompile(`\s*[,.:;]\s*[,.:;]+`),
		regexp.MustCompile(`^\s*[,.:;]\s*|\s*[,.:;]\s*$`),
	}

	reWhitespace = regexp.MustCompile(`\s+`)
)

var transforms = []func(string) string{
	rejoinHyphenation,
	collapseNewlines,
	stripNoise,
	normalizeUnicode,
	dropNumericLines,
	stripSeparatorRuns,
	stripMath,
	collapseWhitespace,
}

// Normalize cleans one page of raw extracted text. It is pure, deterministic
// and idempotent, and never fails: a page of pure noise normalizes to the
// empty string.
func Normalize(page string) string {
	for _, t := range transforms {
		page = t(page)
	}
	return page
}

// NormalizePages cleans every page in order and preserves page numbers.
func NormalizePages(pages []models.PageText) []models.PageText {
	out := make([]models.PageText, 0, len(pages))
	for _, p := range pages {
		out = append(out, models.PageText{Text: Normalize(p.Text), Page: p.Page})
	}
	return out
}

func rejoinHyphenation(s string) string {
	return reHyphenBreak.ReplaceAllString(s, "")
}

func collapseNewlines(s string) string {
	return reNewlines.ReplaceAllString(s, " ")
}

func stripNoise(s string) string {
	s = reArxivStamp.ReplaceAllString(s, " ")
	s = rePageFooter.ReplaceAllString(s, " ")
	return reCopyright.ReplaceAllString(s, " ")
}

func normalizeUnicode(s string) string {
	return norm.NFKC.String(s)
}

func dropNumericLines(s string) string {
	return reNumericLine.ReplaceAllString(s, "")
}

func stripSeparatorRuns(s string) string {
	return reSeparatorRuns.ReplaceAllString(s, " ")
}

func stripMath(s string) string {
	for _, re := range mathPatterns {
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
