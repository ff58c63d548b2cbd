package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reAuthorInitial = regexp.MustCompile(`[A-Z]\.\s*[A-Z]`)
	reYear          = regexp.MustCompile(`(19|20)\d{2}`)
	reAbstract      = regexp.MustCompile(`(?is)abstract[:\s]*(.+?)(\n\s*[1I]\.|\n\s*keywords|\n\s*index|$)`)
)

// parseFirstPage guesses bibliographic fields from the page layout: the
// first non-blank line is taken as the title, an early line with an email
// or initials as the author line, and the abstract is everything between
// the "Abstract" marker and the first section or keyword heading.
func parseFirstPage(text string) Record {
	rec := Record{Source: SourceHeuristic}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > 0 {
		rec.Title = lines[0]
	}
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for i := 1; i < limit; i++ {
		if strings.Contains(lines[i], "@") || reAuthorInitial.MatchString(lines[i]) {
			rec.Authors = []string{lines[i]}
			break
		}
	}
	if m := reYear.FindString(text); m != "" {
		rec.Year, _ = strconv.Atoi(m)
	}
	if m := reAbstract.FindStringSubmatch(text); m != nil {
		rec.Abstract = strings.TrimSpace(m[1])
	}
	return rec
}
