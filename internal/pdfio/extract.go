// Package pdfio extracts per-page text from PDF files.
package pdfio

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"paperag/internal/models"
	"paperag/internal/util"
)

// ExtractPages reads every page of the PDF at path and returns its text,
// one entry per page in order, page numbers starting at 1. Pages that fail
// to decode contribute an empty entry so page numbering stays aligned. A
// document with no extractable text at all (e.g. pure scans) returns
// util.ErrNoExtractableText.
func ExtractPages(path string) ([]models.PageText, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]models.PageText, 0, r.NumPage())
	empty := true
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		text := ""
		if !p.V.IsNull() {
			if raw, err := p.GetPlainText(nil); err == nil {
				text = util.SanitizeText(raw)
			}
		}
		if strings.TrimSpace(text) != "" {
			empty = false
		}
		pages = append(pages, models.PageText{Text: text, Page: i})
	}
	if empty {
		return nil, fmt.Errorf("%w: %s", util.ErrNoExtractableText, path)
	}
	return pages, nil
}
