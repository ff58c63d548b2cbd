package chunk

import (
	"strings"
	"unicode/utf8"
)

// Separator priority for the recursive splitter: paragraph, line, sentence,
// word, then individual characters as the last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Piece is a split of the input text. Text is always a literal substring of
// the input and Start/End are its rune offsets, so concatenating overlapping
// pieces reconstructs the input without gaps.
type Piece struct {
	Text  string
	Start int
	End   int
}

type fragment struct {
	text  string
	start int
	runes int
}

// Split cuts text into pieces of at most size runes, cutting on the highest
// priority separator that keeps a piece within size and falling back to
// character splitting. Adjacent pieces share up to overlap runes of context.
func Split(text string, size, overlap int) []Piece {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 700
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	frags := splitRecursive(text, 0, defaultSeparators, size)
	return merge(frags, size, overlap)
}

func splitRecursive(text string, offset int, seps []string, size int) []fragment {
	n := utf8.RuneCountInString(text)
	if n <= size {
		return []fragment{{text: text, start: offset, runes: n}}
	}

	sep := ""
	var rest []string
	for i, s := range seps {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}
	if sep == "" {
		// No separator helps: fall back to single characters and let merge
		// reassemble them into size-bounded windows.
		out := make([]fragment, 0, n)
		pos := offset
		for _, r := range text {
			out = append(out, fragment{text: string(r), start: pos, runes: 1})
			pos++
		}
		return out
	}

	parts := strings.SplitAfter(text, sep)
	out := make([]fragment, 0, len(parts))
	pos := offset
	for _, p := range parts {
		if p == "" {
			continue
		}
		pn := utf8.RuneCountInString(p)
		if pn <= size {
			out = append(out, fragment{text: p, start: pos, runes: pn})
		} else {
			out = append(out, splitRecursive(p, pos, rest, size)...)
		}
		pos += pn
	}
	return out
}

// merge packs fragments into chunks of at most size runes. After a chunk is
// emitted the tail fragments totalling at most overlap runes carry over into
// the next chunk.
func merge(frags []fragment, size, overlap int) []Piece {
	var (
		out      []Piece
		cur      []fragment
		curRunes int
		fresh    bool // cur contains fragments not yet emitted
	)

	emit := func() {
		var b strings.Builder
		for _, f := range cur {
			b.WriteString(f.text)
		}
		start := cur[0].start
		out = append(out, Piece{Text: b.String(), Start: start, End: start + curRunes})

		var tail []fragment
		tailRunes := 0
		for i := len(cur) - 1; i >= 0; i-- {
			if tailRunes+cur[i].runes > overlap {
				break
			}
			tail = append([]fragment{cur[i]}, tail...)
			tailRunes += cur[i].runes
		}
		cur = tail
		curRunes = tailRunes
		fresh = false
	}

	for _, f := range frags {
		for curRunes+f.runes > size && curRunes > 0 {
			if fresh {
				emit()
				continue
			}
			// Only carried-over overlap left; shrink it instead of emitting
			// an already-covered chunk.
			curRunes -= cur[0].runes
			cur = cur[1:]
		}
		cur = append(cur, f)
		curRunes += f.runes
		fresh = true
	}
	if fresh && curRunes > 0 {
		var b strings.Builder
		for _, f := range cur {
			b.WriteString(f.text)
		}
		start := cur[0].start
		out = append(out, Piece{Text: b.String(), Start: start, End: start + curRunes})
	}
	return out
}
