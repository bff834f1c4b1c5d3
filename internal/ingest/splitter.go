package ingest

import (
	"regexp"
	"strings"
)

// Section is a title-delimited span of a structured document.
type Section struct {
	Title string
	Text  string
}

var (
	numberedHeadingRe = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[IVXLC]+\.)\s+\S`)
	headingKeywordRe  = regexp.MustCompile(`(?i)^(section|article|clause|schedule|exhibit|annex|appendix|part)\b`)
)

// clauseSeparators split sections into independently retrievable sub-clauses.
// Lettered markers come before the blank-line fallback so "(a)"-style items
// stay intact when possible.
var clauseSeparators = []string{"\n(a)", "\n(b)", "\n(c)", "\n(d)", "\n\n"}

// windowText splits text into fixed-size overlapping rune windows.
func windowText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size / 2
	}
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		i += size - overlap
		if i >= len(runes) {
			break
		}
	}
	return chunks
}

// isTitleLine decides whether a line opens a new section. Contract headings
// are short, carry no terminal punctuation, and are either mostly uppercase
// or start with a numbering or a structural keyword.
func isTitleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len([]rune(trimmed)) > 80 {
		return false
	}
	if strings.HasSuffix(trimmed, ".") && !numberedHeadingRe.MatchString(trimmed) {
		return false
	}
	if numberedHeadingRe.MatchString(trimmed) || headingKeywordRe.MatchString(trimmed) {
		return true
	}

	letters, uppers := 0, 0
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			uppers++
		}
	}
	return letters >= 3 && uppers*10 >= letters*8
}

// splitSections performs title-delimited structural chunking: a new section
// starts at each detected heading, sections are closed at a paragraph break
// once softLimit runes are accumulated (hard-capped at maxChars), and
// fragments below mergeUnder runes are folded into their neighbor.
func splitSections(text string, maxChars, softLimit, mergeUnder int) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	current := Section{}
	var body strings.Builder

	flush := func() {
		current.Text = strings.TrimSpace(body.String())
		if current.Text != "" || current.Title != "" {
			sections = append(sections, current)
		}
		body.Reset()
		current = Section{}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isTitleLine(trimmed) && body.Len() > 0 {
			flush()
			current.Title = trimmed
			body.WriteString(trimmed)
			body.WriteByte('\n')
			continue
		}
		if isTitleLine(trimmed) && current.Title == "" && body.Len() == 0 {
			current.Title = trimmed
			body.WriteString(trimmed)
			body.WriteByte('\n')
			continue
		}

		// Soft boundary: close at a paragraph break once past softLimit.
		if trimmed == "" && len([]rune(body.String())) >= softLimit {
			flush()
			continue
		}
		// Hard cap regardless of structure.
		if len([]rune(body.String()))+len([]rune(line)) > maxChars && body.Len() > 0 {
			title := current.Title
			flush()
			current.Title = title
		}

		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	return mergeSmallSections(sections, mergeUnder)
}

// mergeSmallSections folds fragments below the threshold into the previous
// section (or the next one, for a leading fragment).
func mergeSmallSections(sections []Section, mergeUnder int) []Section {
	if len(sections) <= 1 {
		return sections
	}
	var merged []Section
	for _, s := range sections {
		if len(merged) > 0 && len([]rune(s.Text)) < mergeUnder {
			merged[len(merged)-1].Text += "\n\n" + s.Text
			continue
		}
		if len(merged) == 0 && len([]rune(s.Text)) < mergeUnder {
			// keep and let the next section absorb it
			merged = append(merged, s)
			continue
		}
		if len(merged) == 1 && len([]rune(merged[0].Text)) < mergeUnder {
			merged[0].Text += "\n\n" + s.Text
			if merged[0].Title == "" {
				merged[0].Title = s.Title
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// refineClauses re-splits a section on clause-boundary markers so individual
// lettered sub-clauses are retrievable on their own. Pieces still over size
// fall back to overlapping windows.
func refineClauses(text string, size, overlap int) []string {
	return splitRecursive(text, clauseSeparators, size, overlap)
}

func splitRecursive(text string, separators []string, size, overlap int) []string {
	if len([]rune(text)) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}
	if len(separators) == 0 {
		return windowText(text, size, overlap)
	}

	sep := separators[0]
	rest := separators[1:]

	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return splitRecursive(text, rest, size, overlap)
	}

	var pieces []string
	for i, part := range parts {
		if i > 0 {
			// keep the marker with the clause it introduces
			part = strings.TrimPrefix(sep, "\n") + part
		}
		if strings.TrimSpace(part) == "" {
			continue
		}
		pieces = append(pieces, part)
	}

	var out []string
	var pendingParts []string
	pendingLen := 0
	flushPending := func() {
		if len(pendingParts) > 0 {
			out = append(out, strings.Join(pendingParts, "\n"))
			pendingParts = nil
			pendingLen = 0
		}
	}
	for _, piece := range pieces {
		pieceLen := len([]rune(piece))
		if pieceLen > size {
			flushPending()
			out = append(out, splitRecursive(piece, rest, size, overlap)...)
			continue
		}
		if pendingLen+pieceLen > size {
			flushPending()
		}
		pendingParts = append(pendingParts, piece)
		pendingLen += pieceLen + 1
	}
	flushPending()
	return out
}
