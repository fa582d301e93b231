// Package text defines positions, spans, and edits over document text.
// All coordinates are zero-based and anchored to the coordinate space of
// the text the edit applies to (the old revision, for computed diffs).
package text

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a zero-based line/column location in a document.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open range between two positions.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Edit replaces the text covered by Span with NewText.
type Edit struct {
	Span    Span   `json:"span"`
	NewText string `json:"newText"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Before reports whether p is strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Lines splits s into lines without their newline terminators. CRLF
// terminators are folded to LF first, so positions always address the
// normalized text. An empty string yields a single empty line, matching
// how editors address an empty buffer.
func Lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// Apply applies edits to content and returns the resulting text.
// Edits must be non-overlapping and anchored to content's coordinates;
// they may be given in any order. CRLF input is normalized to LF, both
// in the coordinate space the spans address and in the returned text.
func Apply(content string, edits []Edit) string {
	if len(edits) == 0 {
		return content
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Before(sorted[j].Span.Start)
	})

	lines := Lines(content)
	var b strings.Builder
	cursor := Position{}

	writeRange := func(from, to Position) {
		for line := from.Line; line <= to.Line && line < len(lines); line++ {
			start := 0
			if line == from.Line {
				start = from.Column
			}
			end := len(lines[line])
			if line == to.Line {
				end = to.Column
			}
			if start > len(lines[line]) {
				start = len(lines[line])
			}
			if end > len(lines[line]) {
				end = len(lines[line])
			}
			if start < end {
				b.WriteString(lines[line][start:end])
			}
			if line < to.Line {
				b.WriteString("\n")
			}
		}
	}

	for _, e := range sorted {
		writeRange(cursor, e.Span.Start)
		b.WriteString(e.NewText)
		cursor = e.Span.End
	}
	writeRange(cursor, Position{Line: len(lines) - 1, Column: len(lines[len(lines)-1])})

	return b.String()
}
