// Package textdiff computes line-span edits between two revisions of a
// document's text. It uses github.com/pmezard/go-difflib's sequence
// matcher over lines and narrows single-line replacements to the
// changed character range, so a one-token change yields a one-token
// span. All resulting edits are anchored to the old text's zero-based
// line/column coordinate space.
package textdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/nohwnd/codefix/pkg/text"
)

// Compute returns the ordered edits that turn old into new. The edits
// are non-overlapping, sorted by start position, and applying them to
// old (see text.Apply) reproduces new.
func Compute(old, new string) []text.Edit {
	if old == new {
		return nil
	}

	a := text.Lines(old)
	b := text.Lines(new)

	matcher := difflib.NewMatcher(a, b)
	var edits []text.Edit

	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			// equal, nothing to emit
		case 'r':
			edits = append(edits, replaceEdit(a, b, op))
		case 'd':
			edits = append(edits, deleteEdit(a, op))
		case 'i':
			edits = append(edits, insertEdit(a, b, op))
		}
	}

	return edits
}

// replaceEdit covers old lines [I1,I2) with new lines [J1,J2). A
// one-line-for-one-line replacement is narrowed to the differing
// character range.
func replaceEdit(a, b []string, op difflib.OpCode) text.Edit {
	if op.I2-op.I1 == 1 && op.J2-op.J1 == 1 {
		oldLine, newLine := a[op.I1], b[op.J1]
		prefix := commonPrefix(oldLine, newLine)
		suffix := commonSuffix(oldLine[prefix:], newLine[prefix:])
		return text.Edit{
			Span: text.Span{
				Start: text.Position{Line: op.I1, Column: prefix},
				End:   text.Position{Line: op.I1, Column: len(oldLine) - suffix},
			},
			NewText: newLine[prefix : len(newLine)-suffix],
		}
	}

	last := op.I2 - 1
	return text.Edit{
		Span: text.Span{
			Start: text.Position{Line: op.I1, Column: 0},
			End:   text.Position{Line: last, Column: len(a[last])},
		},
		NewText: strings.Join(b[op.J1:op.J2], "\n"),
	}
}

// deleteEdit removes old lines [I1,I2) together with one adjoining
// newline, so whole-line deletions do not leave blank lines behind.
func deleteEdit(a []string, op difflib.OpCode) text.Edit {
	if op.I2 < len(a) {
		return text.Edit{
			Span: text.Span{
				Start: text.Position{Line: op.I1, Column: 0},
				End:   text.Position{Line: op.I2, Column: 0},
			},
		}
	}
	// Deleting through the last line: consume the newline before the
	// deleted range instead of the one after it.
	start := text.Position{Line: op.I1, Column: 0}
	if op.I1 > 0 {
		start = text.Position{Line: op.I1 - 1, Column: len(a[op.I1-1])}
	}
	return text.Edit{
		Span: text.Span{
			Start: start,
			End:   text.Position{Line: op.I2 - 1, Column: len(a[op.I2-1])},
		},
	}
}

// insertEdit introduces new lines [J1,J2) at old line I1.
func insertEdit(a, b []string, op difflib.OpCode) text.Edit {
	inserted := strings.Join(b[op.J1:op.J2], "\n")
	if op.I1 < len(a) {
		return text.Edit{
			Span: text.Span{
				Start: text.Position{Line: op.I1, Column: 0},
				End:   text.Position{Line: op.I1, Column: 0},
			},
			NewText: inserted + "\n",
		}
	}
	// Appending after the last line.
	end := text.Position{Line: len(a) - 1, Column: len(a[len(a)-1])}
	return text.Edit{
		Span:    text.Span{Start: end, End: end},
		NewText: "\n" + inserted,
	}
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
