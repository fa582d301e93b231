package workspace

import (
	"fmt"
	"sync/atomic"
)

// ProjectID identifies one project within a workspace.
type ProjectID string

// DocumentID is the stable key identifying one source document across
// snapshots: the owning project plus the document's logical name.
type DocumentID struct {
	Project ProjectID
	Name    string
}

func (id DocumentID) String() string {
	return fmt.Sprintf("%s/%s", id.Project, id.Name)
}

// SourceKind describes how a document's text should be interpreted.
type SourceKind int

const (
	// KindRegular is an ordinary source file.
	KindRegular SourceKind = iota
	// KindScript is a script-style file (top-level statements).
	KindScript
)

func (k SourceKind) String() string {
	switch k {
	case KindScript:
		return "script"
	default:
		return "regular"
	}
}

var revisionTokens atomic.Int64

// Revision is one immutable text revision of a document. Tokens are
// process-wide monotonic; equality of tokens means identity of text.
type Revision struct {
	token int64
	text  string
	prev  *Revision
}

// NewRevision creates a fresh root revision holding text.
func NewRevision(text string) *Revision {
	return &Revision{token: revisionTokens.Add(1), text: text}
}

// Next derives a successor revision with new text. The predecessor stays
// reachable so any two revisions of a document can be diffed later.
func (r *Revision) Next(text string) *Revision {
	return &Revision{token: revisionTokens.Add(1), text: text, prev: r}
}

// Token returns the revision's identity token.
func (r *Revision) Token() int64 { return r.token }

// Text returns the revision's full text.
func (r *Revision) Text() string { return r.text }

// Prev returns the predecessor revision, or nil for a root revision.
func (r *Revision) Prev() *Revision { return r.prev }

// Document is one source document at one snapshot. Documents are
// immutable; derivations return new values.
type Document struct {
	id   DocumentID
	path string // absolute path, may be empty for not-yet-materialized docs
	kind SourceKind
	rev  *Revision
}

// NewDocument creates a document with a fresh root revision.
func NewDocument(id DocumentID, path string, kind SourceKind, text string) *Document {
	return &Document{id: id, path: path, kind: kind, rev: NewRevision(text)}
}

// ID returns the document's stable identity.
func (d *Document) ID() DocumentID { return d.id }

// Path returns the document's absolute path, or "" if it has none yet.
func (d *Document) Path() string { return d.path }

// Kind returns the document's declared source kind.
func (d *Document) Kind() SourceKind { return d.kind }

// Revision returns the document's current text revision.
func (d *Document) Revision() *Revision { return d.rev }

// Text returns the document's current text.
func (d *Document) Text() string { return d.rev.Text() }

// WithText derives a document whose revision succeeds the current one.
func (d *Document) WithText(text string) *Document {
	next := *d
	next.rev = d.rev.Next(text)
	return &next
}

// WithPath derives a document bound to an absolute path.
func (d *Document) WithPath(path string) *Document {
	next := *d
	next.path = path
	return &next
}
