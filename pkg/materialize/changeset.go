package materialize

import (
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/text"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// FileChange is the per-path output record: either a full replacement
// buffer or an ordered sequence of line-span edits, never both. A full
// buffer always supersedes previously accumulated edits because the two
// representations cannot be merged.
type FileChange struct {
	Path      string      `json:"path"`
	Buffer    string      `json:"buffer,omitempty"`
	HasBuffer bool        `json:"-"`
	Edits     []text.Edit `json:"edits,omitempty"`
}

// Conflict reports a document that could not be registered. The change
// record for its path is still produced; only the live-model side effect
// is skipped.
type Conflict struct {
	Path     string
	Document workspace.DocumentID
	Err      *errors.CodefixError
}

// ChangeSet aggregates file changes across all operations of one
// request, keyed by resolved absolute path in first-touched order.
type ChangeSet struct {
	order     []string
	byPath    map[string]*FileChange
	Conflicts []Conflict
}

// NewChangeSet creates an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{byPath: map[string]*FileChange{}}
}

// Changes returns the accumulated records in first-touched order.
func (cs *ChangeSet) Changes() []FileChange {
	out := make([]FileChange, 0, len(cs.order))
	for _, path := range cs.order {
		out = append(out, *cs.byPath[path])
	}
	return out
}

// Get returns the record for path, if any.
func (cs *ChangeSet) Get(path string) (FileChange, bool) {
	rec, ok := cs.byPath[path]
	if !ok {
		return FileChange{}, false
	}
	return *rec, true
}

// Len returns the number of touched paths.
func (cs *ChangeSet) Len() int { return len(cs.order) }

func (cs *ChangeSet) record(path string) *FileChange {
	if rec, ok := cs.byPath[path]; ok {
		return rec
	}
	rec := &FileChange{Path: path}
	cs.byPath[path] = rec
	cs.order = append(cs.order, path)
	return rec
}

// SetBuffer records a full replacement buffer for path, discarding any
// line-span edits accumulated by earlier operations.
func (cs *ChangeSet) SetBuffer(path, buffer string) {
	rec := cs.record(path)
	rec.Buffer = buffer
	rec.HasBuffer = true
	rec.Edits = nil
}

// AppendEdits concatenates edits to the record for path, in operation
// order. When the record already holds a full buffer the edits cannot
// be merged into it; the buffer is refreshed to fullText instead, which
// is the document's complete text after this operation.
func (cs *ChangeSet) AppendEdits(path string, edits []text.Edit, fullText string) {
	rec := cs.record(path)
	if rec.HasBuffer {
		rec.Buffer = fullText
		return
	}
	rec.Edits = append(rec.Edits, edits...)
}

// AddConflict records a registration conflict.
func (cs *ChangeSet) AddConflict(path string, id workspace.DocumentID, err *errors.CodefixError) {
	cs.Conflicts = append(cs.Conflicts, Conflict{Path: path, Document: id, Err: err})
}
