package workspace

import (
	"sync"

	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/logging"
)

// Workspace is the live project model: a guarded current snapshot with
// concurrent reads and a serializing commit. Registration of brand-new
// documents is additive and does not advance the commit generation, so
// a request that registered files can still commit its final snapshot.
type Workspace struct {
	mu         sync.RWMutex
	current    *Snapshot
	generation int64
}

// New creates a workspace with an empty current snapshot.
func New() *Workspace {
	return &Workspace{current: NewSnapshot()}
}

// NewFromSnapshot creates a workspace whose current state is snap.
func NewFromSnapshot(snap *Snapshot) *Workspace {
	if snap == nil {
		snap = NewSnapshot()
	}
	return &Workspace{current: snap}
}

// Acquire returns the current snapshot and the commit generation it was
// read at. The generation is the token a later Commit must present.
func (w *Workspace) Acquire() (*Snapshot, int64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.generation
}

// Current returns the current snapshot.
func (w *Workspace) Current() *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Commit atomically replaces the current snapshot with next. It fails
// with ErrCommitConflict when another commit landed after gen was
// acquired; the caller's filesystem side effects are not unwound.
func (w *Workspace) Commit(gen int64, next *Snapshot) error {
	if next == nil {
		return errors.New(errors.ErrInvalidInput, "cannot commit a nil snapshot")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generation != gen {
		return errors.Newf(errors.ErrCommitConflict,
			"workspace advanced from generation %d to %d during request", gen, w.generation)
	}

	w.current = next
	w.generation++

	logger := logging.GetLogger("workspace")
	logger.Debug().
		Int64("generation", w.generation).
		Msg("Committed snapshot")
	return nil
}

// IsPathRegistered reports whether any document in the live model is
// bound to the given absolute path.
func (w *Workspace) IsPathRegistered(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.current.DocumentByPath(path)
	return ok
}

// RegisterDocument adds a brand-new document to the live model under
// its resolved path. A path that is already registered is a conflict;
// the model is left untouched in that case.
func (w *Workspace) RegisterDocument(doc *Document) error {
	if doc.Path() == "" {
		return errors.Newf(errors.ErrInvalidInput, "document %s has no resolved path", doc.ID())
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.current.DocumentByPath(doc.Path()); ok {
		return errors.Newf(errors.ErrAlreadyRegistered,
			"path %s is already registered in the workspace", doc.Path()).
			WithDetail("document", doc.ID().String())
	}

	w.current = w.current.WithDocument(doc)

	logger := logging.GetLogger("workspace")
	logger.Debug().
		Str("document", doc.ID().String()).
		Str("path", doc.Path()).
		Msg("Registered document")
	return nil
}
