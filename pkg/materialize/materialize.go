// Package materialize turns a structural delta between two snapshots
// into per-file change records, and performs the side effects that make
// newly added documents real: a zero-byte placeholder on disk and a
// registration in the live workspace model.
//
// Registration conflicts (a non-empty file already at the target path,
// or a path registered twice) are reported, not fatal: the offending
// document is skipped for registration but its change record is still
// returned, and sibling documents keep being processed.
package materialize

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/nohwnd/codefix/pkg/delta"
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/logging"
	"github.com/nohwnd/codefix/pkg/paths"
	"github.com/nohwnd/codefix/pkg/textdiff"
	"github.com/nohwnd/codefix/pkg/types"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// Materializer converts structural deltas into file change records.
type Materializer struct {
	fs         types.FS
	model      *workspace.Workspace
	requestDir string
	wantsEdits bool
}

// New creates a materializer. requestDir anchors resolution of relative
// or missing paths on newly added documents; wantsEdits selects
// line-span edits over full buffers for changed documents.
func New(filesystem types.FS, model *workspace.Workspace, requestDir string, wantsEdits bool) *Materializer {
	return &Materializer{
		fs:         filesystem,
		model:      model,
		requestDir: requestDir,
		wantsEdits: wantsEdits,
	}
}

// Apply processes one operation's delta between old and new, merging
// its output into cs. Removed documents are listed in the delta for
// completeness but produce no file changes here.
//
// The returned snapshot is new with the resolved paths of successfully
// registered documents bound in. Callers threading snapshots through an
// operation sequence must continue from it, or a later commit would
// replace the live model with documents that lost their path bindings.
func (m *Materializer) Apply(cs *ChangeSet, old, new *workspace.Snapshot, d delta.Delta) *workspace.Snapshot {
	logger := logging.GetLogger("materialize")

	out := new
	for _, pd := range d.Projects {
		for _, id := range pd.Added {
			doc, ok := new.Document(id)
			if !ok {
				continue
			}
			if bound := m.applyAdded(cs, doc); bound != nil {
				out = out.WithDocument(bound)
			}
		}
		for _, id := range pd.Changed {
			oldDoc, okOld := old.Document(id)
			newDoc, okNew := new.Document(id)
			if !okOld || !okNew {
				continue
			}
			m.applyChanged(cs, oldDoc, newDoc)
		}
		if len(pd.Removed) > 0 {
			logger.Debug().
				Str("project", string(pd.Project)).
				Int("count", len(pd.Removed)).
				Msg("Removed documents produce no file changes")
		}
	}
	return out
}

// applyAdded resolves the document's path, records its full buffer, and
// registers it in the persistent store and the live model. It returns
// the path-bound document on successful registration, nil otherwise.
func (m *Materializer) applyAdded(cs *ChangeSet, doc *workspace.Document) *workspace.Document {
	logger := logging.GetLogger("materialize")

	path := m.resolvePath(doc)
	cs.SetBuffer(path, doc.Text())

	if m.model.IsPathRegistered(path) {
		conflict := errors.Newf(errors.ErrAlreadyRegistered,
			"path %s is already registered in the workspace", path)
		logger.Warn().
			Str("path", path).
			Str("document", doc.ID().String()).
			Msg("Skipping registration, path already registered")
		cs.AddConflict(path, doc.ID(), conflict)
		return nil
	}

	info, err := m.fs.Stat(path)
	switch {
	case err == nil && info.Size() > 0:
		// Registering would eventually overwrite content we did not
		// produce. Report and leave the file alone; the change record
		// stays visible to the caller.
		conflict := errors.Newf(errors.ErrFileExists,
			"file %s already exists with content", path)
		logger.Warn().
			Str("path", path).
			Str("document", doc.ID().String()).
			Msg("Skipping registration, file exists with content")
		cs.AddConflict(path, doc.ID(), conflict)
		return nil
	case err == nil:
		// Zero-length file already on disk: adopt it.
	case os.IsNotExist(err):
		if createErr := m.createPlaceholder(path); createErr != nil {
			logger.Warn().Err(createErr).
				Str("path", path).
				Msg("Failed to create placeholder file")
			cs.AddConflict(path, doc.ID(), createErr)
			return nil
		}
	default:
		cs.AddConflict(path, doc.ID(),
			errors.Wrapf(err, errors.ErrFileAccess, "checking %s", path))
		return nil
	}

	bound := doc.WithPath(path)
	if regErr := m.model.RegisterDocument(bound); regErr != nil {
		var cfErr *errors.CodefixError
		if !stderrors.As(regErr, &cfErr) {
			cfErr = errors.Wrapf(regErr, errors.ErrInternal, "registering %s", path)
		}
		logger.Warn().Err(regErr).
			Str("path", path).
			Msg("Failed to register document")
		cs.AddConflict(path, doc.ID(), cfErr)
		return nil
	}

	logger.Debug().
		Str("path", path).
		Str("document", doc.ID().String()).
		Str("kind", doc.Kind().String()).
		Msg("Registered new document")
	return bound
}

// applyChanged records either line-span edits anchored to the old
// revision's coordinates or the full new buffer, per caller preference.
func (m *Materializer) applyChanged(cs *ChangeSet, oldDoc, newDoc *workspace.Document) {
	path := newDoc.Path()
	if path == "" {
		path = m.resolvePath(newDoc)
	}

	if m.wantsEdits {
		edits := textdiff.Compute(oldDoc.Text(), newDoc.Text())
		cs.AppendEdits(path, edits, newDoc.Text())
		return
	}
	cs.SetBuffer(path, newDoc.Text())
}

// resolvePath returns the document's own absolute path, or joins its
// relative path (or logical name) against the request directory.
func (m *Materializer) resolvePath(doc *workspace.Document) string {
	return paths.ResolveDocument(m.requestDir, doc.Path(), doc.ID().Name)
}

// createPlaceholder creates an empty file at path, creating parent
// directories as needed.
func (m *Materializer) createPlaceholder(path string) *errors.CodefixError {
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating directory for %s", path)
	}
	if err := m.fs.WriteFile(path, nil, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "creating placeholder at %s", path)
	}
	return nil
}

