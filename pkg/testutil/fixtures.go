package testutil

import (
	"github.com/nohwnd/codefix/pkg/workspace"
)

// Doc describes one document for SnapshotOf.
type Doc struct {
	Project string
	Name    string
	Path    string
	Text    string
	Kind    workspace.SourceKind
}

// SnapshotOf builds a snapshot containing the given documents.
func SnapshotOf(docs ...Doc) *workspace.Snapshot {
	snap := workspace.NewSnapshot()
	for _, d := range docs {
		id := workspace.DocumentID{Project: workspace.ProjectID(d.Project), Name: d.Name}
		snap = snap.WithDocument(workspace.NewDocument(id, d.Path, d.Kind, d.Text))
	}
	return snap
}

// ID is shorthand for a document identity.
func ID(project, name string) workspace.DocumentID {
	return workspace.DocumentID{Project: workspace.ProjectID(project), Name: name}
}
