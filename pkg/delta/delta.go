// Package delta computes the structural difference between two
// workspace snapshots: which documents were added, removed, or changed,
// per project.
package delta

import (
	"github.com/nohwnd/codefix/pkg/workspace"
)

// ProjectDelta lists the document identities that differ between two
// snapshots of one project. The three sets are disjoint.
type ProjectDelta struct {
	Project workspace.ProjectID
	Added   []workspace.DocumentID
	Removed []workspace.DocumentID
	Changed []workspace.DocumentID
}

// Empty reports whether the delta carries no differences.
func (d ProjectDelta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Delta is the structural difference for every project present in the
// new snapshot. Projects that only exist in the old snapshot are not
// listed; downstream processing has nothing to materialize for them.
type Delta struct {
	Projects []ProjectDelta
}

// Empty reports whether no project differs.
func (d Delta) Empty() bool {
	for _, p := range d.Projects {
		if !p.Empty() {
			return false
		}
	}
	return true
}

// Compute derives the structural delta between two snapshots. Documents
// count as changed when their revision tokens differ, even if the text
// happens to be identical; comparison never touches document content.
// Compute is a pure function of its inputs.
func Compute(old, new *workspace.Snapshot) Delta {
	var out Delta
	for _, pid := range new.ProjectIDs() {
		newProj, _ := new.Project(pid)
		oldProj, hadProject := old.Project(pid)

		pd := ProjectDelta{Project: pid}

		for _, id := range newProj.DocumentIDs() {
			newDoc, _ := newProj.Document(id)
			if !hadProject {
				pd.Added = append(pd.Added, id)
				continue
			}
			oldDoc, ok := oldProj.Document(id)
			if !ok {
				pd.Added = append(pd.Added, id)
				continue
			}
			if oldDoc.Revision().Token() != newDoc.Revision().Token() {
				pd.Changed = append(pd.Changed, id)
			}
		}

		if hadProject {
			for _, id := range oldProj.DocumentIDs() {
				if _, ok := newProj.Document(id); !ok {
					pd.Removed = append(pd.Removed, id)
				}
			}
		}

		if !pd.Empty() {
			out.Projects = append(out.Projects, pd)
		}
	}
	return out
}
