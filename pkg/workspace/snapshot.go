package workspace

import (
	"sort"

	"github.com/nohwnd/codefix/pkg/errors"
)

// Project is the set of documents belonging to one project at one
// snapshot. Like everything in a snapshot it is immutable.
type Project struct {
	id   ProjectID
	docs map[DocumentID]*Document
}

// ID returns the project's identity.
func (p *Project) ID() ProjectID { return p.id }

// Document looks up a document by identity.
func (p *Project) Document(id DocumentID) (*Document, bool) {
	d, ok := p.docs[id]
	return d, ok
}

// DocumentIDs returns the identities of all documents, sorted by name
// for deterministic iteration.
func (p *Project) DocumentIDs() []DocumentID {
	ids := make([]DocumentID, 0, len(p.docs))
	for id := range p.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Name < ids[j].Name })
	return ids
}

func (p *Project) clone() *Project {
	docs := make(map[DocumentID]*Document, len(p.docs))
	for id, d := range p.docs {
		docs[id] = d
	}
	return &Project{id: p.id, docs: docs}
}

// Snapshot is the immutable whole-workspace state at one instant.
type Snapshot struct {
	projects map[ProjectID]*Project
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{projects: map[ProjectID]*Project{}}
}

// Project looks up a project by identity.
func (s *Snapshot) Project(id ProjectID) (*Project, bool) {
	p, ok := s.projects[id]
	return p, ok
}

// ProjectIDs returns the identities of all projects in sorted order.
func (s *Snapshot) ProjectIDs() []ProjectID {
	ids := make([]ProjectID, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Document looks up a document across the whole snapshot.
func (s *Snapshot) Document(id DocumentID) (*Document, bool) {
	p, ok := s.projects[id.Project]
	if !ok {
		return nil, false
	}
	return p.Document(id)
}

// Text returns the current text of a document.
func (s *Snapshot) Text(id DocumentID) (string, error) {
	d, ok := s.Document(id)
	if !ok {
		return "", errors.Newf(errors.ErrDocumentNotFound, "document %s not in snapshot", id)
	}
	return d.Text(), nil
}

func (s *Snapshot) clone() *Snapshot {
	projects := make(map[ProjectID]*Project, len(s.projects))
	for id, p := range s.projects {
		projects[id] = p
	}
	return &Snapshot{projects: projects}
}

// WithDocument derives a snapshot containing doc, creating the owning
// project when it does not exist yet. An existing document under the
// same identity is replaced.
func (s *Snapshot) WithDocument(doc *Document) *Snapshot {
	next := s.clone()
	p, ok := next.projects[doc.ID().Project]
	if !ok {
		p = &Project{id: doc.ID().Project, docs: map[DocumentID]*Document{}}
	} else {
		p = p.clone()
	}
	p.docs[doc.ID()] = doc
	next.projects[doc.ID().Project] = p
	return next
}

// WithDocumentText derives a snapshot in which the identified document
// carries a successor revision with the given text.
func (s *Snapshot) WithDocumentText(id DocumentID, text string) (*Snapshot, error) {
	d, ok := s.Document(id)
	if !ok {
		return nil, errors.Newf(errors.ErrDocumentNotFound, "document %s not in snapshot", id)
	}
	return s.WithDocument(d.WithText(text)), nil
}

// WithoutDocument derives a snapshot that no longer contains the
// identified document. Removing an unknown document is a no-op.
func (s *Snapshot) WithoutDocument(id DocumentID) *Snapshot {
	p, ok := s.projects[id.Project]
	if !ok {
		return s
	}
	if _, ok := p.docs[id]; !ok {
		return s
	}
	next := s.clone()
	p = p.clone()
	delete(p.docs, id)
	next.projects[id.Project] = p
	return next
}

// DocumentByPath finds a document registered under the given absolute
// path, searching all projects.
func (s *Snapshot) DocumentByPath(path string) (*Document, bool) {
	for _, p := range s.projects {
		for _, d := range p.docs {
			if d.Path() != "" && d.Path() == path {
				return d, true
			}
		}
	}
	return nil, false
}
