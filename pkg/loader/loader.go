// Package loader builds a live workspace model from files on disk for
// CLI use. The project is the directory of the request file; every
// regular, non-hidden sibling file becomes a document.
package loader

import (
	"path/filepath"
	"strings"

	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/logging"
	"github.com/nohwnd/codefix/pkg/types"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// LoadProject reads the directory containing filePath into a
// single-project workspace. Document paths are absolute; logical names
// are the file names.
func LoadProject(filesystem types.FS, filePath string) (*workspace.Workspace, error) {
	logger := logging.GetLogger("loader")

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "resolving %s", filePath)
	}
	dir := filepath.Dir(abs)
	project := workspace.ProjectID(filepath.Base(dir))

	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading project directory %s", dir)
	}

	snap := workspace.NewSnapshot()
	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || name == "codefix.toml" {
			continue
		}
		path := filepath.Join(dir, name)
		content, err := filesystem.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable file")
			continue
		}
		id := workspace.DocumentID{Project: project, Name: name}
		snap = snap.WithDocument(workspace.NewDocument(id, path, workspace.KindRegular, string(content)))
		count++
	}

	logger.Debug().
		Str("project", string(project)).
		Int("documents", count).
		Msg("Loaded project from disk")
	return workspace.NewFromSnapshot(snap), nil
}
