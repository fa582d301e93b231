// Package paths centralizes path handling for codefix: resolution of
// new-document target paths and the XDG locations used for logs and
// user-level configuration.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppDirName is the directory name used under the XDG base directories.
const AppDirName = "codefix"

// LogFileName is the name of the log file.
const LogFileName = "codefix.log"

// ResolveDocument resolves the absolute target path for a document. A
// document carrying an absolute path keeps it verbatim; a relative or
// missing path (fall back to the logical name) is joined against the
// directory of the file that originated the request.
func ResolveDocument(requestDir, docPath, name string) string {
	p := docPath
	if p == "" {
		p = name
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(requestDir, p)
}

// RequestDir returns the directory that anchors relative resolution
// for a request issued from filePath.
func RequestDir(filePath string) string {
	return filepath.Dir(filePath)
}

// LogFilePath returns the log file location under the XDG state home.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// ConfigDir returns the user-level configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppDirName)
}
