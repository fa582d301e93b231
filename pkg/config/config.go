// Package config loads codefix configuration with koanf: embedded
// defaults layered under a codefix.toml (or .codefix.toml) found in the
// project root. Besides output preferences, the configuration may
// declare rewrite actions for the built-in rewrite provider.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nohwnd/codefix/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// ConfigFileNames are the project-level file names probed in order.
var ConfigFileNames = []string{".codefix.toml", "codefix.toml"}

// Output controls the response shape of a run.
type Output struct {
	// TextChanges selects line-span edits over full buffers.
	TextChanges bool `koanf:"text_changes"`
	// ApplyChanges commits the final snapshot to the live model.
	ApplyChanges bool `koanf:"apply_changes"`
}

// RewriteAction declares one config-defined action for the rewrite
// provider: a regular expression applied across matching documents.
type RewriteAction struct {
	ID          string `koanf:"id"`
	Title       string `koanf:"title"`
	Pattern     string `koanf:"pattern"`
	Replacement string `koanf:"replacement"`
	// Files is an optional glob over document names; empty matches all.
	Files string `koanf:"files"`
}

// Rewrite groups the rewrite provider's configuration.
type Rewrite struct {
	Actions []RewriteAction `koanf:"action"`
}

// Logging groups logging configuration.
type Logging struct {
	Verbosity int `koanf:"verbosity"`
}

// Config is the fully resolved codefix configuration.
type Config struct {
	Output  Output  `koanf:"output"`
	Rewrite Rewrite `koanf:"rewrite"`
	Logging Logging `koanf:"logging"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load resolves configuration for the project rooted at root.
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load project config if it exists
	for _, filename := range ConfigFileNames {
		path := filepath.Join(root, filename)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			break
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to unmarshal config")
	}
	return &cfg, nil
}
