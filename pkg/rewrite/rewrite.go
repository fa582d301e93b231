// Package rewrite is the built-in action provider: actions declared in
// configuration as a regular expression plus replacement, applied
// across the documents of the current snapshot. Each configured action
// expands into a single workspace-edit operation.
package rewrite

import (
	"context"
	"path"
	"regexp"

	"github.com/nohwnd/codefix/pkg/action"
	"github.com/nohwnd/codefix/pkg/config"
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/logging"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// ProviderName is the name the provider registers under.
const ProviderName = "rewrite"

// Provider offers the rewrite actions declared in configuration.
type Provider struct {
	actions []config.RewriteAction
}

// NewProvider creates a provider for the given configured actions.
func NewProvider(actions []config.RewriteAction) *Provider {
	return &Provider{actions: actions}
}

// Name implements action.Provider.
func (p *Provider) Name() string { return ProviderName }

// Actions implements action.Provider. An action is offered only when
// its pattern matches at least one document in the snapshot, so stale
// configuration does not surface no-op fixes.
func (p *Provider) Actions(ctx context.Context, snap *workspace.Snapshot, loc action.Location) ([]action.Action, error) {
	logger := logging.GetLogger("rewrite")

	var out []action.Action
	for _, ra := range p.actions {
		re, err := regexp.Compile(ra.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrActionInvalid, "invalid pattern for rewrite action %s", ra.ID)
		}
		if !p.matchesAnywhere(snap, re, ra.Files) {
			continue
		}

		key := action.Key{Provider: ProviderName, ID: ra.ID}
		title := ra.Title
		if title == "" {
			title = ra.ID
		}
		out = append(out, action.NewAction(key, title, []action.Operation{
			action.WorkspaceEdit{Transform: transform(re, ra.Replacement, ra.Files)},
		}))
	}

	logger.Debug().Int("offered", len(out)).Msg("Listed rewrite actions")
	return out, nil
}

func (p *Provider) matchesAnywhere(snap *workspace.Snapshot, re *regexp.Regexp, files string) bool {
	for _, pid := range snap.ProjectIDs() {
		proj, _ := snap.Project(pid)
		for _, id := range proj.DocumentIDs() {
			if !nameMatches(files, id.Name) {
				continue
			}
			doc, _ := proj.Document(id)
			if re.MatchString(doc.Text()) {
				return true
			}
		}
	}
	return false
}

// transform builds the snapshot transition for one rewrite action. It
// derives successor revisions only for documents whose text actually
// changes, so untouched documents keep their revision tokens.
func transform(re *regexp.Regexp, replacement, files string) func(*workspace.Snapshot) (*workspace.Snapshot, error) {
	return func(snap *workspace.Snapshot) (*workspace.Snapshot, error) {
		next := snap
		for _, pid := range snap.ProjectIDs() {
			proj, _ := snap.Project(pid)
			for _, id := range proj.DocumentIDs() {
				if !nameMatches(files, id.Name) {
					continue
				}
				doc, _ := proj.Document(id)
				rewritten := re.ReplaceAllString(doc.Text(), replacement)
				if rewritten == doc.Text() {
					continue
				}
				var err error
				next, err = next.WithDocumentText(id, rewritten)
				if err != nil {
					return nil, err
				}
			}
		}
		return next, nil
	}
}

func nameMatches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
