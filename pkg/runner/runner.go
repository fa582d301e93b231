// Package runner orchestrates one fix request end to end: resolve the
// chosen action, execute it, fold its edit operations through an
// evolving snapshot, materialize per-operation deltas into file change
// records, and optionally commit the final snapshot back to the live
// model.
package runner

import (
	"context"
	"path/filepath"

	"github.com/nohwnd/codefix/pkg/action"
	"github.com/nohwnd/codefix/pkg/delta"
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/logging"
	"github.com/nohwnd/codefix/pkg/materialize"
	"github.com/nohwnd/codefix/pkg/types"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// Request selects and parameterizes one action run.
type Request struct {
	// Key identifies the action to run; compared structurally.
	Key action.Key
	// FilePath anchors action discovery and relative path resolution
	// for newly created files.
	FilePath string
	// WantsTextChanges selects line-span edits over full buffers for
	// changed documents.
	WantsTextChanges bool
	// ApplyTextChanges commits the final snapshot to the live model.
	ApplyTextChanges bool
}

// Result is the outcome of one run. A request whose action identifier
// matched nothing yields an empty, successful result.
type Result struct {
	Changes   []materialize.FileChange
	Conflicts []materialize.Conflict

	// CommitErr reports a failed final commit. Change records and
	// filesystem side effects already performed are not unwound.
	CommitErr error
}

// Runner executes fix requests against a live workspace model.
type Runner struct {
	fs types.FS
}

// New creates a runner whose materialization side effects go through
// the given filesystem.
func New(filesystem types.FS) *Runner {
	return &Runner{fs: filesystem}
}

// ListActions queries all providers for the actions available at loc
// and concatenates their results in provider order.
func ListActions(ctx context.Context, snap *workspace.Snapshot, providers []action.Provider, loc action.Location) ([]action.Action, error) {
	var out []action.Action
	for _, p := range providers {
		actions, err := p.Actions(ctx, snap, loc)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrActionExecute, "listing actions from provider %s", p.Name())
		}
		out = append(out, actions...)
	}
	return out, nil
}

// Run executes the requested action and returns the aggregated file
// change records. Operations are applied strictly sequentially; each
// one's snapshot transition feeds the next.
func (r *Runner) Run(ctx context.Context, model *workspace.Workspace, providers []action.Provider, req Request) (*Result, error) {
	logger := logging.GetLogger("runner").With().
		Str("action", req.Key.String()).
		Str("file", req.FilePath).
		Logger()

	snap, gen := model.Acquire()
	loc := action.Location{FilePath: req.FilePath}

	available, err := ListActions(ctx, snap, providers, loc)
	if err != nil {
		return nil, err
	}

	var chosen action.Action
	for _, a := range available {
		if a.Key() == req.Key {
			chosen = a
			break
		}
	}
	if chosen == nil {
		// An unknown identifier is not an error: the caller raced a
		// model change or picked a stale action. Empty result.
		logger.Debug().Msg("No action matched the requested identifier")
		return &Result{}, nil
	}

	ops, err := chosen.Operations(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrActionExecute, "executing action %s", req.Key)
	}

	mat := materialize.New(r.fs, model, filepath.Dir(req.FilePath), req.WantsTextChanges)
	cs := materialize.NewChangeSet()
	current := snap

	for _, op := range ops {
		edit, ok := op.(action.WorkspaceEdit)
		if !ok {
			// Pass-through kinds produce no file changes.
			continue
		}
		next, err := edit.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrActionExecute, "applying operation of action %s", req.Key)
		}
		// Apply folds the path bindings of freshly registered documents
		// into the snapshot, so the final commit keeps them.
		current = mat.Apply(cs, current, next, delta.Compute(current, next))
	}

	result := &Result{
		Changes:   cs.Changes(),
		Conflicts: cs.Conflicts,
	}

	if req.ApplyTextChanges {
		if commitErr := model.Commit(gen, current); commitErr != nil {
			logger.Warn().Err(commitErr).Msg("Failed to commit final snapshot")
			result.CommitErr = commitErr
		}
	}

	logger.Debug().
		Int("changes", len(result.Changes)).
		Int("conflicts", len(result.Conflicts)).
		Msg("Request complete")
	return result, nil
}
