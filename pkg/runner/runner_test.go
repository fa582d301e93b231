package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohwnd/codefix/pkg/action"
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/runner"
	"github.com/nohwnd/codefix/pkg/testutil"
	"github.com/nohwnd/codefix/pkg/workspace"
)

type fakeProvider struct {
	name    string
	actions []action.Action
	err     error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Actions(ctx context.Context, snap *workspace.Snapshot, loc action.Location) ([]action.Action, error) {
	return p.actions, p.err
}

func renameEdit(id workspace.DocumentID, newText string) action.Operation {
	return action.WorkspaceEdit{Transform: func(snap *workspace.Snapshot) (*workspace.Snapshot, error) {
		return snap.WithDocumentText(id, newText)
	}}
}

func newModel() (*workspace.Workspace, workspace.DocumentID) {
	id := testutil.ID("app", "Bar.cs")
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Bar.cs", Path: "/proj/Bar.cs", Text: "int x;"},
	)
	return workspace.NewFromSnapshot(snap), id
}

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/proj", 0755))
	return runner.New(fs)
}

func TestRunUnknownActionYieldsEmptyResult(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "real"}, "Real fix", []action.Operation{renameEdit(id, "int y;")}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:      action.Key{Provider: "test", ID: "missing"},
		FilePath: "/proj/Bar.cs",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Changes)
	assert.Empty(t, result.Conflicts)
	assert.NoError(t, result.CommitErr)
}

func TestRunKeyComparisonIsStructural(t *testing.T) {
	model, id := newModel()
	// Two providers expose the same bare ID; only the requested
	// provider's action may run.
	other := &fakeProvider{name: "other", actions: []action.Action{
		action.NewAction(action.Key{Provider: "other", ID: "fix"}, "Wrong one", []action.Operation{renameEdit(id, "int WRONG;")}),
	}}
	wanted := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Right one", []action.Operation{renameEdit(id, "int y;")}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{other, wanted}, runner.Request{
		Key:      action.Key{Provider: "test", ID: "fix"},
		FilePath: "/proj/Bar.cs",
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "int y;", result.Changes[0].Buffer)
}

func TestRunChangedDocumentLineSpans(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Rename x", []action.Operation{renameEdit(id, "int y;")}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:              action.Key{Provider: "test", ID: "fix"},
		FilePath:         "/proj/Bar.cs",
		WantsTextChanges: true,
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	rec := result.Changes[0]
	assert.Equal(t, "/proj/Bar.cs", rec.Path)
	require.Len(t, rec.Edits, 1)
	assert.Equal(t, "y", rec.Edits[0].NewText)
	assert.Equal(t, 4, rec.Edits[0].Span.Start.Column)
}

func TestRunMultipleOperationsAccumulate(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Two steps", []action.Operation{
			renameEdit(id, "int y;"),
			renameEdit(id, "long y;"),
		}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:              action.Key{Provider: "test", ID: "fix"},
		FilePath:         "/proj/Bar.cs",
		WantsTextChanges: true,
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Len(t, result.Changes[0].Edits, 2)
}

func TestRunIgnoresPassThroughOperations(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Open only", []action.Operation{
			action.OpenDocument{ID: id},
		}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:      action.Key{Provider: "test", ID: "fix"},
		FilePath: "/proj/Bar.cs",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Changes)
}

func TestRunAddsDocumentAndRegisters(t *testing.T) {
	model, _ := newModel()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/proj", 0755))

	addOp := action.WorkspaceEdit{Transform: func(snap *workspace.Snapshot) (*workspace.Snapshot, error) {
		doc := workspace.NewDocument(testutil.ID("app", "Foo.cs"), "", workspace.KindRegular, "class Foo {}")
		return snap.WithDocument(doc), nil
	}}
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "add"}, "Add Foo", []action.Operation{addOp}),
	}}

	result, err := runner.New(fs).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:      action.Key{Provider: "test", ID: "add"},
		FilePath: "/proj/Bar.cs",
	})

	require.NoError(t, err)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "/proj/Foo.cs", result.Changes[0].Path)
	assert.Equal(t, "class Foo {}", result.Changes[0].Buffer)
	assert.Equal(t, 0, fs.Size("/proj/Foo.cs"))
	assert.True(t, model.IsPathRegistered("/proj/Foo.cs"))
}

func TestRunCommitKeepsRegisteredPath(t *testing.T) {
	model, _ := newModel()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/proj", 0755))

	addOp := action.WorkspaceEdit{Transform: func(snap *workspace.Snapshot) (*workspace.Snapshot, error) {
		doc := workspace.NewDocument(testutil.ID("app", "Foo.cs"), "", workspace.KindRegular, "class Foo {}")
		return snap.WithDocument(doc), nil
	}}
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "add"}, "Add Foo", []action.Operation{addOp}),
	}}

	result, err := runner.New(fs).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:              action.Key{Provider: "test", ID: "add"},
		FilePath:         "/proj/Bar.cs",
		ApplyTextChanges: true,
	})

	require.NoError(t, err)
	require.NoError(t, result.CommitErr)

	// The committed snapshot must keep the path binding registration
	// established, or a later request could register the path twice.
	assert.True(t, model.IsPathRegistered("/proj/Foo.cs"))
	doc, ok := model.Current().DocumentByPath("/proj/Foo.cs")
	require.True(t, ok)
	assert.Equal(t, "class Foo {}", doc.Text())
}

func TestRunCommitsWhenRequested(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Rename x", []action.Operation{renameEdit(id, "int y;")}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:              action.Key{Provider: "test", ID: "fix"},
		FilePath:         "/proj/Bar.cs",
		ApplyTextChanges: true,
	})

	require.NoError(t, err)
	require.NoError(t, result.CommitErr)
	got, err := model.Current().Text(id)
	require.NoError(t, err)
	assert.Equal(t, "int y;", got)
}

func TestRunWithoutApplyLeavesModelUntouched(t *testing.T) {
	model, id := newModel()
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Rename x", []action.Operation{renameEdit(id, "int y;")}),
	}}

	_, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:      action.Key{Provider: "test", ID: "fix"},
		FilePath: "/proj/Bar.cs",
	})

	require.NoError(t, err)
	got, err := model.Current().Text(id)
	require.NoError(t, err)
	assert.Equal(t, "int x;", got)
}

func TestRunReportsCommitConflict(t *testing.T) {
	model, id := newModel()

	// The operation sneaks in a competing commit before the runner's
	// final one, as a concurrent request would.
	conflictOp := action.WorkspaceEdit{Transform: func(snap *workspace.Snapshot) (*workspace.Snapshot, error) {
		cur, gen := model.Acquire()
		theirs, err := cur.WithDocumentText(id, "int theirs;")
		if err != nil {
			return nil, err
		}
		if err := model.Commit(gen, theirs); err != nil {
			return nil, err
		}
		return snap.WithDocumentText(id, "int y;")
	}}
	provider := &fakeProvider{name: "test", actions: []action.Action{
		action.NewAction(action.Key{Provider: "test", ID: "fix"}, "Racy fix", []action.Operation{conflictOp}),
	}}

	result, err := newRunner(t).Run(context.Background(), model, []action.Provider{provider}, runner.Request{
		Key:              action.Key{Provider: "test", ID: "fix"},
		FilePath:         "/proj/Bar.cs",
		WantsTextChanges: true,
		ApplyTextChanges: true,
	})

	// The run itself succeeds; only the commit is reported as failed,
	// and the computed changes are still returned.
	require.NoError(t, err)
	assert.True(t, errors.IsErrorCode(result.CommitErr, errors.ErrCommitConflict))
	assert.Len(t, result.Changes, 1)

	got, err := model.Current().Text(id)
	require.NoError(t, err)
	assert.Equal(t, "int theirs;", got)
}

func TestListActionsConcatenatesProviders(t *testing.T) {
	model, id := newModel()
	p1 := &fakeProvider{name: "one", actions: []action.Action{
		action.NewAction(action.Key{Provider: "one", ID: "a"}, "A", []action.Operation{renameEdit(id, "a")}),
	}}
	p2 := &fakeProvider{name: "two", actions: []action.Action{
		action.NewAction(action.Key{Provider: "two", ID: "b"}, "B", []action.Operation{renameEdit(id, "b")}),
	}}

	actions, err := runner.ListActions(context.Background(), model.Current(), []action.Provider{p1, p2}, action.Location{})
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "A", actions[0].Title())
	assert.Equal(t, "B", actions[1].Title())
}

func TestListActionsProviderError(t *testing.T) {
	model, _ := newModel()
	p := &fakeProvider{name: "broken", err: errors.New(errors.ErrInternal, "boom")}

	_, err := runner.ListActions(context.Background(), model.Current(), []action.Provider{p}, action.Location{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))
}
