package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohwnd/codefix/pkg/action"
	"github.com/nohwnd/codefix/pkg/config"
	"github.com/nohwnd/codefix/pkg/errors"
	"github.com/nohwnd/codefix/pkg/rewrite"
	"github.com/nohwnd/codefix/pkg/testutil"
)

func TestActionsOfferedOnlyWhenPatternMatches(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Path: "/proj/Foo.cs", Text: "var x = 1;"},
	)
	p := rewrite.NewProvider([]config.RewriteAction{
		{ID: "use-y", Pattern: `\bx\b`, Replacement: "y"},
		{ID: "no-match", Pattern: "zzz", Replacement: "q"},
	})

	actions, err := p.Actions(context.Background(), snap, action.Location{})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, action.Key{Provider: "rewrite", ID: "use-y"}, actions[0].Key())
}

func TestActionsTitleFallsBackToID(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Text: "abc"},
	)
	p := rewrite.NewProvider([]config.RewriteAction{
		{ID: "untitled", Pattern: "abc", Replacement: "xyz"},
		{ID: "titled", Title: "Fix it", Pattern: "abc", Replacement: "xyz"},
	})

	actions, err := p.Actions(context.Background(), snap, action.Location{})
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "untitled", actions[0].Title())
	assert.Equal(t, "Fix it", actions[1].Title())
}

func TestActionsInvalidPattern(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Text: "abc"},
	)
	p := rewrite.NewProvider([]config.RewriteAction{
		{ID: "broken", Pattern: "[", Replacement: "x"},
	})

	_, err := p.Actions(context.Background(), snap, action.Location{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionInvalid))
}

func TestTransformRewritesOnlyChangedDocuments(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Text: "int x;"},
		testutil.Doc{Project: "app", Name: "Bar.cs", Text: "int z;"},
	)
	fooID := testutil.ID("app", "Foo.cs")
	barID := testutil.ID("app", "Bar.cs")

	p := rewrite.NewProvider([]config.RewriteAction{
		{ID: "use-y", Pattern: `\bx\b`, Replacement: "y"},
	})
	actions, err := p.Actions(context.Background(), snap, action.Location{})
	require.NoError(t, err)
	require.Len(t, actions, 1)

	ops, err := actions[0].Operations(context.Background())
	require.NoError(t, err)
	require.Len(t, ops, 1)
	edit, ok := ops[0].(action.WorkspaceEdit)
	require.True(t, ok)

	next, err := edit.Transform(snap)
	require.NoError(t, err)

	gotFoo, err := next.Text(fooID)
	require.NoError(t, err)
	assert.Equal(t, "int y;", gotFoo)

	// The untouched document keeps its revision, so delta computation
	// will not flag it as changed.
	oldBar, _ := snap.Document(barID)
	newBar, _ := next.Document(barID)
	assert.Equal(t, oldBar.Revision().Token(), newBar.Revision().Token())
}

func TestFileGlobRestrictsScope(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Text: "old"},
		testutil.Doc{Project: "app", Name: "notes.txt", Text: "old"},
	)

	p := rewrite.NewProvider([]config.RewriteAction{
		{ID: "modernize", Pattern: "old", Replacement: "new", Files: "*.cs"},
	})
	actions, err := p.Actions(context.Background(), snap, action.Location{})
	require.NoError(t, err)
	require.Len(t, actions, 1)

	ops, err := actions[0].Operations(context.Background())
	require.NoError(t, err)
	next, err := ops[0].(action.WorkspaceEdit).Transform(snap)
	require.NoError(t, err)

	gotCS, err := next.Text(testutil.ID("app", "Foo.cs"))
	require.NoError(t, err)
	assert.Equal(t, "new", gotCS)

	gotTxt, err := next.Text(testutil.ID("app", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", gotTxt)
}

func TestNoActionsFromEmptyConfig(t *testing.T) {
	snap := testutil.SnapshotOf(
		testutil.Doc{Project: "app", Name: "Foo.cs", Text: "anything"},
	)
	p := rewrite.NewProvider(nil)

	actions, err := p.Actions(context.Background(), snap, action.Location{})
	require.NoError(t, err)
	assert.Empty(t, actions)
}
