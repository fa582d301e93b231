// Package action defines the collaborator contracts the engine runs
// against: providers that surface named actions for a location, actions
// that expand into ordered edit operations, and the closed set of
// operation kinds.
package action

import (
	"context"

	"github.com/nohwnd/codefix/pkg/text"
	"github.com/nohwnd/codefix/pkg/workspace"
)

// Key identifies an action structurally: the provider that produced it
// plus the provider-scoped action identifier. Two keys are equal only
// when both parts match, so identical IDs under different providers do
// not collide.
type Key struct {
	Provider string
	ID       string
}

func (k Key) String() string {
	return k.Provider + "/" + k.ID
}

// Location anchors action discovery: the file the user is in and,
// optionally, a cursor position or selection within it.
type Location struct {
	FilePath  string
	Position  text.Position
	Selection *text.Span
}

// Action is a named, user-selectable transformation. Executing it
// yields the ordered edit operations that realize it.
type Action interface {
	Key() Key
	Title() string
	Operations(ctx context.Context) ([]Operation, error)
}

// Provider surfaces the actions available at a location. Providers are
// composable: the engine queries a list of them and concatenates their
// results.
type Provider interface {
	Name() string
	Actions(ctx context.Context, snap *workspace.Snapshot, loc Location) ([]Action, error)
}

// Operation is one atomic instruction produced by an action. The set of
// kinds is closed; the engine dispatches on the concrete type and treats
// unknown kinds as pass-through.
type Operation interface {
	isOperation()
}

// WorkspaceEdit is the operation kind that changes document contents or
// membership. Transform derives the successor snapshot from the one the
// engine threads through the operation sequence; it must not mutate its
// input.
type WorkspaceEdit struct {
	Transform func(*workspace.Snapshot) (*workspace.Snapshot, error)
}

func (WorkspaceEdit) isOperation() {}

// OpenDocument asks the host editor to open a document. The engine
// ignores it; it produces no file changes.
type OpenDocument struct {
	ID workspace.DocumentID
}

func (OpenDocument) isOperation() {}

// simpleAction is a ready-made Action for providers that have their
// operations up front.
type simpleAction struct {
	key   Key
	title string
	ops   []Operation
}

// NewAction builds an Action from a fixed operation list.
func NewAction(key Key, title string, ops []Operation) Action {
	return &simpleAction{key: key, title: title, ops: ops}
}

func (a *simpleAction) Key() Key      { return a.key }
func (a *simpleAction) Title() string { return a.title }

func (a *simpleAction) Operations(ctx context.Context) ([]Operation, error) {
	return a.ops, nil
}
