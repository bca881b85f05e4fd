// Package tasks holds the builtin workflow task types. Each type is
// registered under a well-known name; factories validate their payloads and
// construct the full child tree eagerly, before the walk begins.
package tasks

import (
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
)

const (
	TypeImplementRequest     = "implement-request"
	TypeRequireCleanWorktree = "require-clean-worktree"
	TypeGenerateChange       = "generate-change"
	TypeRequirePassingTests  = "require-passing-tests"
	TypeCommitChanges        = "commit-changes"
)

// Resulter is implemented by task types that produce a wire-visible result.
type Resulter interface {
	Result() *schemas.TaskResult
}

// RegisterBuiltins installs the builtin workflow task set into reg.
func RegisterBuiltins(reg *task.Registry) error {
	entries := []struct {
		name    string
		factory task.Factory
	}{
		{TypeImplementRequest, newImplementRequest},
		{TypeRequireCleanWorktree, newRequireCleanWorktree},
		{TypeGenerateChange, newGenerateChange},
		{TypeRequirePassingTests, newRequirePassingTests},
		{TypeCommitChanges, newCommitChanges},
	}
	for _, entry := range entries {
		if err := reg.Register(entry.name, entry.factory); err != nil {
			return err
		}
	}
	return nil
}
