// Package task models units of repository work as ownership trees and runs
// them depth-first: children strictly in declared order, then the node's own
// work, aborting everything still pending on the first failure.
package task

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Task is one node in an ownership tree. Children are fixed in count and
// order once construction finishes; Parent is a non-owning back-reference
// kept for diagnostics and never used to re-enter the parent. Execute is the
// node's own unit of work and runs at most once.
type Task interface {
	ID() string
	Type() string
	Parent() Task
	Children() []Task
	Execute(ctx context.Context) error
}

// Base carries the tree bookkeeping every task shares. Embed it and
// implement Execute.
type Base struct {
	id       string
	taskType string
	parent   Task
	children []Task
}

func NewBase(taskType string, parent Task) Base {
	return Base{id: NewID(), taskType: taskType, parent: parent}
}

func (b *Base) ID() string {
	return b.id
}

func (b *Base) Type() string {
	return b.taskType
}

func (b *Base) Parent() Task {
	return b.parent
}

func (b *Base) Children() []Task {
	return b.children
}

// Adopt appends children in execution order. Call it during construction
// only: the child list must not change once the factory returns.
func (b *Base) Adopt(children ...Task) {
	b.children = append(b.children, children...)
}

// NewID returns a fresh 12-byte hex identity.
func NewID() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf) // never fails
	return hex.EncodeToString(buf)
}
