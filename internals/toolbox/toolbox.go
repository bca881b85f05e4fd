// Package toolbox is the dispatch layer between workflow steps and external
// capabilities. Steps name a tool and a method; the broker resolves the name
// against a registry populated at startup. Steps never hold concrete tool
// implementations.
package toolbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Tool names registered by RegisterBuiltins.
const (
	ToolConsole = "console"
	ToolVCS     = "vcs"
	ToolFiles   = "files"
	ToolModel   = "model"
)

// Tool is a named capability exposing methods. ctorArgs configure the tool
// for one invocation (a console bound to another directory); callArgs
// parameterize the method itself.
type Tool interface {
	Name() string
	Invoke(ctx context.Context, method string, ctorArgs, callArgs []any) (any, error)
}

// ErrUnknownMethod is wrapped by tools when method does not name one of
// their methods.
var ErrUnknownMethod = errors.New("unknown tool method")

// NotFoundError reports an unregistered tool name.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Tool)
}

// InvocationError reports a failure inside a resolved tool call, wrapping
// the cause.
type InvocationError struct {
	Tool   string
	Method string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("tool %s.%s failed: %v", e.Tool, e.Method, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

type Broker struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewBroker() *Broker {
	return &Broker{tools: map[string]Tool{}}
}

// Register installs a tool. Registering the same name twice is an error.
func (b *Broker) Register(tool Tool) error {
	if tool == nil || tool.Name() == "" {
		return errors.New("tool and tool name are required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.tools[tool.Name()]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name())
	}
	b.tools[tool.Name()] = tool
	return nil
}

// Invoke dispatches a call. It is pure indirection: no caching, pooling, or
// retries. An unregistered name fails with *NotFoundError; any failure inside
// the resolved call surfaces as *InvocationError wrapping the cause.
func (b *Broker) Invoke(ctx context.Context, toolName, method string, ctorArgs, callArgs []any) (any, error) {
	b.mu.RLock()
	tool, ok := b.tools[toolName]
	b.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Tool: toolName}
	}

	result, err := tool.Invoke(ctx, method, ctorArgs, callArgs)
	if err != nil {
		return nil, &InvocationError{Tool: toolName, Method: method, Err: err}
	}
	return result, nil
}
