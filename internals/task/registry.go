package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a task of one registered type. payload is the raw
// request payload; the factory owns its validation. Factories build the
// complete child tree before returning; children are never discovered
// during execution.
type Factory func(owner *Context, parent Task, payload json.RawMessage) (Task, error)

// Registry maps task-type names to factories. It is populated by explicit
// registration at startup and read-only afterwards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register installs a factory. Registering the same name twice is an error.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("task type name is required")
	}
	if factory == nil {
		return fmt.Errorf("factory is required for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("task type already registered: %s", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics if registration fails. Startup-time use only.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create constructs a task by type name. Unknown names fail with
// *UnknownTypeError.
func (r *Registry) Create(owner *Context, parent Task, name string, payload json.RawMessage) (Task, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return factory(owner, parent, payload)
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
