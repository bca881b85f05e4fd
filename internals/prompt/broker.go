package prompt

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAborted is returned from Raise when a human declines a Confirm. Tasks
// treat it as an ordinary failure of their remaining work, not a system
// fault.
var ErrAborted = errors.New("aborted by user")

// ErrNoPending is returned from ResolveCurrent when nothing is waiting. It is
// protocol misuse by the external actor and never crashes the broker.
var ErrNoPending = errors.New("no pending prompt")

// ErrInvalidResponse is returned from ResolveCurrent when the response type
// does not match the pending prompt's variant. The queue is left unchanged so
// the actor can retry with the right type.
var ErrInvalidResponse = errors.New("invalid response")

type pending struct {
	prompt Prompt
	done   chan error
}

// Broker owns the pending prompt queue. It is the one structure touched from
// two sides: task goroutines raising new entries, and the external actor's
// resolution calls.
type Broker struct {
	mu       sync.Mutex
	queue    []*pending
	onRaised func(Prompt)
}

// New returns a Broker. onRaised, when non-nil, runs on the raising
// goroutine right before it blocks; use it to alert an operator.
func New(onRaised func(Prompt)) *Broker {
	return &Broker{onRaised: onRaised}
}

// Raise enqueues p and blocks until the external actor resolves it. There is
// no timeout and no cancellation: an unresolved prompt blocks its task
// forever. Returns nil once resolved, or ErrAborted for a declined Confirm;
// either way the answer is written into p before Raise returns.
func (b *Broker) Raise(p Prompt) error {
	entry := &pending{prompt: p, done: make(chan error, 1)}
	b.mu.Lock()
	b.queue = append(b.queue, entry)
	b.mu.Unlock()

	if b.onRaised != nil {
		b.onRaised(p)
	}
	return <-entry.done
}

// PeekCurrent returns the oldest unresolved prompt without removing it, or
// nil when the queue is empty. Repeated peeks observe the same prompt until
// it is resolved.
func (b *Broker) PeekCurrent() Prompt {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil
	}
	return b.queue[0].prompt
}

// ResolveCurrent answers the oldest pending prompt. The response must be a
// string for Input and a bool for Confirm. On success the entry is removed
// and exactly one suspended Raise call unblocks; an entry can never resolve
// twice.
func (b *Broker) ResolveCurrent(response any) error {
	b.mu.Lock()
	if len(b.queue) == 0 {
		b.mu.Unlock()
		return ErrNoPending
	}
	entry := b.queue[0]

	var outcome error
	switch p := entry.prompt.(type) {
	case *Input:
		text, ok := response.(string)
		if !ok {
			b.mu.Unlock()
			return fmt.Errorf("%w: input prompt expects a string, got %T", ErrInvalidResponse, response)
		}
		p.Response = text
		p.Answered = true
	case *Confirm:
		approved, ok := response.(bool)
		if !ok {
			b.mu.Unlock()
			return fmt.Errorf("%w: confirm prompt expects a boolean, got %T", ErrInvalidResponse, response)
		}
		p.Response = approved
		p.Answered = true
		if !approved {
			outcome = ErrAborted
		}
	}
	b.queue = b.queue[1:]
	b.mu.Unlock()

	entry.done <- outcome
	return nil
}

// Ask raises an Input prompt and returns the answer.
func (b *Broker) Ask(message string) (string, error) {
	p := NewInput(message)
	if err := b.Raise(p); err != nil {
		return "", err
	}
	return p.Response, nil
}

// Approve raises a Confirm prompt. It returns nil when approved and
// ErrAborted when declined.
func (b *Broker) Approve(message string) error {
	return b.Raise(NewConfirm(message))
}
