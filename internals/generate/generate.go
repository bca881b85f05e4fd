// Package generate turns a structured prompt into text through a configured
// backend: the Anthropic API, or an arbitrary command for air-gapped setups.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/foremanhq/foreman/internals/conf"
)

// Request is a structured generation prompt. System sets behavior, Prompt
// carries the content. The command backend receives this as JSON on stdin.
type Request struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

type Backend interface {
	ID() conf.BackendID
	Generate(ctx context.Context, req Request) (string, error)
}

var ErrUnknownBackend = errors.New("unknown generate backend")

// New builds the backend cfg names. apiKey is only consulted for the
// anthropic backend.
func New(cfg conf.GenerateConfig, apiKey string) (Backend, error) {
	switch cfg.Backend {
	case conf.BackendAnthropic:
		return newAnthropicBackend(cfg, apiKey)
	case conf.BackendCommand:
		return newCommandBackend(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
