package task

import (
	"log/slog"

	"github.com/foremanhq/foreman/internals/conf"
	"github.com/foremanhq/foreman/internals/prompt"
	"github.com/foremanhq/foreman/internals/toolbox"
)

// Context is the owning context injected into every task: configuration,
// the repository the workflows operate on, and the brokers through which
// tasks reach external capabilities. It is built once at startup and passed
// down explicitly.
type Context struct {
	Config   *conf.Config
	RepoDir  string
	Logger   *slog.Logger
	Tools    *toolbox.Broker
	Prompts  *prompt.Broker
	Registry *Registry
}
