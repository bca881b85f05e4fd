package toolbox

import (
	"github.com/foremanhq/foreman/internals/generate"
	"github.com/foremanhq/foreman/internals/workspace"
)

// RegisterBuiltins installs the standard tool set: console, vcs, and files
// bound to repoDir on host, and model bound to the generation backend.
func RegisterBuiltins(b *Broker, host workspace.Host, repoDir string, backend generate.Backend) error {
	tools := []Tool{
		NewConsole(host, repoDir),
		NewVCS(host, repoDir),
		NewFiles(host, repoDir),
		NewModel(backend),
	}
	for _, tool := range tools {
		if err := b.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
