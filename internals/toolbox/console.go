package toolbox

import (
	"context"
	"fmt"

	"github.com/foremanhq/foreman/internals/workspace"
)

// Console runs shell commands on the host. The first ctor arg, when present,
// rebinds the working directory for that invocation.
type Console struct {
	host       workspace.Host
	defaultDir string
}

func NewConsole(host workspace.Host, defaultDir string) *Console {
	return &Console{host: host, defaultDir: defaultDir}
}

func (c *Console) Name() string {
	return ToolConsole
}

func (c *Console) Invoke(_ context.Context, method string, ctorArgs, callArgs []any) (any, error) {
	dir := c.defaultDir
	if len(ctorArgs) > 0 {
		override, err := stringArg(ctorArgs, 0)
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		dir = override
	}

	switch method {
	case "exec":
		command, err := stringArg(callArgs, 0)
		if err != nil {
			return nil, fmt.Errorf("command: %w", err)
		}
		return c.host.Exec(dir, command)
	default:
		return nil, fmt.Errorf("%w: console.%s", ErrUnknownMethod, method)
	}
}
