package toolbox

import (
	"context"
	"fmt"

	"github.com/foremanhq/foreman/internals/workspace"
)

// VCS answers version-control queries about the repository. The first ctor
// arg, when present, rebinds the repository directory.
type VCS struct {
	host       workspace.Host
	defaultDir string
}

func NewVCS(host workspace.Host, defaultDir string) *VCS {
	return &VCS{host: host, defaultDir: defaultDir}
}

func (v *VCS) Name() string {
	return ToolVCS
}

func (v *VCS) Invoke(_ context.Context, method string, ctorArgs, callArgs []any) (any, error) {
	dir := v.defaultDir
	if len(ctorArgs) > 0 {
		override, err := stringArg(ctorArgs, 0)
		if err != nil {
			return nil, fmt.Errorf("repository directory: %w", err)
		}
		dir = override
	}

	switch method {
	case "isClean":
		status, err := v.host.GitStatusPorcelain(dir)
		if err != nil {
			return nil, err
		}
		return status == "", nil
	case "commit":
		message, err := stringArg(callArgs, 0)
		if err != nil {
			return nil, fmt.Errorf("commit message: %w", err)
		}
		if err := v.host.GitCommit(dir, message); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: vcs.%s", ErrUnknownMethod, method)
	}
}
