package toolbox

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/foremanhq/foreman/internals/workspace"
)

// Files reads and writes files under the repository root. Paths are relative
// to the root; absolute paths and paths escaping the root are rejected.
type Files struct {
	host workspace.Host
	root string
}

func NewFiles(host workspace.Host, root string) *Files {
	return &Files{host: host, root: root}
}

func (f *Files) Name() string {
	return ToolFiles
}

func (f *Files) Invoke(_ context.Context, method string, _ []any, callArgs []any) (any, error) {
	switch method {
	case "read":
		path, err := f.resolve(callArgs)
		if err != nil {
			return nil, err
		}
		data, err := f.host.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case "write":
		path, err := f.resolve(callArgs)
		if err != nil {
			return nil, err
		}
		content, err := stringArg(callArgs, 1)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		if err := f.host.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := f.host.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: files.%s", ErrUnknownMethod, method)
	}
}

func (f *Files) resolve(callArgs []any) (string, error) {
	path, err := stringArg(callArgs, 0)
	if err != nil {
		return "", fmt.Errorf("path: %w", err)
	}
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("path escapes the repository: %s", path)
	}
	return filepath.Join(f.root, path), nil
}
