package toolbox

import (
	"context"
	"fmt"

	"github.com/foremanhq/foreman/internals/generate"
)

// Model produces text through the configured generation backend. The call
// arg is either a generate.Request or a bare prompt string.
type Model struct {
	backend generate.Backend
}

func NewModel(backend generate.Backend) *Model {
	return &Model{backend: backend}
}

func (m *Model) Name() string {
	return ToolModel
}

func (m *Model) Invoke(ctx context.Context, method string, _ []any, callArgs []any) (any, error) {
	switch method {
	case "generate":
		req, err := requestArg(callArgs)
		if err != nil {
			return nil, err
		}
		return m.backend.Generate(ctx, req)
	default:
		return nil, fmt.Errorf("%w: model.%s", ErrUnknownMethod, method)
	}
}

func requestArg(callArgs []any) (generate.Request, error) {
	if len(callArgs) == 0 {
		return generate.Request{}, fmt.Errorf("missing argument 0")
	}
	switch v := callArgs[0].(type) {
	case generate.Request:
		return v, nil
	case string:
		return generate.Request{Prompt: v}, nil
	default:
		return generate.Request{}, fmt.Errorf("argument 0 must be a generate request or prompt string, got %T", v)
	}
}
