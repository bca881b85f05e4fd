package task

import (
	"context"
	"errors"
)

// Run walks t's tree. Children execute strictly in declared order before
// t's own unit of work; the first failure aborts the remaining siblings and
// every ancestor's still-pending work. Nothing is retried here; retry
// policy, where it exists, lives inside a specific task's unit of work.
func Run(ctx context.Context, t Task) error {
	for _, child := range t.Children() {
		if err := Run(ctx, child); err != nil {
			return err
		}
	}

	if err := t.Execute(ctx); err != nil {
		var taskErr *Error
		if errors.As(err, &taskErr) {
			return err
		}
		return NewError(t, err)
	}
	return nil
}
