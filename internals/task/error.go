package task

import "fmt"

// Error reports a task execution failure carrying the originating task's
// identity and the underlying cause. The executor propagates it unchanged;
// wrapping happens only at the task where the failure originated.
type Error struct {
	TaskID   string
	TaskType string
	Err      error
}

func NewError(t Task, err error) *Error {
	return &Error{TaskID: t.ID(), TaskType: t.Type(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("task %s (%s) failed: %v", e.TaskType, e.TaskID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UnknownTypeError reports a task creation against a name the registry does
// not know.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown task type: %s", e.Name)
}
