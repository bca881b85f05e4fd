package schemas

import (
	"encoding/json"

	z "github.com/Oudwins/zog"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusSucceeded TaskStatus = "succeeded"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskCreateRequest is the POST /task body. Payload is opaque at this
// boundary; each task type validates its own payload at construction.
type TaskCreateRequest struct {
	Type    string          `json:"type" zog:"type"`
	Payload json.RawMessage `json:"payload" zog:"payload"`
}

// Type is optional: the server falls back to the configured default task.
var TaskCreateSchema = z.Struct(z.Shape{
	"Type": z.String().Optional().Trim(),
})

type TaskResult struct {
	Summary  string `json:"summary,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

type TaskResponse struct {
	TaskID     string      `json:"task_id"`
	Type       string      `json:"type"`
	Status     TaskStatus  `json:"status"`
	CreatedAt  string      `json:"created_at"`
	StartedAt  string      `json:"started_at,omitempty"`
	FinishedAt string      `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
	Result     *TaskResult `json:"result,omitempty"`
}
