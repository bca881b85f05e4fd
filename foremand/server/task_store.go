package server

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/foremanhq/foreman/internals/schemas"
)

//go:embed migrations/*.sql
var migrations embed.FS

// taskStore keeps the run history for GET /task/{id}. It is observational
// only: the orchestrator queue is in-memory and queued work does not survive
// a restart, but finished records do.
type taskStore struct {
	db *sql.DB
}

type taskRecord struct {
	ID          string
	Type        string
	Status      schemas.TaskStatus
	CreatedAt   string
	StartedAt   string
	FinishedAt  string
	Error       string
	PayloadJSON string
	ResultJSON  string
}

func newTaskStore(dbPath string) (*taskStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, err
	}
	return &taskStore{db: db}, nil
}

func newRecord(taskID string, taskType string, payload json.RawMessage) taskRecord {
	return taskRecord{
		ID:          taskID,
		Type:        taskType,
		Status:      schemas.TaskStatusPending,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		PayloadJSON: string(payload),
	}
}

func (s *taskStore) create(ctx context.Context, record taskRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO tasks (id, type, status, created_at, started_at, finished_at, error, payload_json, result_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, record.ID, record.Type, record.Status, record.CreatedAt, nullIfEmpty(record.StartedAt), nullIfEmpty(record.FinishedAt), nullIfEmpty(record.Error), nullIfEmpty(record.PayloadJSON), nullIfEmpty(record.ResultJSON))
	return err
}

// update writes a status transition. Timestamps and the result only move
// forward: empty fields in record leave the stored values untouched.
func (s *taskStore) update(ctx context.Context, record taskRecord) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE tasks
SET status = ?,
	started_at = COALESCE(?, started_at),
	finished_at = COALESCE(?, finished_at),
	error = ?,
	result_json = COALESCE(?, result_json)
WHERE id = ?
`, record.Status, nullIfEmpty(record.StartedAt), nullIfEmpty(record.FinishedAt), nullIfEmpty(record.Error), nullIfEmpty(record.ResultJSON), record.ID)
	return err
}

func (s *taskStore) get(ctx context.Context, id string) (*taskRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, type, status, created_at, started_at, finished_at, error, payload_json, result_json
FROM tasks
WHERE id = ?
`, id)

	var record taskRecord
	var status string
	var startedAt sql.NullString
	var finishedAt sql.NullString
	var errMsg sql.NullString
	var payloadJSON sql.NullString
	var resultJSON sql.NullString
	if err := row.Scan(&record.ID, &record.Type, &status, &record.CreatedAt, &startedAt, &finishedAt, &errMsg, &payloadJSON, &resultJSON); err != nil {
		return nil, err
	}
	record.Status = schemas.TaskStatus(status)
	record.StartedAt = startedAt.String
	record.FinishedAt = finishedAt.String
	record.Error = errMsg.String
	record.PayloadJSON = payloadJSON.String
	record.ResultJSON = resultJSON.String
	return &record, nil
}

func recordToResponse(record taskRecord, result *schemas.TaskResult) *schemas.TaskResponse {
	return &schemas.TaskResponse{
		TaskID:     record.ID,
		Type:       record.Type,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		Error:      record.Error,
		Result:     result,
	}
}

func decodeTaskResult(resultJSON string) (*schemas.TaskResult, error) {
	if resultJSON == "" {
		return nil, nil
	}
	var result schemas.TaskResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
