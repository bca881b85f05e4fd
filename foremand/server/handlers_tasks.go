package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	z "github.com/Oudwins/zog"
	"github.com/go-chi/chi/v5"

	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
)

// HandlerCreateTask builds a task of the requested type (the configured
// default workflow when omitted), records it pending, and kicks off a drain.
// The response carries the record; progress is observed via GET /task/{id}
// and pending prompts via GET /prompt.
func (s *Server) HandlerCreateTask(w http.ResponseWriter, r *http.Request) {
	var request schemas.TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInvalidJson, "Invalid JSON", nil), Render.Status(http.StatusBadRequest))
		return
	}
	if issues := schemas.TaskCreateSchema.Validate(&request); len(issues) > 0 {
		payload := JsonResponseError(JsonResponseErrorCodeValidationFailed, "Schema validation failed", z.Issues.Flatten(issues))
		RenderJSON(w, r, payload, Render.Status(http.StatusBadRequest))
		return
	}

	taskType := request.Type
	if taskType == "" {
		taskType = s.Core.Config.Workflows.DefaultTask
	}

	created, err := s.Orchestrator.Create(taskType, nil, request.Payload)
	if err != nil {
		var unknown *task.UnknownTypeError
		if errors.As(err, &unknown) {
			RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeValidationFailed, unknown.Error(), nil), Render.Status(http.StatusBadRequest))
			return
		}
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeValidationFailed, err.Error(), nil), Render.Status(http.StatusBadRequest))
		return
	}

	// Record before enqueueing: an active drain may start the task
	// immediately and the runner's status updates need a row to land on.
	record := newRecord(created.ID(), created.Type(), request.Payload)
	if err := s.store.create(r.Context(), record); err != nil {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInternal, "Failed to record task", nil), Render.Status(http.StatusInternalServerError))
		return
	}
	s.Orchestrator.Enqueue(created)

	go s.drain()

	RenderJSON(w, r, recordToResponse(record, nil), Render.Status(http.StatusCreated))
}

func (s *Server) HandlerTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeValidationFailed, "task id is required", nil), Render.Status(http.StatusBadRequest))
		return
	}

	record, err := s.store.get(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeNotFound, "task not found", nil), Render.Status(http.StatusNotFound))
			return
		}
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInternal, "Failed to read task status", nil), Render.Status(http.StatusInternalServerError))
		return
	}

	result, err := decodeTaskResult(record.ResultJSON)
	if err != nil {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInternal, "Failed to decode task result", nil), Render.Status(http.StatusInternalServerError))
		return
	}

	RenderJSON(w, r, recordToResponse(*record, result))
}
