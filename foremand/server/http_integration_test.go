package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foremanhq/foreman/foremand/core"
	"github.com/foremanhq/foreman/foremand/tasks"
	"github.com/foremanhq/foreman/internals/conf"
	"github.com/foremanhq/foreman/internals/env"
	"github.com/foremanhq/foreman/internals/generate"
	"github.com/foremanhq/foreman/internals/prompt"
	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/testutil"
	"github.com/foremanhq/foreman/internals/toolbox"
	"github.com/foremanhq/foreman/internals/workspace"
)

type stubBackend struct {
	response string
}

func (s *stubBackend) ID() conf.BackendID {
	return "stub"
}

func (s *stubBackend) Generate(context.Context, generate.Request) (string, error) {
	return s.response, nil
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	repo := testutil.TempRepo(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	cfg := &conf.Config{}
	cfg.Server.DataDir = t.TempDir()
	cfg.Workflows.DefaultTask = tasks.TypeImplementRequest
	cfg.Workflows.TestCommand = "echo ok"
	cfg.Workflows.FailureMarker = "not ok"

	c := &core.Core{
		Config:    cfg,
		Env:       &env.Env{},
		Logger:    logger,
		Workspace: workspace.NewLocalHost(),
		RepoDir:   repo,
	}

	store, err := newTaskStore(testutil.TempDBPath(t))
	if err != nil {
		t.Fatalf("newTaskStore: %v", err)
	}

	tools := toolbox.NewBroker()
	if err := toolbox.RegisterBuiltins(tools, c.Workspace, repo, &stubBackend{response: "generated content"}); err != nil {
		t.Fatalf("register tools: %v", err)
	}
	registry := task.NewRegistry()
	if err := tasks.RegisterBuiltins(registry); err != nil {
		t.Fatalf("register tasks: %v", err)
	}
	prompts := prompt.New(nil)

	owner := &task.Context{
		Config:   cfg,
		RepoDir:  repo,
		Logger:   logger,
		Tools:    tools,
		Prompts:  prompts,
		Registry: registry,
	}

	server := &Server{
		Core:         c,
		Prompts:      prompts,
		Tools:        tools,
		Registry:     registry,
		Orchestrator: task.NewOrchestrator(owner, newTaskRunner(store, logger)),
		store:        store,
	}
	return server, repo
}

func waitForStatus(store *taskStore, taskID string, status schemas.TaskStatus) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, err := store.get(context.Background(), taskID)
		if err == nil && record.Status == status {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return errors.New("timeout waiting for status")
}

func waitForPromptView(t *testing.T, baseURL string) schemas.PromptView {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/prompt")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if strings.TrimSpace(string(body)) != "null" {
			var view schemas.PromptView
			if err := json.Unmarshal(body, &view); err != nil {
				t.Fatalf("decode prompt: %v", err)
			}
			return view
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected a pending prompt")
	return schemas.PromptView{}
}

func decodeErrorResponse(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var payload ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload
}

func TestHTTPVersion(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Get(client.URL + "/version")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if contentType := resp.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", contentType)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		t.Fatalf("expected version body")
	}
}

func TestHTTPPromptEmptyIsNull(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Get(client.URL + "/prompt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.TrimSpace(string(body)) != "null" {
		t.Fatalf("expected null body, got %q", string(body))
	}
}

func TestHTTPResolveWithoutPendingPrompt(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(`{"response":true}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	payload := decodeErrorResponse(t, resp)
	if payload.Code != JsonResponseErrorCodeNoPendingPrompt {
		t.Fatalf("expected no_pending_prompt, got %q", payload.Code)
	}
}

func TestHTTPResolveMissingResponse(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	for _, body := range []string{`{}`, `{"response":null}`} {
		resp, err := http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		payload := decodeErrorResponse(t, resp)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400 for %s, got %d", body, resp.StatusCode)
		}
		if payload.Code != JsonResponseErrorCodeValidationFailed {
			t.Fatalf("expected validation_failed for %s, got %q", body, payload.Code)
		}
	}
}

func TestHTTPPromptRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	raised := make(chan error, 1)
	go func() { raised <- server.Prompts.Approve("Continue anyway?") }()

	view := waitForPromptView(t, client.URL)
	if view.Type != schemas.PromptTypeConfirm {
		t.Fatalf("expected confirm prompt, got %q", view.Type)
	}
	if view.Message != "Continue anyway?" {
		t.Fatalf("unexpected message: %q", view.Message)
	}
	if view.Response != nil {
		t.Fatalf("expected null response while unresolved, got %v", view.Response)
	}

	resp, err := http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(`{"response":false}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	select {
	case err := <-raised:
		if !errors.Is(err, prompt.ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the raiser to unblock")
	}

	after, err := http.Get(client.URL + "/prompt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer after.Body.Close()
	body, err := io.ReadAll(after.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.TrimSpace(string(body)) != "null" {
		t.Fatalf("expected empty queue after resolution, got %q", string(body))
	}
}

func TestHTTPResolveWrongTypeKeepsPromptPending(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	raised := make(chan error, 1)
	go func() { raised <- server.Prompts.Approve("Proceed?") }()
	waitForPromptView(t, client.URL)

	resp, err := http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(`{"response":"yes"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	payload := decodeErrorResponse(t, resp)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if payload.Code != JsonResponseErrorCodeValidationFailed {
		t.Fatalf("expected validation_failed, got %q", payload.Code)
	}

	view := waitForPromptView(t, client.URL)
	if view.Message != "Proceed?" {
		t.Fatalf("expected the prompt to stay pending, got %q", view.Message)
	}

	resp, err = http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(`{"response":true}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if err := <-raised; err != nil {
		t.Fatalf("expected approval, got %v", err)
	}
}

func TestHTTPCreateTaskInvalidJSON(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Post(client.URL+"/task", "application/json", bytes.NewBufferString("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	payload := decodeErrorResponse(t, resp)
	if payload.Code != JsonResponseErrorCodeInvalidJson {
		t.Fatalf("expected invalid_json, got %q", payload.Code)
	}
}

func TestHTTPCreateTaskUnknownType(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Post(client.URL+"/task", "application/json", bytes.NewBufferString(`{"type":"no-such-type"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	payload := decodeErrorResponse(t, resp)
	if payload.Code != JsonResponseErrorCodeValidationFailed {
		t.Fatalf("expected validation_failed, got %q", payload.Code)
	}
}

func TestHTTPCreateTaskInvalidPayload(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	body := `{"type":"implement-request","payload":{"instruction":"do it"}}`
	resp, err := http.Post(client.URL+"/task", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHTTPTaskLifecycle(t *testing.T) {
	server, repo := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	body := `{"payload":{"instruction":"write notes","target":"notes.txt","test_command":"echo ok","commit_message":"write notes"}}`
	resp, err := http.Post(client.URL+"/task", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}
	var created schemas.TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.TaskID == "" {
		t.Fatalf("expected task id")
	}
	if created.Type != tasks.TypeImplementRequest {
		t.Fatalf("expected default task type, got %q", created.Type)
	}
	if created.Status != schemas.TaskStatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}

	if err := waitForStatus(server.store, created.TaskID, schemas.TaskStatusSucceeded); err != nil {
		t.Fatalf("wait for success: %v", err)
	}

	statusResp, err := http.Get(client.URL + "/task/" + created.TaskID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer statusResp.Body.Close()
	if statusResp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", statusResp.StatusCode)
	}
	var final schemas.TaskResponse
	if err := json.NewDecoder(statusResp.Body).Decode(&final); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if final.Status != schemas.TaskStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", final.Status)
	}
	if final.StartedAt == "" || final.FinishedAt == "" {
		t.Fatalf("expected timestamps, got %+v", final)
	}
	if final.Result == nil || final.Result.Summary != "write notes" {
		t.Fatalf("expected result summary, got %+v", final.Result)
	}

	data, err := os.ReadFile(filepath.Join(repo, "notes.txt"))
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if string(data) != "generated content" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

func TestHTTPTaskDeclinedPromptFailsRecord(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	body := `{"payload":{"instruction":"write notes","target":"notes.txt","test_command":"echo 'suite: not ok'"}}`
	resp, err := http.Post(client.URL+"/task", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created schemas.TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	view := waitForPromptView(t, client.URL)
	if view.Type != schemas.PromptTypeConfirm {
		t.Fatalf("expected confirm prompt, got %q", view.Type)
	}
	if !strings.Contains(view.Message, "failing") {
		t.Fatalf("unexpected prompt message: %q", view.Message)
	}

	answer, err := http.Post(client.URL+"/prompt", "application/json", bytes.NewBufferString(`{"response":false}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	answer.Body.Close()
	if answer.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", answer.StatusCode)
	}

	if err := waitForStatus(server.store, created.TaskID, schemas.TaskStatusFailed); err != nil {
		t.Fatalf("wait for failure: %v", err)
	}

	statusResp, err := http.Get(client.URL + "/task/" + created.TaskID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer statusResp.Body.Close()
	var final schemas.TaskResponse
	if err := json.NewDecoder(statusResp.Body).Decode(&final); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if final.Status != schemas.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", final.Status)
	}
	if !strings.Contains(final.Error, "aborted by user") {
		t.Fatalf("expected abort in record error, got %q", final.Error)
	}
	if final.FinishedAt == "" {
		t.Fatalf("expected finished timestamp, got %+v", final)
	}
}

func TestHTTPTaskStatusUnknown(t *testing.T) {
	server, _ := newTestServer(t)

	client := httptest.NewServer(server.Router())
	defer client.Close()

	resp, err := http.Get(client.URL + "/task/unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
	payload := decodeErrorResponse(t, resp)
	if payload.Code != JsonResponseErrorCodeNotFound {
		t.Fatalf("expected not_found, got %q", payload.Code)
	}
}
