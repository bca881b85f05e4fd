package cliutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/timeouts"
	"github.com/foremanhq/foreman/sdk"
)

// ParseWaitTimeout parses a --wait-timeout value. Empty means the default.
func ParseWaitTimeout(raw string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return timeouts.WaitDefault, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid wait timeout: %w", err)
	}
	return value, nil
}

// WaitForTask polls the daemon until the task reaches a terminal status or
// the timeout elapses. Prompts raised while waiting are printed once so the
// caller knows the run is blocked on an answer, not hung. A failed task
// returns its final response alongside the error so callers can still print
// the summary.
func WaitForTask(client *sdk.Client, taskID string, timeout time.Duration) (*schemas.TaskResponse, error) {
	deadline := time.Now().Add(timeout)
	lastPrompt := ""
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		response, err := client.Task(ctx, taskID)
		cancel()
		if err != nil {
			return nil, err
		}
		switch response.Status {
		case schemas.TaskStatusSucceeded:
			return response, nil
		case schemas.TaskStatusFailed:
			if response.Error != "" {
				return response, fmt.Errorf("task failed: %s", response.Error)
			}
			return response, errors.New("task failed")
		default:
			lastPrompt = surfacePrompt(client, lastPrompt)
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("timed out waiting for task %s", taskID)
}

// surfacePrompt prints the pending prompt when it differs from the one
// already shown and returns the message to dedupe against next poll. An
// answered prompt clears the dedupe so a re-raised identical question prints
// again.
func surfacePrompt(client *sdk.Client, lastShown string) string {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.SecondShort)
	defer cancel()

	view, err := client.CurrentPrompt(ctx)
	if err != nil || view == nil {
		return ""
	}
	if view.Message != lastShown {
		PrintPrompt(view)
	}
	return view.Message
}
