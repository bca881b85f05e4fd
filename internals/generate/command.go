package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/foremanhq/foreman/internals/conf"
)

type commandFunc func(name string, args ...string) *exec.Cmd

var execCommand commandFunc = exec.Command

// commandBackend shells out to a user-configured command. The request goes
// in as JSON on stdin; the generated text comes back on stdout.
type commandBackend struct {
	command string
}

func newCommandBackend(cfg conf.GenerateConfig) (*commandBackend, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("generate.command is not set")
	}
	return &commandBackend{command: cfg.Command}, nil
}

func (b *commandBackend) ID() conf.BackendID {
	return conf.BackendCommand
}

func (b *commandBackend) Generate(_ context.Context, req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	cmd := execCommand("sh", "-c", b.command)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message != "" {
			return "", fmt.Errorf("generate command failed: %s", message)
		}
		return "", fmt.Errorf("generate command failed: %w", err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.New("generate command returned no text")
	}
	return text, nil
}
