package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type LocalHost struct{}

func NewLocalHost() *LocalHost {
	return &LocalHost{}
}

var _ Host = (*LocalHost)(nil)

type commandFunc func(name string, args ...string) *exec.Cmd

var execCommand commandFunc = exec.Command

func (l *LocalHost) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (l *LocalHost) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (l *LocalHost) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (l *LocalHost) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (l *LocalHost) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (l *LocalHost) Exec(dir string, command string) (ExecResult, error) {
	cmd := execCommand("sh", "-c", command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run command: %w", err)
	}
	return result, nil
}

func (l *LocalHost) GitIsInsideWorkTree(repoPath string) error {
	cmd := execCommand("git", "-C", repoPath, "rev-parse", "--is-inside-work-tree")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git check failed: %s", strings.TrimSpace(string(output)))
	}
	if strings.TrimSpace(string(output)) != "true" {
		return fmt.Errorf("not a git worktree")
	}
	return nil
}

// GitStatusPorcelain returns `git status --porcelain` output verbatim. An
// empty string means the worktree is clean.
func (l *LocalHost) GitStatusPorcelain(repoPath string) (string, error) {
	cmd := execCommand("git", "-C", repoPath, "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git status failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git status failed: %w", err)
	}
	return string(output), nil
}

// GitCommit stages everything and commits. Committing with nothing staged is
// an error, matching git's own behavior.
func (l *LocalHost) GitCommit(repoPath string, message string) error {
	add := execCommand("git", "-C", repoPath, "add", "-A")
	if output, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("git add failed: %s", strings.TrimSpace(string(output)))
	}
	commit := execCommand("git", "-C", repoPath, "commit", "-m", message)
	if output, err := commit.CombinedOutput(); err != nil {
		return fmt.Errorf("git commit failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}
