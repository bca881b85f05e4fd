package workspace

import (
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/foremanhq/foreman/internals/testutil"
)

func TestGitIsInsideWorkTreeCommand(t *testing.T) {
	original := execCommand
	t.Cleanup(func() {
		execCommand = original
	})

	var gotName string
	var gotArgs []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = append([]string(nil), args...)
		return exec.Command("sh", "-c", "printf true")
	}

	host := NewLocalHost()
	repoPath := "/tmp/repo"
	if err := host.GitIsInsideWorkTree(repoPath); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if gotName != "git" {
		t.Fatalf("expected exec name git, got %s", gotName)
	}
	expectedArgs := []string{"-C", repoPath, "rev-parse", "--is-inside-work-tree"}
	if !reflect.DeepEqual(gotArgs, expectedArgs) {
		t.Fatalf("expected args %v, got %v", expectedArgs, gotArgs)
	}
}

func TestExecSeparatesStreams(t *testing.T) {
	host := NewLocalHost()
	result, err := host.Exec(t.TempDir(), "printf out; printf err 1>&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stdout != "out" {
		t.Fatalf("expected stdout %q, got %q", "out", result.Stdout)
	}
	if result.Stderr != "err" {
		t.Fatalf("expected stderr %q, got %q", "err", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
}

func TestExecNonzeroExitIsAResult(t *testing.T) {
	host := NewLocalHost()
	result, err := host.Exec(t.TempDir(), "printf 'not ok'; exit 3")
	if err != nil {
		t.Fatalf("expected nonzero exit to be a result, got error %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if result.Stdout != "not ok" {
		t.Fatalf("expected stdout %q, got %q", "not ok", result.Stdout)
	}
}

func TestExecRunsInDir(t *testing.T) {
	dir := t.TempDir()
	host := NewLocalHost()
	result, err := host.Exec(dir, "pwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(result.Stdout)
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != want {
		t.Fatalf("expected cwd %q, got %q", want, resolved)
	}
}

func TestGitStatusPorcelainCleanAndDirty(t *testing.T) {
	repo := testutil.TempRepo(t)
	host := NewLocalHost()

	status, err := host.GitStatusPorcelain(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "" {
		t.Fatalf("expected clean status, got %q", status)
	}

	if err := os.WriteFile(filepath.Join(repo, "dirty.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err = host.GitStatusPorcelain(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(status, "dirty.txt") {
		t.Fatalf("expected dirty.txt in status, got %q", status)
	}
}

func TestGitCommitStagesAndCommits(t *testing.T) {
	repo := testutil.TempRepo(t)
	host := NewLocalHost()

	if err := os.WriteFile(filepath.Join(repo, "change.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := host.GitCommit(repo, "add change"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := host.GitStatusPorcelain(repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "" {
		t.Fatalf("expected clean status after commit, got %q", status)
	}

	result, err := host.Exec(repo, "git log -1 --format=%s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "add change" {
		t.Fatalf("expected commit message %q, got %q", "add change", result.Stdout)
	}
}

func TestGitCommitNothingToCommit(t *testing.T) {
	repo := testutil.TempRepo(t)
	host := NewLocalHost()

	if err := host.GitCommit(repo, "empty"); err == nil {
		t.Fatalf("expected error committing a clean worktree")
	}
}
