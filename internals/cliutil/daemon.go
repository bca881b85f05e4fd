// Package cliutil holds the helpers the foreman CLI commands share: daemon
// lifecycle management, repository discovery, and terminal output.
package cliutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/foremanhq/foreman/internals/timeouts"
	"github.com/foremanhq/foreman/internals/version"
	"github.com/foremanhq/foreman/sdk"
)

// EnsureDaemonRunning guarantees a foremand matching this build is reachable.
// No daemon answering means start one; a daemon answering with a different
// version means shut it down and start a fresh one.
func EnsureDaemonRunning(client *sdk.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Probe)
	defer cancel()

	if remote, err := client.Version(ctx); err == nil {
		if strings.TrimSpace(remote) == strings.TrimSpace(version.Version()) {
			return nil
		}
		return replaceDaemon(client, remote)
	}

	if err := StartDaemon(); err != nil {
		return err
	}

	return waitForDaemon(client)
}

// StartDaemon spawns foremand detached from this process. When the working
// directory is inside a git repository the daemon is pinned to that
// repository via FOREMAN_ENV_REPO, so tasks run where the command was issued.
func StartDaemon() error {
	path, err := findDaemonBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if root, err := RepoRootFromCwd(); err == nil {
		cmd.Env = append(os.Environ(), "FOREMAN_ENV_REPO="+root)
	}
	return cmd.Start()
}

func waitForDaemon(client *sdk.Client) error {
	var lastErr error
	for i := 0; i < 8; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Probe)
		_, err := client.Version(ctx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * 150 * time.Millisecond)
	}

	if lastErr != nil {
		return lastErr
	}
	return errors.New("failed to reach foremand")
}

func replaceDaemon(client *sdk.Client, remoteVersion string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Shutdown(ctx); err != nil {
		if errors.Is(err, sdk.ErrShutdownUnsupported) {
			return fmt.Errorf("foremand %s is running; please stop it and retry", strings.TrimSpace(remoteVersion))
		}
		return fmt.Errorf("failed to shutdown foremand %s: %w", strings.TrimSpace(remoteVersion), err)
	}

	if err := waitForDaemonStop(client); err != nil {
		return fmt.Errorf("foremand %s did not stop: %w", strings.TrimSpace(remoteVersion), err)
	}

	if err := StartDaemon(); err != nil {
		return err
	}

	return waitForDaemon(client)
}

func waitForDaemonStop(client *sdk.Client) error {
	for i := 0; i < 8; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Probe)
		_, err := client.Version(ctx)
		cancel()
		if err != nil {
			return nil
		}
		time.Sleep(time.Duration(i+1) * 150 * time.Millisecond)
	}

	return errors.New("failed to stop foremand")
}

func findDaemonBinary() (string, error) {
	executable, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(executable), "foremand")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}

	path, err := exec.LookPath("foremand")
	if err != nil {
		return "", fmt.Errorf("foremand not found in PATH")
	}
	return path, nil
}
