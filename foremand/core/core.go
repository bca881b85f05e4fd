// Package core wires the daemon's long-lived context: configuration,
// environment, logging, and the repository the workflows operate on. It is
// built once at startup and handed to the server explicitly.
package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/foremanhq/foreman/internals/conf"
	"github.com/foremanhq/foreman/internals/env"
	"github.com/foremanhq/foreman/internals/workspace"
)

type Core struct {
	Config    *conf.Config
	Env       *env.Env
	Logger    *slog.Logger
	LogFile   *os.File
	Workspace workspace.Host
	RepoDir   string
}

// New loads configuration and environment, initializes logging, and resolves
// the repository directory. It fails when the resolved directory is not a
// git worktree: every builtin workflow assumes one.
func New() (*Core, error) {
	environment, err := env.Parse()
	if err != nil {
		return nil, err
	}
	config, err := conf.Load()
	if err != nil {
		return nil, err
	}
	if config.Server.DataDir != "" {
		config.Server.DataDir = filepath.Clean(config.Server.DataDir)
	}

	logger, logFile := InitLogger(config)
	host := workspace.NewLocalHost()

	repoDir, err := resolveRepoDir(environment, config)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	if err := host.GitIsInsideWorkTree(repoDir); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("repository %s: %w", repoDir, err)
	}

	return &Core{
		Config:    config,
		Env:       environment,
		Logger:    logger,
		LogFile:   logFile,
		Workspace: host,
		RepoDir:   repoDir,
	}, nil
}

// resolveRepoDir picks the repository: FOREMAN_ENV_REPO wins, then the
// config's repo.dir, then the daemon's working directory.
func resolveRepoDir(environment *env.Env, config *conf.Config) (string, error) {
	if dir := strings.TrimSpace(environment.REPO); dir != "" {
		return conf.ExpandPath(dir)
	}
	if dir := strings.TrimSpace(config.Repo.Dir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return cwd, nil
}

func (c *Core) Close() {
	if c.LogFile != nil {
		c.LogFile.Close()
	}
}
