package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/foremanhq/foreman/foremand/core"
	"github.com/foremanhq/foreman/foremand/tasks"
	"github.com/foremanhq/foreman/internals/assert"
	"github.com/foremanhq/foreman/internals/desktop"
	"github.com/foremanhq/foreman/internals/generate"
	"github.com/foremanhq/foreman/internals/prompt"
	"github.com/foremanhq/foreman/internals/task"
	"github.com/foremanhq/foreman/internals/toolbox"
	"github.com/foremanhq/foreman/sdk"
)

type Server struct {
	Core         *core.Core
	Prompts      *prompt.Broker
	Tools        *toolbox.Broker
	Registry     *task.Registry
	Orchestrator *task.Orchestrator
	store        *taskStore
	httpServer   *http.Server
}

func New(c *core.Core) *Server {
	storePath := filepath.Join(c.Config.Server.DataDir, "tasks", "tasks.db")
	err := os.MkdirAll(filepath.Dir(storePath), 0o755)
	assert.AssertNil(err, "[SERVER] Failed to create data directory")
	store, err := newTaskStore(storePath)
	assert.AssertNil(err, "[SERVER] Failed to initialize task store")

	backend, err := generate.New(c.Config.Generate, c.Env.ANTHROPIC_API_KEY)
	assert.AssertNil(err, "[SERVER] Failed to initialize generate backend")

	tools := toolbox.NewBroker()
	err = toolbox.RegisterBuiltins(tools, c.Workspace, c.RepoDir, backend)
	assert.AssertNil(err, "[SERVER] Failed to register tools")

	registry := task.NewRegistry()
	err = tasks.RegisterBuiltins(registry)
	assert.AssertNil(err, "[SERVER] Failed to register task types")

	prompts := prompt.New(func(p prompt.Prompt) {
		c.Logger.Info("Prompt raised",
			slog.String("kind", string(p.Kind())),
			slog.String("message", p.Message()),
		)
		if err := desktop.Notify("Foreman needs your input", p.Message()); err != nil {
			c.Logger.Warn("Failed to send desktop notification", slog.Any("error", err))
		}
	})

	owner := &task.Context{
		Config:   c.Config,
		RepoDir:  c.RepoDir,
		Logger:   c.Logger,
		Tools:    tools,
		Prompts:  prompts,
		Registry: registry,
	}

	return &Server{
		Core:         c,
		Prompts:      prompts,
		Tools:        tools,
		Registry:     registry,
		Orchestrator: task.NewOrchestrator(owner, newTaskRunner(store, c.Logger)),
		store:        store,
	}
}

// SafeStart starts the daemon unless one is already answering on BASE_URL.
func (s *Server) SafeStart() error {
	if sdk.IsRunning(s.Core.Env.BASE_URL) {
		return nil
	}

	go func() {
		s.Core.Logger.Info("starting server")
		err := s.Start()
		if err != nil {
			log.Fatal("[Foreman] Failed to start server: " + err.Error())
		}
	}()

	if sdk.WaitForStart(s.Core.Env.BASE_URL, s.Core.Logger) {
		return nil
	}

	return errors.New("couldn't start server")
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.Core.Env.LISTEN_ADDR)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler: s.Router(),
	}
	s.httpServer = server
	err = server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener asynchronously so the handler that requested
// it can still write its response.
func (s *Server) Shutdown() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if s.httpServer == nil {
			s.Core.Logger.Error("shutdown failed", "error", errors.New("server not initialized"))
			return
		}
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.Core.Logger.Error("shutdown failed", "error", err)
		}
	}()
}

// drain runs queued tasks in the background. Failures are already recorded
// by the runner; the log line is for the daemon operator.
func (s *Server) drain() {
	if err := s.Orchestrator.RunTasks(context.Background()); err != nil {
		s.Core.Logger.Error("Task drain halted", slog.Any("error", err))
	}
}
