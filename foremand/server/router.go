package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.MiddlewareLogger)
	r.Get("/version", s.HandlerVersion)
	r.Post("/shutdown", s.HandlerShutdown)
	r.Get("/prompt", s.HandlerCurrentPrompt)
	r.Post("/prompt", s.HandlerResolvePrompt)
	r.Post("/task", s.HandlerCreateTask)
	r.Get("/task/{id}", s.HandlerTaskStatus)
	return r
}
