package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/foremanhq/foreman/internals/prompt"
	"github.com/foremanhq/foreman/internals/schemas"
)

// HandlerCurrentPrompt returns the oldest unresolved prompt, or a literal
// null body when nothing is pending. Peeking never mutates broker state, so
// polling this endpoint is always safe.
func (s *Server) HandlerCurrentPrompt(w http.ResponseWriter, r *http.Request) {
	current := s.Prompts.PeekCurrent()
	if current == nil {
		RenderJSON(w, r, nil)
		return
	}
	RenderJSON(w, r, promptToView(current))
}

func (s *Server) HandlerResolvePrompt(w http.ResponseWriter, r *http.Request) {
	var request schemas.PromptResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInvalidJson, "Invalid JSON", nil), Render.Status(http.StatusBadRequest))
		return
	}

	response, err := decodePromptResponse(request.Response)
	if err != nil {
		RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeValidationFailed, err.Error(), nil), Render.Status(http.StatusBadRequest))
		return
	}

	if err := s.Prompts.ResolveCurrent(response); err != nil {
		switch {
		case errors.Is(err, prompt.ErrNoPending):
			RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeNoPendingPrompt, "no pending prompt", nil), Render.Status(http.StatusBadRequest))
		case errors.Is(err, prompt.ErrInvalidResponse):
			RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeValidationFailed, err.Error(), nil), Render.Status(http.StatusBadRequest))
		default:
			RenderJSON(w, r, JsonResponseError(JsonResponseErrorCodeInternal, "Failed to resolve prompt", nil), Render.Status(http.StatusInternalServerError))
		}
		return
	}

	RenderJSON(w, r, schemas.PromptResolveResponse{Status: "success", Message: "prompt resolved"})
}

func promptToView(p prompt.Prompt) schemas.PromptView {
	return schemas.PromptView{
		Type:    schemas.PromptType(p.Kind()),
		Message: p.Message(),
	}
}

// decodePromptResponse accepts the two wire shapes: a JSON boolean for
// Confirm and a JSON string for Input. Absent and null both fail; the broker
// checks the type against the pending variant.
func decodePromptResponse(raw json.RawMessage) (any, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, errors.New("response is required")
	}
	var asBool bool
	if err := json.Unmarshal(raw, &asBool); err == nil {
		return asBool, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}
	return nil, errors.New("response must be a string or a boolean")
}
