package schemas

import "encoding/json"

type PromptType string

const (
	PromptTypeInput   PromptType = "input"
	PromptTypeConfirm PromptType = "confirm"
)

// PromptView is the GET /prompt body. Response is always present and null
// while the prompt is unresolved; peeking never mutates broker state, so a
// non-null response is never observed here.
type PromptView struct {
	Type     PromptType `json:"type"`
	Message  string     `json:"message"`
	Response any        `json:"response"`
}

// PromptResolveRequest is the POST /prompt body. Response stays raw so the
// handler can tell an absent field from a present one and decode per the
// pending prompt's variant (string for input, boolean for confirm).
type PromptResolveRequest struct {
	Response json.RawMessage `json:"response"`
}

type PromptResolveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
