// Package prompt suspends running workflow steps until a human answers.
//
// A step raises a Prompt and blocks. The external boundary (HTTP, CLI, TUI)
// peeks at the oldest pending prompt and resolves it, which writes the answer
// into the prompt and unblocks exactly one waiting step. Prompts resolve
// strictly in raise order.
package prompt

// Prompt is a question for a human. The two variants are Input (free text)
// and Confirm (yes/no); the sealed method keeps the set closed so resolution
// can switch over it exhaustively.
type Prompt interface {
	Kind() Kind
	Message() string
	sealed()
}

type Kind string

const (
	KindInput   Kind = "input"
	KindConfirm Kind = "confirm"
)

// Input asks for free text. Response is set when the prompt is resolved.
type Input struct {
	Text     string
	Response string
	Answered bool
}

func NewInput(text string) *Input {
	return &Input{Text: text}
}

func (p *Input) Kind() Kind      { return KindInput }
func (p *Input) Message() string { return p.Text }
func (p *Input) sealed()         {}

// Confirm asks for approval. A false response aborts the raising step.
type Confirm struct {
	Text     string
	Response bool
	Answered bool
}

func NewConfirm(text string) *Confirm {
	return &Confirm{Text: text}
}

func (p *Confirm) Kind() Kind      { return KindConfirm }
func (p *Confirm) Message() string { return p.Text }
func (p *Confirm) sealed()         {}
