package cliutil

import (
	"fmt"

	"github.com/foremanhq/foreman/internals/schemas"
	"github.com/foremanhq/foreman/internals/term"
)

// PrintTaskSummary writes a task's id, status, and whatever the workflow
// reported once it finished.
func PrintTaskSummary(response *schemas.TaskResponse) {
	fmt.Printf("task: %s\nstatus: %s\n", response.TaskID, response.Status)
	if response.Result != nil {
		if response.Result.Summary != "" {
			fmt.Printf("summary: %s\n", response.Result.Summary)
		}
		if response.Result.Attempts > 0 {
			fmt.Printf("test runs: %d\n", response.Result.Attempts)
		}
	}
	if response.Error != "" {
		fmt.Printf("error: %s\n", response.Error)
	}
}

// PrintPrompt writes a pending prompt and how to answer it.
func PrintPrompt(view *schemas.PromptView) {
	fmt.Printf("prompt (%s): %s\n", view.Type, view.Message)
	if view.Type == schemas.PromptTypeConfirm {
		fmt.Println("answer with: foreman answer --approve | --deny")
		return
	}
	fmt.Println("answer with: foreman answer <text>")
}

// PrintDaemonAddress writes the daemon's base URL, as a hyperlink when the
// terminal supports them.
func PrintDaemonAddress(baseURL string) {
	fmt.Printf("daemon: %s\n", term.ClickableLink(baseURL, baseURL))
}
