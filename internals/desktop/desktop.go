package desktop

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var ExecCommand = exec.Command
var RuntimeGOOS = runtime.GOOS

// Notify shows a desktop notification. It is best effort: callers use it to
// get an operator's attention when a workflow is blocked, and must not treat
// a failure here as a workflow failure.
func Notify(title, body string) error {
	if title == "" {
		return errors.New("title is empty")
	}

	var cmd *exec.Cmd
	switch RuntimeGOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s",
			appleScriptString(body), appleScriptString(title))
		cmd = ExecCommand("osascript", "-e", script)
	case "linux":
		cmd = ExecCommand("notify-send", title, body)
	default:
		return errors.New("unsupported platform")
	}

	return cmd.Run()
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
