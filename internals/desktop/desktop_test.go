package desktop

import (
	"os/exec"
	"testing"
)

func TestNotifyEmptyTitle(t *testing.T) {
	if err := Notify("", "body"); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestNotifyUnsupportedPlatform(t *testing.T) {
	originalGOOS := RuntimeGOOS
	t.Cleanup(func() { RuntimeGOOS = originalGOOS })
	RuntimeGOOS = "plan9"

	if err := Notify("title", "body"); err == nil {
		t.Fatalf("expected error for unsupported platform")
	}
}

func TestNotifyUsesExecSeamOnLinux(t *testing.T) {
	originalExec := ExecCommand
	originalGOOS := RuntimeGOOS
	t.Cleanup(func() {
		ExecCommand = originalExec
		RuntimeGOOS = originalGOOS
	})

	RuntimeGOOS = "linux"
	var gotName string
	var gotArgs []string
	ExecCommand = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = append([]string(nil), args...)
		return exec.Command("sh", "-c", "true")
	}

	if err := Notify("Foreman", "a prompt is waiting"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "notify-send" {
		t.Fatalf("expected notify-send, got %s", gotName)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "Foreman" || gotArgs[1] != "a prompt is waiting" {
		t.Fatalf("expected title and body args, got %v", gotArgs)
	}
}

func TestNotifyEscapesAppleScript(t *testing.T) {
	originalExec := ExecCommand
	originalGOOS := RuntimeGOOS
	t.Cleanup(func() {
		ExecCommand = originalExec
		RuntimeGOOS = originalGOOS
	})

	RuntimeGOOS = "darwin"
	var gotArgs []string
	ExecCommand = func(name string, args ...string) *exec.Cmd {
		gotArgs = append([]string(nil), args...)
		return exec.Command("sh", "-c", "true")
	}

	if err := Notify(`say "yes"`, "body"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "-e" {
		t.Fatalf("expected osascript -e invocation, got %v", gotArgs)
	}
	want := `display notification "body" with title "say \"yes\""`
	if gotArgs[1] != want {
		t.Fatalf("expected %q, got %q", want, gotArgs[1])
	}
}
