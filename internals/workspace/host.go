package workspace

import "os"

// Host is the machine a workflow runs against. Tools go through it instead
// of the os and exec packages directly so tests can substitute a fake.
type Host interface {
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error

	// Exec runs command through the shell in dir. A command that starts and
	// exits nonzero is a result, not an error; the error return is for
	// commands that could not run at all.
	Exec(dir string, command string) (ExecResult, error)

	GitIsInsideWorkTree(repoPath string) error
	GitStatusPorcelain(repoPath string) (string, error)
	GitCommit(repoPath string, message string) error
}

type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
