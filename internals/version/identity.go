package version

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

var (
	identityOnce sync.Once
	identityVal  string
)

// Identity returns a build identity string that changes on rebuilds:
// the short vcs revision (with a -dirty marker) joined with a short hash of
// the running executable, whichever parts are available, or "unknown".
func Identity() string {
	identityOnce.Do(func() {
		identityVal = computeIdentity()
	})
	return identityVal
}

func computeIdentity() string {
	rev := vcsRevision()
	hash := executableHash()
	switch {
	case rev != "" && hash != "":
		return rev + "." + hash
	case rev != "":
		return rev
	case hash != "":
		return hash
	}
	return "unknown"
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = strings.TrimSpace(s.Value)
		case "vcs.modified":
			v := strings.ToLower(strings.TrimSpace(s.Value))
			dirty = v == "true" || v == "1"
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return revision
}

func executableHash() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return ""
	}
	f, err := os.Open(exe)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return sum
}
