package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	z "github.com/Oudwins/zog"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Repo      RepoConfig      `json:"repo"`
	Workflows WorkflowsConfig `json:"workflows"`
	Generate  GenerateConfig  `json:"generate"`
}

type ServerConfig struct {
	DataDir string `json:"data_dir"`
}

type RepoConfig struct {
	// Dir is the repository the daemon operates on. Empty means the
	// daemon's working directory at startup.
	Dir string `json:"dir"`
}

type WorkflowsConfig struct {
	DefaultTask   string `json:"default_task"`
	TestCommand   string `json:"test_command"`
	FailureMarker string `json:"failure_marker"`
}

type GenerateConfig struct {
	Backend   BackendID `json:"backend"`
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Command   string    `json:"command"`
}

var serverSchema = z.Struct(z.Shape{
	"DataDir": z.String().Default("~/.local/share/foreman").Transform(expandPathTransform),
})

var repoSchema = z.Struct(z.Shape{
	"Dir": z.String().Optional().Trim().Transform(expandPathTransform),
})

var workflowsSchema = z.Struct(z.Shape{
	"DefaultTask":   z.String().Default("implement-request"),
	"TestCommand":   z.String().Default("npm test"),
	"FailureMarker": z.String().Default("not ok"),
})

var generateSchema = z.Struct(z.Shape{
	"Backend":   BackendIDSchema,
	"Model":     z.String().Default("claude-sonnet-4-20250514"),
	"MaxTokens": z.Int().Default(8192),
	"Command":   z.String().Optional().Trim(),
})

var ConfigSchema = z.Struct(z.Shape{
	"server":    serverSchema,
	"repo":      repoSchema,
	"workflows": workflowsSchema,
	"generate":  generateSchema,
})

// Load builds the configuration from schema defaults plus the optional JSON
// file at <data dir>/foreman.json. Callers own the result; nothing is cached
// at package level.
func Load() (*Config, error) {
	defaults := &Config{}
	if errs := ConfigSchema.Parse(map[string]any{}, defaults); errs != nil {
		return nil, fmt.Errorf("failed to parse config defaults: %s", z.Issues.FlattenAndCollect(errs))
	}

	configPath := filepath.Join(filepath.Clean(defaults.Server.DataDir), "foreman.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return defaults, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	parsed := &Config{}
	if errs := ConfigSchema.Parse(payload, parsed); errs != nil {
		return nil, fmt.Errorf("failed to parse config file: %s", z.Issues.FlattenAndCollect(errs))
	}
	return parsed, nil
}

func expandPathTransform(ptr *string, c z.Ctx) error {
	expanded, err := ExpandPath(*ptr)
	*ptr = expanded
	return err
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
