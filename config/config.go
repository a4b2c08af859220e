package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/masmgr/graphlog-go/internal/obsolete"
)

// FileName is the configuration file looked up when no path is given.
const FileName = ".graphlog.json"

// Config is the root configuration structure.
type Config struct {
	Graph      GraphConfig      `json:"graph"`
	Repository RepositoryConfig `json:"repository"`
	Obsolete   ObsoleteConfig   `json:"obsolete"`
	Output     OutputConfig     `json:"output"`
}

// GraphConfig holds graph building options.
type GraphConfig struct {
	FillStep      int  `json:"fillStep"`      // Rows built per burst when streaming
	ShowObsolete  bool `json:"showObsolete"`  // Draw weak edges to precursors
	IncludeClosed bool `json:"includeClosed"` // Show revisions only reachable from closed branches
	IncludeHidden bool `json:"includeHidden"` // Show revisions not reachable from any reference
	MaxRows       int  `json:"maxRows"`       // 0 means unlimited
}

// RepositoryConfig holds repository indexing options.
type RepositoryConfig struct {
	DefaultBranch        string   `json:"defaultBranch"`        // Empty shows every branch
	UseGitCLI            bool     `json:"useGitCli"`            // Index with `git log` instead of go-git
	ClosedBranchPatterns []string `json:"closedBranchPatterns"` // Glob patterns over branch names
	RenameDetect         string   `json:"renameDetect"`         // off, simple or aggressive
}

// ObsoleteConfig holds precursor detection configuration.
type ObsoleteConfig struct {
	Patterns []string `json:"patterns"` // Regex patterns whose first group is a precursor hash
}

// OutputConfig holds output options.
type OutputConfig struct {
	Format string `json:"format"` // console, json or ndjson
	Colors string `json:"colors"` // auto, always or never
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			FillStep: 500,
		},
		Repository: RepositoryConfig{
			ClosedBranchPatterns: []string{},
			RenameDetect:         "simple",
		},
		Obsolete: ObsoleteConfig{
			Patterns: append([]string(nil), obsolete.DefaultPatterns...),
		},
		Output: OutputConfig{
			Format: "console",
			Colors: "auto",
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
