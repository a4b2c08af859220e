package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/graphlog-go/config"
	"github.com/masmgr/graphlog-go/internal/git"
	"github.com/masmgr/graphlog-go/internal/output"
)

func TestParseRenameDetectFlag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    git.RenameDetectMode
		wantErr bool
	}{
		{name: "DefaultAuto", input: "", want: git.RenameDetectSimple},
		{name: "OffAlias", input: "false", want: git.RenameDetectOff},
		{name: "SimpleAlias", input: "exact", want: git.RenameDetectSimple},
		{name: "AggressiveAlias", input: "similarity", want: git.RenameDetectAggressive},
		{name: "MixedCase", input: " Aggressive ", want: git.RenameDetectAggressive},
		{name: "Invalid", input: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRenameDetectFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseRenameDetectFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  output.OutputFormat
	}{
		{input: "json", want: output.FormatJSON},
		{input: "ndjson", want: output.FormatNDJSON},
		{input: "ci", want: output.FormatNDJSON},
		{input: "console", want: output.FormatConsole},
		{input: "unknown", want: output.FormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := getOutputFormat(tt.input); got != tt.want {
				t.Fatalf("getOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  output.ColorMode
	}{
		{input: "always", want: output.ColorAlways},
		{input: "never", want: output.ColorNever},
		{input: "auto", want: output.ColorAuto},
		{input: "", want: output.ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := getColorMode(tt.input); got != tt.want {
				t.Fatalf("getColorMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// loadConfigWith runs a bare app carrying the command flags and returns the
// configuration loadConfig builds from args.
func loadConfigWith(t *testing.T, args ...string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var cfg *config.Config
	app := &cli.App{
		Name: "graphlog",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config"},
		}, append(commonFlags(), revsetFlags()...)...),
		Action: func(c *cli.Context) error {
			var err error
			cfg, err = loadConfig(c)
			return err
		},
	}
	if err := app.Run(append([]string{"graphlog"}, args...)); err != nil {
		t.Fatalf("app.Run: %v", err)
	}
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfigWith(t)
	want := config.DefaultConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("loadConfig() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfig_CLIOverrides(t *testing.T) {
	cfg := loadConfigWith(t,
		"--git-cli",
		"--rename-detect", "off",
		"--closed-pattern", "archive/*",
		"--closed-pattern", "old/**",
		"--closed",
		"--hidden",
		"--obsolete",
		"--limit", "25",
		"--format", "json",
		"--color", "never",
	)

	if !cfg.Repository.UseGitCLI {
		t.Error("UseGitCLI not overridden")
	}
	if cfg.Repository.RenameDetect != "off" {
		t.Errorf("RenameDetect = %q, want off", cfg.Repository.RenameDetect)
	}
	if !reflect.DeepEqual(cfg.Repository.ClosedBranchPatterns, []string{"archive/*", "old/**"}) {
		t.Errorf("ClosedBranchPatterns = %v", cfg.Repository.ClosedBranchPatterns)
	}
	if !cfg.Graph.IncludeClosed || !cfg.Graph.IncludeHidden || !cfg.Graph.ShowObsolete {
		t.Errorf("Graph = %+v, want closed, hidden and obsolete enabled", cfg.Graph)
	}
	if cfg.Graph.MaxRows != 25 {
		t.Errorf("MaxRows = %d, want 25", cfg.Graph.MaxRows)
	}
	if cfg.Output.Format != "json" || cfg.Output.Colors != "never" {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	data := `{"graph": {"maxRows": 10, "showObsolete": true}, "output": {"format": "ndjson"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := loadConfigWith(t, "--config", path, "--limit", "3")
	if cfg.Graph.MaxRows != 3 {
		t.Errorf("MaxRows = %d, want flag value 3", cfg.Graph.MaxRows)
	}
	if !cfg.Graph.ShowObsolete {
		t.Error("ShowObsolete from file was lost")
	}
	if cfg.Output.Format != "ndjson" {
		t.Errorf("Format = %q, want ndjson from file", cfg.Output.Format)
	}
}
