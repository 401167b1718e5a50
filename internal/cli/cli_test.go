package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trifractal/pkg/config"
)

// isolate points the XDG directories at a temp dir so tests never touch
// the real cache or config, and returns that dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("TRIFRACTAL_REDIS_URL", "")
	return dir
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,json", []string{"svg", "pdf", "json"}},
		{"dot only", "dot", []string{"dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefault(t *testing.T) {
	isolate(t)
	c := New(io.Discard, log.InfoLevel)

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.MaxDepth != config.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, config.DefaultMaxDepth)
	}
}

func TestLoadConfigFromDefaultPath(t *testing.T) {
	isolate(t)
	path, err := defaultConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("max_depth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	isolate(t)
	c := New(io.Discard, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")

	if _, err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with a missing --config file should fail")
	}
}

func TestDepthFlagsApply(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDepth int
		wantLimit int
	}{
		{"no flags", nil, config.DefaultMaxDepth, config.DefaultMaxDepthLimit},
		{"depth and limit", []string{"-d", "2", "--depth-limit", "6"}, 2, 6},
		{"zero depth", []string{"--depth", "0"}, 0, config.DefaultMaxDepthLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f depthFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			cfg := config.Default()
			f.apply(&cfg)
			if cfg.MaxDepth != tt.wantDepth || cfg.MaxDepthLimit != tt.wantLimit {
				t.Errorf("apply() = (%d, %d), want (%d, %d)", cfg.MaxDepth, cfg.MaxDepthLimit, tt.wantDepth, tt.wantLimit)
			}
		})
	}
}

func TestTreeCommandDepthZero(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "zero.toml")
	if err := os.WriteFile(path, []byte("min_depth = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", path, "tree", "-d", "0")
	if err != nil {
		t.Fatalf("tree -d 0: %v", err)
	}
	if !strings.Contains(out, "1 nodes across 1 levels") {
		t.Errorf("tree -d 0 should summarise a single node:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	want := filepath.Join(dir, "config", appName, configFileName)
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config init did not write %s: %v", want, err)
	}

	out, err = execute(t, "config", "show", "-f", "yaml")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "max_depth: 4") {
		t.Errorf("config show output missing max_depth:\n%s", out)
	}

	if _, err := execute(t, "config", "show", "-f", "ini"); err == nil {
		t.Error("config show with unknown format should fail")
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(dir, "cache", appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
