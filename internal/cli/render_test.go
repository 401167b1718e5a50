package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"", defaultOutputBase},
		{"out.svg", "out"},
		{"build/out.json", "build/out"},
		{"build/out", "build/out"},
		{"out.v2", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"svg"}, "figure.xml")
	if got["svg"] != "figure.xml" {
		t.Errorf("single format with explicit file = %q, want figure.xml", got["svg"])
	}

	got = outputPaths([]string{"svg", "json"}, "out/fig.svg")
	if got["svg"] != "out/fig.svg" || got["json"] != "out/fig.json" {
		t.Errorf("multiple formats = %v", got)
	}

	got = outputPaths([]string{"png"}, "")
	if got["png"] != defaultOutputBase+".png" {
		t.Errorf("default output = %q", got["png"])
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "fig")

	_, err := execute(t, "render", "-d", "2", "-l", "1", "-f", "svg,json,dot", "-o", out, "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if n := strings.Count(string(svg), "<polygon"); n != 4 {
		t.Errorf("polygons = %d, want 4 (level 1 only)", n)
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json not written: %v", err)
	}
	dot, err := os.ReadFile(out + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph") {
		t.Errorf("dot output = %q", string(dot)[:20])
	}
}

func TestRenderCommandUsesFileCache(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(t.TempDir(), "fig.svg")

	if _, err := execute(t, "render", "-d", "1", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("render should populate the file cache")
	}
}

func TestRenderCommandRejectsInvalidInput(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"level above depth", []string{"render", "-d", "2", "-l", "3", "--no-cache"}},
		{"depth above limit", []string{"render", "-d", "9", "--no-cache"}},
		{"unknown format", []string{"render", "-f", "gif", "--no-cache"}},
		{"unknown view", []string{"render", "--view", "side", "--no-cache"}},
		{"unknown type", []string{"render", "-t", "tower", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}
