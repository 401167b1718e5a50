package config

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/fractal"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.MaxDepth != 4 || cfg.MinDepth != 1 || cfg.MaxDepthLimit != 5 {
		t.Errorf("depths = %d/%d/%d, want 4/1/5", cfg.MaxDepth, cfg.MinDepth, cfg.MaxDepthLimit)
	}
	if len(cfg.Palette) != len(fractal.DefaultPalette) {
		t.Errorf("palette len = %d, want %d", len(cfg.Palette), len(fractal.DefaultPalette))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errs.Code
	}{
		{"negative min depth", func(c *Config) { c.MinDepth = -1 }, errs.ErrCodeInvalidDepth},
		{"limit below min", func(c *Config) { c.MinDepth = 3; c.MaxDepthLimit = 2; c.MaxDepth = 2 }, errs.ErrCodeInvalidDepth},
		{"limit above hard cap", func(c *Config) { c.MaxDepthLimit = HardDepthLimit + 1 }, errs.ErrCodeInvalidDepth},
		{"depth above limit", func(c *Config) { c.MaxDepth = 6 }, errs.ErrCodeInvalidDepth},
		{"depth below min", func(c *Config) { c.MaxDepth = 0 }, errs.ErrCodeInvalidDepth},
		{"zero width", func(c *Config) { c.Fractal.Width = 0 }, errs.ErrCodeInvalidConfig},
		{"negative radius", func(c *Config) { c.Tree.NodeRadius = -3 }, errs.ErrCodeInvalidConfig},
		{"negative top margin", func(c *Config) { c.Tree.TopMargin = -1 }, errs.ErrCodeInvalidConfig},
		{"negative level step", func(c *Config) { c.Tree.LevelStep = -10 }, errs.ErrCodeInvalidConfig},
		{"bad colour", func(c *Config) { c.Palette = []string{"#fff", "red"} }, errs.ErrCodeInvalidPalette},
		{"empty palette", func(c *Config) { c.Palette = nil }, errs.ErrCodeInvalidPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestValidateZeroMinDepth(t *testing.T) {
	cfg := Default()
	cfg.MinDepth = 0
	cfg.MaxDepth = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("depth 0 with min_depth 0 should be valid: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.MaxDepth = 2
	cfg.ApplyDefaults()

	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
	}
	if cfg.MaxDepthLimit != DefaultMaxDepthLimit {
		t.Errorf("MaxDepthLimit = %d, want %d", cfg.MaxDepthLimit, DefaultMaxDepthLimit)
	}
	if cfg.Tree.NodeRadius != DefaultNodeRadius {
		t.Errorf("NodeRadius = %g, want %g", cfg.Tree.NodeRadius, DefaultNodeRadius)
	}
	if cfg.Tree.Spread != 2 {
		t.Errorf("Spread = %g, want 2", cfg.Tree.Spread)
	}
	if len(cfg.Palette) == 0 {
		t.Error("palette should be filled")
	}
}

func TestDecodeKeepsDefaults(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{FormatTOML, "max_depth = 3\n\n[tree]\nnode_radius = 12\n"},
		{FormatYAML, "max_depth: 3\ntree:\n  node_radius: 12\n"},
		{FormatJSON, `{"max_depth": 3, "tree": {"node_radius": 12}}`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if cfg.MaxDepth != 3 {
				t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
			}
			if cfg.Tree.NodeRadius != 12 {
				t.Errorf("NodeRadius = %g, want 12", cfg.Tree.NodeRadius)
			}
			if cfg.Tree.Width != DefaultTreeWidth {
				t.Errorf("Tree.Width = %g, want default %g", cfg.Tree.Width, DefaultTreeWidth)
			}
			if cfg.Fractal.OriginY != DefaultOriginY {
				t.Errorf("OriginY = %g, want default %g", cfg.Fractal.OriginY, DefaultOriginY)
			}
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	if _, err := Decode([]byte("max_depth = 9\n"), FormatTOML); !errs.Is(err, errs.ErrCodeInvalidDepth) {
		t.Errorf("expected INVALID_DEPTH, got %v", err)
	}
	if _, err := Decode([]byte("max_depth = [\n"), FormatTOML); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for syntax error, got %v", err)
	}
	if _, err := Decode(nil, "ini"); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG for unknown format, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		err  bool
	}{
		{"trifractal.toml", FormatTOML, false},
		{"conf/TRIFRACTAL.YAML", FormatYAML, false},
		{"x.yml", FormatYAML, false},
		{"x.json", FormatJSON, false},
		{"x.ini", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.err {
			t.Errorf("FormatFromPath(%q) err = %v, want err %v", tt.path, err, tt.err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.MaxDepth = 2
	cfg.Palette = []string{"#000000", "#ffffff", "#ff0000"}

	for _, name := range []string{"c.toml", "c.yaml", "c.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Write(path, cfg); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.MaxDepth != 2 || len(got.Palette) != 3 || got.Palette[2] != "#ff0000" {
				t.Errorf("round trip mismatch: %+v", got)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
	var e *errs.Error
	if !errors.As(err, &e) || !errors.Is(e.Cause, fs.ErrNotExist) {
		t.Errorf("cause should be not-exist, got %v", err)
	}
}

func TestEncodeTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default(), FormatTOML); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"max_depth = 4", "[fractal]", "[tree]", "node_radius = 15.0"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("TOML output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Default()
	p1, p2, p3 := cfg.BaseTriangle()
	if p1 != (fractal.Point{X: 100, Y: 400}) || p2 != (fractal.Point{X: 400, Y: 400}) {
		t.Errorf("base = %v %v, want (100,400) (400,400)", p1, p2)
	}
	if p3.X != 250 {
		t.Errorf("apex x = %g, want 250", p3.X)
	}
	if s := cfg.Spacing(); s.TopMargin != 30 || s.Spread != 2 || s.LevelStep != 0 {
		t.Errorf("Spacing() = %+v", s)
	}
	if got := cfg.ColorPalette().At(0); got != fractal.DefaultPalette[0] {
		t.Errorf("ColorPalette().At(0) = %s", got)
	}
	if cfg.ClampDepth(9) != 5 || cfg.ClampDepth(-2) != 1 || cfg.ClampDepth(3) != 3 {
		t.Error("ClampDepth should limit to [1, 5]")
	}
}

func TestIsZero(t *testing.T) {
	if !(Config{}).IsZero() {
		t.Error("zero Config should report IsZero")
	}
	if Default().IsZero() {
		t.Error("Default() should not report IsZero")
	}
	if (Config{MaxDepth: 1}).IsZero() {
		t.Error("Config with MaxDepth set should not report IsZero")
	}
}
