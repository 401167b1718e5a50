package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/trifractal/pkg/cache"
	"github.com/matzehuels/trifractal/pkg/config"
	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/session"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"fractal", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestValidateView(t *testing.T) {
	for _, v := range []string{"both", "fractal", "tree"} {
		if err := ValidateView(v); err != nil {
			t.Errorf("ValidateView(%q) = %v", v, err)
		}
	}
	if err := ValidateView("left"); err == nil {
		t.Error("unknown view should fail")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}
	if opts.Config.MaxDepth != config.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want default %d", opts.Config.MaxDepth, config.DefaultMaxDepth)
	}
	if opts.VizType != VizTypeFractal || opts.View != ViewBoth {
		t.Errorf("viz/view = %s/%s", opts.VizType, opts.View)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g", opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("second call should be a no-op")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"level above depth", Options{Level: Level(5)}, errs.ErrCodeInvalidLevel},
		{"negative level", Options{Level: Level(-1)}, errs.ErrCodeInvalidLevel},
		{"bad viz", Options{VizType: "tower"}, errs.ErrCodeInvalidVizType},
		{"bad format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"bad view", Options{View: "side"}, errs.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -1}, errs.ErrCodeInvalidInput},
		{"bad config", Options{Config: func() config.Config {
			c := config.Default()
			c.MaxDepth = 9
			return c
		}()}, errs.ErrCodeInvalidDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Level:   Level(2),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.NodeCount != 341 {
		t.Errorf("NodeCount = %d, want 341", res.Stats.NodeCount)
	}
	if len(res.Levels) != 5 || res.Levels[2].Count != 16 {
		t.Errorf("Levels = %+v", res.Levels)
	}
	if !res.Snapshot.Selection.Active || res.Snapshot.Selection.Level != 2 {
		t.Errorf("Selection = %+v", res.Snapshot.Selection)
	}
	if got := strings.Count(string(res.Artifacts[FormatSVG]), "<polygon"); got != 16 {
		t.Errorf("svg polygons = %d, want 16", got)
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G") {
		t.Error("dot artifact is not a digraph")
	}
	if res.CacheHit {
		t.Error("NullCache should never hit")
	}
	if len(res.ConfigHash) != 64 {
		t.Errorf("ConfigHash = %q", res.ConfigHash)
	}
}

func TestExecuteNodelinkDOT(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	cfg := config.Default()
	cfg.MaxDepth = 1
	res, err := r.Execute(context.Background(), Options{
		Config:  cfg,
		VizType: VizTypeNodelink,
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.Count(string(res.Artifacts[FormatDOT]), "->"); got != 4 {
		t.Errorf("edges = %d, want 4", got)
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	mem := newMemCache()
	r := NewRunner(mem, nil, nil)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}
	if mem.sets != 2 {
		t.Errorf("sets = %d, want 2", mem.sets)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	// A different selection renders again.
	opts.Level = Level(1)
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("different level should miss")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("refresh should not hit")
	}
}

func TestRenderSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := newMemCache()
	r := NewRunner(mem, nil, nil)

	s, err := session.New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SelectLevel(3); err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatSVG}}
	art, hit, err := r.RenderSnapshot(ctx, s.Snapshot(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first render should miss")
	}
	if got := strings.Count(string(art[FormatSVG]), "<polygon"); got != 64 {
		t.Errorf("polygons = %d, want 64", got)
	}

	if _, hit, _ := r.RenderSnapshot(ctx, s.Snapshot(), opts); !hit {
		t.Error("same snapshot should hit")
	}

	s.ShowAll()
	if _, hit, _ := r.RenderSnapshot(ctx, s.Snapshot(), opts); hit {
		t.Error("changed selection should miss")
	}
	if err := s.Resize(500, 500); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := r.RenderSnapshot(ctx, s.Snapshot(), opts); hit {
		t.Error("resized tree view should miss")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Level: Level(2), Formats: []string{"svg"}}
	opts.SetRenderDefaults()
	k := opts.ArtifactKeyOpts("h", "svg")
	if k.Level != 2 || !k.Selected || k.ConfigHash != "h" || k.Format != "svg" || k.VizType != VizTypeFractal {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}

// memCache is an in-memory cache.Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)
