package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trifractal/pkg/cache"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/observability"
	"github.com/matzehuels/trifractal/pkg/session"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stages 1 and 2: Build and layout
	snap, stats := r.Prepare(ctx, opts)
	result.Snapshot = snap
	result.Stats = stats
	result.Levels = fractal.Levels(snap.Root)

	r.Logger.Info("built tree",
		"depth", snap.MaxDepth,
		"nodes", stats.NodeCount,
		"duration", stats.BuildTime+stats.LayoutTime)

	hash, err := cache.HashJSON(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}
	result.ConfigHash = hash

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, snap, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare builds and lays out the tree described by opts and returns the
// snapshot renderers consume. opts must be validated.
func (r *Runner) Prepare(ctx context.Context, opts Options) (session.Snapshot, Stats) {
	var stats Stats

	start := time.Now()
	t := Build(ctx, opts.Config)
	stats.BuildTime = time.Since(start)
	stats.NodeCount = fractal.Count(t.Root)

	start = time.Now()
	Layout(ctx, t, opts.Config, opts.VizType)
	stats.LayoutTime = time.Since(start)

	return session.Snapshot{
		Root:       t.Root,
		MaxDepth:   t.MaxDepth,
		Selection:  opts.Selection(),
		Config:     opts.Config,
		TreeWidth:  opts.Config.Tree.Width,
		TreeHeight: opts.Config.Tree.Height,
	}, stats
}

// RenderWithCacheInfo renders a snapshot with caching and reports whether
// every artifact came from the cache. configHash must identify the
// configuration that produced snap.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap session.Snapshot, configHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	opts.Level = nil
	if snap.Selection.Active {
		opts.Level = Level(snap.Selection.Level)
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(configHash, format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cacheKeyType)
				break
			}
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, snap, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(configHash, format))
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}

	return rendered, false, nil
}

// RenderSnapshot renders a live session snapshot, e.g. from the TUI or the
// HTTP API. The cache key covers the snapshot's configuration, selection
// and tree-view size.
func (r *Runner) RenderSnapshot(ctx context.Context, snap session.Snapshot, opts Options) (map[string][]byte, bool, error) {
	hash, err := cache.HashJSON(snap.LiveConfig())
	if err != nil {
		return nil, false, fmt.Errorf("hash config: %w", err)
	}
	return r.RenderWithCacheInfo(ctx, snap, hash, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
