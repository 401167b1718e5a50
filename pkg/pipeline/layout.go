package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/trifractal/pkg/config"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/fractal/layout"
	"github.com/matzehuels/trifractal/pkg/observability"
)

// Build subdivides the configured seed triangle down to cfg.MaxDepth.
func Build(ctx context.Context, cfg config.Config) *fractal.Tree {
	observability.Pipeline().OnBuildStart(ctx, cfg.MaxDepth)
	start := time.Now()

	t := fractal.NewTree(cfg.MaxDepth, cfg.ColorPalette())
	t.Build(cfg.BaseTriangle())

	observability.Pipeline().OnBuildComplete(ctx, cfg.MaxDepth, fractal.Count(t.Root), time.Since(start), nil)
	return t
}

// Layout places the tree in the configured tree view.
func Layout(ctx context.Context, t *fractal.Tree, cfg config.Config, vizType string) {
	observability.Pipeline().OnLayoutStart(ctx, vizType, fractal.Count(t.Root))
	start := time.Now()

	layout.Apply(t.Root, t.MaxDepth, cfg.Tree.Width, cfg.Tree.Height, cfg.Spacing())

	observability.Pipeline().OnLayoutComplete(ctx, vizType, time.Since(start), nil)
}
