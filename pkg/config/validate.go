package config

import (
	errs "github.com/matzehuels/trifractal/pkg/errors"
)

// Validate rejects configurations the algorithms cannot honour.
func (c Config) Validate() error {
	if c.MinDepth < 0 {
		return errs.New(errs.ErrCodeInvalidDepth, "min_depth cannot be negative (got %d)", c.MinDepth)
	}
	if c.MaxDepthLimit < c.MinDepth {
		return errs.New(errs.ErrCodeInvalidDepth, "max_depth_limit %d is below min_depth %d", c.MaxDepthLimit, c.MinDepth)
	}
	if c.MaxDepthLimit > HardDepthLimit {
		return errs.New(errs.ErrCodeInvalidDepth, "max_depth_limit %d exceeds hard limit %d", c.MaxDepthLimit, HardDepthLimit)
	}
	if err := errs.ValidateDepth(c.MaxDepth, c.MinDepth, c.MaxDepthLimit); err != nil {
		return err
	}

	dims := []struct {
		name  string
		value float64
	}{
		{"fractal.width", c.Fractal.Width},
		{"fractal.height", c.Fractal.Height},
		{"fractal.base_size", c.Fractal.BaseSize},
		{"tree.width", c.Tree.Width},
		{"tree.height", c.Tree.Height},
		{"tree.node_radius", c.Tree.NodeRadius},
		{"tree.spread", c.Tree.Spread},
	}
	for _, d := range dims {
		if err := errs.ValidateDimension(d.name, d.value); err != nil {
			return err
		}
	}
	if err := errs.ValidateNonNegative("tree.top_margin", c.Tree.TopMargin); err != nil {
		return err
	}
	if err := errs.ValidateNonNegative("tree.level_step", c.Tree.LevelStep); err != nil {
		return err
	}
	return errs.ValidatePalette(c.Palette)
}
