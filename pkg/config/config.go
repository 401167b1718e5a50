// Package config holds the recognised options of a trifractal session and
// loads them from TOML or YAML files.
//
// Values not present in a file keep their defaults, so a config file only
// needs to list what it changes:
//
//	max_depth = 3
//	palette = ["#003f5c", "#58508d", "#bc5090", "#ff6361", "#ffa600"]
//
//	[tree]
//	node_radius = 12
//
// Validation happens here, at the configuration boundary. The subdivision
// and layout algorithms trust the values they are given.
package config

import (
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/fractal/layout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxDepth is the recursion depth of a new session.
	DefaultMaxDepth = 4

	// DefaultMinDepth is the smallest depth a session may switch to.
	DefaultMinDepth = 1

	// DefaultMaxDepthLimit is the largest depth a session may switch to.
	// Depth 5 already yields 1365 nodes.
	DefaultMaxDepthLimit = 5

	// HardDepthLimit caps MaxDepthLimit regardless of configuration.
	HardDepthLimit = 8

	DefaultFractalWidth  = 600.0
	DefaultFractalHeight = 500.0
	DefaultBaseSize      = 300.0
	DefaultOriginX       = 100.0
	DefaultOriginY       = 400.0

	DefaultTreeWidth  = 600.0
	DefaultTreeHeight = 600.0
	DefaultNodeRadius = 15.0
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete option set of a session.
type Config struct {
	// MaxDepth is the initial recursion depth.
	MaxDepth int `toml:"max_depth" yaml:"max_depth" json:"max_depth"`

	// MinDepth and MaxDepthLimit bound depth changes at runtime.
	MinDepth      int `toml:"min_depth" yaml:"min_depth" json:"min_depth"`
	MaxDepthLimit int `toml:"max_depth_limit" yaml:"max_depth_limit" json:"max_depth_limit"`

	Fractal FractalView `toml:"fractal" yaml:"fractal" json:"fractal"`
	Tree    TreeView    `toml:"tree" yaml:"tree" json:"tree"`

	// Palette is cycled by depth. Colours are #rgb or #rrggbb.
	Palette []string `toml:"palette" yaml:"palette" json:"palette"`
}

// FractalView sizes the triangle canvas and the seed triangle.
type FractalView struct {
	Width    float64 `toml:"width" yaml:"width" json:"width"`
	Height   float64 `toml:"height" yaml:"height" json:"height"`
	BaseSize float64 `toml:"base_size" yaml:"base_size" json:"base_size"`
	OriginX  float64 `toml:"origin_x" yaml:"origin_x" json:"origin_x"`
	OriginY  float64 `toml:"origin_y" yaml:"origin_y" json:"origin_y"`
}

// TreeView sizes the dendrogram canvas.
type TreeView struct {
	Width      float64 `toml:"width" yaml:"width" json:"width"`
	Height     float64 `toml:"height" yaml:"height" json:"height"`
	NodeRadius float64 `toml:"node_radius" yaml:"node_radius" json:"node_radius"`
	TopMargin  float64 `toml:"top_margin" yaml:"top_margin" json:"top_margin"`
	Spread     float64 `toml:"spread" yaml:"spread" json:"spread"`
	LevelStep  float64 `toml:"level_step" yaml:"level_step" json:"level_step"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		MinDepth:      DefaultMinDepth,
		MaxDepthLimit: DefaultMaxDepthLimit,
		Fractal: FractalView{
			Width:    DefaultFractalWidth,
			Height:   DefaultFractalHeight,
			BaseSize: DefaultBaseSize,
			OriginX:  DefaultOriginX,
			OriginY:  DefaultOriginY,
		},
		Tree: TreeView{
			Width:      DefaultTreeWidth,
			Height:     DefaultTreeHeight,
			NodeRadius: DefaultNodeRadius,
			TopMargin:  layout.DefaultTopMargin,
			Spread:     layout.DefaultSpread,
		},
		Palette: fractal.DefaultPalette.Strings(),
	}
}

// IsZero reports whether c is the zero Config, meaning nothing was set.
func (c Config) IsZero() bool {
	return c.MaxDepth == 0 && c.MinDepth == 0 && c.MaxDepthLimit == 0 &&
		c.Fractal == (FractalView{}) && c.Tree == (TreeView{}) && len(c.Palette) == 0
}

// ApplyDefaults fills zero-valued fields with defaults. Depth fields are
// left alone because zero is a meaningful depth.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.MaxDepthLimit == 0 {
		c.MaxDepthLimit = d.MaxDepthLimit
	}
	if c.Fractal.Width == 0 {
		c.Fractal.Width = d.Fractal.Width
	}
	if c.Fractal.Height == 0 {
		c.Fractal.Height = d.Fractal.Height
	}
	if c.Fractal.BaseSize == 0 {
		c.Fractal.BaseSize = d.Fractal.BaseSize
	}
	if c.Tree.Width == 0 {
		c.Tree.Width = d.Tree.Width
	}
	if c.Tree.Height == 0 {
		c.Tree.Height = d.Tree.Height
	}
	if c.Tree.NodeRadius == 0 {
		c.Tree.NodeRadius = d.Tree.NodeRadius
	}
	if c.Tree.Spread == 0 {
		c.Tree.Spread = d.Tree.Spread
	}
	if len(c.Palette) == 0 {
		c.Palette = d.Palette
	}
}

// =============================================================================
// Derived Values
// =============================================================================

// ColorPalette returns the palette as a fractal.Palette. Call Validate first;
// invalid colours fall back to the default palette.
func (c Config) ColorPalette() fractal.Palette {
	p, err := fractal.ParsePalette(c.Palette)
	if err != nil {
		return fractal.DefaultPalette
	}
	return p
}

// BaseTriangle returns the seed triangle vertices.
func (c Config) BaseTriangle() (p1, p2, p3 fractal.Point) {
	return fractal.BaseTriangle(fractal.Point{X: c.Fractal.OriginX, Y: c.Fractal.OriginY}, c.Fractal.BaseSize)
}

// Spacing returns the layout spacing of the tree view.
func (c Config) Spacing() layout.Spacing {
	return layout.Spacing{
		TopMargin: c.Tree.TopMargin,
		Spread:    c.Tree.Spread,
		LevelStep: c.Tree.LevelStep,
	}
}

// ClampDepth limits d to [MinDepth, MaxDepthLimit]. Used by interactive
// controls that step the depth up or down.
func (c Config) ClampDepth(d int) int {
	return max(c.MinDepth, min(c.MaxDepthLimit, d))
}
