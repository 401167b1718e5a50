// Package pipeline provides the build → layout → render pipeline shared by
// the CLI, the TUI export and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Subdivide the seed triangle into the construction tree
//  2. Layout: Place every node of the tree view
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Rendered artifacts are cached; building and layout are cheap enough to
// always run.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Config:  config.Default(),
//	    Level:   pipeline.Level(2),
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trifractal/pkg/cache"
	"github.com/matzehuels/trifractal/pkg/config"
	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/session"
)

// =============================================================================
// Default Values
// =============================================================================

// Visualization types.
const (
	// VizTypeFractal draws the triangles next to the hand-placed dendrogram.
	VizTypeFractal = "fractal"

	// VizTypeNodelink draws the construction tree with Graphviz.
	VizTypeNodelink = "nodelink"
)

// Views of the fractal visualization.
const (
	ViewBoth    = "both"
	ViewFractal = "fractal"
	ViewTree    = "tree"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = VizTypeFractal

	// DefaultView is the default view of the fractal visualization.
	DefaultView = ViewBoth

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeFractal:  true,
	VizTypeNodelink: true,
}

// ValidViews is the set of supported fractal views.
var ValidViews = map[string]bool{
	ViewBoth:    true,
	ViewFractal: true,
	ViewTree:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build and layout options. The zero value means config.Default.
	Config config.Config `json:"config"`

	// Level selects a depth to highlight. Nil shows all levels.
	Level *int `json:"level,omitempty"`

	// Render options
	VizType     string   `json:"viz_type,omitempty"`
	View        string   `json:"view,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Title       string   `json:"title,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Level returns a pointer to d, for Options.Level.
func Level(d int) *int { return &d }

// Selection converts Options.Level to a session selection.
func (o *Options) Selection() session.Selection {
	if o.Level == nil {
		return session.Selection{}
	}
	return session.Selection{Level: *o.Level, Active: true}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the built and laid-out state that was rendered.
	Snapshot session.Snapshot

	// Levels summarises the tree per depth.
	Levels []fractal.LevelStats

	// ConfigHash identifies the effective configuration.
	ConfigHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errs.New(errs.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: fractal, nodelink)", vizType)
	}
	return nil
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid view: %q (must be one of: both, fractal, tree)", view)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates the configuration and the selected level.
// A zero Config is replaced by config.Default.
func (o *Options) ValidateForBuild() error {
	if o.Config.IsZero() {
		o.Config = config.Default()
	}
	o.Config.ApplyDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Level != nil {
		if err := errs.ValidateLevel(*o.Level, o.Config.MaxDepth); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale cannot be negative (got %g)", o.Scale)
	}
	return nil
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(configHash, format string) cache.ArtifactKeyOpts {
	sel := o.Selection()
	return cache.ArtifactKeyOpts{
		ConfigHash: configHash,
		Level:      sel.Level,
		Selected:   sel.Active,
		VizType:    o.VizType,
		Format:     format,
		View:       o.View,
		Scale:      o.Scale,
		Detailed:   o.Detailed,
		Title:      o.Title,
		Interact:   o.Interactive,
	}
}
