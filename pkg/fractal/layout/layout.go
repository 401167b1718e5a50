package layout

import (
	"math"

	"github.com/matzehuels/trifractal/pkg/fractal"
)

// Default spacing parameters.
const (
	// DefaultTopMargin is the y coordinate of the root.
	DefaultTopMargin = 30.0

	// DefaultSpread widens the initial horizontal spacing so the first
	// generation uses most of the canvas width.
	DefaultSpread = 2.0
)

// Spacing tunes a layout pass.
type Spacing struct {
	// TopMargin is the root's y coordinate.
	TopMargin float64 `json:"top_margin"`

	// Spread multiplies the initial horizontal spacing width/2^(maxDepth+1).
	Spread float64 `json:"spread"`

	// LevelStep is a fixed vertical distance between generations. Zero
	// divides the canvas height evenly across maxDepth+1 levels.
	LevelStep float64 `json:"level_step"`
}

// DefaultSpacing returns the spacing used when none is configured.
func DefaultSpacing() Spacing {
	return Spacing{TopMargin: DefaultTopMargin, Spread: DefaultSpread}
}

// withDefaults replaces a non-positive Spread. TopMargin is used as given.
func (s Spacing) withDefaults() Spacing {
	if s.Spread <= 0 {
		s.Spread = DefaultSpread
	}
	return s
}

// InitialDX returns the horizontal spacing used for the root's children.
func (s Spacing) InitialDX(width float64, maxDepth int) float64 {
	s = s.withDefaults()
	return width / math.Pow(2, float64(maxDepth+1)) * s.Spread
}

// LevelDY returns the vertical step used for every generation.
func (s Spacing) LevelDY(height float64, maxDepth int) float64 {
	if s.LevelStep > 0 {
		return s.LevelStep
	}
	return height / float64(maxDepth+1)
}

// Apply assigns LayoutX/LayoutY to every node reachable from root.
// Every call recomputes all positions from scratch.
func Apply(root *fractal.Node, maxDepth int, width, height float64, s Spacing) {
	if root == nil {
		return
	}
	s = s.withDefaults()
	place(root, width/2, s.TopMargin, s.InitialDX(width, maxDepth), s.LevelDY(height, maxDepth))
}

func place(n *fractal.Node, x, y, dx, dy float64) {
	n.LayoutX, n.LayoutY = x, y

	k := len(n.Children)
	if k == 0 {
		return
	}
	start := x - dx*float64(k-1)/2
	for i, c := range n.Children {
		place(c, start+float64(i)*dx, y+dy, dx/2, dy)
	}
}

// Rect is an axis aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Bounds returns the box spanned by the layout positions of root and its
// descendants.
func Bounds(root *fractal.Node) Rect {
	if root == nil {
		return Rect{}
	}
	r := Rect{MinX: root.LayoutX, MinY: root.LayoutY, MaxX: root.LayoutX, MaxY: root.LayoutY}
	fractal.Walk(root, func(n *fractal.Node) bool {
		r.MinX = min(r.MinX, n.LayoutX)
		r.MaxX = max(r.MaxX, n.LayoutX)
		r.MinY = min(r.MinY, n.LayoutY)
		r.MaxY = max(r.MaxY, n.LayoutY)
		return true
	})
	return r
}
