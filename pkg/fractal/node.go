package fractal

// Branching is the number of children of every internal node.
const Branching = 4

// Node is one triangular region at one recursion depth.
type Node struct {
	Depth      int
	P1, P2, P3 Point
	Color      Color

	// Children is empty for leaves, otherwise exactly Branching entries in
	// the order corner 1, corner 2, corner 3, centre.
	Children []*Node

	// LayoutX and LayoutY are display coordinates written by the layout
	// engine.
	LayoutX, LayoutY float64
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Vertices returns the three vertices in construction order.
func (n *Node) Vertices() [3]Point { return [3]Point{n.P1, n.P2, n.P3} }

// Area returns the unsigned area of the node's triangle.
func (n *Node) Area() float64 { return TriangleArea(n.P1, n.P2, n.P3) }

// Position returns the layout coordinates as a Point.
func (n *Node) Position() Point { return Point{X: n.LayoutX, Y: n.LayoutY} }

// Tree owns the root of a subdivision and the parameters it was built with.
type Tree struct {
	MaxDepth int
	Palette  Palette
	Root     *Node
}

// NewTree creates an empty tree. Call Build to populate it.
// A nil palette falls back to DefaultPalette.
func NewTree(maxDepth int, palette Palette) *Tree {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Tree{MaxDepth: maxDepth, Palette: palette}
}

// Build subdivides the triangle p1 p2 p3 down to t.MaxDepth and replaces
// t.Root with the result. The previous root is discarded, not mutated.
func (t *Tree) Build(p1, p2, p3 Point) {
	t.Root = Build(p1, p2, p3, t.MaxDepth, t.Palette)
}

// NodeCount returns the number of nodes in a perfect tree of the given
// height: (4^(maxDepth+1) - 1) / 3.
func NodeCount(maxDepth int) int {
	if maxDepth < 0 {
		return 0
	}
	pow := 1
	for i := 0; i <= maxDepth; i++ {
		pow *= Branching
	}
	return (pow - 1) / (Branching - 1)
}
