// Package fractal builds the recursive subdivision tree behind a
// Sierpinski-style triangle.
//
// # Overview
//
// A [Tree] owns a single root [Node]. Every internal node is split into
// four children by edge midpoints: three corner triangles, each sharing one
// vertex with its parent, and an inverted centre triangle. Leaves sit at
// depth MaxDepth, so the tree is always a perfect 4-ary tree:
//
//	depth 0:            1 node
//	depth 1:            4 nodes
//	depth 2:           16 nodes
//	total (max d):     (4^(d+1) - 1) / 3
//
// Colours are a pure function of depth: palette[depth mod len(palette)].
//
// # Usage
//
//	p1, p2, p3 := fractal.BaseTriangle(fractal.Point{X: 100, Y: 400}, 300)
//	t := fractal.NewTree(4, fractal.DefaultPalette)
//	t.Build(p1, p2, p3)
//
//	fractal.Walk(t.Root, func(n *fractal.Node) bool {
//	    fmt.Println(n.Depth, n.Color)
//	    return true
//	})
//
// # Layout Fields
//
// [Node.LayoutX] and [Node.LayoutY] are the only fields mutated after
// construction. They are written by the layout subpackage and are
// meaningless until a layout pass has run. Rebuilding replaces the whole
// tree; nodes are never partially updated.
package fractal
