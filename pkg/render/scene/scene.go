// Package scene turns a laid-out fractal tree into flat lists of drawable
// primitives. It knows nothing about SVG, terminals or canvases; sinks
// consume its output.
//
// Every primitive carries an ID derived from the node's child path, so the
// root is "n", its third child "n-2" and that node's first child "n-2-0".
// IDs are stable across rebuilds of the same depth.
package scene

import (
	"strconv"

	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/session"
)

// Triangle is one filled polygon of the fractal view.
type Triangle struct {
	ID     string
	Depth  int
	Points [3]fractal.Point
	Color  fractal.Color
}

// Disc is one node of the tree view.
type Disc struct {
	ID          string
	Depth       int
	X, Y, R     float64
	Color       fractal.Color
	Highlighted bool
}

// Link is one parent to child edge of the tree view, running from the
// bottom of the parent disc to the top of the child disc.
type Link struct {
	FromID, ToID   string
	Depth          int // depth of the parent
	X1, Y1, X2, Y2 float64
	Color          fractal.Color // parent colour
}

// Scene bundles everything a renderer draws for one snapshot.
type Scene struct {
	Triangles []Triangle
	Nodes     []Disc
	Edges     []Link
}

// FromSnapshot extracts the full scene of a session snapshot.
func FromSnapshot(snap session.Snapshot) Scene {
	r := snap.Config.Tree.NodeRadius
	return Scene{
		Triangles: Triangles(snap.Root, snap.Selection),
		Nodes:     TreeNodes(snap.Root, snap.Selection, r),
		Edges:     TreeEdges(snap.Root, r),
	}
}

// Triangles lists the triangles to draw in pre-order: every node when the
// selection is inactive, otherwise only nodes at the selected depth.
func Triangles(root *fractal.Node, sel session.Selection) []Triangle {
	var out []Triangle
	walk(root, "n", func(n *fractal.Node, id string) {
		if !sel.Matches(n.Depth) {
			return
		}
		out = append(out, Triangle{ID: id, Depth: n.Depth, Points: n.Vertices(), Color: n.Color})
	})
	return out
}

// TreeNodes lists every node of the tree view in pre-order. Nodes at the
// selected depth are marked Highlighted.
func TreeNodes(root *fractal.Node, sel session.Selection, radius float64) []Disc {
	var out []Disc
	walk(root, "n", func(n *fractal.Node, id string) {
		out = append(out, Disc{
			ID:          id,
			Depth:       n.Depth,
			X:           n.LayoutX,
			Y:           n.LayoutY,
			R:           radius,
			Color:       n.Color,
			Highlighted: sel.Active && sel.Level == n.Depth,
		})
	})
	return out
}

// TreeEdges lists one link per parent and child pair in pre-order of the
// parent.
func TreeEdges(root *fractal.Node, radius float64) []Link {
	var out []Link
	walk(root, "n", func(n *fractal.Node, id string) {
		for i, c := range n.Children {
			out = append(out, Link{
				FromID: id,
				ToID:   childID(id, i),
				Depth:  n.Depth,
				X1:     n.LayoutX,
				Y1:     n.LayoutY + radius,
				X2:     c.LayoutX,
				Y2:     c.LayoutY - radius,
				Color:  n.Color,
			})
		}
	})
	return out
}

func walk(n *fractal.Node, id string, fn func(*fractal.Node, string)) {
	if n == nil {
		return
	}
	fn(n, id)
	for i, c := range n.Children {
		walk(c, childID(id, i), fn)
	}
}

func childID(parent string, i int) string {
	return parent + "-" + strconv.Itoa(i)
}
