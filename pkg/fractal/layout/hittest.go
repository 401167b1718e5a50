package layout

import "github.com/matzehuels/trifractal/pkg/fractal"

// HitTest returns the first node, in pre-order, whose layout position is
// within radius of p. The boolean is false when no node matches.
func HitTest(root *fractal.Node, p fractal.Point, radius float64) (*fractal.Node, bool) {
	if root == nil || radius < 0 {
		return nil, false
	}
	r2 := radius * radius

	var hit *fractal.Node
	fractal.Walk(root, func(n *fractal.Node) bool {
		if fractal.Dist2(n.Position(), p) <= r2 {
			hit = n
			return false
		}
		return true
	})
	return hit, hit != nil
}
