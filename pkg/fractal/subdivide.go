package fractal

// Build returns the root of the subdivision of p1 p2 p3 down to maxDepth.
//
// maxDepth must be non-negative; callers validate it at the configuration
// boundary. A degenerate input triangle is accepted and produces
// degenerate children.
func Build(p1, p2, p3 Point, maxDepth int, palette Palette) *Node {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return subdivide(p1, p2, p3, 0, maxDepth, palette)
}

func subdivide(p1, p2, p3 Point, depth, maxDepth int, palette Palette) *Node {
	n := &Node{Depth: depth, P1: p1, P2: p2, P3: p3, Color: palette.At(depth)}
	if depth >= maxDepth {
		return n
	}

	m12 := Midpoint(p1, p2)
	m23 := Midpoint(p2, p3)
	m31 := Midpoint(p3, p1)

	centerTop := Midpoint(m12, p3)
	centerLeft := Midpoint(m31, p2)
	centerRight := Midpoint(m23, p1)

	n.Children = []*Node{
		subdivide(p1, m12, m31, depth+1, maxDepth, palette),
		subdivide(m12, p2, m23, depth+1, maxDepth, palette),
		subdivide(m31, m23, p3, depth+1, maxDepth, palette),
		subdivide(centerTop, centerLeft, centerRight, depth+1, maxDepth, palette),
	}
	return n
}
