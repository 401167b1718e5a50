package fractal

// Walk visits root and its descendants in pre-order. Returning false from
// fn stops the walk; Walk then returns false as well.
func Walk(root *Node, fn func(*Node) bool) bool {
	if root == nil {
		return true
	}
	if !fn(root) {
		return false
	}
	for _, c := range root.Children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes reachable from root.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node) bool { n++; return true })
	return n
}

// Height returns the length of the longest root-to-leaf path, or -1 for a
// nil root.
func Height(root *Node) int {
	if root == nil {
		return -1
	}
	h := 0
	for _, c := range root.Children {
		h = max(h, Height(c)+1)
	}
	return h
}

// LevelStats summarises the nodes at one depth.
type LevelStats struct {
	Depth int     `json:"depth"`
	Count int     `json:"count"`
	Area  float64 `json:"area"`
	Color Color   `json:"color"`
}

// Levels returns per-depth statistics, indexed by depth.
func Levels(root *Node) []LevelStats {
	var out []LevelStats
	Walk(root, func(n *Node) bool {
		for len(out) <= n.Depth {
			out = append(out, LevelStats{Depth: len(out)})
		}
		s := &out[n.Depth]
		s.Count++
		s.Area += n.Area()
		s.Color = n.Color
		return true
	})
	return out
}
