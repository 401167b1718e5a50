package layout

import (
	"testing"

	"github.com/matzehuels/trifractal/pkg/fractal"
)

func TestHitTestRoot(t *testing.T) {
	root := buildTree(0)
	Apply(root, 0, 600, 600, DefaultSpacing())

	got, ok := HitTest(root, fractal.Point{X: 300, Y: DefaultTopMargin}, 15)
	if !ok || got != root {
		t.Fatalf("HitTest at root position = %v, %v", got, ok)
	}
}

func TestHitTestRadiusBoundary(t *testing.T) {
	root := buildTree(0)
	Apply(root, 0, 600, 600, DefaultSpacing())

	if _, ok := HitTest(root, fractal.Point{X: 315, Y: DefaultTopMargin}, 15); !ok {
		t.Error("point exactly at radius should hit")
	}
	if _, ok := HitTest(root, fractal.Point{X: 315.01, Y: DefaultTopMargin}, 15); ok {
		t.Error("point just outside radius should miss")
	}
}

func TestHitTestMiss(t *testing.T) {
	root := buildTree(3)
	Apply(root, 3, 600, 600, DefaultSpacing())

	if n, ok := HitTest(root, fractal.Point{X: -500, Y: -500}, 15); ok || n != nil {
		t.Errorf("far point should miss, got %+v", n)
	}
}

func TestHitTestFindsDeepNode(t *testing.T) {
	root := buildTree(3)
	Apply(root, 3, 600, 600, DefaultSpacing())

	target := root.Children[2].Children[1]
	got, ok := HitTest(root, target.Position(), 1)
	if !ok || got != target {
		t.Fatalf("HitTest = %+v, want node at depth %d", got, target.Depth)
	}
}

func TestHitTestPreOrderWins(t *testing.T) {
	root := buildTree(1)
	Apply(root, 1, 600, 600, DefaultSpacing())

	// A radius covering everything resolves to the first node visited.
	got, ok := HitTest(root, root.Children[3].Position(), 10000)
	if !ok || got != root {
		t.Errorf("overlapping hit should return root, got %+v", got)
	}

	// Between two siblings, the earlier one wins even if the later is nearer.
	a, b := root.Children[0], root.Children[1]
	p := fractal.Point{X: (a.LayoutX+b.LayoutX)/2 + 1, Y: a.LayoutY}
	r := (b.LayoutX-a.LayoutX)/2 + 1
	if fractal.Dist2(b.Position(), p) >= fractal.Dist2(a.Position(), p) {
		t.Fatal("test point should be nearer to the second sibling")
	}
	got, ok = HitTest(root, p, r)
	if !ok || got != a {
		t.Errorf("tie should resolve to the earlier sibling")
	}
}

func TestHitTestNilAndNegativeRadius(t *testing.T) {
	if _, ok := HitTest(nil, fractal.Point{}, 10); ok {
		t.Error("nil root should miss")
	}
	root := buildTree(0)
	if _, ok := HitTest(root, root.Position(), -1); ok {
		t.Error("negative radius should miss")
	}
}
