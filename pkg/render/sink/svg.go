package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/trifractal/pkg/fractal/layout"
	"github.com/matzehuels/trifractal/pkg/render/scene"
	"github.com/matzehuels/trifractal/pkg/session"
)

// Visual constants shared by both views.
const (
	triangleStroke      = "white"
	edgeWidth           = 2.0
	nodeStroke          = "#000000"
	selectedStroke      = "red"
	selectedStrokeWidth = 3.0
	labelColor          = "white"
)

const depthInteractionCSS = `
    .tri, .node { transition: opacity 0.15s ease, stroke-width 0.15s ease; }
    svg.hovering .tri:not(.hover), svg.hovering .node:not(.hover) { opacity: 0.35; }
    .node.hover { stroke-width: 3; }
    .node, .tri { cursor: pointer; }`

const depthInteractionJS = `
    (function() {
      const root = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
      function highlight(depth) {
        root.classList.add('hovering');
        root.querySelectorAll('.tri, .node').forEach(el => el.classList.toggle('hover', el.dataset.depth === depth));
      }
      function clearHighlight() {
        root.classList.remove('hovering');
        root.querySelectorAll('.hover').forEach(el => el.classList.remove('hover'));
      }
      root.querySelectorAll('.tri, .node').forEach(el => {
        el.addEventListener('mouseenter', () => highlight(el.dataset.depth));
        el.addEventListener('mouseleave', clearHighlight);
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fractal     bool
	tree        bool
	interaction bool
	title       string
}

// WithFractalOnly draws only the triangle view.
func WithFractalOnly() SVGOption {
	return func(r *svgRenderer) { r.fractal, r.tree = true, false }
}

// WithTreeOnly draws only the dendrogram view.
func WithTreeOnly() SVGOption {
	return func(r *svgRenderer) { r.fractal, r.tree = false, true }
}

// WithInteraction embeds hover highlighting by depth.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws a snapshot. By default the fractal view sits on the left
// and the tree view on the right.
func RenderSVG(snap session.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{fractal: true, tree: true}
	for _, opt := range opts {
		opt(&r)
	}

	sc := scene.FromSnapshot(snap)
	fw, fh := snap.Config.Fractal.Width, snap.Config.Fractal.Height
	panel := treePanel(snap)
	tw, th := panel.Width(), panel.Height()

	var width, height, treeX float64
	switch {
	case r.fractal && r.tree:
		width, height, treeX = fw+tw, max(fh, th), fw
	case r.fractal:
		width, height = fw, fh
	default:
		width, height = tw, th
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		buf.WriteString("  <title>")
		xml.EscapeText(&buf, []byte(r.title))
		buf.WriteString("</title>\n")
	}
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	if r.fractal {
		renderFractal(&buf, sc.Triangles)
	}
	if r.tree {
		fmt.Fprintf(&buf, `  <g id="tree" transform="translate(%.2f,%.2f)">`+"\n", treeX-panel.MinX, max(0, -panel.MinY))
		renderTree(&buf, sc.Edges, sc.Nodes)
		buf.WriteString("  </g>\n")
	}
	if r.interaction {
		renderDepthInteraction(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// treePanel returns the tree view's box in layout coordinates: the
// configured canvas, grown to cover every disc with its outline.
func treePanel(snap session.Snapshot) layout.Rect {
	panel := layout.Rect{MaxX: snap.TreeWidth, MaxY: snap.TreeHeight}
	if snap.Root == nil {
		return panel
	}
	pad := snap.Config.Tree.NodeRadius + selectedStrokeWidth/2
	b := layout.Bounds(snap.Root)
	panel.MinX = min(panel.MinX, b.MinX-pad)
	panel.MinY = min(panel.MinY, b.MinY-pad)
	panel.MaxX = max(panel.MaxX, b.MaxX+pad)
	panel.MaxY = max(panel.MaxY, b.MaxY+pad)
	return panel
}

func renderFractal(buf *bytes.Buffer, tris []scene.Triangle) {
	buf.WriteString(`  <g id="fractal">` + "\n")
	for _, t := range tris {
		p := t.Points
		fmt.Fprintf(buf, `    <polygon id="tri-%s" class="tri" data-depth="%d" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			t.ID, t.Depth, p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, t.Color, triangleStroke)
	}
	buf.WriteString("  </g>\n")
}

func renderTree(buf *bytes.Buffer, edges []scene.Link, nodes []scene.Disc) {
	for _, e := range edges {
		fmt.Fprintf(buf, `    <line class="edge" data-depth="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.0f"/>`+"\n",
			e.Depth, e.X1, e.Y1, e.X2, e.Y2, e.Color, edgeWidth)
	}
	for _, n := range nodes {
		stroke, width := nodeStroke, 1.0
		class := "node"
		if n.Highlighted {
			stroke, width = selectedStroke, selectedStrokeWidth
			class = "node selected"
		}
		fmt.Fprintf(buf, `    <circle id="node-%s" class="%s" data-depth="%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
			n.ID, class, n.Depth, n.X, n.Y, n.R, n.Color, stroke, width)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" fill="%s" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="central" pointer-events="none">%d</text>`+"\n",
			n.X, n.Y, labelColor, labelSize(n.R), n.Depth)
	}
}

func labelSize(r float64) float64 {
	return max(6, min(16, r*0.8))
}

func renderDepthInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", depthInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", depthInteractionJS)
}
