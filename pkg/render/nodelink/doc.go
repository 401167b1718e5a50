// Package nodelink renders the fractal construction tree as a traditional
// node-link diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// every triangle becomes a filled circle connected to its four children.
// It is an alternative to the dendrogram drawn by the sink package when
// Graphviz's own layout is preferred.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(snap.Root, snap.Selection, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// Node ids follow the child path ("n", "n-0", "n-0-3"), the same ids the
// scene package assigns, so DOT output can be matched against SVG and JSON
// exports. Edges carry the parent colour.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
