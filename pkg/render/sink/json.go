package sink

import (
	"encoding/json"

	"github.com/matzehuels/trifractal/pkg/config"
	"github.com/matzehuels/trifractal/pkg/render/scene"
	"github.com/matzehuels/trifractal/pkg/session"
)

// Document is the JSON export of a snapshot.
type Document struct {
	MaxDepth   int               `json:"max_depth"`
	Selection  session.Selection `json:"selection"`
	NodeCount  int               `json:"node_count"`
	TreeWidth  float64           `json:"tree_width"`
	TreeHeight float64           `json:"tree_height"`
	Config     config.Config     `json:"config"`
	Triangles  []jsonTriangle    `json:"triangles"`
	Nodes      []jsonNode        `json:"nodes"`
	Edges      []jsonEdge        `json:"edges"`
}

type jsonTriangle struct {
	ID     string        `json:"id"`
	Depth  int           `json:"depth"`
	Points [3][2]float64 `json:"points"`
	Color  string        `json:"color"`
}

type jsonNode struct {
	ID          string  `json:"id"`
	Depth       int     `json:"depth"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Color       string  `json:"color"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewDocument builds the export document for a snapshot.
func NewDocument(snap session.Snapshot) Document {
	sc := scene.FromSnapshot(snap)
	doc := Document{
		MaxDepth:   snap.MaxDepth,
		Selection:  snap.Selection,
		NodeCount:  len(sc.Nodes),
		TreeWidth:  snap.TreeWidth,
		TreeHeight: snap.TreeHeight,
		Config:     snap.LiveConfig(),
		Triangles:  make([]jsonTriangle, 0, len(sc.Triangles)),
		Nodes:      make([]jsonNode, 0, len(sc.Nodes)),
		Edges:      make([]jsonEdge, 0, len(sc.Edges)),
	}
	for _, t := range sc.Triangles {
		jt := jsonTriangle{ID: t.ID, Depth: t.Depth, Color: string(t.Color)}
		for i, p := range t.Points {
			jt.Points[i] = [2]float64{p.X, p.Y}
		}
		doc.Triangles = append(doc.Triangles, jt)
	}
	for _, n := range sc.Nodes {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID: n.ID, Depth: n.Depth, X: n.X, Y: n.Y, Color: string(n.Color), Highlighted: n.Highlighted,
		})
	}
	for _, e := range sc.Edges {
		doc.Edges = append(doc.Edges, jsonEdge{From: e.FromID, To: e.ToID})
	}
	return doc
}

// RenderJSON exports the snapshot as a pretty-printed JSON document. The
// triangle list honours the selection the same way the SVG does.
func RenderJSON(snap session.Snapshot) ([]byte, error) {
	return json.MarshalIndent(NewDocument(snap), "", "  ")
}
