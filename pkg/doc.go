// Package pkg provides the core libraries for trifractal.
//
// # Overview
//
// Trifractal subdivides a seed triangle into four sub-triangles per level
// (three corners and the centre) and shows the result two ways: as the
// fractal itself and as the construction tree, a dendrogram with one disc
// per triangle. A session adds per-level selection, depth changes and
// pointer hit-testing on top.
//
// # Architecture
//
// The data flow through trifractal:
//
//	config.Config
//	     ↓
//	[fractal] subdivide the seed triangle into a 4-ary tree
//	     ↓
//	[fractal/layout] place tree nodes for the dendrogram view
//	     ↓
//	[session] select levels, change depth, hit-test
//	     ↓
//	[render/scene] extract triangles, discs and links
//	     ↓
//	[render/sink], [render/nodelink] SVG/PNG/PDF/JSON/DOT output
//
// [pipeline] runs build → layout → render with artifact caching and is
// shared by the CLI, the TUI and the HTTP server.
//
// # Quick Start
//
//	cfg := config.Default()
//	sess, _ := session.New(cfg)
//	_ = sess.SelectLevel(2)
//	svg := sink.RenderSVG(sess.Snapshot())
//
// # Main Packages
//
// [fractal] - Points, nodes, the subdivider, palettes and tree walks.
//
// [fractal/layout] - Dendrogram placement and hit-testing.
//
// [session] - The selection and rebuild state machine, plus a registry of
// sessions keyed by UUID for the HTTP server.
//
// [render/scene] - Backend-neutral draw lists.
//
// [render/sink] - SVG, PNG, PDF and JSON output.
//
// [render/nodelink] - The construction tree as a Graphviz diagram.
//
// [pipeline] - Options, validation and the cached runner.
//
// [cache] - File, Redis and null artifact caches.
//
// [config] - TOML, YAML and JSON configuration.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for pipeline, cache, session and HTTP events,
// with a Prometheus implementation in [observability/prom].
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/fractal/...  # Specific package
//	go test -run Example       # Examples only
//
// [fractal]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/fractal
// [fractal/layout]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/fractal/layout
// [session]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/session
// [render/scene]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/render/scene
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/trifractal/pkg/observability/prom
package pkg
