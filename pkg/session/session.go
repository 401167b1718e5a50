// Package session holds the interactive state of one trifractal view: the
// current tree, its layout and the selected depth level.
//
// A Session is either showing all levels or has one level selected:
//
//	idle ──SelectLevel(d)──▶ selected(d)
//	selected(d) ──SelectLevel(e)──▶ selected(e)
//	selected(d) ──ShowAll / ResetSelection──▶ idle
//	any ──ChangeMaxDepth(n)──▶ idle (tree rebuilt)
//	any ──PointerHit on node──▶ selected(node.Depth)
//
// Selection changes never rebuild the tree. ChangeMaxDepth and Resize
// compute a new tree without holding the read lock and swap it in, so
// renderers holding a Snapshot keep a consistent view.
//
// A Registry keeps sessions addressable by id for the HTTP API.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/trifractal/pkg/config"
	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/fractal/layout"
	"github.com/matzehuels/trifractal/pkg/observability"
)

// Selection is the highlighted depth level, if any.
type Selection struct {
	Level  int  `json:"level"`
	Active bool `json:"active"`
}

// Matches reports whether a node at depth is part of the selection.
// With no active selection every depth matches.
func (s Selection) Matches(depth int) bool {
	return !s.Active || s.Level == depth
}

// EventKind names a state transition.
type EventKind string

const (
	EventSelect  EventKind = "select"
	EventShowAll EventKind = "show_all"
	EventReset   EventKind = "reset"
	EventRebuild EventKind = "rebuild"
	EventResize  EventKind = "resize"
)

// Event describes a completed transition. Listeners use it as the redraw
// signal.
type Event struct {
	// Seq increases by one with every transition on the session.
	Seq       uint64
	Kind      EventKind
	Selection Selection
	MaxDepth  int
	Nodes     int
}

// Snapshot is a read-only view of a session at one point in time. The
// node tree it references is never mutated after the snapshot is taken.
type Snapshot struct {
	Root       *fractal.Node
	MaxDepth   int
	Selection  Selection
	Config     config.Config
	TreeWidth  float64
	TreeHeight float64
}

// LiveConfig returns the session config with the current maximum depth
// and tree-view size in place of the values the session was created with.
func (s Snapshot) LiveConfig() config.Config {
	cfg := s.Config
	cfg.MaxDepth = s.MaxDepth
	cfg.Tree.Width, cfg.Tree.Height = s.TreeWidth, s.TreeHeight
	return cfg
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	cfg       config.Config
	tree      *fractal.Tree
	sel       Selection
	width     float64
	height    float64
	listeners []listener
	nextID    int
	seq       uint64

	// rebuildMu serialises rebuilds so a slow rebuild cannot overwrite a
	// newer one.
	rebuildMu sync.Mutex
}

// New validates cfg and builds the initial tree at cfg.MaxDepth.
func New(cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		width:  cfg.Tree.Width,
		height: cfg.Tree.Height,
	}
	s.tree = s.build(cfg.MaxDepth, s.width, s.height)
	return s, nil
}

// build subdivides the seed triangle and lays the result out. It touches
// no session state beyond the immutable config.
func (s *Session) build(maxDepth int, width, height float64) *fractal.Tree {
	t := fractal.NewTree(maxDepth, s.cfg.ColorPalette())
	t.Build(s.cfg.BaseTriangle())
	layout.Apply(t.Root, maxDepth, width, height, s.cfg.Spacing())
	return t
}

// =============================================================================
// Queries
// =============================================================================

// Tree returns the current tree. Callers must not mutate it.
func (s *Session) Tree() *fractal.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// MaxDepth returns the depth of the current tree.
func (s *Session) MaxDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.MaxDepth
}

// Config returns the configuration the session was created with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Snapshot returns a consistent view for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Root:       s.tree.Root,
		MaxDepth:   s.tree.MaxDepth,
		Selection:  s.sel,
		Config:     s.cfg,
		TreeWidth:  s.width,
		TreeHeight: s.height,
	}
}

// =============================================================================
// Transitions
// =============================================================================

// SelectLevel highlights depth d. Out-of-range levels are rejected and the
// state is left untouched.
func (s *Session) SelectLevel(d int) error {
	s.mu.Lock()
	if err := errs.ValidateLevel(d, s.tree.MaxDepth); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sel = Selection{Level: d, Active: true}
	ev := s.eventLocked(EventSelect)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// ShowAll clears the selection so every level is drawn.
func (s *Session) ShowAll() {
	s.clear(EventShowAll)
}

// ResetSelection clears the selection. It behaves exactly like ShowAll.
func (s *Session) ResetSelection() {
	s.clear(EventReset)
}

func (s *Session) clear(kind EventKind) {
	s.mu.Lock()
	s.sel = Selection{}
	ev := s.eventLocked(kind)
	s.mu.Unlock()

	s.emit(ev)
}

// ChangeMaxDepth rebuilds the tree at depth d and clears the selection.
// Depths outside [MinDepth, MaxDepthLimit] are rejected and the previous
// tree stays in place.
func (s *Session) ChangeMaxDepth(d int) error {
	if err := errs.ValidateDepth(d, s.cfg.MinDepth, s.cfg.MaxDepthLimit); err != nil {
		return err
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.RLock()
	width, height := s.width, s.height
	s.mu.RUnlock()

	start := time.Now()
	tree := s.build(d, width, height)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.tree = tree
	s.sel = Selection{}
	ev := s.eventLocked(EventRebuild)
	s.mu.Unlock()

	observability.Session().OnRebuild(context.Background(), d, ev.Nodes, elapsed)
	s.emit(ev)
	return nil
}

// Resize lays the tree out for a new tree-view size. The selection is kept.
func (s *Session) Resize(width, height float64) error {
	if err := errs.ValidateDimension("width", width); err != nil {
		return err
	}
	if err := errs.ValidateDimension("height", height); err != nil {
		return err
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.RLock()
	d := s.tree.MaxDepth
	s.mu.RUnlock()

	tree := s.build(d, width, height)

	s.mu.Lock()
	s.tree = tree
	s.width, s.height = width, height
	ev := s.eventLocked(EventResize)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// PointerHit hit-tests (x, y) against the tree view. On a hit the node's
// depth becomes the selected level; on a miss nothing changes.
func (s *Session) PointerHit(x, y float64) (*fractal.Node, bool) {
	s.mu.Lock()
	n, ok := layout.HitTest(s.tree.Root, fractal.Point{X: x, Y: y}, s.cfg.Tree.NodeRadius)
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	s.sel = Selection{Level: n.Depth, Active: true}
	ev := s.eventLocked(EventSelect)
	s.mu.Unlock()

	s.emit(ev)
	return n, true
}

// =============================================================================
// Listeners
// =============================================================================

type listener struct {
	id int
	fn func(Event)
}

// OnChange registers fn to run after every successful transition. The
// returned function removes the listener.
//
// Listeners run on the goroutine that made the transition. Events from
// concurrent transitions may arrive out of order; compare Seq and drop
// anything older than the last event seen.
func (s *Session) OnChange(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) eventLocked(kind EventKind) Event {
	s.seq++
	return Event{
		Seq:       s.seq,
		Kind:      kind,
		Selection: s.sel,
		MaxDepth:  s.tree.MaxDepth,
		Nodes:     fractal.NodeCount(s.tree.MaxDepth),
	}
}

// emit runs listeners outside the lock so they may call back into the
// session.
func (s *Session) emit(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, l := range s.listeners {
		fns = append(fns, l.fn)
	}
	s.mu.RUnlock()

	switch ev.Kind {
	case EventSelect, EventShowAll, EventReset:
		observability.Session().OnTransition(context.Background(), string(ev.Kind), ev.Selection.Level)
	}
	for _, fn := range fns {
		fn(ev)
	}
}
