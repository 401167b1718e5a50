package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/trifractal/pkg/config"
	"github.com/matzehuels/trifractal/pkg/pipeline"
	"github.com/matzehuels/trifractal/pkg/session"
)

func newTestModel(t *testing.T, maxDepth int) sessionModel {
	t.Helper()
	cfg := config.Default()
	cfg.MaxDepth = maxDepth
	sess, err := session.New(cfg)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	runner := pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))
	out := filepath.Join(t.TempDir(), "export.svg")
	m := newSessionModel(context.Background(), sess, runner, out)
	t.Cleanup(m.stop)
	return m
}

func press(m sessionModel, key string) (sessionModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	m = next.(sessionModel)

	// Deliver the session event the key caused, as the program loop would.
	select {
	case e := <-m.changes:
		next, _ = m.Update(changeMsg(e))
		m = next.(sessionModel)
	default:
	}
	return m, cmd
}

func TestSessionModelLevelNavigation(t *testing.T) {
	m := newTestModel(t, 3)

	m, _ = press(m, "down")
	if sel := m.sess.Selection(); sel != (session.Selection{Level: 0, Active: true}) {
		t.Fatalf("down from all = %+v, want level 0", sel)
	}
	m, _ = press(m, "down")
	m, _ = press(m, "down")
	m, _ = press(m, "down")
	m, _ = press(m, "down")
	if sel := m.sess.Selection(); sel.Level != 3 {
		t.Errorf("down past max = level %d, want 3", sel.Level)
	}
	m, _ = press(m, "up")
	if sel := m.sess.Selection(); sel.Level != 2 {
		t.Errorf("up = level %d, want 2", sel.Level)
	}

	m, _ = press(m, "a")
	if m.sess.Selection().Active {
		t.Error("a should show all levels")
	}
	m, _ = press(m, "up")
	if sel := m.sess.Selection(); sel.Level != 3 {
		t.Errorf("up from all = level %d, want deepest level 3", sel.Level)
	}
	m, _ = press(m, "r")
	if m.sess.Selection().Active {
		t.Error("r should reset the selection")
	}
}

func TestSessionModelDepthChange(t *testing.T) {
	m := newTestModel(t, 2)

	m, _ = press(m, "down")
	m, _ = press(m, "+")
	if m.sess.MaxDepth() != 3 {
		t.Fatalf("+ = depth %d, want 3", m.sess.MaxDepth())
	}
	if m.sess.Selection().Active {
		t.Error("depth change should clear the selection")
	}
	if len(m.levels) != 4 {
		t.Errorf("levels = %d rows, want 4", len(m.levels))
	}

	m, _ = press(m, "-")
	m, _ = press(m, "-")
	if m.sess.MaxDepth() != config.DefaultMinDepth {
		t.Fatalf("depth = %d, want %d", m.sess.MaxDepth(), config.DefaultMinDepth)
	}
	m, _ = press(m, "-")
	if m.err == nil {
		t.Error("decreasing below the minimum should report an error")
	}
	if m.sess.MaxDepth() != config.DefaultMinDepth {
		t.Errorf("rejected change altered depth to %d", m.sess.MaxDepth())
	}
	if !strings.Contains(m.View(), iconError) {
		t.Error("view should show the error")
	}
}

func TestSessionModelExport(t *testing.T) {
	m := newTestModel(t, 1)

	m, cmd := press(m, "e")
	if cmd == nil {
		t.Fatal("e should return an export command")
	}
	msg := cmd()
	exp, ok := msg.(exportedMsg)
	if !ok || exp.err != nil {
		t.Fatalf("export = %#v", msg)
	}
	data, err := os.ReadFile(exp.path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("export should write an SVG document")
	}

	next, _ := m.Update(exp)
	if !strings.Contains(next.(sessionModel).View(), "exported") {
		t.Error("view should report the export")
	}
}

func TestSessionModelQuit(t *testing.T) {
	m := newTestModel(t, 1)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestSessionModelFollowsSessionEvents(t *testing.T) {
	m := newTestModel(t, 2)

	// A change made outside the key handler reaches the model through the
	// session listener.
	if err := m.sess.ChangeMaxDepth(3); err != nil {
		t.Fatal(err)
	}
	msg := m.waitForChange()()
	ev, ok := msg.(changeMsg)
	if !ok || ev.Kind != session.EventRebuild {
		t.Fatalf("waitForChange = %#v, want rebuild event", msg)
	}
	next, cmd := m.Update(ev)
	m = next.(sessionModel)
	if cmd == nil {
		t.Error("model should keep waiting for changes")
	}
	if len(m.levels) != 4 {
		t.Errorf("levels = %d rows, want 4", len(m.levels))
	}

	// An older event arriving late must not roll the level table back.
	stale := session.Event{Seq: ev.Seq - 1, Kind: session.EventRebuild}
	if err := m.sess.ChangeMaxDepth(1); err != nil {
		t.Fatal(err)
	}
	<-m.changes
	next, _ = m.Update(changeMsg(stale))
	if got := len(next.(sessionModel).levels); got != 4 {
		t.Errorf("stale event refreshed levels to %d rows", got)
	}
}

func TestSessionModelCoalescesEvents(t *testing.T) {
	m := newTestModel(t, 2)
	_ = m.sess.SelectLevel(0)
	_ = m.sess.SelectLevel(1)
	m.sess.ShowAll()

	ev := <-m.changes
	if ev.Kind != session.EventShowAll {
		t.Errorf("pending event = %s, want the latest (show_all)", ev.Kind)
	}
	select {
	case e := <-m.changes:
		t.Errorf("unexpected extra event %+v", e)
	default:
	}
}

func TestRenderLevelTable(t *testing.T) {
	m := newTestModel(t, 2)
	out := renderLevelTable(m.levels, session.Selection{Level: 1, Active: true})
	for _, want := range []string{"Depth", "Nodes", "16", "21 nodes across 3 levels"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
