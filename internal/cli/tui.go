package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/pipeline"
	"github.com/matzehuels/trifractal/pkg/session"
)

var (
	tuiKeyStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiCommand starts an interactive session in the terminal.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		depth  depthFlags
		copts  cacheOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore levels and depths interactively",
		Long: `Tui opens an interactive session. Move between levels with the arrow
keys, change the maximum depth with + and -, and export the current view
as SVG with e.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			depth.apply(&cfg)

			sess, err := session.New(cfg)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), copts)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newSessionModel(cmd.Context(), sess, runner, output)
			defer m.stop()
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	depth.register(cmd)
	copts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputBase+".svg", "file written by the export key")
	return cmd
}

// =============================================================================
// SessionModel - interactive level and depth selection
// =============================================================================

// changeMsg carries a session event into the bubbletea loop.
type changeMsg session.Event

// exportedMsg reports the result of an SVG export.
type exportedMsg struct {
	path string
	err  error
}

// sessionModel is the bubbletea model driving a session. The cursor walks
// 0..MaxDepth plus a trailing "all levels" entry.
type sessionModel struct {
	ctx    context.Context
	sess   *session.Session
	runner *pipeline.Runner
	output string

	// changes holds the latest session event not yet seen by Update.
	changes chan session.Event
	stop    func()
	lastSeq uint64

	levels []fractal.LevelStats
	status string
	err    error
}

func newSessionModel(ctx context.Context, sess *session.Session, runner *pipeline.Runner, output string) sessionModel {
	changes := make(chan session.Event, 1)
	stop := sess.OnChange(func(e session.Event) {
		for {
			select {
			case changes <- e:
				return
			default:
			}
			// Replace a pending event that Update has not picked up yet.
			select {
			case <-changes:
			default:
			}
		}
	})
	return sessionModel{
		ctx:     ctx,
		sess:    sess,
		runner:  runner,
		output:  output,
		changes: changes,
		stop:    stop,
		levels:  fractal.Levels(sess.Tree().Root),
	}
}

func (m sessionModel) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until the session reports a transition.
func (m sessionModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-m.changes:
			return changeMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case changeMsg:
		if msg.Seq > m.lastSeq {
			m.lastSeq = msg.Seq
			m.levels = fractal.Levels(m.sess.Tree().Root)
		}
		return m, m.waitForChange()
	case exportedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "exported " + msg.path
		}
	}
	return m, nil
}

func (m sessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""
	sel := m.sess.Selection()
	maxDepth := m.sess.MaxDepth()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		switch {
		case !sel.Active:
			m.err = m.sess.SelectLevel(maxDepth)
		case sel.Level > 0:
			m.err = m.sess.SelectLevel(sel.Level - 1)
		}
	case "down", "j":
		switch {
		case !sel.Active:
			m.err = m.sess.SelectLevel(0)
		case sel.Level < maxDepth:
			m.err = m.sess.SelectLevel(sel.Level + 1)
		}
	case "a":
		m.sess.ShowAll()
	case "r":
		m.sess.ResetSelection()
	case "+", "=":
		m.err = m.sess.ChangeMaxDepth(maxDepth + 1)
	case "-", "_":
		m.err = m.sess.ChangeMaxDepth(maxDepth - 1)
	case "e":
		return m, m.export()
	}
	return m, nil
}

// export renders the current snapshot to the output file off the UI loop.
func (m sessionModel) export() tea.Cmd {
	snap := m.sess.Snapshot()
	return func() tea.Msg {
		opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
		artifacts, _, err := m.runner.RenderSnapshot(m.ctx, snap, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		if err := os.WriteFile(m.output, artifacts[pipeline.FormatSVG], 0o644); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: m.output}
	}
}

func (m sessionModel) View() string {
	var b strings.Builder
	sel := m.sess.Selection()

	b.WriteString(StyleTitle.Render("Trifractal"))
	b.WriteString("  ")
	b.WriteString(tuiStatusStyle.Render(fmt.Sprintf("depth %d · %d nodes · %s",
		m.sess.MaxDepth(), fractal.Count(m.sess.Tree().Root), selectionLabel(sel))))
	b.WriteString("\n\n")
	b.WriteString(renderLevelTable(m.levels, sel))
	b.WriteString("\n\n")

	keys := []string{"↑/↓ level", "a all", "r reset", "+/- depth", "e export", "q quit"}
	for i, k := range keys {
		if i > 0 {
			b.WriteString(listDimStyle.Render("  "))
		}
		parts := strings.SplitN(k, " ", 2)
		b.WriteString(tuiKeyStyle.Render(parts[0]) + " " + listDimStyle.Render(parts[1]))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(tuiErrorStyle.Render(iconError + " " + errs.UserMessage(m.err)))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func selectionLabel(sel session.Selection) string {
	if !sel.Active {
		return "all levels"
	}
	return fmt.Sprintf("level %d", sel.Level)
}

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)
