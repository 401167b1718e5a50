package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/session"
)

// treeCommand prints per-level statistics of the construction tree.
func (c *CLI) treeCommand() *cobra.Command {
	var depth depthFlags

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Summarise the construction tree per depth level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			depth.apply(&cfg)

			prog := newProgress(loggerFromContext(cmd.Context()))
			sess, err := session.New(cfg)
			if err != nil {
				return err
			}
			root := sess.Tree().Root
			prog.done("built tree", "depth", sess.MaxDepth(), "nodes", fractal.Count(root))

			fmt.Fprintln(cmd.OutOrStdout(), renderLevelTable(fractal.Levels(root), session.Selection{}))
			return nil
		},
	}

	depth.register(cmd)
	return cmd
}

// renderLevelTable draws one row per depth with a colour swatch. The
// selected level, if any, is emphasised.
func renderLevelTable(levels []fractal.LevelStats, sel session.Selection) string {
	rows := make([][]string, 0, len(levels))
	total := 0
	for _, l := range levels {
		total += l.Count
		rows = append(rows, []string{
			strconv.Itoa(l.Depth),
			strconv.Itoa(l.Count),
			strconv.FormatFloat(l.Area, 'f', 1, 64),
			string(l.Color),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Depth", "Nodes", "Area", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(levels) {
				return base
			}
			if col == 3 {
				base = base.Foreground(lipgloss.Color(levels[row].Color))
			}
			if sel.Active && levels[row].Depth == sel.Level {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	return t.Render() + "\n" + StyleDim.Render(fmt.Sprintf("  %d nodes across %d levels", total, len(levels)))
}
