package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// classifyCommand creates the classify command, which prints the quadrant
// of every sector without laying anything out.
func (c *CLI) classifyCommand() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "classify [sectors.json]",
		Short: "Print the quadrant of every sector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectors, err := c.loadSectors(args[0])
			if err != nil {
				return err
			}
			if err := sortSectors(sectors, sortBy); err != nil {
				return err
			}
			writeClassification(stdout, sectors)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "quadrant", "row order: quadrant, id, ratio, momentum, input")
	return cmd
}

// sortSectors orders sectors in place. Quadrant order follows the legend
// (improving, leading, lagging, weakening) with ties broken by id.
func sortSectors(sectors []rrg.Sector, by string) error {
	rank := make(map[rrg.Quadrant]int, len(rrg.Quadrants))
	for i, q := range rrg.Quadrants {
		rank[q] = i
	}

	var less func(a, b rrg.Sector) bool
	switch by {
	case "input":
		return nil
	case "id":
		less = func(a, b rrg.Sector) bool { return a.ID < b.ID }
	case "ratio":
		less = func(a, b rrg.Sector) bool { return a.Ratio > b.Ratio }
	case "momentum":
		less = func(a, b rrg.Sector) bool { return a.Momentum > b.Momentum }
	case "quadrant", "":
		less = func(a, b rrg.Sector) bool {
			qa, qb := rank[a.Quadrant()], rank[b.Quadrant()]
			if qa != qb {
				return qa < qb
			}
			return a.ID < b.ID
		}
	default:
		return fmt.Errorf("invalid sort %q (must be quadrant, id, ratio, momentum or input)", by)
	}
	sort.SliceStable(sectors, func(i, j int) bool { return less(sectors[i], sectors[j]) })
	return nil
}

// writeClassification renders the quadrant table and a per-quadrant
// summary line.
func writeClassification(w io.Writer, sectors []rrg.Sector) {
	counts := make(map[rrg.Quadrant]int, len(rrg.Quadrants))
	rows := make([][]string, len(sectors))
	for i, s := range sectors {
		q := s.Quadrant()
		counts[q]++
		rows[i] = []string{
			s.ID,
			s.DisplayName(),
			q.Label(),
			fmt.Sprintf("%.2f", s.Ratio),
			fmt.Sprintf("%.2f", s.Momentum),
			fmt.Sprintf("%.0f°", s.Heading()),
			fmt.Sprintf("%+.2f%%", s.ChangePercent),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Quadrant", "RS-Ratio", "RS-Mom", "Heading", "Change").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(sectors) {
				return cellStyle.Inherit(quadrantStyle(sectors[row].Quadrant())).Bold(true)
			}
			if col >= 3 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())

	line := " "
	for _, q := range rrg.Quadrants {
		line += " " + quadrantStyle(q).Render(fmt.Sprintf("%s %d", q.Label(), counts[q]))
	}
	fmt.Fprintln(w, line)
}
