package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/masmgr/graphlog-go/internal/graph"
)

// palette assigns a terminal color to each branch color id, cycling.
var palette = []color.Attribute{
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
	color.FgRed,
}

// ConsoleGraphWriter draws the graph as ASCII art, one node line and one
// connector line per row.
type ConsoleGraphWriter struct{}

// Write outputs the graph report to the console.
func (w *ConsoleGraphWriter) Write(report *GraphReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	p := newPainter(options.Colors)
	rows := limitTop(report.Rows, options.Limit)

	if report.Path != "" {
		fmt.Fprintf(out, "%s\n", p.header("File history: "+report.Path))
	}

	for i, row := range rows {
		last := i == len(rows)-1
		if err := writeConsoleRow(out, p, row, report.Path, last); err != nil {
			return err
		}
	}
	return nil
}

func writeConsoleRow(out io.Writer, p *painter, row GraphRow, filePath string, last bool) error {
	n := row.Node
	width := max(n.ColumnCount, 1)

	// node line: the node glyph plus every edge passing through this row
	cells := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	for _, l := range n.TopLines {
		if l.To < width {
			cells[l.To] = p.paint(l.Color, edgeGlyph(l.Strong))
		}
	}
	for _, l := range n.BottomLines {
		if l.From < width {
			cells[l.From] = p.paint(l.Color, edgeGlyph(l.Strong))
		}
	}
	cells[n.Column] = p.paint(n.Color, nodeGlyph(n))

	if _, err := fmt.Fprintf(out, "%s  %s\n", strings.Join(cells, " "), describe(p, row, filePath)); err != nil {
		return err
	}
	if last {
		return nil
	}

	_, err := fmt.Fprintln(out, strings.TrimRight(connectorLine(p, n.BottomLines, width), " "))
	return err
}

func nodeGlyph(n *graph.Node) string {
	switch {
	case n.Rev == graph.WorkingDirectory:
		return "@"
	case len(n.Precursors) > 0:
		return "x"
	default:
		return "o"
	}
}

func edgeGlyph(strong bool) string {
	if strong {
		return "|"
	}
	return ":"
}

// connectorLine draws the edges between a row and the next on a grid where
// column c sits at position 2c and diagonals use the odd positions between.
func connectorLine(p *painter, lines []graph.LineSegment, width int) string {
	grid := make([]string, 2*width)
	for i := range grid {
		grid[i] = " "
	}
	for _, l := range lines {
		switch {
		case l.From == l.To:
			grid[2*l.From] = p.paint(l.Color, edgeGlyph(l.Strong))
		case l.To > l.From:
			for pos := 2*l.From + 1; pos < 2*l.To-1; pos++ {
				grid[pos] = p.paint(l.Color, "-")
			}
			grid[2*l.To-1] = p.paint(l.Color, "\\")
		default:
			grid[2*l.To+1] = p.paint(l.Color, "/")
			for pos := 2*l.To + 2; pos < 2*l.From; pos++ {
				grid[pos] = p.paint(l.Color, "-")
			}
		}
	}
	return strings.Join(grid, "")
}

func describe(p *painter, row GraphRow, filePath string) string {
	c := row.Commit
	var b strings.Builder
	b.WriteString(p.rev(row.Node.Rev.String()))
	if sha := c.ShortSHA(); sha != "" {
		b.WriteString(":" + sha)
	}
	if len(c.Refs) > 0 {
		b.WriteString(" " + p.refs("("+strings.Join(c.Refs, ", ")+")"))
	}
	if filePath != "" && row.Node.Path != "" && row.Node.Path != filePath {
		b.WriteString(" [" + row.Node.Path + "]")
	}
	if c.Message != "" {
		b.WriteString(" " + c.Message)
	}
	if !c.When.IsZero() {
		b.WriteString(" " + p.meta(c.Author.Name+" "+c.When.Format(reportDateTimeLayout)))
	}
	return b.String()
}

// painter applies colors unless they are disabled.
type painter struct {
	lanes  []*color.Color
	header func(a ...interface{}) string
	rev    func(a ...interface{}) string
	refs   func(a ...interface{}) string
	meta   func(a ...interface{}) string
}

func newPainter(mode ColorMode) *painter {
	newColor := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
		return c
	}

	p := &painter{}
	for _, attr := range palette {
		p.lanes = append(p.lanes, newColor(attr))
	}
	p.header = newColor(color.FgGreen, color.Bold).SprintFunc()
	p.rev = newColor(color.FgYellow).SprintFunc()
	p.refs = newColor(color.FgCyan, color.Bold).SprintFunc()
	p.meta = newColor(color.Faint).SprintFunc()
	return p
}

func (p *painter) paint(c graph.Color, s string) string {
	idx := int(c) % len(p.lanes)
	if idx < 0 {
		idx += len(p.lanes)
	}
	return p.lanes[idx].Sprint(s)
}
