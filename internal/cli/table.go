package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/scbrown/tmcheck/internal/model"
)

const defaultTermWidth = 80

// getTermWidth returns the current terminal width, defaulting to 80.
func getTermWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTermWidth
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

var (
	boldStyle    = color.New(color.Bold)
	dangerStyle  = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow)
	clearStyle   = color.New(color.FgGreen)
)

func init() {
	// Tables decide per writer whether to color; fatih/color's own stdout
	// detection must not veto that.
	for _, c := range []*color.Color{boldStyle, dangerStyle, warningStyle, clearStyle} {
		c.EnableColor()
	}
}

func paint(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// truncate shortens a string to n runes, appending "..." if truncated.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 4 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Table writes column-aligned output using text/tabwriter with consistent
// formatting across all commands. Headers are bold when output is a TTY.
type Table struct {
	tw    *tabwriter.Writer
	color bool
	width int
}

// NewTable creates a Table that writes to w. If headers are provided, they are
// written as a bold header row (bold only when w is a TTY).
func NewTable(w io.Writer, headers ...string) *Table {
	enabled := isTTY(w)
	width := defaultTermWidth
	if enabled {
		width = getTermWidth()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	t := &Table{tw: tw, color: enabled, width: width}

	if len(headers) > 0 {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = paint(boldStyle, h, enabled)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return t
}

// Row writes a data row with tab-separated values.
func (t *Table) Row(vals ...string) {
	fmt.Fprintln(t.tw, strings.Join(vals, "\t"))
}

// Flush flushes the underlying tabwriter.
func (t *Table) Flush() error {
	return t.tw.Flush()
}

// Bold wraps text in bold if color is enabled for this table.
func (t *Table) Bold(s string) string {
	return paint(boldStyle, s, t.color)
}

// Status renders a result status in its risk color.
func (t *Table) Status(s model.Status) string {
	return paint(statusStyle(string(s)), string(s), t.color)
}

// Risk renders a report status in its risk color.
func (t *Table) Risk(s model.RiskStatus) string {
	return paint(statusStyle(string(s)), string(s), t.color)
}

// Color reports whether color output is enabled.
func (t *Table) Color() bool {
	return t.color
}

// Width returns the detected terminal width.
// Returns defaultTermWidth (80) when output is not a TTY.
func (t *Table) Width() int {
	return t.width
}

func statusStyle(s string) *color.Color {
	switch s {
	case string(model.StatusConflict), string(model.RiskRisk), "High":
		return dangerStyle
	case string(model.StatusWarning), "Medium":
		return warningStyle
	}
	return clearStyle
}

// orDash returns s, or "-" for empty cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
