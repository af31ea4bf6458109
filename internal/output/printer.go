package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled output for the non-interactive commands.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a Printer writing to w. Tests pass a buffer.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Header prints a boxed title.
func (p *Printer) Header(title string) {
	fmt.Fprintln(p.w, BoxStyle.Render(TitleStyle.Render(title)))
}

// Line prints plain text.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.w, WarningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// KeyValue prints aligned key/value pairs in the given order.
func (p *Printer) KeyValue(pairs ...[2]string) {
	width := 0
	for _, kv := range pairs {
		if l := lipgloss.Width(kv[0]); l > width {
			width = l
		}
	}
	for _, kv := range pairs {
		label := LabelStyle.Width(width + 1).Render(kv[0] + ":")
		fmt.Fprintf(p.w, "%s %s\n", label, ValueStyle.Render(kv[1]))
	}
}

// Table prints rows under a header row with columns padded to fit.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if l := lipgloss.Width(row[i]); l > widths[i] {
				widths[i] = l
			}
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(p.w, render(header, LabelStyle))
	for _, row := range rows {
		fmt.Fprintln(p.w, render(row, lipgloss.NewStyle()))
	}
}
