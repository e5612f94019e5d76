// Package report renders aligned, optionally colored text tables for the CLI.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Alignment controls how a column's content is justified.
type Alignment int

const (
	// AlignLeft pads on the right (default).
	AlignLeft Alignment = iota
	// AlignRight pads on the left.
	AlignRight
)

// ColorFunc maps a cell value to a colored string.
type ColorFunc func(value string) string

// Column describes a single table column.
type Column struct {
	Header string
	Align  Alignment
	Color  ColorFunc
}

// Table renders aligned text tables to an io.Writer.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given column definitions.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends a row. Extra values are ignored; missing values are empty.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Render writes the table to w. Widths count runes so accented names align.
func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = utf8.RuneCountInString(col.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	bold := color.New(color.Bold)
	header := make([]string, len(t.columns))
	sep := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = pad(col.Header, widths[i], col.Align, bold.Sprint)
		sep[i] = strings.Repeat("-", widths[i])
	}
	if err := writeLine(w, header); err != nil {
		return err
	}
	if err := writeLine(w, sep); err != nil {
		return err
	}
	for _, row := range t.rows {
		parts := make([]string, len(t.columns))
		for i, col := range t.columns {
			var paint func(...interface{}) string
			if col.Color != nil {
				c := col.Color
				paint = func(a ...interface{}) string { return c(fmt.Sprint(a...)) }
			}
			parts[i] = pad(row[i], widths[i], col.Align, paint)
		}
		if err := writeLine(w, parts); err != nil {
			return err
		}
	}
	return nil
}

// pad justifies val to width, measuring the raw value before painting it.
func pad(val string, width int, align Alignment, paint func(...interface{}) string) string {
	fill := width - utf8.RuneCountInString(val)
	if fill < 0 {
		fill = 0
	}
	display := val
	if paint != nil {
		display = paint(val)
	}
	if align == AlignRight {
		return strings.Repeat(" ", fill) + display
	}
	return display + strings.Repeat(" ", fill)
}

func writeLine(w io.Writer, parts []string) error {
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBlue   = color.New(color.FgBlue)
	colorPurple = color.New(color.FgMagenta)
)

// ColorByName paints value with one of the marker color names.
func ColorByName(name, value string) string {
	switch name {
	case "green":
		return colorGreen.Sprint(value)
	case "orange":
		return colorYellow.Sprint(value)
	case "red":
		return colorRed.Sprint(value)
	case "blue":
		return colorBlue.Sprint(value)
	case "purple":
		return colorPurple.Sprint(value)
	default:
		return value
	}
}
