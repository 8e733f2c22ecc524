package reta

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	numberHeader = "Nr"
	markerEven   = "●"
	markerOdd    = " "
)

// numberingCols is the number of columns prepended when numbering is on.
const numberingCols = 2

// escaper is implemented by renderers whose escape sequences take up room,
// so cells are escaped before widths are measured.
type escaper interface {
	escape(text string) string
}

// lineWriter is implemented by renderers that encode a physical line
// themselves instead of joining fields with Separator.
type lineWriter interface {
	writeLine(w io.Writer, fields []string) error
}

func visibleRows(t Table, opts Options) []Row {
	var rows []Row
	for _, row := range t.Rows {
		if row.Number == 0 {
			if !opts.NoHeader {
				rows = append(rows, row)
			}
			continue
		}
		if opts.NoEmpty && rowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func rowEmpty(row Row) bool {
	for _, c := range row.Cells {
		if !c.Empty() {
			return false
		}
	}
	return true
}

func render(w io.Writer, r Renderer, rows []Row, opts Options) error {
	offset := 0
	if opts.Numbering {
		offset = numberingCols
	}

	grid := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := row.Cells
		if opts.Numbering {
			cells = append(numberingCells(row.Number), cells...)
		}
		grid[i] = cells
	}
	numCols := colCount(grid)

	if opts.Wrapping() {
		limits := wrapWidths(numCols, offset, opts)
		for i := range grid {
			grid[i] = wrapRow(grid[i], limits)
		}
	}

	if e, ok := r.(escaper); ok {
		for i := range grid {
			grid[i] = escapeRow(grid[i], e)
		}
	}

	widths := computeWidths(numCols, grid)
	for col := offset; col < numCols; col++ {
		configured, ok := configuredWidth(opts.Widths, col-offset)
		widths[col] = ResolveWidth(configured, ok, widths[col], opts.Syntax.Block())
	}

	if err := writeLine(w, r.BeginTable()); err != nil {
		return err
	}
	for i, row := range rows {
		cells := grid[i]
		for line := range maxLines(cells) {
			fields := make([]string, numCols)
			for col := range numCols {
				var cell Cell
				if col < len(cells) {
					cell = cells[col]
				}
				text := ""
				if line < len(cell.Lines) {
					text = cell.Lines[line]
				}
				if !cell.Has(TagMarkup) {
					text = r.FormatContent(text, widths[col])
				}
				fields[col] = r.CellOpen(col, row.Number, cell.Labels) + text + r.CellClose()
			}
			if err := emit(w, r, row.Number, fields); err != nil {
				return err
			}
		}
		if row.Number == 0 {
			if err := writeLine(w, r.HeaderRule(widths)); err != nil {
				return err
			}
		}
	}
	return writeLine(w, r.EndTable())
}

func emit(w io.Writer, r Renderer, number int, fields []string) error {
	if lw, ok := r.(lineWriter); ok {
		return lw.writeLine(w, fields)
	}
	line := r.BeginRow(number) + strings.Join(fields, r.Separator()) + r.EndRow()
	_, err := fmt.Fprintln(w, strings.TrimRight(line, " "))
	return err
}

func writeLine(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

func numberingCells(number int) []Cell {
	if number == 0 {
		return []Cell{
			{Lines: []string{numberHeader}, Tags: []string{TagHeader}},
			{Lines: []string{""}, Tags: []string{TagHeader}},
		}
	}
	marker := markerOdd
	if number%2 == 0 {
		marker = markerEven
	}
	return []Cell{NewCell(strconv.Itoa(number)), NewCell(marker)}
}

// ResolveWidth decides the rendered width of a column whose widest line is
// content wide. configured only applies when ok. Non-block syntaxes never go
// below the content width; zero means no limit.
func ResolveWidth(configured int, ok bool, content int, block bool) int {
	if !ok {
		return content
	}
	if !block && configured < content {
		return content
	}
	return configured
}

func configuredWidth(widths []int, col int) (int, bool) {
	if col < 0 || col >= len(widths) {
		return 0, false
	}
	return widths[col], true
}

func wrapWidths(numCols, offset int, opts Options) []int {
	limits := make([]int, numCols)
	for col := offset; col < numCols; col++ {
		limits[col] = opts.Width
		if configured, ok := configuredWidth(opts.Widths, col-offset); ok && configured > 0 {
			limits[col] = configured
		}
	}
	return limits
}

func colCount(grid [][]Cell) int {
	n := 0
	for _, cells := range grid {
		n = max(n, len(cells))
	}
	return n
}

func computeWidths(numCols int, grid [][]Cell) []int {
	widths := make([]int, numCols)
	for _, cells := range grid {
		for i, cell := range cells {
			for _, line := range cell.Lines {
				if w := runewidth.StringWidth(line); i < numCols && w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

// --- Cell wrapping ---

func wrapCell(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		if line == "" {
			// Advance at least one rune when a wide rune does not fit.
			r := []rune(s)
			line = string(r[0])
		} else if len(line) < len(s) && s[len(line)] != ' ' {
			// Break before the word that does not fit.
			if cut := strings.LastIndexByte(line, ' '); cut > 0 {
				line = line[:cut+1]
			}
		}
		lines = append(lines, strings.TrimRight(line, " "))
		s = strings.TrimLeft(s[len(line):], " ")
	}
	return lines
}

func wrapRow(cells []Cell, limits []int) []Cell {
	wrapped := make([]Cell, len(cells))
	for i, cell := range cells {
		limit := 0
		if i < len(limits) {
			limit = limits[i]
		}
		if limit <= 0 || cell.Has(TagMarkup) {
			wrapped[i] = cell
			continue
		}
		out := Cell{Tags: cell.Tags, Labels: cell.Labels}
		for _, line := range cell.Lines {
			out.Lines = append(out.Lines, wrapCell(line, limit)...)
		}
		wrapped[i] = out
	}
	return wrapped
}

func escapeRow(cells []Cell, e escaper) []Cell {
	escaped := make([]Cell, len(cells))
	for i, cell := range cells {
		if cell.Has(TagMarkup) {
			escaped[i] = cell
			continue
		}
		out := Cell{Tags: cell.Tags, Labels: cell.Labels, Lines: make([]string, len(cell.Lines))}
		for j, line := range cell.Lines {
			out.Lines[j] = e.escape(line)
		}
		escaped[i] = out
	}
	return escaped
}

func maxLines(cells []Cell) int {
	n := 1
	for _, c := range cells {
		n = max(n, c.height())
	}
	return n
}

func alignCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
