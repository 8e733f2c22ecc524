package reta

import (
	"slices"
	"strings"
)

// Cell tags.
const (
	TagHeader      = "header"
	TagGenerated   = "generated"
	TagCombination = "combination"
	// TagMarkup marks content that already carries syntax markup and must
	// be written verbatim.
	TagMarkup = "markup"
)

// Cell is a possibly multi-line piece of text plus metadata tags. Labels
// only appear on header cells and name the parameter tags of the column.
type Cell struct {
	Lines  []string
	Tags   []string
	Labels []string
}

// NewCell returns a cell holding lines.
func NewCell(lines ...string) Cell {
	return Cell{Lines: lines}
}

func (c Cell) String() string { return strings.Join(c.Lines, "\n") }

// Empty reports whether the cell has no visible content.
func (c Cell) Empty() bool {
	for _, l := range c.Lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

func (c Cell) Has(tag string) bool { return slices.Contains(c.Tags, tag) }

// Tag adds tag unless it is already present.
func (c *Cell) Tag(tag string) {
	if !c.Has(tag) {
		c.Tags = append(c.Tags, tag)
	}
}

func (c Cell) height() int {
	return max(1, len(c.Lines))
}

func (c Cell) clone() Cell {
	return Cell{Lines: slices.Clone(c.Lines), Tags: slices.Clone(c.Tags), Labels: slices.Clone(c.Labels)}
}

// Row is an ordered sequence of cells. Number is the row's position in the
// loaded dataset; the header is row 0.
type Row struct {
	Number int
	Cells  []Cell
}

// Table is an ordered sequence of rows. Once assembled every row has the same
// number of cells.
type Table struct {
	Rows []Row
}

// NewTable builds a table from records. The first record is the header.
// Rows are numbered by position and padded to equal width.
func NewTable(records [][]string) Table {
	t := Table{Rows: make([]Row, len(records))}
	for i, rec := range records {
		row := Row{Number: i, Cells: make([]Cell, len(rec))}
		for j, text := range rec {
			row.Cells[j] = NewCell(text)
			if i == 0 {
				row.Cells[j].Tag(TagHeader)
			}
		}
		t.Rows[i] = row
	}
	t.Pad()
	return t
}

// Width returns the number of columns of the widest row.
func (t Table) Width() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row.Cells))
	}
	return n
}

// Pad extends every row with empty cells up to the table width.
func (t *Table) Pad() {
	t.PadTo(t.Width())
}

// PadTo extends every row with empty cells up to width columns.
func (t *Table) PadTo(width int) {
	for i := range t.Rows {
		for len(t.Rows[i].Cells) < width {
			t.Rows[i].Cells = append(t.Rows[i].Cells, Cell{})
		}
	}
}

// Header returns row 0, or a zero row for an empty table.
func (t Table) Header() Row {
	if len(t.Rows) == 0 || t.Rows[0].Number != 0 {
		return Row{}
	}
	return t.Rows[0]
}

// Data returns the rows following the header.
func (t Table) Data() []Row {
	if len(t.Rows) > 0 && t.Rows[0].Number == 0 {
		return t.Rows[1:]
	}
	return t.Rows
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := Table{Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		cells := make([]Cell, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.clone()
		}
		out.Rows[i] = Row{Number: row.Number, Cells: cells}
	}
	return out
}

// Slice returns the header followed by the rows whose number is in rows.
func (t Table) Slice(rows IndexSet) Table {
	out := Table{}
	for _, row := range t.Rows {
		if row.Number == 0 || rows.Has(row.Number) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Columns returns a table with only the given 0-based columns, in the given
// order. Out of range indices are skipped.
func (t Table) Columns(cols []int) Table {
	out := Table{Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		cells := make([]Cell, 0, len(cols))
		for _, c := range cols {
			if c >= 0 && c < len(row.Cells) {
				cells = append(cells, row.Cells[c])
			}
		}
		out.Rows[i] = Row{Number: row.Number, Cells: cells}
	}
	return out
}

// Project reorders or subsets columns by 1-based position. When order names
// no existing column the table is returned unchanged.
func (t Table) Project(order []int) Table {
	width := t.Width()
	cols := make([]int, 0, len(order))
	for _, pos := range order {
		if pos >= 1 && pos <= width {
			cols = append(cols, pos-1)
		}
	}
	if len(cols) == 0 {
		return t
	}
	return t.Columns(cols)
}

// Label sets the labels of the header cell of column col. It does nothing
// when the table has no header or no such column.
func (t *Table) Label(col int, labels ...string) {
	if len(t.Rows) == 0 || t.Rows[0].Number != 0 || col < 0 || col >= len(t.Rows[0].Cells) {
		return
	}
	t.Rows[0].Cells[col].Labels = slices.Clone(labels)
}

// AppendColumn adds a column titled header and returns its index. Data cells
// are empty and carry tags.
func (t *Table) AppendColumn(header string, tags ...string) int {
	t.Pad()
	idx := t.Width()
	for i := range t.Rows {
		c := Cell{Tags: slices.Clone(tags)}
		if t.Rows[i].Number == 0 {
			c.Lines = []string{header}
			c.Tag(TagHeader)
		}
		t.Rows[i].Cells = append(t.Rows[i].Cells, c)
	}
	return idx
}
