// Package combi splices combination tables into the primary table.
//
// A combination table carries a join key in column 0. A key names one or more
// primary row numbers (see [ParseKey]). [Joiner.Join] appends the selected
// combination columns to the primary table and fills every primary row with
// the content of the combination rows whose key names it. [Joiner.Concat]
// appends columns of a row-aligned table the same way, matched by row number.
//
// Both operations claim new column indices in a shared [Registry]; a collision
// fails with [ErrDuplicateIndex] before the primary table is touched.
package combi

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/bjaus/reta"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/samber/lo"
)

// Sentinel errors for programmatic error handling.
var (
	ErrKeyParse       = errors.New("invalid combination key")
	ErrDuplicateIndex = errors.New("duplicate generated column index")
)

// joinSeparator joins merged lines when the renderer does not wrap.
const joinSeparator = " | "

// Source is a combination table with parsed keys. Every non-empty content
// cell is prefixed with its row's key, as in "(2/5) text".
type Source struct {
	Name  string
	Table reta.Table
	keys  [][]int
}

// NewSource parses the keys of t. A malformed key fails the whole source
// with [ErrKeyParse].
func NewSource(name string, t reta.Table) (*Source, error) {
	src := &Source{Name: name, Table: t.Clone(), keys: make([][]int, len(t.Rows))}
	for i, row := range src.Table.Rows {
		if row.Number == 0 {
			continue
		}
		text := ""
		if len(row.Cells) > 0 {
			text = row.Cells[0].String()
		}
		keys, err := ParseKey(text)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, row.Number, err)
		}
		src.keys[i] = keys
		for j := 1; j < len(row.Cells); j++ {
			cell := &src.Table.Rows[i].Cells[j]
			if cell.Empty() {
				continue
			}
			cell.Lines = []string{fmt.Sprintf("(%s) %s", formatKey(keys), strings.Join(cell.Lines, " "))}
		}
	}
	return src, nil
}

// Keys returns the keys of the row at index i.
func (s *Source) Keys(i int) []int {
	if i < 0 || i >= len(s.keys) {
		return nil
	}
	return s.keys[i]
}

// rowsFor returns the indices of the rows whose key names number.
func (s *Source) rowsFor(number int) []int {
	var rows []int
	for i, keys := range s.keys {
		if slices.Contains(keys, number) {
			rows = append(rows, i)
		}
	}
	return rows
}

// Options configures a [Joiner].
type Options struct {
	// Syntax selects the merge mode. HTML and BBCode put one list item per
	// contribution; every other syntax appends lines.
	Syntax reta.Syntax
	// Wrap tells whether the renderer wraps lines. Without wrapping, merged
	// lines are joined with " | ".
	Wrap bool
	// Vanilla is the number of primary columns that are not generated.
	Vanilla int
}

// Joiner appends generated columns to a primary table.
type Joiner struct {
	opts     Options
	registry *Registry
	log      logger.Logger
}

func New(registry *Registry, opts Options, log logger.Logger) *Joiner {
	return &Joiner{opts: opts, registry: registry, log: log}
}

// Join appends the columns cols of src to primary and fills them. It returns
// the relation between the new primary columns and the source columns.
func (j *Joiner) Join(primary *reta.Table, src *Source, cols reta.IndexSet) (*Relation, error) {
	width := src.Table.Width()
	secondary := lo.Filter(cols.Values(), func(c int, _ int) bool { return c >= 1 && c < width })
	indices, err := j.claim(primary, secondary, src.Name, src.Table.Header())
	if err != nil {
		return nil, err
	}

	rel := NewRelation()
	for k, c := range secondary {
		if err := rel.Add(indices[k], c); err != nil {
			return nil, err
		}
	}

	j.appendColumns(primary, indices, secondary, src.Table.Header(), reta.TagCombination)
	for i := range primary.Rows {
		row := &primary.Rows[i]
		if row.Number == 0 {
			continue
		}
		for _, s := range src.rowsFor(row.Number) {
			for k, c := range secondary {
				text := StripSelfCitation(cellText(src.Table.Rows[s], c), row.Number)
				if strings.TrimSpace(text) == "" {
					continue
				}
				j.merge(&row.Cells[indices[k]], text)
			}
		}
		for _, idx := range indices {
			j.finish(&row.Cells[idx])
		}
	}

	j.log.Debugn("joined combination table",
		logger.NewStringField("source", src.Name),
		logger.NewIntField("columns", int64(len(indices))),
	)
	return rel, nil
}

// Concat appends the columns cols of a table whose rows line up with the
// primary rows by number. Rows without a counterpart stay empty.
func (j *Joiner) Concat(primary *reta.Table, src reta.Table, cols reta.IndexSet, label string) error {
	width := src.Width()
	secondary := lo.Filter(cols.Values(), func(c int, _ int) bool { return c >= 0 && c < width })
	indices, err := j.claim(primary, secondary, label, src.Header())
	if err != nil {
		return err
	}

	byNumber := lo.SliceToMap(src.Data(), func(r reta.Row) (int, reta.Row) { return r.Number, r })
	j.appendColumns(primary, indices, secondary, src.Header(), reta.TagGenerated)
	for i := range primary.Rows {
		row := &primary.Rows[i]
		other, ok := byNumber[row.Number]
		if row.Number == 0 || !ok {
			continue
		}
		for k, c := range secondary {
			if c < len(other.Cells) {
				row.Cells[indices[k]].Lines = slices.Clone(other.Cells[c].Lines)
			}
		}
	}

	j.log.Debugn("concatenated table",
		logger.NewStringField("source", label),
		logger.NewIntField("columns", int64(len(indices))),
	)
	return nil
}

// claim computes and registers the indices of the new columns. The primary
// table is not modified, so a failure leaves it as it was.
func (j *Joiner) claim(primary *reta.Table, cols []int, label string, header reta.Row) ([]int, error) {
	base := j.opts.Vanilla + j.registry.Len()
	width := primary.Width()
	indices := make([]int, len(cols))
	for k := range cols {
		idx := base + k
		if j.registry.Has(idx) || idx < width {
			return nil, fmt.Errorf("%w: column %d for %s", ErrDuplicateIndex, idx, label)
		}
		indices[k] = idx
	}
	for k, c := range cols {
		if err := j.registry.Register(indices[k], label+":"+cellText(header, c)); err != nil {
			return nil, err
		}
	}
	return indices, nil
}

func (j *Joiner) appendColumns(primary *reta.Table, indices, cols []int, header reta.Row, tag string) {
	for k, c := range cols {
		primary.PadTo(indices[k])
		primary.AppendColumn(cellText(header, c), tag)
	}
}

// merge adds one contribution to a cell.
func (j *Joiner) merge(c *reta.Cell, text string) {
	switch j.opts.Syntax {
	case reta.HTML:
		appendItem(c, "<li>"+html.EscapeString(text)+"</li>")
	case reta.BBCode:
		appendItem(c, "[*]"+text)
	default:
		if c.Empty() {
			c.Lines = nil
		}
		c.Lines = append(c.Lines, text)
	}
}

func appendItem(c *reta.Cell, item string) {
	if c.Empty() {
		c.Lines = []string{item}
		return
	}
	c.Lines[len(c.Lines)-1] += item
}

// finish closes a cell once every contribution is merged.
func (j *Joiner) finish(c *reta.Cell) {
	if c.Empty() {
		return
	}
	switch j.opts.Syntax {
	case reta.HTML:
		wrapLines(c, "<ul>", "</ul>")
	case reta.BBCode:
		wrapLines(c, "[list]", "[/list]")
	default:
		if !j.opts.Wrap {
			c.Lines = []string{strings.Join(c.Lines, joinSeparator)}
		}
	}
}

func wrapLines(c *reta.Cell, open, closing string) {
	for i, l := range c.Lines {
		c.Lines[i] = open + l + closing
	}
	c.Tag(reta.TagMarkup)
}

func cellText(row reta.Row, col int) string {
	if col < 0 || col >= len(row.Cells) {
		return ""
	}
	return strings.Join(row.Cells[col].Lines, " ")
}
