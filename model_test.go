package reta_test

import (
	"testing"

	"github.com/bjaus/reta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(row reta.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestNewTable(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"A", "B", "C"}, {"1"}, {"2", "x"}})

	assert.Equal(t, 3, tbl.Width())
	for _, row := range tbl.Rows {
		assert.Len(t, row.Cells, 3)
	}
	assert.Equal(t, []int{0, 1, 2}, []int{tbl.Rows[0].Number, tbl.Rows[1].Number, tbl.Rows[2].Number})
	assert.True(t, tbl.Header().Cells[1].Has(reta.TagHeader))
	assert.False(t, tbl.Rows[1].Cells[0].Has(reta.TagHeader))
	assert.Len(t, tbl.Data(), 2)
	assert.Equal(t, reta.Row{}, reta.Table{}.Header())
}

func TestTableSlice(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"H"}, {"a"}, {"b"}, {"c"}})

	got := tbl.Slice(reta.NewIndexSet(3, 1, 9))
	require.Len(t, got.Rows, 3)
	assert.Equal(t, []int{0, 1, 3}, []int{got.Rows[0].Number, got.Rows[1].Number, got.Rows[2].Number})

	empty := tbl.Slice(reta.IndexSet{})
	assert.Len(t, empty.Rows, 1)
}

func TestTableColumnsAndProject(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"A", "B", "C"}, {"1", "2", "3"}})

	assert.Equal(t, []string{"C", "A"}, texts(tbl.Columns([]int{2, 0, 7}).Header()))

	tests := map[string]struct {
		order []int
		want  []string
	}{
		"reorder":  {order: []int{3, 1}, want: []string{"3", "1"}},
		"subset":   {order: []int{2}, want: []string{"2"}},
		"invalid":  {order: []int{0, 4}, want: []string{"1", "2", "3"}},
		"no order": {order: nil, want: []string{"1", "2", "3"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, texts(tbl.Project(tt.order).Rows[1]))
		})
	}
}

func TestTableAppendColumn(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"A"}, {"1"}})
	tbl.PadTo(3)

	idx := tbl.AppendColumn("D", reta.TagGenerated)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 4, tbl.Width())
	assert.Equal(t, []string{"D"}, tbl.Rows[0].Cells[3].Lines)
	assert.True(t, tbl.Rows[0].Cells[3].Has(reta.TagHeader))
	assert.True(t, tbl.Rows[1].Cells[3].Has(reta.TagGenerated))
	assert.True(t, tbl.Rows[1].Cells[3].Empty())
}

func TestTableLabel(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"A", "B"}, {"1", "2"}})
	tbl.Label(1, "animal")
	tbl.Label(5, "ignored")

	assert.Equal(t, []string{"animal"}, tbl.Rows[0].Cells[1].Labels)
	assert.Nil(t, tbl.Rows[0].Cells[0].Labels)
	assert.Nil(t, tbl.Rows[1].Cells[1].Labels)

	projected := tbl.Project([]int{2})
	assert.Equal(t, []string{"animal"}, projected.Rows[0].Cells[0].Labels)

	clone := tbl.Clone()
	clone.Rows[0].Cells[1].Labels[0] = "changed"
	assert.Equal(t, "animal", tbl.Rows[0].Cells[1].Labels[0])

	headless := tbl.Slice(reta.NewIndexSet(1))
	headless.Rows = headless.Rows[1:]
	headless.Label(0, "x")
	assert.Nil(t, headless.Rows[0].Cells[0].Labels)
}

func TestTableClone(t *testing.T) {
	t.Parallel()
	tbl := reta.NewTable([][]string{{"A"}, {"1"}})
	clone := tbl.Clone()
	clone.Rows[1].Cells[0].Lines[0] = "changed"
	clone.Rows[1].Cells[0].Tag(reta.TagMarkup)

	assert.Equal(t, "1", tbl.Rows[1].Cells[0].String())
	assert.False(t, tbl.Rows[1].Cells[0].Has(reta.TagMarkup))
}

func TestCell(t *testing.T) {
	t.Parallel()
	c := reta.NewCell("a", "b")
	assert.Equal(t, "a\nb", c.String())
	assert.False(t, c.Empty())
	assert.True(t, reta.NewCell(" ", "").Empty())
	assert.True(t, reta.Cell{}.Empty())

	c.Tag(reta.TagMarkup)
	c.Tag(reta.TagMarkup)
	assert.Equal(t, []string{reta.TagMarkup}, c.Tags)
}

func TestIndexSet(t *testing.T) {
	t.Parallel()
	a := reta.NewIndexSet(5, 1, 3)
	b := reta.Span(3, 6)

	assert.Equal(t, []int{1, 3, 5}, a.Values())
	assert.Equal(t, []int{1, 3, 4, 5, 6}, a.Union(b).Values())
	assert.Equal(t, []int{3, 5}, a.Intersect(b).Values())
	assert.Equal(t, []int{1}, a.Difference(b).Values())
	assert.Equal(t, []int{3, 5}, a.Filter(func(n int) bool { return n > 1 }).Values())
	assert.Equal(t, 5, a.Max())
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Has(3))
	assert.False(t, a.Has(4))
	assert.True(t, a.Equal(reta.NewIndexSet(1, 3, 5)))
	assert.False(t, a.Equal(b))
	assert.True(t, reta.Span(4, 2).Empty())
}

func TestIndexSetZeroValue(t *testing.T) {
	t.Parallel()
	var s reta.IndexSet
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Max())
	assert.Equal(t, []int{}, s.Values())

	s.Add(2, 2, 7)
	s.Remove(7, 9)
	assert.Equal(t, []int{2}, s.Values())

	clone := s.Clone()
	clone.Add(3)
	assert.False(t, s.Has(3))
}
