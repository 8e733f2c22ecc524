package combi_test

import (
	"testing"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/combi"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryTable() reta.Table {
	return reta.NewTable([][]string{
		{"Nr", "Name"},
		{"1", "eins"},
		{"2", "zwei"},
		{"3", "drei"},
	})
}

func source(t *testing.T, records [][]string) *combi.Source {
	t.Helper()
	src, err := combi.NewSource("tiere", reta.NewTable(records))
	require.NoError(t, err)
	return src
}

func column(tbl reta.Table, col int) [][]string {
	out := make([][]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out[i] = row.Cells[col].Lines
	}
	return out
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    []int
		wantErr require.ErrorAssertionFunc
	}{
		"single":       {in: "3", want: []int{3}, wantErr: require.NoError},
		"negative":     {in: "-3", want: []int{3}, wantErr: require.NoError},
		"spaces":       {in: " 7 ", want: []int{7}, wantErr: require.NoError},
		"parenthesis":  {in: "(4)", want: []int{4}, wantErr: require.NoError},
		"alternatives": {in: "2/5", want: []int{2, 5}, wantErr: require.NoError},
		"grouped":      {in: "(1)/(2)", want: []int{1, 2}, wantErr: require.NoError},
		"nested":       {in: "(2/(3/-4))", want: []int{2, 3, 4}, wantErr: require.NoError},
		"duplicates":   {in: "2/2", want: []int{2}, wantErr: require.NoError},
		"word":         {in: "x", wantErr: isKeyParse},
		"empty":        {in: "", wantErr: isKeyParse},
		"dangling":     {in: "2/", wantErr: isKeyParse},
		"unbalanced":   {in: "(2", wantErr: isKeyParse},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := combi.ParseKey(tt.in)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func isKeyParse(t require.TestingT, err error, _ ...any) {
	require.ErrorIs(t, err, combi.ErrKeyParse)
}

func TestStripSelfCitation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text string
		key  int
		want string
	}{
		"self":            {text: "(2) Löwe", key: 2, want: "Löwe"},
		"negative self":   {text: "(-2) Löwe", key: 2, want: "Löwe"},
		"other entries":   {text: "(2|5) Löwe", key: 2, want: "(5) Löwe"},
		"alternatives":    {text: "(2/5) Löwe", key: 2, want: "(2/5) Löwe"},
		"other number":    {text: "(3) Löwe", key: 2, want: "(3) Löwe"},
		"no annotation":   {text: "Löwe", key: 2, want: "Löwe"},
		"word annotation": {text: "(groß) Löwe", key: 2, want: "(groß) Löwe"},
		"unclosed":        {text: "(2 Löwe", key: 2, want: "(2 Löwe"},
		"only annotation": {text: "(2)", key: 2, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, combi.StripSelfCitation(tt.text, tt.key))
		})
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()
	src := source(t, [][]string{
		{"Schlüssel", "Tier", "Farbe"},
		{"2", "Löwe", ""},
		{"(3)/5", "Tiger", "gelb"},
	})
	assert.Equal(t, []int{2}, src.Keys(1))
	assert.Equal(t, []int{3, 5}, src.Keys(2))
	assert.Nil(t, src.Keys(9))
	assert.Equal(t, []string{"(2) Löwe"}, src.Table.Rows[1].Cells[1].Lines)
	assert.Equal(t, []string{""}, src.Table.Rows[1].Cells[2].Lines)
	assert.Equal(t, []string{"(3/5) gelb"}, src.Table.Rows[2].Cells[2].Lines)
}

func TestNewSourceBadKey(t *testing.T) {
	t.Parallel()
	_, err := combi.NewSource("tiere", reta.NewTable([][]string{
		{"Schlüssel", "Tier"},
		{"zwei", "Löwe"},
	}))
	assert.ErrorIs(t, err, combi.ErrKeyParse)
}

func TestJoinAppendsOneColumn(t *testing.T) {
	t.Parallel()
	primary := primaryTable()
	src := source(t, [][]string{
		{"Schlüssel", "Tier"},
		{"2", "Löwe"},
	})

	j := combi.New(combi.NewRegistry(), combi.Options{Syntax: reta.Shell, Vanilla: 2}, logger.NOP)
	rel, err := j.Join(&primary, src, reta.NewIndexSet(1))
	require.NoError(t, err)

	assert.Equal(t, 3, primary.Width())
	assert.Equal(t, [][]string{{"Tier"}, nil, {"Löwe"}, nil}, column(primary, 2))
	assert.True(t, primary.Rows[2].Cells[2].Has(reta.TagCombination))

	sec, ok := rel.Secondary(2)
	require.True(t, ok)
	assert.Equal(t, 1, sec)
	prim, ok := rel.Primary(1)
	require.True(t, ok)
	assert.Equal(t, 2, prim)
	assert.Equal(t, []int{2}, rel.PrimaryColumns())
}

func TestJoinMergeModes(t *testing.T) {
	t.Parallel()

	records := [][]string{
		{"Schlüssel", "Tier"},
		{"2", "Katze & Hund"},
		{"2/3", "Tiger"},
		{"1", ""},
	}

	tests := map[string]struct {
		opts   combi.Options
		want   [][]string
		markup bool
	}{
		"free form joined": {
			opts: combi.Options{Syntax: reta.Shell, Vanilla: 2},
			want: [][]string{{"Tier"}, nil, {"Katze & Hund | (2/3) Tiger"}, {"(2/3) Tiger"}},
		},
		"free form wrapped": {
			opts: combi.Options{Syntax: reta.Markdown, Wrap: true, Vanilla: 2},
			want: [][]string{{"Tier"}, nil, {"Katze & Hund", "(2/3) Tiger"}, {"(2/3) Tiger"}},
		},
		"html": {
			opts: combi.Options{Syntax: reta.HTML, Vanilla: 2},
			want: [][]string{
				{"Tier"},
				nil,
				{"<ul><li>Katze &amp; Hund</li><li>(2/3) Tiger</li></ul>"},
				{"<ul><li>(2/3) Tiger</li></ul>"},
			},
			markup: true,
		},
		"bbcode": {
			opts: combi.Options{Syntax: reta.BBCode, Vanilla: 2},
			want: [][]string{
				{"Tier"},
				nil,
				{"[list][*]Katze & Hund[*](2/3) Tiger[/list]"},
				{"[list][*](2/3) Tiger[/list]"},
			},
			markup: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			primary := primaryTable()
			j := combi.New(combi.NewRegistry(), tt.opts, logger.NOP)
			_, err := j.Join(&primary, source(t, records), reta.NewIndexSet(1))
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(primary, 2))
			assert.Equal(t, tt.markup, primary.Rows[2].Cells[2].Has(reta.TagMarkup))
			assert.False(t, primary.Rows[1].Cells[2].Has(reta.TagMarkup))
		})
	}
}

func TestJoinDuplicateIndex(t *testing.T) {
	t.Parallel()
	primary := primaryTable()
	registry := combi.NewRegistry()
	src := source(t, [][]string{
		{"Schlüssel", "Tier", "Farbe"},
		{"2", "Löwe", "gelb"},
	})

	first := combi.New(registry, combi.Options{Vanilla: 2}, logger.NOP)
	_, err := first.Join(&primary, src, reta.NewIndexSet(1))
	require.NoError(t, err)
	before := primary.Clone()

	second := combi.New(registry, combi.Options{Vanilla: 1}, logger.NOP)
	_, err = second.Join(&primary, src, reta.NewIndexSet(2))
	require.ErrorIs(t, err, combi.ErrDuplicateIndex)
	assert.Equal(t, before, primary)
	assert.Equal(t, 1, registry.Len())

	_, err = first.Join(&primary, src, reta.NewIndexSet(2))
	require.NoError(t, err)
	assert.Equal(t, 4, primary.Width())
	assert.Equal(t, []int{2, 3}, registry.Indices())
}

func TestJoinOccupiedColumn(t *testing.T) {
	t.Parallel()
	primary := primaryTable()
	before := primary.Clone()
	j := combi.New(combi.NewRegistry(), combi.Options{Vanilla: 1}, logger.NOP)
	_, err := j.Join(&primary, source(t, [][]string{{"k", "v"}, {"1", "x"}}), reta.NewIndexSet(1))
	require.ErrorIs(t, err, combi.ErrDuplicateIndex)
	assert.Equal(t, before, primary)
}

func TestJoinIgnoresInvalidColumns(t *testing.T) {
	t.Parallel()
	primary := primaryTable()
	j := combi.New(combi.NewRegistry(), combi.Options{Vanilla: 2}, logger.NOP)
	rel, err := j.Join(&primary, source(t, [][]string{{"k", "v"}, {"1", "x"}}), reta.NewIndexSet(0, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, rel.Len())
	assert.Equal(t, 2, primary.Width())
}

func TestConcat(t *testing.T) {
	t.Parallel()
	primary := primaryTable().Slice(reta.NewIndexSet(1, 3))
	aligned := reta.NewTable([][]string{
		{"Nr", "Halb", "Drittel"},
		{"1", "1/2", "1/3"},
		{"2", "2/2", "2/3"},
		{"3", "3/2", "3/3"},
	})
	registry := combi.NewRegistry()
	j := combi.New(registry, combi.Options{Vanilla: 2}, logger.NOP)

	require.NoError(t, j.Concat(&primary, aligned, reta.NewIndexSet(2), "gebrochen"))
	assert.Equal(t, [][]string{{"Drittel"}, {"1/3"}, {"3/3"}}, column(primary, 2))
	assert.True(t, primary.Rows[1].Cells[2].Has(reta.TagGenerated))
	label, ok := registry.Label(2)
	require.True(t, ok)
	assert.Equal(t, "gebrochen:Drittel", label)

	src := source(t, [][]string{{"k", "v"}, {"3", "x"}})
	_, err := j.Join(&primary, src, reta.NewIndexSet(1))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"v"}, nil, {"x"}}, column(primary, 3))
}

func TestRelationInjective(t *testing.T) {
	t.Parallel()
	rel := combi.NewRelation()
	require.NoError(t, rel.Add(3, 1))
	assert.ErrorIs(t, rel.Add(4, 1), combi.ErrDuplicateIndex)
	assert.ErrorIs(t, rel.Add(3, 2), combi.ErrDuplicateIndex)
	assert.Equal(t, 1, rel.Len())
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := combi.NewRegistry()
	require.NoError(t, r.Register(4, "a"))
	assert.ErrorIs(t, r.Register(4, "b"), combi.ErrDuplicateIndex)
	assert.True(t, r.Has(4))
	assert.False(t, r.Has(5))
}
