// Package report assembles and renders a report: it loads the primary table,
// selects rows and columns, splices in generated and combination columns and
// writes the result in the configured syntax.
//
// Rendering goes to a buffer first. A report either comes out whole or not at
// all.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/columns"
	"github.com/bjaus/reta/combi"
	"github.com/bjaus/reta/config"
	"github.com/bjaus/reta/dataset"
	"github.com/bjaus/reta/numbers"
	"github.com/bjaus/reta/rangeparse"
	"github.com/bjaus/reta/rowfilter"
	"github.com/rudderlabs/rudder-go-kit/logger"
)

// Request is what the caller asks for: row conditions and column
// selections.
type Request struct {
	Conditions []string
	Selections []columns.Selection
}

// Generator builds reports from one configuration.
type Generator struct {
	cfg        config.Config
	classifier *columns.Classifier
	filter     *rowfilter.Filter
	log        logger.Logger
}

// New returns a generator classifying columns with catalog.
func New(cfg config.Config, catalog *columns.Catalog, log logger.Logger) *Generator {
	parser := rangeparse.New(cfg.Marker)
	return &Generator{
		cfg:        cfg,
		classifier: columns.New(catalog),
		filter:     rowfilter.New(parser, numbers.Default, cfg.FilterOptions(), log.Child("rowfilter")),
		log:        log,
	}
}

// Open loads the catalog named by cfg and returns a generator. Without a
// catalog path every selection is unknown.
func Open(cfg config.Config, log logger.Logger) (*Generator, error) {
	catalog := &columns.Catalog{}
	if cfg.Catalog != "" {
		var err error
		if catalog, err = dataset.LoadCatalog(cfg.Catalog); err != nil {
			return nil, err
		}
	}
	return New(cfg, catalog, log), nil
}

// Rows returns the row numbers selected by conditions out of 1..total.
func (g *Generator) Rows(conditions []string, total int) reta.IndexSet {
	return g.filter.Apply(conditions, total)
}

// Classify buckets selections. Unknown parameters are logged and skipped.
func (g *Generator) Classify(selections []columns.Selection) columns.Classification {
	cls := g.classifier.Classify(selections)
	if err := cls.Err(); err != nil {
		g.log.Warnn("ignoring unknown parameters", logger.NewErrorField(err))
	}
	return cls
}

// Build assembles the report table for req. Every table the request needs
// is read before any row is selected; an unreadable file aborts the build.
func (g *Generator) Build(req Request) (reta.Table, error) {
	primary, err := dataset.Load(g.cfg.Primary)
	if err != nil {
		return reta.Table{}, err
	}
	cls := g.Classify(req.Selections)
	concats, err := g.load(g.concatParts(cls))
	if err != nil {
		return reta.Table{}, err
	}
	combos, err := g.load(g.combinationParts(cls))
	if err != nil {
		return reta.Table{}, err
	}

	rows := g.Rows(req.Conditions, len(primary.Data()))
	width := primary.Width()
	vanilla := within(cls.Columns(columns.Ordinary, columns.BoolTuple, columns.MetaConcrete), width)
	table := primary.Slice(rows).Columns(vanilla)
	labelTrailing(&table, vanilla, cls.Tags)

	joiner := combi.New(combi.NewRegistry(), combi.Options{
		Syntax:  g.cfg.Syntax,
		Wrap:    g.cfg.RenderOptions(nil).Wrapping(),
		Vanilla: len(vanilla),
	}, g.log.Child("combi"))

	if generated := cls.Buckets[columns.Generated]; !generated.Empty() {
		if err := joiner.Concat(&table, primary, generated, "generated"); err != nil {
			return reta.Table{}, err
		}
		labelTrailing(&table, within(generated, width), cls.Tags)
	}
	for _, p := range concats {
		if err := joiner.Concat(&table, p.table, p.cols, p.key); err != nil {
			return reta.Table{}, err
		}
		labelTrailing(&table, within(p.cols, p.table.Width()), cls.Tags)
	}
	for _, p := range combos {
		src, err := combi.NewSource(p.key, p.table)
		if err != nil {
			g.log.Warnn("skipping combination table",
				logger.NewStringField("table", p.key),
				logger.NewErrorField(err),
			)
			continue
		}
		if _, err := joiner.Join(&table, src, p.cols); err != nil {
			return reta.Table{}, err
		}
	}

	return table.Project(g.cfg.Order), nil
}

// Generate builds the report for req and writes it to w. Nothing is written
// when any step fails.
func (g *Generator) Generate(w io.Writer, req Request) error {
	table, err := g.Build(req)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := reta.Write(&buf, table, g.cfg.RenderOptions(numbers.Default)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	g.log.Debugn("report rendered",
		logger.NewIntField("rows", int64(len(table.Data()))),
		logger.NewIntField("columns", int64(table.Width())),
		logger.NewStringField("syntax", g.cfg.Syntax.String()),
	)
	_, err = io.Copy(w, &buf)
	return err
}

type part struct {
	key   string
	path  string
	cols  reta.IndexSet
	table reta.Table
}

func (g *Generator) concatParts(cls columns.Classification) []part {
	parts := []part{
		{key: config.ConcatKey, cols: cls.Buckets[columns.Concatenated]},
		{key: string(columns.Universe), cols: cls.Buckets[columns.FractionalUniverse]},
		{key: string(columns.Galaxy), cols: cls.Buckets[columns.FractionalGalaxy]},
		{key: string(columns.Emotion), cols: cls.Buckets[columns.FractionalEmotion]},
		{key: string(columns.Size), cols: cls.Buckets[columns.FractionalSize]},
	}
	for i := range parts {
		parts[i].path = g.cfg.Concat[parts[i].key]
	}
	return parts
}

func (g *Generator) combinationParts(cls columns.Classification) []part {
	return []part{
		{key: "primary", path: g.cfg.CombinationPrimary, cols: cls.Buckets[columns.CombinationPrimary]},
		{key: "secondary", path: g.cfg.CombinationSecondary, cols: cls.Buckets[columns.CombinationSecondary]},
	}
}

// load reads the tables of the parts that have selected columns. A part
// without a configured table is logged and dropped.
func (g *Generator) load(parts []part) ([]part, error) {
	var out []part
	for _, p := range parts {
		if p.cols.Empty() {
			continue
		}
		if p.path == "" {
			g.log.Warnn("no table configured for selected columns", logger.NewStringField("table", p.key))
			continue
		}
		t, err := dataset.Load(p.path)
		if err != nil {
			return nil, err
		}
		p.table = t
		out = append(out, p)
	}
	return out, nil
}

// within returns the members of cols that index a column of a table width
// columns wide.
func within(cols reta.IndexSet, width int) []int {
	return cols.Filter(func(c int) bool { return c >= 0 && c < width }).Values()
}

// labelTrailing copies the parameter tags of the source columns cols onto
// the header cells of the last len(cols) columns of t.
func labelTrailing(t *reta.Table, cols []int, tags map[int]columns.Tag) {
	first := t.Width() - len(cols)
	for k, c := range cols {
		if tag, ok := tags[c]; ok && len(tag.Tags) > 0 {
			t.Label(first+k, tag.Tags...)
		}
	}
}
