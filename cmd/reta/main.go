package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/columns"
	"github.com/bjaus/reta/config"
	"github.com/bjaus/reta/dataset"
	"github.com/bjaus/reta/report"
	"github.com/midbel/cli"
	"github.com/olekukonko/tablewriter"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/samber/lo"
	"golang.org/x/term"
)

var (
	summary = "reta prints selected rows and columns of the religion tables"
	help    = `Row conditions are given as flags, column selections as name=value
arguments. Settings not given on the command line are read from RETA_*
environment variables.`
)

func main() {
	var (
		set  = cli.NewFlagSet("reta")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"print"}, &printCmd)
	root.Register([]string{"rows"}, &rowsCmd)
	root.Register([]string{"columns"}, &columnsCmd)
	return root
}

var printCmd = cli.Command{
	Name:    "print",
	Alias:   []string{"show"},
	Summary: "print the report for the given rows and columns",
	Usage:   "print [-a <rows>] [-f <keywords>] [-o <syntax>] [-W <width>] <name=value>...",
	Handler: &PrintCommand{},
}

var rowsCmd = cli.Command{
	Name:    "rows",
	Summary: "print the numbers of the selected rows",
	Usage:   "rows [-a <rows>] [-f <keywords>] [-i]",
	Handler: &RowsCommand{},
}

var columnsCmd = cli.Command{
	Name:    "columns",
	Alias:   []string{"classify"},
	Summary: "show how column selections are classified",
	Usage:   "columns [-C <catalog>] [-y] <name=value>...",
	Handler: &ColumnsCommand{},
}

// flagSet is the part of cli.FlagSet the commands register flags on.
type flagSet interface {
	StringVar(p *string, name, value, usage string)
	BoolVar(p *bool, name string, value bool, usage string)
	IntVar(p *int, name string, value int, usage string)
}

type sourceFlags struct {
	Primary string
	Catalog string
}

func (s *sourceFlags) register(set flagSet) {
	set.StringVar(&s.Primary, "d", "", "primary table")
	set.StringVar(&s.Catalog, "C", "", "column catalog")
}

func (s sourceFlags) apply(cfg *config.Config) {
	if s.Primary != "" {
		cfg.Primary = s.Primary
	}
	if s.Catalog != "" {
		cfg.Catalog = s.Catalog
	}
}

type rowFlags struct {
	Absolute   string
	Multiples  string
	Epochs     string
	Reindex    string
	ReindexMul string
	Powers     string
	Keywords   string
	Invert     bool
	Closure    bool
}

func (r *rowFlags) register(set flagSet) {
	set.StringVar(&r.Absolute, "a", "", "absolute rows")
	set.StringVar(&r.Multiples, "b", "", "multiples")
	set.StringVar(&r.Epochs, "n", "", "counting epochs")
	set.StringVar(&r.Reindex, "z", "", "re-indexed rows")
	set.StringVar(&r.ReindexMul, "y", "", "re-indexed multiples")
	set.StringVar(&r.Powers, "p", "", "powers of")
	set.StringVar(&r.Keywords, "f", "", "row keywords, comma separated")
	set.BoolVar(&r.Invert, "i", false, "invert to the adjacent rows")
	set.BoolVar(&r.Closure, "w", false, "add the divisors of the absolute rows")
}

// conditions translates the flags into row filter conditions.
func (r rowFlags) conditions() []string {
	var out []string
	prefixed := []struct {
		prefix  string
		payload string
	}{
		{"_a_", r.Absolute},
		{"_b_", r.Multiples},
		{"_n_", r.Epochs},
		{"_^_", r.Powers},
		{"_z_", r.Reindex},
		{"_y_", r.ReindexMul},
	}
	for _, p := range prefixed {
		if p.payload != "" {
			out = append(out, p.prefix+p.payload)
		}
	}
	for _, k := range strings.Split(r.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if r.Closure {
		out = append(out, "_w_")
	}
	if r.Invert {
		out = append(out, "_i_")
	}
	return out
}

type renderFlags struct {
	Syntax      string
	Width       int
	Order       string
	NoNumbering bool
	NoHeader    bool
	NoEmpty     bool
	Color       bool
}

func (f *renderFlags) register(set flagSet) {
	set.StringVar(&f.Syntax, "o", "", "output syntax: "+strings.Join(lo.Map(reta.Syntaxes(), func(s reta.Syntax, _ int) string {
		return s.String()
	}), ", "))
	set.IntVar(&f.Width, "W", 0, "text width, 0 detects the terminal")
	set.StringVar(&f.Order, "O", "", "output columns, comma separated")
	set.BoolVar(&f.NoNumbering, "N", false, "no row numbers")
	set.BoolVar(&f.NoHeader, "H", false, "no header row")
	set.BoolVar(&f.NoEmpty, "E", false, "skip rows without content")
	set.BoolVar(&f.Color, "c", false, "color rows")
}

func (f renderFlags) apply(cfg *config.Config) error {
	if f.Syntax != "" {
		s, err := reta.ParseSyntax(f.Syntax)
		if err != nil {
			return err
		}
		cfg.Syntax = s
	}
	if f.Order != "" {
		order, err := config.ParseInts(f.Order)
		if err != nil {
			return fmt.Errorf("%w: order: %w", config.ErrInvalidConfig, err)
		}
		cfg.Order = order
	}
	if f.Width > 0 {
		cfg.Width = f.Width
	}
	cfg.Numbering = cfg.Numbering && !f.NoNumbering
	cfg.NoHeader = cfg.NoHeader || f.NoHeader
	cfg.NoEmpty = cfg.NoEmpty || f.NoEmpty
	cfg.Color = cfg.Color || f.Color
	return nil
}

type PrintCommand struct {
	sourceFlags
	rowFlags
	renderFlags
}

func (c PrintCommand) Run(args []string) error {
	set := cli.NewFlagSet("print")
	c.sourceFlags.register(set)
	c.rowFlags.register(set)
	c.renderFlags.register(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(c.sourceFlags)
	if err != nil {
		return err
	}
	if err := c.renderFlags.apply(&cfg); err != nil {
		return err
	}
	if cfg.Width == 0 && cfg.Syntax.Wraps() {
		cfg.Width = terminalWidth(os.Stdout)
	}
	sels, err := parseSelections(set.Args())
	if err != nil {
		return err
	}
	g, err := report.Open(cfg, newLogger())
	if err != nil {
		return err
	}
	return g.Generate(os.Stdout, report.Request{
		Conditions: c.rowFlags.conditions(),
		Selections: sels,
	})
}

type RowsCommand struct {
	sourceFlags
	rowFlags
}

func (c RowsCommand) Run(args []string) error {
	set := cli.NewFlagSet("rows")
	c.sourceFlags.register(set)
	c.rowFlags.register(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(c.sourceFlags)
	if err != nil {
		return err
	}
	primary, err := dataset.Load(cfg.Primary)
	if err != nil {
		return err
	}
	g := report.New(cfg, &columns.Catalog{}, newLogger())
	rows := g.Rows(c.rowFlags.conditions(), len(primary.Data()))
	fmt.Fprintln(os.Stdout, strings.Join(lo.Map(rows.Values(), func(n int, _ int) string {
		return strconv.Itoa(n)
	}), ","))
	return nil
}

type ColumnsCommand struct {
	sourceFlags
	YAML bool
}

func (c ColumnsCommand) Run(args []string) error {
	set := cli.NewFlagSet("columns")
	c.sourceFlags.register(set)
	set.BoolVar(&c.YAML, "y", false, "write the classification as YAML")
	if err := set.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(c.sourceFlags)
	if err != nil {
		return err
	}
	sels, err := parseSelections(set.Args())
	if err != nil {
		return err
	}
	g, err := report.Open(cfg, logger.NOP)
	if err != nil {
		return err
	}
	cls := g.Classify(sels)
	if c.YAML {
		return columns.WriteYAML(os.Stdout, cls)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Column", "Category", "Tags"})
	table.SetAutoFormatHeaders(false)
	for _, row := range classificationRows(cls) {
		table.Append(row)
	}
	table.Render()
	for _, u := range cls.Unknown {
		fmt.Fprintln(os.Stderr, "unknown:", u)
	}
	return nil
}

// classificationRows lists every classified column in category order.
func classificationRows(cls columns.Classification) [][]string {
	var rows [][]string
	for _, cat := range columns.Categories() {
		for _, col := range cls.Buckets[cat].Values() {
			rows = append(rows, []string{
				strconv.Itoa(col),
				cat.String(),
				strings.Join(cls.Tags[col].Tags, ", "),
			})
		}
	}
	return rows
}

func parseSelections(args []string) ([]columns.Selection, error) {
	var out []columns.Selection
	for _, arg := range args {
		sels, err := columns.ParseSelections(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, sels...)
	}
	return out, nil
}

func loadConfig(src sourceFlags) (config.Config, error) {
	cfg, err := config.Load(config.New())
	if err != nil {
		return config.Config{}, err
	}
	src.apply(&cfg)
	return cfg, nil
}

func newLogger() logger.Logger {
	return logger.NewLogger().Child("reta")
}

// terminalWidth returns the width of f when it is a terminal, 0 otherwise.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
