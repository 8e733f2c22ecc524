// Package columns classifies the columns a report shows.
//
// Callers select columns with name=value parameters. A [Catalog] declares the
// columns behind every parameter, sorted into categories. [Classifier.Classify]
// runs a positive pass over the plain selections and a negative pass over the
// negated ones; the result per category is positive minus negative. Every
// primary table column ends up in exactly one category.
package columns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/numbers"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrInvalidCatalog   = errors.New("invalid catalog")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Category is the primary classification of a column.
type Category int

const (
	Ordinary Category = iota
	Generated
	Concatenated
	CombinationPrimary
	CombinationSecondary
	BoolTuple
	FractionalUniverse
	FractionalGalaxy
	FractionalEmotion
	FractionalSize
	MetaConcrete
)

var categoryNames = [...]string{
	Ordinary:             "ordinary",
	Generated:            "generated",
	Concatenated:         "concatenated",
	CombinationPrimary:   "combination-primary",
	CombinationSecondary: "combination-secondary",
	BoolTuple:            "bool-tuple",
	FractionalUniverse:   "fractional-universe",
	FractionalGalaxy:     "fractional-galaxy",
	FractionalEmotion:    "fractional-emotion",
	FractionalSize:       "fractional-size",
	MetaConcrete:         "meta-concrete",
}

// Categories returns every category in precedence order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Combination reports whether the category indexes combination table
// columns rather than primary table columns.
func (c Category) Combination() bool {
	return c == CombinationPrimary || c == CombinationSecondary
}

// Selection is one name=value parameter.
type Selection struct {
	Name    string
	Value   string
	Negated bool
}

func (s Selection) String() string {
	return s.Name + "=" + s.Value
}

// ParseSelections reads "name=v1,-v2". A value with a leading "-" is
// negated.
func ParseSelections(arg string) ([]Selection, error) {
	name, values, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSelection, arg)
	}
	var out []Selection
	for _, v := range strings.Split(values, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		value, neg := strings.CutPrefix(v, "-")
		if value == "" {
			continue
		}
		out = append(out, Selection{Name: name, Value: value, Negated: neg})
	}
	return out, nil
}

// Tag is the entry of the column tag map: the primary category plus
// secondary descriptive tags.
type Tag struct {
	Category Category
	Tags     []string
}

// Classification is the result of [Classifier.Classify].
type Classification struct {
	Buckets map[Category]reta.IndexSet
	// Tags maps every classified primary table column to its category.
	Tags map[int]Tag
	// Unknown lists the selections that no catalog entry declares.
	Unknown []string
}

// Columns returns the union of the given buckets.
func (c Classification) Columns(cats ...Category) reta.IndexSet {
	out := reta.NewIndexSet()
	for _, cat := range cats {
		out = out.Union(c.Buckets[cat])
	}
	return out
}

// Err reports the unknown selections as joined [ErrUnknownParameter] errors.
func (c Classification) Err() error {
	errs := lo.Map(c.Unknown, func(u string, _ int) error {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, u)
	})
	return errors.Join(errs...)
}

// Classifier buckets selections using a catalog.
type Classifier struct {
	catalog *Catalog
	params  map[string]map[string]Parameter
	numeric map[string]Parameter
}

// New indexes catalog for classification.
func New(catalog *Catalog) *Classifier {
	c := &Classifier{
		catalog: catalog,
		params:  make(map[string]map[string]Parameter),
		numeric: make(map[string]Parameter),
	}
	for _, p := range catalog.Parameters {
		if p.Numeric {
			c.numeric[p.Name] = p
			continue
		}
		if c.params[p.Name] == nil {
			c.params[p.Name] = make(map[string]Parameter)
		}
		c.params[p.Name][p.Value] = p
	}
	return c
}

// Catalog returns the catalog the classifier was built from.
func (c *Classifier) Catalog() *Catalog { return c.catalog }

type pass struct {
	buckets map[Category]reta.IndexSet
	tags    map[int][]string
}

func newPass() pass {
	return pass{buckets: make(map[Category]reta.IndexSet), tags: make(map[int][]string)}
}

func (p pass) add(cat Category, tags []string, cols ...int) {
	set := p.buckets[cat]
	set.Add(cols...)
	p.buckets[cat] = set
	if cat.Combination() {
		return
	}
	for _, col := range cols {
		p.tags[col] = lo.Uniq(append(p.tags[col], tags...))
	}
}

// Classify buckets selections. Unknown selections are collected in the
// result instead of aborting.
func (c *Classifier) Classify(selections []Selection) Classification {
	var unknown []string
	positive, negative := newPass(), newPass()
	for _, s := range selections {
		target := positive
		if s.Negated {
			target = negative
		}
		if !c.apply(target, s) {
			unknown = append(unknown, s.String())
		}
	}

	out := Classification{
		Buckets: make(map[Category]reta.IndexSet),
		Tags:    make(map[int]Tag),
	}
	if len(unknown) > 0 {
		out.Unknown = lo.Uniq(unknown)
	}
	for _, cat := range Categories() {
		net := positive.buckets[cat].Difference(negative.buckets[cat])
		if !cat.Combination() {
			// A column keeps the first category it was assigned to.
			net = net.Filter(func(col int) bool {
				_, taken := out.Tags[col]
				return !taken
			})
			for _, col := range net.Values() {
				out.Tags[col] = Tag{Category: cat, Tags: positive.tags[col]}
			}
		}
		out.Buckets[cat] = net
	}
	return out
}

func (c *Classifier) apply(p pass, s Selection) bool {
	combos := c.catalog.Combinations
	switch {
	case combos.Primary.Name != "" && s.Name == combos.Primary.Name:
		col, ok := combos.Primary.Columns[s.Value]
		if ok {
			p.add(CombinationPrimary, nil, col)
		}
		return ok
	case combos.Secondary.Name != "" && s.Name == combos.Secondary.Name:
		col, ok := combos.Secondary.Columns[s.Value]
		if ok {
			p.add(CombinationSecondary, nil, col)
		}
		return ok
	}

	if param, ok := c.numeric[s.Name]; ok {
		return applyNumeric(p, param, s.Value)
	}
	param, ok := c.params[s.Name][s.Value]
	if !ok {
		return false
	}
	p.add(Ordinary, param.Tags, param.Ordinary...)
	p.add(Generated, param.Tags, param.Generated...)
	p.add(Concatenated, param.Tags, param.Concatenated...)
	p.add(BoolTuple, param.Tags, param.Bool...)
	p.add(MetaConcrete, param.Tags, param.Meta...)
	return true
}

func applyNumeric(p pass, param Parameter, value string) bool {
	n, err := cast.ToIntE(Decimal(value))
	if err != nil {
		return false
	}
	if n < 0 {
		n = -n
	}
	if n == 0 || n == 1 {
		return true
	}
	if param.PrimesOnly && !numbers.IsPrime(n) {
		return true
	}
	cat := Concatenated
	if param.Axis != "" {
		cat = axisCategory[param.Axis]
	}
	p.add(cat, lo.Compact(append([]string{string(param.Axis)}, param.Tags...)), n)
	return true
}

// Decimal strips leading zeros from an integer literal so that it always
// reads as base 10. Prefixed literals such as "0x10" no longer parse.
func Decimal(s string) string {
	s = strings.TrimSpace(s)
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" && s != "" {
		digits = "0"
	}
	return sign + digits
}
