// Package rowfilter selects the rows of a report from a set of condition
// strings.
//
// Conditions belong to groups identified by a prefix or keyword. The groups
// are evaluated in a fixed order:
//
//  1. "_a_<spec>"       absolute rows, "_w_" adds the divisor closure
//  2. "_b_<spec>"       multiples, bounded by the sun ceiling
//  3. "=", "<", ">"     the "today" row, the rows before it, the rows after it
//  4. "_n_<spec>"       counting epochs
//  5. type keywords     aussenerste, innenerste, aussenalle, innenalle
//  6. celestial         mond, sonne, schwarzesonne, planet, SonneMitMondanteil
//  7. "<n>p"            prime multiples of n
//  8. "_^_<spec>"       powers of the listed bases
//  9. "<n>v"            multiples of n
//  10. sun ceiling      sun rows above the ceiling are dropped
//  11. "_i_"            inversion to the adjacent rows
//  12. "_z_", "_y_"     re-indexed selection, ordinary or multiples
//
// The condition "all" and groups 1 to 4 seed the selection: the first one
// present defines it and every later group intersects with it. Without any
// seeding group the selection starts as every row. A keyword or token with a
// leading "-" is subtracted from its own group's contribution.
package rowfilter

import (
	"strconv"
	"strings"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/numbers"
	"github.com/bjaus/reta/rangeparse"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/samber/lo"
)

// Condition prefixes and keywords.
const (
	All        = "all"
	Absolute   = "_a_"
	Closure    = "_w_"
	Multiples  = "_b_"
	Epochs     = "_n_"
	Powers     = "_^_"
	Invert     = "_i_"
	Reindex    = "_z_"
	ReindexMul = "_y_"

	Today  = "="
	Before = "<"
	After  = ">"

	OuterFirst = "aussenerste"
	InnerFirst = "innenerste"
	OuterAll   = "aussenalle"
	InnerAll   = "innenalle"

	Moon        = "mond"
	Sun         = "sonne"
	BlackSun    = "schwarzesonne"
	Planet      = "planet"
	SunWithMoon = "SonneMitMondanteil"

	primeMultipleSuffix = "p"
	divisorSuffix       = "v"
)

// Classifier is the numeric knowledge the filter needs about row numbers.
type Classifier interface {
	IsMoon(n int) bool
	IsPrimeMultiple(n int, bases []int) bool
}

// Options bounds the filter.
type Options struct {
	// SunCeiling is the secondary, smaller bound used by the multiples group
	// and the sun ceiling. Zero or a value not below the total disables the
	// ceiling.
	SunCeiling int
	// Today is the row the temporal shorthand refers to.
	Today int
}

// Filter evaluates condition sets. It keeps no state between calls.
type Filter struct {
	parser *rangeparse.Parser
	cls    Classifier
	opts   Options
	log    logger.Logger
}

// New returns a filter. parser resolves every range payload.
func New(parser *rangeparse.Parser, cls Classifier, opts Options, log logger.Logger) *Filter {
	return &Filter{parser: parser, cls: cls, opts: opts, log: log}
}

// Apply returns the rows of 1..total selected by conditions.
func (f *Filter) Apply(conditions []string, total int) reta.IndexSet {
	c := parseConditions(conditions, f.parser)
	for _, u := range c.unknown {
		f.log.Warnn("ignoring unknown row condition", logger.NewStringField("condition", u))
	}
	all := reta.Span(1, total)

	var (
		rows   reta.IndexSet
		seeded bool
	)
	combine := func(contribution reta.IndexSet) {
		if !seeded {
			rows, seeded = contribution, true
			return
		}
		rows = rows.Intersect(contribution)
	}

	if c.all {
		combine(all)
	}
	if c.absolute.active() {
		combine(f.absolute(c, total))
	}
	if c.multiples.active() {
		combine(f.multiples(c, total))
	}
	if len(c.temporal) > 0 {
		combine(f.temporal(c, total))
	}
	if c.epochs.active() {
		combine(f.epochs(c, total))
	}
	if !seeded {
		rows = all
	}

	if c.types.active() {
		rows = rows.Filter(c.types.match(typeMatcher))
	}
	if c.celestial.active() {
		rows = rows.Filter(c.celestial.match(f.celestialMatcher))
	}
	if c.primeMultiples.active() {
		rows = rows.Filter(c.primeMultiples.match(f.cls.IsPrimeMultiple))
	}
	if c.powers.active() {
		rows = rows.Intersect(f.powers(c, rows, total))
	}
	if c.divisors.active() {
		rows = rows.Filter(c.divisors.match(divisible))
	}

	if ceiling := f.opts.SunCeiling; ceiling > 0 && ceiling < total {
		rows = rows.Filter(func(n int) bool { return n <= ceiling || f.cls.IsMoon(n) })
	}
	if c.invert {
		rows = adjacent(rows, total)
	}
	if c.reindex.active() || c.reindexMul.active() {
		rows = f.reindex(c, rows)
	}

	if rows.Empty() {
		f.log.Warnn("row selection is empty",
			logger.NewStringField("conditions", strings.Join(conditions, " ")),
			logger.NewIntField("total", int64(total)),
		)
	}
	return rows
}

func (f *Filter) absolute(c conditions, total int) reta.IndexSet {
	pos := f.parser.Parse(c.absolute.posSpec(), false, total, false)
	if c.closure {
		pos = pos.Union(reta.NewIndexSet(numbers.DivisorClosure(pos.Values())...))
	}
	return pos.Difference(f.parser.Parse(c.absolute.negSpec(), false, total, false))
}

func (f *Filter) multiples(c conditions, total int) reta.IndexSet {
	upper := total
	if f.opts.SunCeiling > 0 {
		upper = min(total, f.opts.SunCeiling)
	}
	pos := f.parser.Parse(c.multiples.posSpec(), true, upper, false)
	return pos.Difference(f.parser.Parse(c.multiples.negSpec(), true, upper, false))
}

func (f *Filter) temporal(c conditions, total int) reta.IndexSet {
	today := f.opts.Today
	out := reta.NewIndexSet()
	for _, t := range c.temporal {
		switch t {
		case Today:
			if today >= 1 && today <= total {
				out.Add(today)
			}
		case Before:
			out = out.Union(reta.Span(1, min(today-1, total)))
		case After:
			out = out.Union(reta.Span(max(today+1, 1), total))
		}
	}
	return out
}

func (f *Filter) epochs(c conditions, total int) reta.IndexSet {
	epochOf := CountEpochs(f.cls, total)
	last := 0
	if total > 0 {
		last = epochOf[total]
	}
	targets := f.parser.Parse(c.epochs.posSpec(), false, last, false).
		Difference(f.parser.Parse(c.epochs.negSpec(), false, last, false))
	out := reta.NewIndexSet()
	for n := 1; n <= total; n++ {
		if targets.Has(epochOf[n]) {
			out.Add(n)
		}
	}
	return out
}

// CountEpochs numbers the counting epochs of 1..total. A new epoch starts at
// every sun row that follows a moon row; row 1 opens epoch 1. The returned
// slice is indexed by row number.
func CountEpochs(cls Classifier, total int) []int {
	epochOf := make([]int, total+1)
	count := 0
	wasMoon := true
	for n := 1; n <= total; n++ {
		isMoon := cls.IsMoon(n)
		if wasMoon && !isMoon {
			count++
		}
		epochOf[n] = count
		wasMoon = isMoon
	}
	return epochOf
}

func typeMatcher(keyword string, n int) bool {
	if n == 2 || n == 3 {
		return false
	}
	inner, outer, single := numbers.InnerOuter(n)
	switch keyword {
	case OuterFirst:
		return outer && single
	case InnerFirst:
		return inner && single
	case OuterAll:
		return outer
	case InnerAll:
		return inner
	}
	return false
}

func (f *Filter) celestialMatcher(keyword string, n int) bool {
	switch keyword {
	case Moon:
		return f.cls.IsMoon(n)
	case Sun:
		return !f.cls.IsMoon(n)
	case BlackSun:
		return n%3 == 0
	case Planet:
		return n%2 == 0
	case SunWithMoon:
		return numbers.MixedMultiplicity(n)
	}
	return false
}

func (f *Filter) powers(c conditions, rows reta.IndexSet, total int) reta.IndexSet {
	bases := f.parser.Parse(c.powers.posSpec(), false, total, false).
		Difference(f.parser.Parse(c.powers.negSpec(), false, total, false))
	limit := rows.Max()
	out := reta.NewIndexSet()
	for _, b := range bases.Values() {
		if b < 2 {
			continue
		}
		for p := 1; p <= limit; p *= b {
			out.Add(p)
			if p > limit/b {
				break
			}
		}
	}
	out.Remove(1)
	return out
}

func divisible(n int, divisors []int) bool {
	return lo.SomeBy(divisors, func(d int) bool { return d != 0 && n%d == 0 })
}

func adjacent(rows reta.IndexSet, total int) reta.IndexSet {
	out := reta.NewIndexSet()
	for n := 1; n <= total; n++ {
		if !rows.Has(n) && (rows.Has(n-1) || rows.Has(n+1)) {
			out.Add(n)
		}
	}
	return out
}

func (f *Filter) reindex(c conditions, rows reta.IndexSet) reta.IndexSet {
	ordered := rows.Values()
	n := len(ordered)
	out := rows
	if c.reindex.active() {
		sel := f.parser.Parse(c.reindex.posSpec(), false, n, false).
			Difference(f.parser.Parse(c.reindex.negSpec(), false, n, false))
		out = out.Intersect(mapBack(sel, ordered))
	}
	if c.reindexMul.active() {
		sel := f.parser.Parse(c.reindexMul.posSpec(), true, n, false).
			Difference(f.parser.Parse(c.reindexMul.negSpec(), true, n, false))
		out = out.Intersect(mapBack(sel, ordered))
	}
	return out
}

func mapBack(positions reta.IndexSet, ordered []int) reta.IndexSet {
	out := reta.NewIndexSet()
	for _, pos := range positions.Values() {
		if pos >= 1 && pos <= len(ordered) {
			out.Add(ordered[pos-1])
		}
	}
	return out
}

// suffixNumbers reads a "<n><suffix>" condition such as "7p" or "-3v".
func suffixNumbers(cond, suffix string) (n int, neg, ok bool) {
	body, found := strings.CutSuffix(cond, suffix)
	if !found {
		return 0, false, false
	}
	body, neg = strings.CutPrefix(body, "-")
	n, err := strconv.Atoi(body)
	if err != nil || n <= 0 {
		return 0, false, false
	}
	return n, neg, true
}
