package rowfilter

import (
	"strings"

	"github.com/bjaus/reta/rangeparse"
	"github.com/samber/lo"
)

var (
	typeKeywords      = []string{OuterFirst, InnerFirst, OuterAll, InnerAll}
	celestialKeywords = []string{Moon, Sun, BlackSun, Planet, SunWithMoon}
)

// conditions is the parsed form of a condition set.
type conditions struct {
	all, closure, invert bool
	temporal             []string

	absolute, multiples, epochs, powers rangeGroup
	reindex, reindexMul                 rangeGroup

	types, celestial         keywordGroup
	primeMultiples, divisors numberGroup

	unknown []string
}

// rangeGroup collects the range payloads of one prefix.
type rangeGroup struct {
	pos, neg []string
}

func (g *rangeGroup) add(p *rangeparse.Parser, payload string) {
	pos, neg := p.Split(payload)
	g.pos = append(g.pos, pos...)
	g.neg = append(g.neg, neg...)
}

func (g rangeGroup) active() bool    { return len(g.pos)+len(g.neg) > 0 }
func (g rangeGroup) posSpec() string { return strings.Join(g.pos, ",") }
func (g rangeGroup) negSpec() string { return strings.Join(g.neg, ",") }

// keywordGroup collects keywords; a row matches when it satisfies any
// positive keyword (or there is none) and no negative keyword.
type keywordGroup struct {
	pos, neg []string
}

func (g *keywordGroup) add(keyword string, neg bool) {
	if neg {
		g.neg = append(g.neg, keyword)
	} else {
		g.pos = append(g.pos, keyword)
	}
}

func (g keywordGroup) active() bool { return len(g.pos)+len(g.neg) > 0 }

func (g keywordGroup) match(test func(keyword string, n int) bool) func(int) bool {
	return func(n int) bool {
		hit := func(k string) bool { return test(k, n) }
		if len(g.pos) > 0 && !lo.SomeBy(g.pos, hit) {
			return false
		}
		return !lo.SomeBy(g.neg, hit)
	}
}

// numberGroup collects the numbers of "<n>p" or "<n>v" conditions.
type numberGroup struct {
	pos, neg []int
}

func (g *numberGroup) add(n int, neg bool) {
	if neg {
		g.neg = append(g.neg, n)
	} else {
		g.pos = append(g.pos, n)
	}
}

func (g numberGroup) active() bool { return len(g.pos)+len(g.neg) > 0 }

func (g numberGroup) match(test func(n int, values []int) bool) func(int) bool {
	return func(n int) bool {
		if len(g.pos) > 0 && !test(n, g.pos) {
			return false
		}
		return len(g.neg) == 0 || !test(n, g.neg)
	}
}

func parseConditions(raw []string, p *rangeparse.Parser) conditions {
	var c conditions
	for _, cond := range raw {
		cond = strings.TrimSpace(cond)
		switch {
		case cond == "":
		case cond == All:
			c.all = true
		case cond == Closure:
			c.closure = true
		case cond == Invert:
			c.invert = true
		case cond == Today || cond == Before || cond == After:
			if !lo.Contains(c.temporal, cond) {
				c.temporal = append(c.temporal, cond)
			}
		case strings.HasPrefix(cond, Absolute):
			c.absolute.add(p, cond[len(Absolute):])
		case strings.HasPrefix(cond, Multiples):
			c.multiples.add(p, cond[len(Multiples):])
		case strings.HasPrefix(cond, Epochs):
			c.epochs.add(p, cond[len(Epochs):])
		case strings.HasPrefix(cond, Powers):
			c.powers.add(p, cond[len(Powers):])
		case strings.HasPrefix(cond, Reindex):
			c.reindex.add(p, cond[len(Reindex):])
		case strings.HasPrefix(cond, ReindexMul):
			c.reindexMul.add(p, cond[len(ReindexMul):])
		default:
			c.keyword(cond)
		}
	}
	return c
}

func (c *conditions) keyword(cond string) {
	kw, neg := strings.CutPrefix(cond, "-")
	switch {
	case lo.Contains(typeKeywords, kw):
		c.types.add(kw, neg)
	case lo.Contains(celestialKeywords, kw):
		c.celestial.add(kw, neg)
	default:
		if n, neg, ok := suffixNumbers(cond, primeMultipleSuffix); ok {
			c.primeMultiples.add(n, neg)
		} else if n, neg, ok := suffixNumbers(cond, divisorSuffix); ok {
			c.divisors.add(n, neg)
		} else {
			c.unknown = append(c.unknown, cond)
		}
	}
}
