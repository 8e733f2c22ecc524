// Package rangeparse turns selector text such as "1-5+1,v3,-4,[7,9]" into
// index sets.
//
// A specification is a comma separated list of tokens:
//
//   - "7" or "3-9" selects single values or inclusive ranges
//   - "+n" suffixes add every value plus and minus n, as in "3-9+1+2"
//   - "[1,4]", "{1,4}" and "(1,4)" select the listed values verbatim
//   - a leading "-" excludes the token's values from the result
//   - a leading multiplier marker ("v" by default) selects multiples
//
// Parsing is lenient: a token with a malformed number contributes nothing and
// no error is reported.
package rangeparse

import (
	"strconv"
	"strings"

	"github.com/bjaus/reta"
	"github.com/dlclark/regexp2"
)

// DefaultMarker is the multiplier marker used when none is configured.
const DefaultMarker = "v"

// topLevelComma matches commas that are not inside a bracketed list.
var topLevelComma = regexp2.MustCompile(`,(?![^\[\]{}()]*[\]})])`, regexp2.None)

// Parser resolves selector specifications. The zero value has no multiplier
// marker.
type Parser struct {
	marker string
}

// New returns a parser that treats marker as the multiples prefix.
func New(marker string) *Parser {
	return &Parser{marker: marker}
}

// Marker returns the multiplier marker.
func (p *Parser) Marker() string { return p.marker }

// Parse resolves spec into a set.
//
// With multiples set, a range a-b selects every product n*i for n in a..b and
// i = 1, 2, ... while a*i <= upper. Values outside (0, upper] are dropped;
// allowNonPositive lifts the lower bound. In ordinary mode an upper bound of
// zero or less means unbounded; in multiples mode it yields nothing.
func (p *Parser) Parse(spec string, multiples bool, upper int, allowNonPositive bool) reta.IndexSet {
	include, exclude := reta.NewIndexSet(), reta.NewIndexSet()
	for _, raw := range SplitTokens(spec) {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		neg, mult, body := p.classify(tok, multiples)
		if body == "" {
			continue
		}
		values := resolve(body, mult, upper, allowNonPositive)
		if neg {
			exclude.Add(values...)
		} else {
			include.Add(values...)
		}
	}
	out := include.Difference(exclude)
	if !allowNonPositive {
		out = out.Filter(func(v int) bool { return v > 0 })
	}
	return out
}

// Split separates the tokens of spec into inclusions and exclusions. The
// exclusion prefix is removed from the returned negative tokens while the
// multiplier marker is kept, so both halves can be fed back into Parse.
func (p *Parser) Split(spec string) (pos, neg []string) {
	for _, raw := range SplitTokens(spec) {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		isNeg, mult, body := p.classify(tok, false)
		if !isNeg {
			pos = append(pos, tok)
			continue
		}
		if body == "" {
			continue
		}
		if mult {
			body = p.marker + body
		}
		neg = append(neg, body)
	}
	return pos, neg
}

// SplitTokens splits s on commas that are not enclosed in brackets.
func SplitTokens(s string) []string {
	runes := []rune(s)
	var tokens []string
	start := 0
	m, _ := topLevelComma.FindStringMatch(s)
	for m != nil {
		tokens = append(tokens, string(runes[start:m.Index]))
		start = m.Index + m.Length
		m, _ = topLevelComma.FindNextMatch(m)
	}
	return append(tokens, string(runes[start:]))
}

// classify strips the exclusion and multiplier prefixes from tok. Both
// "-v3" and "v-3" are exclusions of the multiples of 3.
func (p *Parser) classify(tok string, multiples bool) (neg, mult bool, body string) {
	mult = multiples
	if rest, ok := strings.CutPrefix(tok, "-"); ok {
		neg, tok = true, rest
	}
	if p.marker != "" {
		if rest, ok := strings.CutPrefix(tok, p.marker); ok {
			mult, tok = true, rest
			if rest, ok := strings.CutPrefix(tok, "-"); ok && !neg {
				neg, tok = true, rest
			}
		}
	}
	return neg, mult, strings.TrimSpace(tok)
}

func resolve(body string, multiples bool, upper int, allowNonPositive bool) []int {
	if inner, ok := bracketed(body); ok {
		values, ok := parseList(inner)
		if !ok {
			return nil
		}
		return values
	}

	head, tail, hasOffsets := strings.Cut(body, "+")
	var offsets []int
	if hasOffsets {
		for _, part := range strings.Split(tail, "+") {
			o, err := atoi(part)
			if err != nil {
				return nil
			}
			offsets = append(offsets, o)
		}
	}
	start, end, err := parseRange(head)
	if err != nil {
		return nil
	}

	inBounds := func(v int) bool {
		if !allowNonPositive && v <= 0 {
			return false
		}
		return upper <= 0 || v <= upper
	}
	var out []int
	emit := func(v int) {
		if inBounds(v) {
			out = append(out, v)
		}
		for _, o := range offsets {
			if inBounds(v + o) {
				out = append(out, v+o)
			}
			if inBounds(v - o) {
				out = append(out, v-o)
			}
		}
	}

	if !multiples {
		if upper > 0 {
			end = min(end, upper+maxAbs(offsets))
		}
		for n := start; n <= end; n++ {
			emit(n)
		}
		return out
	}
	if upper <= 0 || start <= 0 {
		return nil
	}
	end = min(end, upper+maxAbs(offsets))
	for i := 1; start*i <= upper; i++ {
		for n := start; n <= end; n++ {
			emit(n * i)
		}
	}
	return out
}

func parseRange(s string) (start, end int, err error) {
	from, to, isRange := strings.Cut(s, "-")
	if start, err = atoi(from); err != nil {
		return 0, 0, err
	}
	if !isRange {
		return start, start, nil
	}
	if end, err = atoi(to); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func bracketed(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	switch s[0] {
	case '[':
		return strings.CutSuffix(s[1:], "]")
	case '{':
		return strings.CutSuffix(s[1:], "}")
	case '(':
		return strings.CutSuffix(s[1:], ")")
	}
	return "", false
}

// parseList reads a comma separated integer list. Any malformed element
// invalidates the whole list.
func parseList(s string) ([]int, bool) {
	var values []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := atoi(part)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// atoi parses a decimal integer. Leading zeros never switch the base.
func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func maxAbs(values []int) int {
	m := 0
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		m = max(m, v)
	}
	return m
}
