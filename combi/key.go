package combi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseKey reads the join key of a combination row. A key is an integer,
// taken as its absolute value, a parenthesized key, or several keys joined
// by "/". Anything else is an [ErrKeyParse].
func ParseKey(s string) ([]int, error) {
	keys, err := parseKey(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrKeyParse, s)
	}
	return lo.Uniq(keys), nil
}

func parseKey(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if parts := splitTopLevel(s, '/'); len(parts) > 1 {
		var keys []int
		for _, part := range parts {
			k, err := parseKey(part)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k...)
		}
		return keys, nil
	}
	if inner, ok := strings.CutPrefix(s, "("); ok {
		if inner, ok = strings.CutSuffix(inner, ")"); ok {
			return parseKey(inner)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = -n
	}
	return []int{n}, nil
}

// splitTopLevel splits s on sep outside parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func formatKey(keys []int) string {
	return strings.Join(lo.Map(keys, func(k int, _ int) string { return strconv.Itoa(k) }), "/")
}

// StripSelfCitation removes key from a leading "(a|b/c)" annotation of text
// so a row does not cite itself. Only stand-alone entries are removed; an
// entry that lists alternatives with "/" stays. When no entry is left the
// annotation is dropped. Text without a numeric annotation is returned as
// is.
func StripSelfCitation(text string, key int) string {
	trimmed := strings.TrimLeft(text, " ")
	if !strings.HasPrefix(trimmed, "(") {
		return text
	}
	end := strings.IndexByte(trimmed, ')')
	if end < 0 {
		return text
	}
	inner, rest := trimmed[1:end], strings.TrimSpace(trimmed[end+1:])
	if key < 0 {
		key = -key
	}

	var kept []string
	for _, entry := range strings.Split(inner, "|") {
		entry = strings.TrimSpace(entry)
		if n, err := strconv.Atoi(entry); err == nil {
			if n == key || -n == key {
				continue
			}
		} else if _, err := parseKey(entry); err != nil {
			return text
		}
		kept = append(kept, entry)
	}
	if len(kept) == 0 {
		return rest
	}
	return "(" + strings.Join(kept, "|") + ") " + rest
}
