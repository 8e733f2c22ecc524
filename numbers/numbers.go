// Package numbers implements the integer classifications used to select and
// color rows: moon numbers, prime factorizations and the relations derived
// from them. Every function is pure.
package numbers

import (
	"math"
	"slices"
)

// Default is a ready to use [Classifier].
var Default Classifier

// Classifier bundles the package functions behind methods so it can be
// passed where an interface is expected.
type Classifier struct{}

func (Classifier) IsMoon(n int) bool        { return IsMoon(n) }
func (Classifier) PrimeFactors(n int) []int { return PrimeFactors(n) }
func (Classifier) Creativity(n int) int     { return Creativity(n) }

func (Classifier) IsPrimeMultiple(n int, bases []int) bool { return IsPrimeMultiple(n, bases) }

// Root is a perfect power representation n = Base^Exponent.
type Root struct {
	Base     int
	Exponent int
}

// Factor is a prime with its multiplicity.
type Factor struct {
	Prime int
	Count int
}

// MoonRoots returns every representation of n as Base^Exponent with an
// exponent of at least 2, ordered by exponent.
func MoonRoots(n int) []Root {
	var roots []Root
	for e := 2; e < 63 && 1<<e <= n; e++ {
		b := iroot(n, e)
		if pow(b, e, n) == n {
			roots = append(roots, Root{Base: b, Exponent: e})
		}
	}
	return roots
}

// IsMoon reports whether n is a perfect power. Rows that are not are "sun"
// rows.
func IsMoon(n int) bool {
	return len(MoonRoots(n)) > 0
}

// iroot returns the largest r with r^e <= n.
func iroot(n, e int) int {
	r := int(math.Round(math.Pow(float64(n), 1/float64(e))))
	for r > 1 && pow(r, e, n) > n {
		r--
	}
	for pow(r+1, e, n) <= n {
		r++
	}
	return r
}

// pow returns b^e, or limit+1 as soon as the product exceeds limit.
func pow(b, e, limit int) int {
	result := 1
	for range e {
		if b != 0 && result > limit/b {
			return limit + 1
		}
		result *= b
	}
	return result
}

// PrimeFactors returns the prime factors of n in ascending order, repeated
// by multiplicity. It is empty for n < 2.
func PrimeFactors(n int) []int {
	var factors []int
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			factors = append(factors, p)
			n /= p
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// Multiplicities groups the prime factors of n.
func Multiplicities(n int) []Factor {
	var out []Factor
	for _, p := range PrimeFactors(n) {
		if len(out) > 0 && out[len(out)-1].Prime == p {
			out[len(out)-1].Count++
			continue
		}
		out = append(out, Factor{Prime: p, Count: 1})
	}
	return out
}

func IsPrime(n int) bool {
	f := PrimeFactors(n)
	return len(f) == 1
}

// Creativity classifies n: 0 for zero, 1 for primes, 3 for prime powers and
// numbers whose multiplicities share a common divisor above 1, 2 otherwise.
func Creativity(n int) int {
	if n == 0 {
		return 0
	}
	m := Multiplicities(abs(n))
	switch {
	case len(m) == 0:
		return 2
	case len(m) == 1 && m[0].Count == 1:
		return 1
	case len(m) == 1:
		return 3
	}
	g := m[0].Count
	for _, f := range m[1:] {
		g = gcd(g, f.Count)
	}
	if g > 1 {
		return 3
	}
	return 2
}

// MixedMultiplicity reports whether n has a prime with multiplicity one and
// another prime with a higher multiplicity.
func MixedMultiplicity(n int) bool {
	var single, repeated bool
	for _, f := range Multiplicities(n) {
		if f.Count == 1 {
			single = true
		} else {
			repeated = true
		}
	}
	return single && repeated
}

// InnerOuter derives the inner and outer flags of n from the residues mod 6
// of its prime factors above 3. single is set when n is prime. 1 is inner
// and single by convention.
func InnerOuter(n int) (inner, outer, single bool) {
	if n == 1 {
		return true, false, true
	}
	factors := PrimeFactors(n)
	single = len(factors) == 1
	for _, p := range slices.Compact(factors) {
		if p <= 3 {
			continue
		}
		switch p % 6 {
		case 1:
			inner = true
		case 5:
			outer = true
		}
	}
	return inner, outer, single
}

// Divisors returns the positive divisors of n in ascending order.
func Divisors(n int) []int {
	n = abs(n)
	var low, high []int
	for d := 1; d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		low = append(low, d)
		if d != n/d {
			high = append(high, n/d)
		}
	}
	slices.Reverse(high)
	return append(low, high...)
}

// DivisorClosure returns every divisor of every value, ascending. 1 is left
// out unless values is exactly {1}.
func DivisorClosure(values []int) []int {
	seen := make(map[int]struct{})
	for _, v := range values {
		for _, d := range Divisors(v) {
			seen[d] = struct{}{}
		}
	}
	onlyOne := len(values) > 0
	for _, v := range values {
		if v != 1 {
			onlyOne = false
		}
	}
	if !onlyOne {
		delete(seen, 1)
	}
	out := make([]int, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// IsPrimeMultiple reports whether n equals a base or a base times a prime.
func IsPrimeMultiple(n int, bases []int) bool {
	for _, b := range bases {
		if b == n {
			return true
		}
		if b > 0 && n%b == 0 && IsPrime(n/b) {
			return true
		}
	}
	return false
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
