package reta

import "github.com/samber/lo"

const sgrReset = "\x1b[0m"

const (
	sgrHeader    = "\x1b[41m\x1b[30m\x1b[4m"
	sgrMoonEven  = "\x1b[106m\x1b[30m"
	sgrMoonOdd   = "\x1b[46m\x1b[30m"
	sgrPrimeEven = "\x1b[103m\x1b[30m\x1b[1m"
	sgrPrimeOdd  = "\x1b[43m\x1b[30m"
	sgrEven      = "\x1b[47m\x1b[30m"
	sgrOdd       = "\x1b[100m\x1b[37m"
)

// rowColor returns the ANSI color sequence for a row. The first matching
// rule wins: header, moon, prime or prime power, parity.
func rowColor(cls Classifier, number int) string {
	even := number%2 == 0
	switch {
	case number == 0:
		return sgrHeader
	case cls.IsMoon(number):
		return pick(even, sgrMoonEven, sgrMoonOdd)
	case len(lo.Uniq(cls.PrimeFactors(number))) == 1:
		return pick(even, sgrPrimeEven, sgrPrimeOdd)
	default:
		return pick(even, sgrEven, sgrOdd)
	}
}

// palette is a background and foreground pair for markup syntaxes.
type palette struct {
	bg, fg string
}

// rowPalette picks the markup row colors from the creativity class of the
// row number. ok is false when no classifier is configured.
func rowPalette(cls Classifier, number int) (palette, bool) {
	if cls == nil {
		return palette{}, false
	}
	even := number%2 == 0
	switch c := cls.Creativity(number); {
	case c == 1:
		return pick(even, palette{"#66ff66", "#000000"}, palette{"#009900", "#ffffff"}), true
	case c == 2 || number == 1:
		return pick(even, palette{"#ffff66", "#000099"}, palette{"#555500", "#aaaaff"}), true
	case c == 3:
		return pick(even, palette{"#9999ff", "#202000"}, palette{"#000099", "#ffff66"}), true
	default:
		return palette{"#ff2222", "#002222"}, true
	}
}

func pick[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
