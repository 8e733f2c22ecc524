package reta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
)

// Syntax represents an output syntax.
type Syntax string

const (
	Shell    Syntax = "shell"
	CSV      Syntax = "csv"
	Markdown Syntax = "markdown"
	Emacs    Syntax = "emacs"
	BBCode   Syntax = "bbcode"
	HTML     Syntax = "html"
)

var syntaxes = []Syntax{Shell, CSV, Markdown, Emacs, BBCode, HTML}

var syntaxAliases = map[string]Syntax{
	"plain": Shell,
	"md":    Markdown,
	"org":   Emacs,
}

// String returns the syntax name.
func (s Syntax) String() string { return string(s) }

// Block reports whether the syntax encloses cells in block markup. Block
// syntaxes never wrap content and honor configured widths even when they are
// narrower than the content.
func (s Syntax) Block() bool { return s == BBCode || s == HTML }

// Wraps reports whether cells longer than the configured width are broken
// into sub-lines.
func (s Syntax) Wraps() bool { return !s.Block() && s != CSV }

// Syntaxes returns all supported syntax names.
func Syntaxes() []Syntax {
	out := make([]Syntax, len(syntaxes))
	copy(out, syntaxes)
	return out
}

// ParseSyntax parses a syntax name. A few short aliases ("plain", "md",
// "org") are accepted as well.
func ParseSyntax(s string) (Syntax, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, sx := range syntaxes {
		if string(sx) == name {
			return sx, nil
		}
	}
	if sx, ok := syntaxAliases[name]; ok {
		return sx, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSyntax, s)
}

// Classifier answers the numeric questions the renderer and the row filter
// ask about row numbers.
type Classifier interface {
	IsMoon(n int) bool
	PrimeFactors(n int) []int
	Creativity(n int) int
}

// Renderer emits the syntax specific markup around rows and cells. There is
// exactly one implementation per [Syntax], chosen by [NewRenderer].
type Renderer interface {
	BeginTable() string
	EndTable() string
	BeginRow(number int) string
	EndRow() string
	// CellOpen receives the labels of the cell, which are set on header
	// cells only.
	CellOpen(col, number int, labels []string) string
	CellClose() string
	FormatContent(text string, width int) string
	// Separator is placed between the cells of one physical line.
	Separator() string
	// HeaderRule returns the line written below the header row, if any.
	HeaderRule(widths []int) string
}

// Options carries every rendering decision. It is passed explicitly; the
// package holds no global state.
type Options struct {
	Syntax    Syntax
	Numbering bool
	NoHeader  bool
	NoEmpty   bool
	Color     bool
	// Width is the text width used for wrapping. Zero disables wrapping.
	Width int
	// Widths holds configured widths per content column. A column is
	// configured when its index is within the slice; zero means no limit.
	Widths     []int
	Classifier Classifier
}

// Wrapping reports whether any cell can be broken into sub-lines: the syntax
// wraps and either the text width or some column width is set.
func (o Options) Wrapping() bool {
	if !o.Syntax.Wraps() {
		return false
	}
	return o.Width > 0 || slices.ContainsFunc(o.Widths, func(w int) bool { return w > 0 })
}

// NewRenderer returns the renderer for opts.Syntax.
func NewRenderer(opts Options) (Renderer, error) {
	switch opts.Syntax {
	case Shell:
		return &shellRenderer{color: opts.Color && opts.Classifier != nil, cls: opts.Classifier}, nil
	case CSV:
		return csvRenderer{}, nil
	case Markdown:
		return markdownRenderer{}, nil
	case Emacs:
		return emacsRenderer{}, nil
	case BBCode:
		return bbcodeRenderer{cls: opts.Classifier}, nil
	case HTML:
		return htmlRenderer{cls: opts.Classifier}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSyntax, opts.Syntax)
	}
}

// Marshal renders t and returns the bytes.
func Marshal(t Table, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders t to w.
func Write(w io.Writer, t Table, opts Options) error {
	r, err := NewRenderer(opts)
	if err != nil {
		return err
	}
	rows := visibleRows(t, opts)
	if len(rows) == 0 {
		return nil
	}
	return render(w, r, rows, opts)
}
