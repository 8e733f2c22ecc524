// Package reta holds the table model and the output renderers of the reta
// report generator.
//
// A [Table] is a rectangular grid of multi-line [Cell] values. Row 0 is the
// header; every other row keeps the number it had in the loaded dataset, so
// slicing and joining never lose track of which row is which. [IndexSet] is
// the ordered integer set used for row and column selections throughout the
// module.
//
// # Rendering
//
// [Write] renders a table in one of the supported syntaxes:
//
//   - [Shell] — space separated, padded columns with optional ANSI colors
//   - [CSV] — semicolon separated fields
//   - [Markdown] — GitHub-flavored pipe table
//   - [Emacs] — org-mode table
//   - [BBCode] — [table]/[tr]/[td] forum markup with row palettes
//   - [HTML] — <table>/<tr>/<td> markup with row palettes
//
// Each syntax is implemented once behind the [Renderer] interface. The render
// loop emits one physical line per sub-line of the tallest cell in a row, so
// wrapped and multi-valued cells line up across columns:
//
//	opts := reta.Options{Syntax: reta.Markdown, Numbering: true, Width: 40}
//	err := reta.Write(os.Stdout, table, opts)
//
// # Widths
//
// Content widths are measured with go-runewidth. A configured column width
// replaces the measured width, except that non-block syntaxes never shrink a
// column below its content. See [ResolveWidth].
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnsupportedSyntax] — unknown syntax name
package reta
