package reta

import (
	"strings"
)

// emacsRenderer writes org-mode tables.
type emacsRenderer struct{}

func (emacsRenderer) BeginTable() string                 { return "" }
func (emacsRenderer) EndTable() string                   { return "" }
func (emacsRenderer) BeginRow(int) string                { return "| " }
func (emacsRenderer) EndRow() string                     { return " |" }
func (emacsRenderer) CellOpen(int, int, []string) string { return "" }
func (emacsRenderer) CellClose() string                  { return "" }
func (emacsRenderer) Separator() string                  { return " | " }

func (emacsRenderer) FormatContent(text string, width int) string {
	return alignCell(text, width)
}

func (emacsRenderer) escape(text string) string {
	return strings.ReplaceAll(text, "|", `\vert{}`)
}

func (emacsRenderer) HeaderRule(widths []int) string {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width+2)
	}
	return "|" + strings.Join(sep, "+") + "|"
}
