package reta

import (
	"strings"
)

// markdownMinWidth leaves room for the separator row dashes.
const markdownMinWidth = 3

type markdownRenderer struct{}

func (markdownRenderer) BeginTable() string                 { return "" }
func (markdownRenderer) EndTable() string                   { return "" }
func (markdownRenderer) BeginRow(int) string                { return "| " }
func (markdownRenderer) EndRow() string                     { return " |" }
func (markdownRenderer) CellOpen(int, int, []string) string { return "" }
func (markdownRenderer) CellClose() string                  { return "" }
func (markdownRenderer) Separator() string                  { return " | " }

func (markdownRenderer) FormatContent(text string, width int) string {
	return alignCell(text, max(width, markdownMinWidth))
}

func (markdownRenderer) escape(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}

func (markdownRenderer) HeaderRule(widths []int) string {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", max(width, markdownMinWidth))
	}
	return "| " + strings.Join(sep, " | ") + " |"
}
