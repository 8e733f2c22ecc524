package reta

import (
	"fmt"
	"html"
	"strings"
)

type htmlRenderer struct {
	cls Classifier
}

func (htmlRenderer) BeginTable() string { return `<table border=0 id="bigtable">` }
func (htmlRenderer) EndTable() string   { return "</table>" }

func (r htmlRenderer) BeginRow(number int) string {
	p, ok := rowPalette(r.cls, number)
	if !ok {
		return "<tr>"
	}
	return fmt.Sprintf(`<tr style="background-color:%s;color:%s;">`, p.bg, p.fg)
}

func (htmlRenderer) EndRow() string { return "</tr>" }

// CellOpen tags header cells with their row and column so style sheets can
// address single columns. Column labels follow as a "p4_" class.
func (htmlRenderer) CellOpen(col, number int, labels []string) string {
	if number != 0 {
		return "<td>"
	}
	if len(labels) == 0 {
		return fmt.Sprintf(`<td class="z_%d r_%d">`, number, col)
	}
	return fmt.Sprintf(`<td class="z_%d r_%d p4_%s">`, number, col, html.EscapeString(strings.Join(labels, ",")))
}

func (htmlRenderer) CellClose() string       { return "</td>" }
func (htmlRenderer) Separator() string       { return "" }
func (htmlRenderer) HeaderRule([]int) string { return "" }

func (htmlRenderer) FormatContent(text string, _ int) string {
	return html.EscapeString(text)
}
