package reta

import (
	"fmt"
)

type bbcodeRenderer struct {
	cls Classifier
}

func (bbcodeRenderer) BeginTable() string { return "[table]" }
func (bbcodeRenderer) EndTable() string   { return "[/table]" }

func (r bbcodeRenderer) BeginRow(number int) string {
	p, ok := rowPalette(r.cls, number)
	if !ok {
		return "[tr]"
	}
	return fmt.Sprintf(`[tr="background-color:%s;color:%s;"]`, p.bg, p.fg)
}

func (bbcodeRenderer) EndRow() string                          { return "[/tr]" }
func (bbcodeRenderer) CellOpen(int, int, []string) string      { return "[td]" }
func (bbcodeRenderer) CellClose() string                       { return "[/td]" }
func (bbcodeRenderer) Separator() string                       { return "" }
func (bbcodeRenderer) HeaderRule([]int) string                 { return "" }
func (bbcodeRenderer) FormatContent(text string, _ int) string { return text }
