package reta

import (
	"encoding/csv"
	"io"
)

// csvComma separates fields in CSV output.
const csvComma = ';'

// csvRenderer writes undecorated, semicolon separated fields. Quoting is left
// to encoding/csv.
type csvRenderer struct{}

func (csvRenderer) BeginTable() string                      { return "" }
func (csvRenderer) EndTable() string                        { return "" }
func (csvRenderer) BeginRow(int) string                     { return "" }
func (csvRenderer) EndRow() string                          { return "" }
func (csvRenderer) CellOpen(int, int, []string) string      { return "" }
func (csvRenderer) CellClose() string                       { return "" }
func (csvRenderer) Separator() string                       { return string(csvComma) }
func (csvRenderer) HeaderRule([]int) string                 { return "" }
func (csvRenderer) FormatContent(text string, _ int) string { return text }

func (csvRenderer) writeLine(w io.Writer, fields []string) error {
	return writeCSVRow(w, fields, csvComma)
}

func writeCSVRow(w io.Writer, fields []string, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(fields); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
