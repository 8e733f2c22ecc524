package reta

type shellRenderer struct {
	color bool
	cls   Classifier
}

func (r *shellRenderer) BeginTable() string  { return "" }
func (r *shellRenderer) EndTable() string    { return "" }
func (r *shellRenderer) BeginRow(int) string { return "" }
func (r *shellRenderer) EndRow() string      { return "" }
func (r *shellRenderer) Separator() string   { return " " }

func (r *shellRenderer) HeaderRule([]int) string { return "" }

// CellOpen starts the row color when colors are enabled. Colors wrap the
// padded content, so escape codes never affect width calculations.
func (r *shellRenderer) CellOpen(_, number int, _ []string) string {
	if !r.color {
		return ""
	}
	return rowColor(r.cls, number)
}

func (r *shellRenderer) CellClose() string {
	if !r.color {
		return ""
	}
	return sgrReset
}

func (r *shellRenderer) FormatContent(text string, width int) string {
	return alignCell(text, width)
}
