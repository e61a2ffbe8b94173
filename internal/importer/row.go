package importer

import (
	"math"

	"github.com/shopspring/decimal"
)

const depthMarker = '.'

// Row is one parsed data row of a tree table.
type Row struct {
	Depth     int
	Code      string
	Name      string
	DrawingNo string
	Qty       int
	Unit      string
	Type      string
	Remark    string
}

// Depth counts the leading depth markers of a level cell: "0" is 0, ".1" is
// 1, "..2" is 2.
func Depth(level string) int {
	depth := 0
	for _, ch := range level {
		if ch != depthMarker {
			break
		}
		depth++
	}
	return depth
}

// ParseQty accepts any decimal and truncates it toward zero. Values that do
// not parse, are not positive after truncation, or overflow int32 are
// rejected.
func ParseQty(s string) (int, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	n := d.IntPart()
	if n <= 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// ParseRow converts the cells of a data row. ok is false when the row must be
// counted as skipped.
func ParseRow(cells []string) (Row, bool) {
	if len(cells) < ColumnCount {
		return Row{}, false
	}
	row := Row{
		Depth:     Depth(cells[0]),
		Code:      cells[1],
		Name:      cells[2],
		DrawingNo: cells[3],
		Unit:      cells[5],
		Type:      cells[6],
		Remark:    cells[7],
	}
	if row.Code == "" || row.Name == "" {
		return Row{}, false
	}
	qty, ok := ParseQty(cells[4])
	if !ok {
		return Row{}, false
	}
	row.Qty = qty
	return row, true
}
