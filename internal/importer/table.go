package importer

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"moldmes/internal/common"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ColumnCount is the width of the tree table. Extra trailing columns are
// ignored.
const ColumnCount = 8

// Header is the mandatory first row of a tree table.
var Header = []string{"层级", "物料编码", "名称", "图号", "数量", "单位", "类型", "备注"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns payload as UTF-8. Spreadsheet exports on Chinese
// Windows installs arrive as GBK, so anything that is not valid UTF-8 is
// decoded as GBK.
func DecodeText(payload []byte) (string, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)
	if utf8.Valid(payload) {
		return string(payload), nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(payload), simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return "", common.Validationf("payload is neither UTF-8 nor GBK: %v", err)
	}
	return string(decoded), nil
}

// SplitTSV splits text into rows of trimmed cells. Blank lines are dropped;
// trailing empty cells are kept so an 8-column row stays 8 columns wide.
func SplitTSV(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

// ReadXLSX returns the rows of the first sheet. excelize drops trailing empty
// cells, so every row is padded to ColumnCount.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.Validationf("open xlsx: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.Validationf("read sheet %q: %v", sheet, err)
	}

	var table [][]string
	for _, row := range rows {
		blank := true
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
			if row[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		for len(row) < ColumnCount {
			row = append(row, "")
		}
		table = append(table, row)
	}
	return table, nil
}

// ReadTable picks the reader by file extension. Anything other than .xlsx is
// treated as tab-separated text.
func ReadTable(filename string, payload []byte) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ReadXLSX(bytes.NewReader(payload))
	}
	text, err := DecodeText(payload)
	if err != nil {
		return nil, err
	}
	return SplitTSV(text), nil
}

// ValidateHeader checks the first row against Header. A header typed with
// commas instead of tabs is accepted.
func ValidateHeader(cells []string) error {
	if len(cells) == 1 && strings.Contains(cells[0], ",") {
		cells = strings.Split(cells[0], ",")
	}
	if len(cells) < ColumnCount {
		return headerError()
	}
	for i, want := range Header {
		if strings.TrimSpace(cells[i]) != want {
			return headerError()
		}
	}
	return nil
}

func headerError() error {
	return common.Validationf("header must be %s", strings.Join(Header, "\t"))
}

// CheckTable validates the header and that at least one data row follows.
func CheckTable(rows [][]string) error {
	if len(rows) == 0 {
		return common.Validationf("tsv must not be empty")
	}
	if err := ValidateHeader(rows[0]); err != nil {
		return err
	}
	if len(rows) < 2 {
		return common.Validationf("table needs a header and at least one data row")
	}
	return nil
}

