package extractor

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// excelExtractor renders XLSX workbooks as tab-separated text, one sheet
// heading and one line per row.
type excelExtractor struct{}

func (e *excelExtractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return string(printableText(data)), nil
	}
	defer func() { _ = f.Close() }()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		out.WriteString("Sheet: ")
		out.WriteString(sheet)
		out.WriteByte('\n')
		for _, row := range rows {
			out.WriteString(strings.Join(row, "\t"))
			out.WriteByte('\n')
		}
	}
	return out.String(), nil
}
