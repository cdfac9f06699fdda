package extractor

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
)

// xlsExtractor renders legacy XLS workbooks as tab-separated text.
type xlsExtractor struct{}

func (e *xlsExtractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return string(printableText(data)), nil
	}
	var out strings.Builder
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		rows := sheet.GetRows()
		if len(rows) == 0 {
			continue
		}
		out.WriteString("Sheet: ")
		out.WriteString(sheet.GetName())
		out.WriteByte('\n')
		for _, row := range rows {
			out.WriteString(strings.Join(cellValues(row.GetCols()), "\t"))
			out.WriteByte('\n')
		}
	}
	return out.String(), nil
}

func cellValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}
