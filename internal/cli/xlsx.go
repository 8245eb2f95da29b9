package cli

import (
	"strconv"

	"github.com/arloliu/tidemux/mux2"
	"github.com/xuri/excelize/v2"
)

// xlsxSheet names the worksheet holding the merged table.
const xlsxSheet = "Stations"

// writeXLSX saves the table as a workbook with the same columns as writeCSV.
func writeXLSX(path string, t *mux2.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]any, 0, 1+t.Width())
	header = append(header, "station")
	for j := range t.Steps() {
		header = append(header, "t"+strconv.Itoa(j))
	}
	for _, h := range metaHeader {
		header = append(header, h)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	record := make([]any, 1+t.Width())
	for i, row := range t.Rows {
		record[0] = t.Stations[i]
		for j, v := range row {
			record[1+j] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &record); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
