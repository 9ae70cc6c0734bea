package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	apperrors "ethnicityfacts/internal/errors"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteRows encodes rows to dst in the given format
func WriteRows(dst io.Writer, rows [][]string, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(dst, rows)
	case FormatXLSX:
		return writeXLSX(dst, rows)
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unsupported file type: %s", format))
	}
}

func writeCSV(dst io.Writer, rows [][]string) error {
	w := csv.NewWriter(dst)
	if err := w.WriteAll(rows); err != nil {
		return apperrors.Wrap(err, "failed to write CSV")
	}
	return nil
}

func writeXLSX(dst io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.Wrap(err, "failed to address Excel row")
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return apperrors.Wrapf(err, "failed to write Excel row %d", i+1)
		}
	}

	if err := f.Write(dst); err != nil {
		return apperrors.Wrap(err, "failed to write Excel workbook")
	}
	return nil
}
