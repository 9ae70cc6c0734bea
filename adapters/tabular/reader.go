package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ethnicityfacts/internal"
	apperrors "ethnicityfacts/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader reads a CSV or XLSX file into rows of cells
type DataReader struct {
	filePath string
	format   Format
	logger   *internal.Logger
}

// NewDataReader creates a reader, choosing the format from the file extension
func NewDataReader(filePath string) (*DataReader, error) {
	format, err := DetectFormat(filePath)
	if err != nil {
		return nil, err
	}
	return &DataReader{
		filePath: filePath,
		format:   format,
		logger:   internal.DefaultLogger.WithPrefix("DataReader"),
	}, nil
}

// Format returns the detected file format
func (r *DataReader) Format() Format {
	return r.format
}

// ReadRows reads the whole file. Row 0 is the header.
func (r *DataReader) ReadRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open %s", r.filePath)
	}
	defer file.Close()

	start := time.Now()
	rows, err := ReadRows(file, r.format)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// ReadRows parses tabular data from src. Cells are returned as found; CSV rows
// may differ in length.
func ReadRows(src io.Reader, format Format) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(src)
	case FormatXLSX:
		rows, err = readXLSX(src)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported file type: %s", format))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.DataFormat(string(format)+" data", fmt.Errorf("no header row"))
	}
	return rows, nil
}

func readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.DataFormat("CSV data", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

// readXLSX reads the first sheet of a workbook
func readXLSX(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.DataFormat("Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.DataFormat("Excel workbook", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.DataFormat("Excel sheet "+sheets[0], err)
	}
	padRows(rows)
	return rows, nil
}

// padRows widens rows to the header width. GetRows drops trailing empty
// cells, which CSV keeps; blank rows are left empty.
func padRows(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		if n := len(rows[i]); n > 0 && n < width {
			rows[i] = append(rows[i], make([]string, width-n)...)
		}
	}
}
