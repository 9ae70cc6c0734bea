package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"ethnicityfacts/domain/core"
)

// Format identifies a tabular file encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat infers the format from a file name's extension
func DetectFormat(filename string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ParseFormat accepts "csv" or "xlsx" in any case
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", core.ErrInvalidInput, s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}
