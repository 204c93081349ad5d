// Package export renders tabular data as CSV, TSV, HTML or XLSX downloads.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Format is a supported export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for formats other than csv, tsv, html and xlsx
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat validates a format name. An empty name means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatTSV, FormatHTML, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension without a dot
func (f Format) Extension() string {
	return string(f)
}

// Table is a titled grid of string cells. Every row has one cell per column.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Filename builds the attachment name <resource>-<date>.<ext>
func Filename(resource string, f Format, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", resource, at.Format("2006-01-02"), f.Extension())
}

// Render writes the table in the requested format
func Render(t Table, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(&buf, t)
	case FormatTSV:
		err = WriteTSV(&buf, t)
	case FormatHTML:
		err = WriteHTML(&buf, t)
	case FormatXLSX:
		return RenderXLSX(t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
