package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() Table {
	return Table{
		Title:   "Customers",
		Columns: []string{"name", "company", "due_date"},
		Rows: [][]string{
			{"Ana \"Oak\" Diaz", "Diaz, Sons & Co", "2026-07-01"},
			{"Bo\tLund", "line one\nline two", ""},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteCSV_Escaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	lines := strings.Split(buf.String(), "\r\n")
	assert.Equal(t, "name,company,due_date", lines[0])
	assert.Equal(t, `"Ana ""Oak"" Diaz","Diaz, Sons & Co",2026-07-01`, lines[1])
	assert.Contains(t, buf.String(), "\"line one\nline two\"")
}

func TestWriteTSV_FlattensWhitespace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, sample()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Bo Lund\tline one line two\t", lines[2])
}

func TestWriteHTML(t *testing.T) {
	table := sample()
	table.Rows = append(table.Rows, []string{"<script>alert(1)</script>", "", ""})
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "<th>Due Date</th>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Ana &#34;Oak&#34; Diaz")
}

func TestRenderXLSX(t *testing.T) {
	data, err := Render(sample(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Customers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Company", "Due Date"}, rows[0])
	assert.Equal(t, "Diaz, Sons & Co", rows[1][1])

	styleID, err := f.GetCellStyle("Customers", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Export", sheetName("[]"))
	assert.Len(t, sheetName(strings.Repeat("x", 40)), 31)
	assert.Equal(t, "Orders 2026", sheetName("Orders/ 2026"))
}

func TestFilenameAndContentType(t *testing.T) {
	at := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders-2026-03-09.tsv", Filename("orders", FormatTSV, at))
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}
