package export

import (
	"encoding/csv"
	"html"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WriteCSV writes RFC 4180 CSV. Fields holding a comma, quote or line break
// are quoted and embedded quotes doubled.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

var tsvCleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// WriteTSV writes tab separated values. Tabs and line breaks inside a field
// become spaces.
func WriteTSV(w io.Writer, t Table) error {
	writeLine := func(cells []string) error {
		clean := make([]string, len(cells))
		for i, c := range cells {
			clean[i] = tsvCleaner.Replace(c)
		}
		_, err := io.WriteString(w, strings.Join(clean, "\t")+"\n")
		return err
	}
	if err := writeLine(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeLine(row); err != nil {
			return err
		}
	}
	return nil
}

// Label turns a column key such as "due_date" into "Due Date"
func Label(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// WriteHTML writes a standalone HTML table with escaped cells
func WriteHTML(w io.Writer, t Table) error {
	var b strings.Builder
	title := html.EscapeString(t.Title)
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(title)
	b.WriteString("</title>\n<style>table{border-collapse:collapse;font-family:sans-serif;font-size:12px}" +
		"th,td{border:1px solid #ccc;padding:4px 8px;text-align:left}th{background:#f3f0ea}</style>\n")
	b.WriteString("</head><body>\n<h1>")
	b.WriteString(title)
	b.WriteString("</h1>\n<table>\n<thead><tr>")
	for _, c := range t.Columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(Label(c)))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n</body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
