package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/finhealth/internal/contracts"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(content []byte) (contracts.RawTable, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return contracts.RawTable{}, fmt.Errorf("csv: %v: %w", err, contracts.ErrUnsupportedInput)
	}
	return toTable(records)
}

// readXLSX reads the first sheet only
func readXLSX(content []byte) (contracts.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return contracts.RawTable{}, fmt.Errorf("xlsx: %v: %w", err, contracts.ErrUnsupportedInput)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return contracts.RawTable{}, fmt.Errorf("xlsx has no sheets: %w", contracts.ErrUnsupportedInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return contracts.RawTable{}, fmt.Errorf("xlsx sheet %q: %v: %w", sheets[0], err, contracts.ErrUnsupportedInput)
	}
	return toTable(rows)
}

// readHTML reads the first <table> in the document
func readHTML(content []byte) (contracts.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return contracts.RawTable{}, fmt.Errorf("html: %v: %w", err, contracts.ErrUnsupportedInput)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return contracts.RawTable{}, fmt.Errorf("html has no table: %w", contracts.ErrUnsupportedInput)
	}

	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
		})
		records = append(records, cells)
	})
	return toTable(records)
}

// readPDFText returns the text layer, one line per text row
func readPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("pdf: %v: %w", err, contracts.ErrUnsupportedInput)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// toTable treats the first non-blank record as the header row.
// Blank records are dropped; a table without data rows is rejected.
func toTable(records [][]string) (contracts.RawTable, error) {
	var table contracts.RawTable
	headerSeen := false
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if !headerSeen {
			table.Headers = make([]string, len(rec))
			for i, h := range rec {
				table.Headers[i] = strings.TrimSpace(h)
			}
			headerSeen = true
			continue
		}
		row := make([]contracts.Cell, len(rec))
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if v == "" {
				row[i] = nil
			} else {
				row[i] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if table.IsEmpty() {
		return table, fmt.Errorf("%w: %w", errEmptyTable, contracts.ErrUnsupportedInput)
	}
	return table, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
