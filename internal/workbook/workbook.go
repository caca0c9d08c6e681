// package workbook reads ISRCs and their companion columns out of
// spreadsheet, CSV, and plain text documents.
package workbook

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/xuri/excelize/v2"
)

// isrcAliases are the header names tried, in order, when no column is
// named explicitly.
var isrcAliases = []string{"isrc", "isrc code", "isrc_code", "code"}

// Table is a rectangular view of an input document. The first row of
// the document becomes Headers; plain text input synthesizes a single
// "isrc" header.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// Read dispatches on the file extension: .xlsx and .xlsm open as
// workbooks, .csv as comma-separated text, .txt as one code per line.
// The sheet argument only applies to workbooks.
func Read(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	case ".csv":
		return ReadCSV(path)
	case ".txt":
		return ReadLines(path)
	default:
		return nil, fmt.Errorf("%w: %s (expected .xlsx, .csv, or .txt)", shared.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadXLSX loads one sheet of a workbook. An empty sheet name selects
// the first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found (sheets: %s)",
			shared.ErrInvalidArgument, sheet, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no rows", shared.ErrEmptyInput, sheet)
	}

	return &Table{Sheet: sheet, Headers: trimAll(rows[0]), Rows: rows[1:]}, nil
}

// ReadCSV loads a comma-separated file whose first record is the
// header row.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", shared.ErrEmptyInput, filepath.Base(path))
	}

	return &Table{Headers: trimAll(records[0]), Rows: records[1:]}, nil
}

// ReadLines loads a plain text file with one ISRC per line, skipping
// blanks.
func ReadLines(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	table := &Table{Headers: []string{"isrc"}}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		table.Rows = append(table.Rows, []string{line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", shared.ErrEmptyInput, filepath.Base(path))
	}

	return table, nil
}

// ExtractRows pulls the ISRC column out of the table and carries every
// other column along as pass-through data. Rows with an empty ISRC
// cell are skipped. The second return value holds the pass-through
// headers in document order.
func (t *Table) ExtractRows(column string) ([]models.InputRow, []string, error) {
	idx, err := t.resolveColumn(column)
	if err != nil {
		return nil, nil, err
	}

	passthrough := make([]string, 0, len(t.Headers)-1)
	for i, h := range t.Headers {
		if i != idx {
			passthrough = append(passthrough, h)
		}
	}

	var rows []models.InputRow
	for _, cells := range t.Rows {
		code := strings.TrimSpace(cell(cells, idx))
		if code == "" {
			continue
		}

		row := models.InputRow{ISRC: code}
		for i := range t.Headers {
			if i != idx {
				row.Passthrough = append(row.Passthrough, cell(cells, i))
			}
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: column %q holds no ISRCs", shared.ErrEmptyInput, t.Headers[idx])
	}

	return rows, passthrough, nil
}

func (t *Table) resolveColumn(column string) (int, error) {
	if column != "" {
		want := strings.ToLower(strings.TrimSpace(column))
		for i, h := range t.Headers {
			if strings.ToLower(h) == want {
				return i, nil
			}
		}

		return 0, fmt.Errorf("%w: %q (available: %s)",
			shared.ErrColumnNotFound, column, strings.Join(t.Headers, ", "))
	}

	for _, alias := range isrcAliases {
		for i, h := range t.Headers {
			if strings.ToLower(h) == alias {
				return i, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: no column matched %s (available: %s)",
		shared.ErrColumnNotFound, strings.Join(isrcAliases, ", "), strings.Join(t.Headers, ", "))
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}

	return cells[idx]
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}

	return out
}
