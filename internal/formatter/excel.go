// Excel rendering for match reports.
//
// Results rows are color-coded by status and the workbook carries
// Metadata, Year Distribution, and Top Artists sheets alongside them.
package formatter

import (
	"fmt"
	"sort"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the rendered workbook.
const (
	SheetResults  = "Results"
	SheetMetadata = "Metadata"
	SheetYears    = "Year Distribution"
	SheetArtists  = "Top Artists"
)

const (
	headerFill  = "4472C4"
	successFill = "C6EFCE"
	failedFill  = "FFC7CE"
	maxColWidth = 50
)

var resultHeaders = []string{"ISRC", "Release Year", "Track Name", "Artist Name", "Album Name", "Status", "Error"}

// statusColumn is the 1-based position of the Status column that gets
// color-coded per row.
const statusColumn = 6

// BuildWorkbook renders the report as a styled workbook. Callers own
// the returned file and must Close it.
func BuildWorkbook(report *models.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetResults); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to name results sheet: %w", err)
	}

	steps := []func(*excelize.File, *models.Report) error{
		writeResults,
		writeMetadata,
		writeYearDistribution,
		writeTopArtists,
	}

	for _, step := range steps {
		if err := step(f, report); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteExcelExport renders the report and saves it to path, returning
// the path written. An empty path defaults to isrc_results.xlsx.
func WriteExcelExport(report *models.Report, path string) (string, error) {
	if path == "" {
		path = "isrc_results.xlsx"
	}

	f, err := BuildWorkbook(report)
	if err != nil {
		return "", fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	return path, nil
}

func writeResults(f *excelize.File, report *models.Report) error {
	headers := append(append([]string{}, resultHeaders...), report.PassthroughHeaders...)

	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		row := []string{r.ISRC, r.ReleaseYear, r.TrackName, r.ArtistName, r.AlbumName, string(r.Status), r.ErrorMessage}
		row = append(row, padCells(r.Passthrough, len(report.PassthroughHeaders))...)
		rows = append(rows, row)
	}

	if err := f.SetSheetRow(SheetResults, "A1", &headers); err != nil {
		return fmt.Errorf("unable to write results header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("unable to address results row: %w", err)
		}

		if err := f.SetSheetRow(SheetResults, cell, &row); err != nil {
			return fmt.Errorf("unable to write results row: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("unable to create header style: %w", err)
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("unable to address header row: %w", err)
	}

	if err := f.SetCellStyle(SheetResults, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("unable to style header row: %w", err)
	}

	successStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{successFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("unable to create success style: %w", err)
	}

	failedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{failedFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("unable to create failed style: %w", err)
	}

	for i, r := range report.Results {
		cell, err := excelize.CoordinatesToCellName(statusColumn, i+2)
		if err != nil {
			return fmt.Errorf("unable to address status cell: %w", err)
		}

		style := failedStyle
		if r.Status == models.StatusSuccess {
			style = successStyle
		}

		if err := f.SetCellStyle(SheetResults, cell, cell, style); err != nil {
			return fmt.Errorf("unable to style status cell: %w", err)
		}
	}

	return sizeColumns(f, SheetResults, headers, rows)
}

// sizeColumns widens each column to its longest cell plus padding,
// capped at maxColWidth characters.
func sizeColumns(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	for c := range headers {
		longest := len(headers[c])
		for _, row := range rows {
			if c < len(row) && len(row[c]) > longest {
				longest = len(row[c])
			}
		}

		width := longest + 2
		if width > maxColWidth {
			width = maxColWidth
		}

		letter, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("unable to name column: %w", err)
		}

		if err := f.SetColWidth(sheet, letter, letter, float64(width)); err != nil {
			return fmt.Errorf("unable to size column %s: %w", letter, err)
		}
	}

	return nil
}

func writeMetadata(f *excelize.File, report *models.Report) error {
	if _, err := f.NewSheet(SheetMetadata); err != nil {
		return fmt.Errorf("unable to create metadata sheet: %w", err)
	}

	info := []string{
		fmt.Sprintf("Processing Date: %s", report.Meta.StartedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Run ID: %s", report.Meta.RunID),
		fmt.Sprintf("Provider: %s", report.Meta.Provider),
	}

	if report.Meta.Source != "" {
		info = append(info, fmt.Sprintf("Source: %s", report.Meta.Source))
	}

	info = append(info,
		fmt.Sprintf("Elapsed: %s", report.Meta.Elapsed()),
		fmt.Sprintf("Total ISRCs Processed: %d", report.Summary.Total),
		fmt.Sprintf("Successful: %d", report.Summary.Successful),
		fmt.Sprintf("Failed: %d", report.Summary.Failed),
		fmt.Sprintf("Success Rate: %.1f%%", report.Summary.SuccessRate),
	)

	if err := f.SetCellValue(SheetMetadata, "A1", "Processing Information"); err != nil {
		return fmt.Errorf("unable to write metadata header: %w", err)
	}

	for i, line := range info {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("unable to address metadata cell: %w", err)
		}

		if err := f.SetCellValue(SheetMetadata, cell, line); err != nil {
			return fmt.Errorf("unable to write metadata cell: %w", err)
		}
	}

	if errLines := rankErrors(report.Summary.ErrorCounts); len(errLines) > 0 {
		if err := f.SetCellValue(SheetMetadata, "B1", "Common Errors"); err != nil {
			return fmt.Errorf("unable to write errors header: %w", err)
		}

		for i, line := range errLines {
			cell, err := excelize.CoordinatesToCellName(2, i+2)
			if err != nil {
				return fmt.Errorf("unable to address errors cell: %w", err)
			}

			if err := f.SetCellValue(SheetMetadata, cell, line); err != nil {
				return fmt.Errorf("unable to write errors cell: %w", err)
			}
		}
	}

	if err := f.SetColWidth(SheetMetadata, "A", "B", 45); err != nil {
		return fmt.Errorf("unable to size metadata columns: %w", err)
	}

	return nil
}

func writeYearDistribution(f *excelize.File, report *models.Report) error {
	if len(report.Summary.YearCounts) == 0 {
		return nil
	}

	if _, err := f.NewSheet(SheetYears); err != nil {
		return fmt.Errorf("unable to create year sheet: %w", err)
	}

	years := make([]string, 0, len(report.Summary.YearCounts))
	for year := range report.Summary.YearCounts {
		years = append(years, year)
	}

	sort.Strings(years)

	header := []any{"Year", "Count"}
	if err := f.SetSheetRow(SheetYears, "A1", &header); err != nil {
		return fmt.Errorf("unable to write year header: %w", err)
	}

	for i, year := range years {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("unable to address year row: %w", err)
		}

		row := []any{year, report.Summary.YearCounts[year]}
		if err := f.SetSheetRow(SheetYears, cell, &row); err != nil {
			return fmt.Errorf("unable to write year row: %w", err)
		}
	}

	return nil
}

func writeTopArtists(f *excelize.File, report *models.Report) error {
	if len(report.Summary.TopArtists) == 0 {
		return nil
	}

	if _, err := f.NewSheet(SheetArtists); err != nil {
		return fmt.Errorf("unable to create artists sheet: %w", err)
	}

	header := []any{"Artist", "Track Count"}
	if err := f.SetSheetRow(SheetArtists, "A1", &header); err != nil {
		return fmt.Errorf("unable to write artists header: %w", err)
	}

	for i, artist := range report.Summary.TopArtists {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("unable to address artist row: %w", err)
		}

		row := []any{artist.Name, artist.Count}
		if err := f.SetSheetRow(SheetArtists, cell, &row); err != nil {
			return fmt.Errorf("unable to write artist row: %w", err)
		}
	}

	return nil
}

// rankErrors flattens error counts to "message: count" lines ordered
// by frequency, ties broken alphabetically.
func rankErrors(counts map[string]int) []string {
	type pair struct {
		msg string
		n   int
	}

	pairs := make([]pair, 0, len(counts))
	for msg, n := range counts {
		pairs = append(pairs, pair{msg, n})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].n != pairs[j].n {
			return pairs[i].n > pairs[j].n
		}

		return pairs[i].msg < pairs[j].msg
	})

	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = fmt.Sprintf("%s: %d", p.msg, p.n)
	}

	return lines
}
