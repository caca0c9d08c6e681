package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var sampleHeaders = []string{"ISRC", "Song Title", "Notes"}

var sampleRows = [][]string{
	{"USUG11904257", "Blinding Lights", "The Weeknd hit"},
	{"GBUM71029604", "Someone Like You", "Adele classic"},
	{"USUM71703861", "Shape of You", "Ed Sheeran popular"},
	{"USRC17607839", "Despacito", "Luis Fonsi ft. Daddy Yankee"},
	{"GBAHS1700133", "Watermelon Sugar", "Harry Styles"},
	{"INVALID_ISRC", "Test Invalid", "Testing error handling"},
}

// CreateSample writes a small workbook with known ISRCs, including one
// invalid code, for trying the matcher end to end.
func CreateSample(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, header := range sampleHeaders {
		name, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("unable to address header cell: %w", err)
		}

		f.SetCellValue(sheet, name, header)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("unable to create header style: %w", err)
	}

	f.SetCellStyle(sheet, "A1", "C1", bold)

	for r, row := range sampleRows {
		for c, value := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("unable to address cell: %w", err)
			}

			f.SetCellValue(sheet, name, value)
		}
	}

	f.SetColWidth(sheet, "A", "A", 16)
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "C", 30)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to save sample workbook: %w", err)
	}

	return nil
}
