// package formatter provides functions to export match reports to various formats (Excel, CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
)

// Format names a report output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (expected xlsx, csv, json, or txt)", shared.ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// FormatForPath infers the export format from a path's extension,
// falling back when the extension is missing or unrecognized.
func FormatForPath(path string, fallback Format) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return fallback
	}

	format, err := ParseFormat(ext)
	if err != nil {
		return fallback
	}
	return format
}

// DefaultExportPath derives the report path written beside the input
// file, or isrc_results when there is no input to derive from.
func DefaultExportPath(input string, format Format) string {
	if input == "" {
		return fmt.Sprintf("isrc_results.%s", format.Ext())
	}

	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s_results.%s", stem, format.Ext())
}

var csvHeaders = []string{"isrc", "release_year", "track_name", "artist_name", "album_name", "status", "error"}

// ExportToCSV converts a report to CSV with one record per result, in
// input order. Pass-through columns from the input document follow the
// result columns.
func ExportToCSV(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := append(append([]string{}, csvHeaders...), report.PassthroughHeaders...)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, result := range report.Results {
		record := []string{
			result.ISRC,
			result.ReleaseYear,
			result.TrackName,
			result.ArtistName,
			result.AlbumName,
			string(result.Status),
			result.ErrorMessage,
		}
		record = append(record, padCells(result.Passthrough, len(report.PassthroughHeaders))...)

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a report to indented JSON carrying the run
// metadata, every result, and the summary.
func ExportToJSON(report *models.Report) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// ExportToText converts a report to plain text format
func ExportToText(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("ISRC Match Report\n")
	buf.WriteString(fmt.Sprintf("Run: %s\n", report.Meta.RunID))
	buf.WriteString(fmt.Sprintf("Provider: %s\n", report.Meta.Provider))

	if report.Meta.Source != "" {
		buf.WriteString(fmt.Sprintf("Source: %s\n", report.Meta.Source))
	}

	buf.WriteString(fmt.Sprintf("Started: %s\n", report.Meta.StartedAt.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("Elapsed: %s\n", report.Meta.Elapsed()))
	buf.WriteString(fmt.Sprintf("Results: %d total, %d matched, %d failed (%.1f%% success)\n\n",
		report.Summary.Total, report.Summary.Successful, report.Summary.Failed, report.Summary.SuccessRate))

	for i, result := range report.Results {
		if result.Status == models.StatusSuccess {
			buf.WriteString(fmt.Sprintf("%d. %s [%s] %s - %s (%s, %s)\n",
				i+1, result.ISRC, result.Status, result.TrackName, result.ArtistName, result.AlbumName, result.ReleaseYear))
			continue
		}

		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s\n", i+1, result.ISRC, result.Status, result.ErrorMessage))
	}

	return buf.Bytes(), nil
}

// WriteExport renders the report in the given format and writes it to
// path, returning the path written. An empty path defaults to
// isrc_results with the format's extension.
func WriteExport(report *models.Report, path string, format Format) (string, error) {
	if path == "" {
		path = fmt.Sprintf("isrc_results.%s", format.Ext())
	}

	if format == FormatXLSX {
		return WriteExcelExport(report, path)
	}

	var data []byte
	var err error

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(report)
	case FormatJSON:
		data, err = ExportToJSON(report)
	case FormatText:
		data, err = ExportToText(report)
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func padCells(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}

	padded := make([]string, width)
	copy(padded, cells)

	return padded
}
