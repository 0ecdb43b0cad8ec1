package service

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
)

var (
	ErrUnsupportedImportFormat = errors.New("unsupported import file format, expected .xlsx or .csv")
	ErrEmptyImportFile         = errors.New("import file has no data rows")
	ErrMissingImportColumns    = errors.New("import file is missing the Name, Email or Program column")
)

// Recognized header spellings, lower-cased with spaces/underscores stripped.
var importHeaderAliases = map[string]string{
	"name":             "name",
	"fullname":         "name",
	"email":            "email",
	"emailaddress":     "email",
	"program":          "program",
	"domain":           "program",
	"organizationname": "organization",
	"organization":     "organization",
	"college":          "organization",
	"durationtext":     "duration",
	"duration":         "duration",
}

// ParseImportFile turns an uploaded spreadsheet into import rows. Only the
// first sheet of an .xlsx workbook is read; .csv is accepted as a fallback.
// Row numbers are sheet positions including the header row, so error strings
// point at the exact row the operator sees in their spreadsheet.
func ParseImportFile(filename string, r io.Reader) ([]certDTO.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseXLSX(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, ErrUnsupportedImportFormat
	}
}

func parseXLSX(r io.Reader) ([]certDTO.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ErrUnsupportedImportFormat
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyImportFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return recordsToRows(records)
}

func parseCSV(r io.Reader) ([]certDTO.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, ErrUnsupportedImportFormat
	}
	return recordsToRows(records)
}

func recordsToRows(records [][]string) ([]certDTO.ImportRow, error) {
	if len(records) == 0 {
		return nil, ErrEmptyImportFile
	}

	columns := mapHeader(records[0])
	if _, ok := columns["name"]; !ok {
		return nil, ErrMissingImportColumns
	}
	if _, ok := columns["email"]; !ok {
		return nil, ErrMissingImportColumns
	}
	if _, ok := columns["program"]; !ok {
		return nil, ErrMissingImportColumns
	}

	rows := make([]certDTO.ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, certDTO.ImportRow{
			RowNumber:        i + 2, // sheet position: +1 for the header, +1 for 1-indexing
			Name:             cell(record, columns, "name"),
			Email:            cell(record, columns, "email"),
			Program:          cell(record, columns, "program"),
			OrganizationName: cell(record, columns, "organization"),
			DurationText:     cell(record, columns, "duration"),
		})
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImportFile
	}
	return rows, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		key = strings.ReplaceAll(key, " ", "")
		key = strings.ReplaceAll(key, "_", "")
		if canonical, ok := importHeaderAliases[key]; ok {
			if _, taken := columns[canonical]; !taken {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func cell(record []string, columns map[string]int, key string) string {
	idx, ok := columns[key]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
