package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseImportFile_XLSX(t *testing.T) {
	r := buildXLSX(t, [][]interface{}{
		{"Name", "Email", "Program", "Organization Name", "Duration Text"},
		{"Jane Doe", "jane@example.com", "Web Development", "Acme University", "3 months"},
		{"John Roe", "john@example.com", "Data Science", "", ""},
	})

	rows, err := ParseImportFile("batch.xlsx", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	// sheet positions, header row included
	if rows[0].RowNumber != 2 || rows[1].RowNumber != 3 {
		t.Fatalf("row numbers = %d, %d, want 2, 3", rows[0].RowNumber, rows[1].RowNumber)
	}
	if rows[0].Name != "Jane Doe" || rows[0].Email != "jane@example.com" || rows[0].Program != "Web Development" {
		t.Fatalf("first row parsed wrong: %+v", rows[0])
	}
	if rows[0].OrganizationName != "Acme University" || rows[0].DurationText != "3 months" {
		t.Fatalf("optional columns parsed wrong: %+v", rows[0])
	}
	if rows[1].OrganizationName != "" || rows[1].DurationText != "" {
		t.Fatalf("empty optional cells should stay empty: %+v", rows[1])
	}
}

func TestParseImportFile_CSV(t *testing.T) {
	csv := strings.Join([]string{
		"Full Name,Email Address,Domain,College,Duration",
		"Jane Doe,jane@example.com,Web Development,Acme University,3 months",
	}, "\n")

	rows, err := ParseImportFile("batch.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("parsed %d rows, want 1", len(rows))
	}
	// every header above is an alias of a canonical column
	got := rows[0]
	if got.Name != "Jane Doe" || got.Email != "jane@example.com" || got.Program != "Web Development" ||
		got.OrganizationName != "Acme University" || got.DurationText != "3 months" {
		t.Fatalf("aliased headers parsed wrong: %+v", got)
	}
}

func TestParseImportFile_BlankRowsKeepPositions(t *testing.T) {
	csv := strings.Join([]string{
		"Name,Email,Program",
		"Jane Doe,jane@example.com,Web Development",
		",,",
		"John Roe,john@example.com,Data Science",
	}, "\n")

	rows, err := ParseImportFile("batch.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2 (blank row skipped)", len(rows))
	}
	// the blank row is skipped but positions stay aligned with the sheet
	if rows[0].RowNumber != 2 || rows[1].RowNumber != 4 {
		t.Fatalf("row numbers = %d, %d, want 2, 4", rows[0].RowNumber, rows[1].RowNumber)
	}
}

func TestParseImportFile_MissingColumns(t *testing.T) {
	csv := "Name,Program\nJane Doe,Web Development\n"
	_, err := ParseImportFile("batch.csv", strings.NewReader(csv))
	if !errors.Is(err, ErrMissingImportColumns) {
		t.Fatalf("got %v, want ErrMissingImportColumns", err)
	}
}

func TestParseImportFile_HeaderOnly(t *testing.T) {
	_, err := ParseImportFile("batch.csv", strings.NewReader("Name,Email,Program\n"))
	if !errors.Is(err, ErrEmptyImportFile) {
		t.Fatalf("got %v, want ErrEmptyImportFile", err)
	}
}

func TestParseImportFile_UnsupportedExtension(t *testing.T) {
	_, err := ParseImportFile("batch.pdf", strings.NewReader("whatever"))
	if !errors.Is(err, ErrUnsupportedImportFormat) {
		t.Fatalf("got %v, want ErrUnsupportedImportFormat", err)
	}
}

func TestParseImportFile_CorruptXLSX(t *testing.T) {
	_, err := ParseImportFile("batch.xlsx", strings.NewReader("this is not a zip archive"))
	if !errors.Is(err, ErrUnsupportedImportFormat) {
		t.Fatalf("got %v, want ErrUnsupportedImportFormat", err)
	}
}
