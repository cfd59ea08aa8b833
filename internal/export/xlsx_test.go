package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/patentlens/patentlens/internal/recovery"
)

func TestRecordXLSX(t *testing.T) {
	rec := recovery.Record{
		"source_file_name":     "doc.pdf",
		"language_of_document": "English (Auto-Detected)",
		"patent_info": map[string]any{
			"title_english": "Cathode material",
			"inventors":     []any{"Kim", "Lee"},
		},
	}
	blob, err := RecordXLSX(rec)
	if err != nil {
		t.Fatalf("RecordXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("got %d rows, want header plus data", len(rows))
	}
	if rows[0][0] != "Field Path" || rows[0][1] != "Value" || rows[0][2] != "Description" {
		t.Fatalf("header row = %v", rows[0])
	}

	byPath := map[string]string{}
	for _, r := range rows[1:] {
		if len(r) >= 2 {
			byPath[r[0]] = r[1]
		} else if len(r) == 1 {
			byPath[r[0]] = ""
		}
	}
	if byPath["source_file_name"] != "doc.pdf" {
		t.Fatalf("source_file_name = %q", byPath["source_file_name"])
	}
	if byPath["patent_info.title_english"] != "Cathode material" {
		t.Fatalf("title = %q", byPath["patent_info.title_english"])
	}
	if byPath["patent_info.inventors.0"] != "Kim" {
		t.Fatalf("inventor = %q", byPath["patent_info.inventors.0"])
	}
}

func TestRecordXLSXIncludesDescriptions(t *testing.T) {
	rec := recovery.Record{
		"language_of_document": "English (Auto-Detected)",
	}
	blob, err := RecordXLSX(rec)
	if err != nil {
		t.Fatalf("RecordXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	var desc string
	for _, r := range rows[1:] {
		if len(r) >= 3 && r[0] == "language_of_document" {
			desc = r[2]
		}
	}
	if desc == "" {
		t.Fatal("description column empty for a described path")
	}
}

func TestCellValue(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want any
	}{
		{in: nil, want: ""},
		{in: "x", want: "x"},
		{in: float64(3), want: float64(3)},
		{in: true, want: true},
	} {
		if got := cellValue(tc.in); got != tc.want {
			t.Fatalf("cellValue(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
