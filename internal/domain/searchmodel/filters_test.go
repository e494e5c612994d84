package searchmodel

import (
	"testing"
	"time"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

func TestFiltersMatches(t *testing.T) {
	record := docmodel.DocumentMetadata{
		DocumentId:     "doc-1",
		Filename:       "Q4_Financial_Report.pdf",
		FileType:       docmodel.PDF,
		FileSizeBytes:  250_000,
		CreatedAt:      time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
		Author:         "Jane Smith",
		PageCount:      42,
		AIKeywords:     []string{"revenue", "forecast"},
		AIDocumentType: "report",
	}

	tests := []struct {
		name    string
		filters Filters
		record  docmodel.DocumentMetadata
		want    bool
	}{
		{"empty filters match anything", Filters{}, record, true},
		{"file type match", Filters{FileType: docmodel.PDF}, record, true},
		{"file type mismatch", Filters{FileType: docmodel.DOCX}, record, false},
		{"document type is case insensitive", Filters{DocumentType: "Report"}, record, true},
		{"author is case insensitive", Filters{Author: "jane smith"}, record, true},
		{"filename substring", Filters{FilenameContains: "financial"}, record, true},
		{"filename substring mismatch", Filters{FilenameContains: "invoice"}, record, false},
		{"all keywords required", Filters{Keywords: []string{"revenue", "forecast"}}, record, true},
		{"one missing keyword fails", Filters{Keywords: []string{"revenue", "budget"}}, record, false},
		{"page range inside", Filters{MinPages: 10, MaxPages: 50}, record, true},
		{"page range outside", Filters{MinPages: 50}, record, false},
		{"created window", Filters{CreatedAfter: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}, record, true},
		{"created before cutoff fails", Filters{CreatedBefore: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}, record, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Matches(tt.record); got != tt.want {
				t.Errorf("Matches() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersMatches_MissingFieldFailsConstraint(t *testing.T) {
	// a record with no page count or timestamps must not slip through
	// range constraints as if the missing value were in range
	bare := docmodel.DocumentMetadata{
		DocumentId: "doc-2",
		Filename:   "notes.docx",
		FileType:   docmodel.DOCX,
	}

	if (Filters{MaxPages: 100}).Matches(bare) {
		t.Error("MaxPages constraint matched a record without a page count")
	}
	if (Filters{MaxSizeBytes: 1 << 20}).Matches(bare) {
		t.Error("MaxSizeBytes constraint matched a record without a size")
	}
	if (Filters{CreatedBefore: time.Now()}).Matches(bare) {
		t.Error("CreatedBefore constraint matched a record without a creation time")
	}
	if !(Filters{FileType: docmodel.DOCX}).Matches(bare) {
		t.Error("present field failed to match")
	}
}
