package classifier

import (
	"testing"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
)

func TestClassify_Scenarios(t *testing.T) {
	c := New()

	tests := []struct {
		query    string
		expected searchmodel.QueryType
	}{
		{"list pdf reports", searchmodel.QueryMetadata},
		{"what does the report say about revenue", searchmodel.QueryHybrid},
		{"explain the refund policy", searchmodel.QueryContent},
		{"Find all invoices from 2023", searchmodel.QueryMetadata},
		{"How do I reset my password", searchmodel.QueryContent},
		{"What does the Q4 2023 financial report say about revenue growth", searchmodel.QueryHybrid},
		{"show me contracts authored by Jane Smith", searchmodel.QueryMetadata},
		{"random words with no markers", searchmodel.QueryContent},
		{"", searchmodel.QueryContent},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Classify(tt.query)
			if got.Type != tt.expected {
				t.Errorf("Classify(%q) = %v; want %v\nmetadata signals: %v\ncontent signals: %v",
					tt.query, got.Type, tt.expected, got.MetadataSignals, got.ContentSignals)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	c := New()
	query := "list pdf reports by John Doe from 2023"

	first := c.Classify(query)
	second := c.Classify(query)

	if first.Type != second.Type {
		t.Fatalf("Classification not deterministic: %v vs %v", first.Type, second.Type)
	}
	if len(first.MetadataSignals) != len(second.MetadataSignals) {
		t.Errorf("Signal lists differ across runs")
	}
	for i := range first.MetadataSignals {
		if first.MetadataSignals[i] != second.MetadataSignals[i] {
			t.Errorf("Signal order not stable: %v vs %v", first.MetadataSignals, second.MetadataSignals)
		}
	}
}

func TestClassify_SignalsExposed(t *testing.T) {
	got := New().Classify("list pdf reports")

	if len(got.MetadataSignals) < 3 {
		t.Errorf("Expected file-type, document-type and enumeration signals, got %v", got.MetadataSignals)
	}
	if len(got.ContentSignals) != 0 {
		t.Errorf("Expected no content signals, got %v", got.ContentSignals)
	}
}

func TestClassify_ShortTokenNeedsWholeWord(t *testing.T) {
	// "cv" must not fire inside other words
	got := New().Classify("describe the vcvcv pattern")
	if got.Type != searchmodel.QueryContent {
		t.Errorf("Expected content, got %v (metadata signals: %v)", got.Type, got.MetadataSignals)
	}
}

func TestExtractFilters(t *testing.T) {
	filters := ExtractFilters("find all pdf reports by John Doe from 2023")

	if filters.FileType != docmodel.PDF {
		t.Errorf("FileType got %v", filters.FileType)
	}
	if filters.Author != "John Doe" {
		t.Errorf("Author got %q", filters.Author)
	}
	if filters.CreatedAfter.Year() != 2023 || filters.CreatedBefore.Year() != 2024 {
		t.Errorf("Year range got %v - %v", filters.CreatedAfter, filters.CreatedBefore)
	}
}

func TestExtractFilters_NoMarkers(t *testing.T) {
	filters := ExtractFilters("explain the refund policy")
	if !filters.Empty() {
		t.Errorf("Expected empty filters, got %+v", filters)
	}
}

func TestNewWithSignals(t *testing.T) {
	c := NewWithSignals(
		map[string][]string{"custom": {"blueprint"}},
		map[string][]string{"custom": {"why"}},
	)

	if got := c.Classify("show blueprint"); got.Type != searchmodel.QueryMetadata {
		t.Errorf("Custom metadata token did not fire, got %v", got.Type)
	}
	if got := c.Classify("why though"); got.Type != searchmodel.QueryContent {
		t.Errorf("Custom content token did not fire, got %v", got.Type)
	}
}
