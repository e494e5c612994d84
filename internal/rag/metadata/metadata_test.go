package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/extract"
)

type stubProvider struct {
	generate func(ctx context.Context, prompt string, blocks []string) (string, error)
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, blocks []string) (string, error) {
	return s.generate(ctx, prompt, blocks)
}

func TestNormalizeDocumentType(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"invoice", "invoice"},
		{"  Report \n", "report"},
		{"Research Paper", "research_paper"},
		{"this is a contract.", "contract"},
		{"poem", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		if got := NormalizeDocumentType(tt.raw); got != tt.expected {
			t.Errorf("NormalizeDocumentType(%q) = %q; want %q", tt.raw, got, tt.expected)
		}
	}
}

func TestBuildRecord_StructuralOverridesFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q4_report.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes here"), 0644); err != nil {
		t.Fatal(err)
	}

	props := extract.Properties{Title: "Q4 Financials", Author: "Jane Smith", PageCount: 12}
	record := BuildRecord("doc-1", path, "q4_report.pdf", props)

	if record.Title != "Q4 Financials" {
		t.Errorf("Structural title must win, got %q", record.Title)
	}
	if record.Author != "Jane Smith" {
		t.Errorf("Author got %q", record.Author)
	}
	if record.PageCount != 12 {
		t.Errorf("PageCount got %d", record.PageCount)
	}
	if record.FileType != docmodel.PDF {
		t.Errorf("FileType got %v", record.FileType)
	}
	if record.FileSizeBytes != int64(len("pdf bytes here")) {
		t.Errorf("FileSizeBytes got %d", record.FileSizeBytes)
	}
	if record.AIDocumentType != DefaultDocumentType {
		t.Errorf("Fresh record must default to %q, got %q", DefaultDocumentType, record.AIDocumentType)
	}
}

func TestBuildRecord_FilenameFallbackTitle(t *testing.T) {
	record := BuildRecord("doc-2", "/nonexistent/annual-sales_summary.docx", "annual-sales_summary.docx", extract.Properties{})

	if record.Title != "annual sales summary" {
		t.Errorf("Fallback title got %q", record.Title)
	}
}

func TestGenerateAll_Success(t *testing.T) {
	calls := 0
	provider := &stubProvider{
		generate: func(ctx context.Context, prompt string, blocks []string) (string, error) {
			calls++
			switch calls {
			case 1:
				return "A summary of the document.", nil
			case 2:
				return "finance, revenue, Q4", nil
			default:
				return "report", nil
			}
		},
	}

	fields := NewGenerator(provider).GenerateAll(context.Background(), "text", "report.pdf")

	if fields.Summary != "A summary of the document." {
		t.Errorf("Summary got %q", fields.Summary)
	}
	if len(fields.Keywords) != 3 || fields.Keywords[0] != "finance" {
		t.Errorf("Keywords got %v", fields.Keywords)
	}
	if fields.DocumentType != "report" {
		t.Errorf("DocumentType got %q", fields.DocumentType)
	}
}

func TestGenerateAll_ProviderDown(t *testing.T) {
	provider := &stubProvider{
		generate: func(ctx context.Context, prompt string, blocks []string) (string, error) {
			return "", errors.New("provider down")
		},
	}

	fields := NewGenerator(provider).GenerateAll(context.Background(), "text", "report.pdf")

	if fields.Summary != "" {
		t.Errorf("Expected empty summary on failure, got %q", fields.Summary)
	}
	if len(fields.Keywords) != 0 {
		t.Errorf("Expected no keywords on failure, got %v", fields.Keywords)
	}
	if fields.DocumentType != DefaultDocumentType {
		t.Errorf("Expected %q on failure, got %q", DefaultDocumentType, fields.DocumentType)
	}
}

func TestGenerateAll_VocabularyEscape(t *testing.T) {
	provider := &stubProvider{
		generate: func(ctx context.Context, prompt string, blocks []string) (string, error) {
			return "science fiction novel", nil
		},
	}

	fields := NewGenerator(provider).GenerateAll(context.Background(), "text", "novel.pdf")

	if fields.DocumentType != DefaultDocumentType {
		t.Errorf("Out-of-vocabulary output must map to %q, got %q", DefaultDocumentType, fields.DocumentType)
	}
}
