package rag_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/akolanti/intellifile/internal/data/store"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag"
	"github.com/akolanti/intellifile/internal/rag/classifier"
)

func newService(ingestor *MockIngestor, searcher *MockSearcher, llm *MockLLM, cache store.DocumentCache, content *MockContentIndex, meta *MockMetadataIndex) rag.Service {
	if ingestor == nil {
		ingestor = &MockIngestor{}
	}
	if searcher == nil {
		searcher = &MockSearcher{}
	}
	if llm == nil {
		llm = &MockLLM{}
	}
	if content == nil {
		content = &MockContentIndex{}
	}
	if meta == nil {
		meta = &MockMetadataIndex{}
	}
	return rag.NewService(ingestor, searcher, classifier.New(), llm, cache, content, meta)
}

func oneResult(documentId string, withChunk bool) []searchmodel.SearchResult {
	result := searchmodel.SearchResult{
		DocumentId:      documentId,
		Document:        docmodel.DocumentMetadata{DocumentId: documentId, Filename: documentId + ".pdf", AISummary: "a summary"},
		AggregatedScore: 0.8,
		Source:          searchmodel.SourceMetadata,
	}
	if withChunk {
		result.RelevantChunks = []searchmodel.ChunkMatch{{ChunkId: "c1", Text: "chunk text", Score: 0.8}}
		result.Source = searchmodel.SourceContent
	}
	return []searchmodel.SearchResult{result}
}

func TestQuery_RoutingReachesRetriever(t *testing.T) {
	tests := []struct {
		query string
		want  searchmodel.QueryType
	}{
		{"list pdf reports", searchmodel.QueryMetadata},
		{"what does the report say about revenue", searchmodel.QueryHybrid},
		{"explain the refund policy", searchmodel.QueryContent},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			searcher := &MockSearcher{}
			svc := newService(nil, searcher, nil, nil, nil, nil)

			_, err := svc.Query(context.Background(), tc.query, 5, false)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if searcher.LastClassification.Type != tc.want {
				t.Errorf("routed as %s, want %s", searcher.LastClassification.Type, tc.want)
			}
			if searcher.LastClassification.Query != tc.query {
				t.Errorf("query text lost: %q", searcher.LastClassification.Query)
			}
		})
	}
}

func TestQuery_CarriesExtractedFilters(t *testing.T) {
	searcher := &MockSearcher{}
	svc := newService(nil, searcher, nil, nil, nil, nil)

	_, err := svc.Query(context.Background(), "find pdf reports by Jane Smith from 2023", 5, false)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	filters := searcher.LastClassification.Filters
	if filters.FileType != docmodel.PDF {
		t.Errorf("file type filter = %q, want pdf", filters.FileType)
	}
	if filters.Author != "Jane Smith" {
		t.Errorf("author filter = %q, want Jane Smith", filters.Author)
	}
	if filters.CreatedAfter.Year() != 2023 || filters.CreatedBefore.Year() != 2024 {
		t.Errorf("year window = %v..%v, want 2023..2024", filters.CreatedAfter, filters.CreatedBefore)
	}
}

func TestQuery_WithAnswer(t *testing.T) {
	searcher := &MockSearcher{
		OnRetrieve: func(ctx context.Context, c searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error) {
			return oneResult("doc-1", true), nil
		},
	}
	llm := &MockLLM{
		OnGenerate: func(ctx context.Context, prompt string, blocks []string) (string, error) {
			if len(blocks) == 0 {
				return "", errors.New("no context passed")
			}
			return "final answer", nil
		},
	}
	svc := newService(nil, searcher, llm, nil, nil, nil)

	output, err := svc.Query(context.Background(), "what does the contract say", 5, true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if output.Answer != "final answer" {
		t.Errorf("answer = %q", output.Answer)
	}
	if output.AnswerDegraded {
		t.Error("answer must not be degraded")
	}
	if len(output.Results) != 1 {
		t.Fatalf("results lost: %d", len(output.Results))
	}
}

func TestQuery_AnswerDegradesOnLanguageTimeout(t *testing.T) {
	searcher := &MockSearcher{
		OnRetrieve: func(ctx context.Context, c searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error) {
			return oneResult("doc-1", true), nil
		},
	}
	llm := &MockLLM{
		OnGenerate: func(ctx context.Context, prompt string, blocks []string) (string, error) {
			return "", fmt.Errorf("generate: %w", docmodel.ErrLanguageTimeout)
		},
	}
	svc := newService(nil, searcher, llm, nil, nil, nil)

	output, err := svc.Query(context.Background(), "what does the contract say", 5, true)
	if err != nil {
		t.Fatalf("a slow language service must not fail the query: %v", err)
	}
	if !output.AnswerDegraded {
		t.Error("expected degraded answer flag")
	}
	if output.Answer != "" {
		t.Errorf("unexpected answer %q", output.Answer)
	}
	if len(output.Results) != 1 {
		t.Fatal("retrieval results must survive a degraded answer step")
	}
}

func TestQuery_NoAnswerCallWithoutResults(t *testing.T) {
	llm := &MockLLM{}
	svc := newService(nil, &MockSearcher{}, llm, nil, nil, nil)

	output, err := svc.Query(context.Background(), "anything at all", 5, true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if llm.Calls != 0 {
		t.Error("LLM must not be called with zero retrieval results")
	}
	if output.Answer != "" {
		t.Errorf("unexpected answer %q", output.Answer)
	}
}

func TestGetDocument_CacheBackfill(t *testing.T) {
	meta := &MockMetadataIndex{
		OnGet: func(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
			return docmodel.DocumentMetadata{DocumentId: documentId, Filename: "cached.pdf"}, nil
		},
	}
	cache := store.InitInMemorySummaryCache()
	svc := newService(nil, nil, nil, cache, nil, meta)

	for i := 0; i < 3; i++ {
		record, err := svc.GetDocument(context.Background(), "doc-1")
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if record.Filename != "cached.pdf" {
			t.Errorf("record = %+v", record)
		}
	}
	if meta.GetCalls != 1 {
		t.Errorf("index hit %d times, cache not used", meta.GetCalls)
	}
}

func TestIngestAndDelete_CacheLifecycle(t *testing.T) {
	cache := store.InitInMemorySummaryCache()
	svc := newService(nil, nil, nil, cache, nil, nil)

	record, err := svc.IngestDocument(context.Background(), "/tmp/upload.pdf", "upload.pdf")
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if _, found := cache.GetDocument(context.Background(), record.DocumentId); !found {
		t.Fatal("ingested record not cached")
	}

	if err := svc.DeleteDocument(context.Background(), record.DocumentId); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, found := cache.GetDocument(context.Background(), record.DocumentId); found {
		t.Fatal("cache entry survived delete")
	}
}

func TestIngest_ErrorPropagates(t *testing.T) {
	ingestor := &MockIngestor{
		OnIngest: func(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error) {
			return docmodel.DocumentMetadata{}, docmodel.ErrExtractionFailed
		},
	}
	svc := newService(ingestor, nil, nil, nil, nil, nil)

	_, err := svc.IngestDocument(context.Background(), "/tmp/broken.pdf", "broken.pdf")
	if !errors.Is(err, docmodel.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	content := &MockContentIndex{
		OnCount: func(ctx context.Context) (uint64, error) { return 42, nil },
	}
	meta := &MockMetadataIndex{
		OnCount: func(ctx context.Context) (uint64, error) { return 3, nil },
		OnList: func(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error) {
			return []docmodel.DocumentMetadata{
				{DocumentId: "a", FileType: docmodel.PDF, FileSizeBytes: 1_000, AIDocumentType: "report"},
				{DocumentId: "b", FileType: docmodel.PDF, FileSizeBytes: 2_500, AIDocumentType: "invoice"},
				{DocumentId: "c", FileType: docmodel.DOCX, FileSizeBytes: 500, AIDocumentType: "report"},
			}, nil
		},
	}
	svc := newService(nil, nil, nil, nil, content, meta)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.DocumentCount != 3 || stats.ChunkCount != 42 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.ByFileType["pdf"] != 2 || stats.ByFileType["docx"] != 1 {
		t.Errorf("file type breakdown wrong: %v", stats.ByFileType)
	}
	if stats.ByDocumentType["report"] != 2 {
		t.Errorf("document type breakdown wrong: %v", stats.ByDocumentType)
	}
	if stats.TotalSizeBytes != 4_000 {
		t.Errorf("total size wrong: %d", stats.TotalSizeBytes)
	}
}
