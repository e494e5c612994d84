package rag_test

import (
	"context"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
)

// MockIngestor implements rag.Ingestor
type MockIngestor struct {
	OnIngest     func(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error)
	OnDelete     func(ctx context.Context, documentId string) error
	OnRegenerate func(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)
}

func (m *MockIngestor) Ingest(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error) {
	if m.OnIngest != nil {
		return m.OnIngest(ctx, uploadPath, originalName)
	}
	return docmodel.DocumentMetadata{DocumentId: "mock-doc", Filename: originalName}, nil
}

func (m *MockIngestor) Delete(ctx context.Context, documentId string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, documentId)
	}
	return nil
}

func (m *MockIngestor) Regenerate(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	if m.OnRegenerate != nil {
		return m.OnRegenerate(ctx, documentId)
	}
	return docmodel.DocumentMetadata{DocumentId: documentId}, nil
}

// MockSearcher implements rag.Searcher and records the classification it was
// handed so routing can be asserted.
type MockSearcher struct {
	LastClassification searchmodel.Classification
	OnRetrieve         func(ctx context.Context, classification searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error)
	OnSimilar          func(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error)
}

func (m *MockSearcher) Retrieve(ctx context.Context, classification searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error) {
	m.LastClassification = classification
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, classification, topK)
	}
	return nil, nil
}

func (m *MockSearcher) SearchMetadata(ctx context.Context, filters searchmodel.Filters, limit int) ([]searchmodel.SearchResult, error) {
	return nil, nil
}

func (m *MockSearcher) SearchSemanticMetadata(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	return nil, nil
}

func (m *MockSearcher) SearchContent(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	return nil, nil
}

func (m *MockSearcher) SimilarDocuments(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error) {
	if m.OnSimilar != nil {
		return m.OnSimilar(ctx, documentId, topK)
	}
	return nil, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	Calls      int
	OnGenerate func(ctx context.Context, prompt string, contextBlocks []string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, contextBlocks []string) (string, error) {
	m.Calls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, contextBlocks)
	}
	return "mocked llm response", nil
}

// MockContentIndex implements vectorDB.ContentIndex
type MockContentIndex struct {
	OnCount func(ctx context.Context) (uint64, error)
}

func (m *MockContentIndex) UpsertChunks(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error {
	return nil
}

func (m *MockContentIndex) Query(ctx context.Context, vector []float32, allowedDocumentIds []string, k int) ([]vectorDB.ChunkHit, error) {
	return nil, nil
}

func (m *MockContentIndex) DeleteByDocumentId(ctx context.Context, documentId string) error {
	return nil
}

func (m *MockContentIndex) CountChunks(ctx context.Context) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx)
	}
	return 0, nil
}

// MockMetadataIndex implements vectorDB.MetadataIndex
type MockMetadataIndex struct {
	GetCalls int
	OnGet    func(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)
	OnList   func(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error)
	OnCount  func(ctx context.Context) (uint64, error)
}

func (m *MockMetadataIndex) UpsertDocument(ctx context.Context, record docmodel.DocumentMetadata, summaryVector []float32) error {
	return nil
}

func (m *MockMetadataIndex) Query(ctx context.Context, vector []float32, filters searchmodel.Filters, k int) ([]vectorDB.DocumentHit, error) {
	return nil, nil
}

func (m *MockMetadataIndex) Filter(ctx context.Context, filters searchmodel.Filters, limit int) ([]docmodel.DocumentMetadata, error) {
	return nil, nil
}

func (m *MockMetadataIndex) Get(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	m.GetCalls++
	if m.OnGet != nil {
		return m.OnGet(ctx, documentId)
	}
	return docmodel.DocumentMetadata{}, docmodel.ErrDocumentNotFound
}

func (m *MockMetadataIndex) GetSummaryVector(ctx context.Context, documentId string) ([]float32, error) {
	return nil, docmodel.ErrDocumentNotFound
}

func (m *MockMetadataIndex) List(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error) {
	if m.OnList != nil {
		return m.OnList(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockMetadataIndex) Delete(ctx context.Context, documentId string) error { return nil }

func (m *MockMetadataIndex) Count(ctx context.Context) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx)
	}
	return 0, nil
}
