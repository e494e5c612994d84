package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/data/store"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/metrics"
	"github.com/akolanti/intellifile/internal/rag/classifier"
	"github.com/akolanti/intellifile/internal/rag/llm"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

// QueryOutput bundles everything the query endpoint returns: how the query
// was routed, the ranked results, and the synthesized answer when requested.
// A degraded answer step sets AnswerDegraded instead of failing the query.
type QueryOutput struct {
	Classification searchmodel.Classification `json:"classification"`
	Results        []searchmodel.SearchResult `json:"results"`
	Answer         string                     `json:"answer,omitempty"`
	AnswerDegraded bool                       `json:"answer_degraded,omitempty"`
}

// Ingestor is the pipeline surface the service needs.
type Ingestor interface {
	Ingest(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error)
	Delete(ctx context.Context, documentId string) error
	Regenerate(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)
}

// Searcher is the retriever surface the service needs.
type Searcher interface {
	Retrieve(ctx context.Context, classification searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error)
	SearchMetadata(ctx context.Context, filters searchmodel.Filters, limit int) ([]searchmodel.SearchResult, error)
	SearchSemanticMetadata(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error)
	SearchContent(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error)
	SimilarDocuments(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error)
}

// Service is the one surface handlers and the MCP server call, they never
// touch the indexes or the LLM directly.
type Service interface {
	IngestDocument(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error)
	DeleteDocument(ctx context.Context, documentId string) error
	GetDocument(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)
	ListDocuments(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error)
	RegenerateMetadata(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)

	SearchMetadata(ctx context.Context, filters searchmodel.Filters, limit int) ([]searchmodel.SearchResult, error)
	SearchSemanticMetadata(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error)
	SearchContent(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error)
	SimilarDocuments(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error)
	Query(ctx context.Context, query string, topK int, withAnswer bool) (QueryOutput, error)

	GetStats(ctx context.Context) (docmodel.Stats, error)
}

type service struct {
	ingestor    Ingestor
	searcher    Searcher
	classifier  *classifier.QueryClassifier
	llmProvider llm.Provider
	cache       store.DocumentCache
	content     vectorDB.ContentIndex
	meta        vectorDB.MetadataIndex
	logger      *logger_i.Logger
}

// NewService constructor, all collaborators injected so tests can swap fakes
func NewService(ingestor Ingestor, searcher Searcher, qc *classifier.QueryClassifier, provider llm.Provider, cache store.DocumentCache, content vectorDB.ContentIndex, meta vectorDB.MetadataIndex) Service {
	return &service{
		ingestor:    ingestor,
		searcher:    searcher,
		classifier:  qc,
		llmProvider: provider,
		cache:       cache,
		content:     content,
		meta:        meta,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) IngestDocument(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	record, err := s.ingestor.Ingest(ctx, uploadPath, originalName)
	if err != nil {
		metrics.CaptureIngestOutcome("error")
		return docmodel.DocumentMetadata{}, err
	}
	metrics.CaptureIngestOutcome("success")

	if s.cache != nil {
		if cacheErr := s.cache.SaveDocument(ctx, record); cacheErr != nil {
			s.logger.Warn("could not cache ingested record", "documentId", record.DocumentId, "error", cacheErr)
		}
	}
	return record, nil
}

func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	if err := s.ingestor.Delete(ctx, documentId); err != nil {
		return err
	}
	metrics.CaptureDelete()
	if s.cache != nil {
		s.cache.DeleteDocument(ctx, documentId)
	}
	return nil
}

func (s *service) GetDocument(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	if s.cache != nil {
		if record, found := s.cache.GetDocument(ctx, documentId); found {
			return record, nil
		}
	}

	record, err := s.meta.Get(ctx, documentId)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}
	if s.cache != nil {
		if cacheErr := s.cache.SaveDocument(ctx, record); cacheErr != nil {
			s.logger.Warn("could not backfill cache", "documentId", documentId, "error", cacheErr)
		}
	}
	return record, nil
}

func (s *service) ListDocuments(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error) {
	if limit <= 0 {
		limit = config.DefaultTopK
	}
	if offset < 0 {
		offset = 0
	}
	return s.meta.List(ctx, limit, offset)
}

func (s *service) RegenerateMetadata(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	record, err := s.ingestor.Regenerate(ctx, documentId)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}
	if s.cache != nil {
		if cacheErr := s.cache.SaveDocument(ctx, record); cacheErr != nil {
			s.logger.Warn("could not cache regenerated record", "documentId", documentId, "error", cacheErr)
		}
	}
	return record, nil
}

func (s *service) SearchMetadata(ctx context.Context, filters searchmodel.Filters, limit int) ([]searchmodel.SearchResult, error) {
	return s.searcher.SearchMetadata(ctx, filters, limit)
}

func (s *service) SearchSemanticMetadata(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	return s.searcher.SearchSemanticMetadata(ctx, query, filters, topK)
}

func (s *service) SearchContent(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	return s.searcher.SearchContent(ctx, query, filters, topK)
}

func (s *service) SimilarDocuments(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error) {
	return s.searcher.SimilarDocuments(ctx, documentId, topK)
}

// Query classifies, retrieves and optionally synthesizes an answer from the
// retrieved passages. An unavailable or slow language service degrades the
// answer step, retrieval results still come back.
func (s *service) Query(ctx context.Context, query string, topK int, withAnswer bool) (QueryOutput, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	classification := s.classifier.Classify(query)
	metrics.CaptureClassification(string(classification.Type))
	inMethodLogger.Debug("query classified", "type", classification.Type, "metadataSignals", classification.MetadataSignals, "contentSignals", classification.ContentSignals)

	start := time.Now()
	defer func() { metrics.CaptureQueryMetrics(string(classification.Type), time.Since(start)) }()

	results, err := s.searcher.Retrieve(ctx, classification, topK)
	if err != nil {
		inMethodLogger.Error("retrieval failed", "error", err)
		return QueryOutput{}, err
	}

	output := QueryOutput{
		Classification: classification,
		Results:        results,
	}

	if !withAnswer || len(results) == 0 {
		return output, nil
	}

	answer, err := s.synthesizeAnswer(ctx, query, results)
	if err != nil {
		if errors.Is(err, docmodel.ErrLanguageTimeout) || errors.Is(err, docmodel.ErrLanguageUnavailable) {
			inMethodLogger.Warn("answer synthesis degraded", "error", err)
			output.AnswerDegraded = true
			return output, nil
		}
		return QueryOutput{}, err
	}
	output.Answer = answer
	return output, nil
}

func (s *service) synthesizeAnswer(ctx context.Context, query string, results []searchmodel.SearchResult) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	llmCtx, cancel := context.WithTimeout(ctx, config.AnswerTimeout)
	defer cancel()

	return s.llmProvider.Generate(llmCtx, query, contextBlocks(results))
}

func (s *service) GetStats(ctx context.Context) (docmodel.Stats, error) {
	documentCount, err := s.meta.Count(ctx)
	if err != nil {
		return docmodel.Stats{}, err
	}
	chunkCount, err := s.content.CountChunks(ctx)
	if err != nil {
		return docmodel.Stats{}, err
	}

	stats := docmodel.Stats{
		DocumentCount:  documentCount,
		ChunkCount:     chunkCount,
		ByFileType:     make(map[string]int),
		ByDocumentType: make(map[string]int),
	}

	records, err := s.meta.List(ctx, config.MaxStatsDocuments, 0)
	if err != nil {
		s.logger.Warn("stats breakdown unavailable", "error", err)
		return stats, nil
	}
	for _, record := range records {
		stats.ByFileType[string(record.FileType)]++
		stats.ByDocumentType[record.AIDocumentType]++
		stats.TotalSizeBytes += record.FileSizeBytes
	}
	return stats, nil
}
