package vectorDB

import (
	"context"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
)

type ChunkHit struct {
	Chunk docmodel.DocChunk
	Score float32
}

type DocumentHit struct {
	Record docmodel.DocumentMetadata
	Score  float32
}

// ContentIndex holds one row per chunk: vector, text, parent document id and
// ordinal. The allowedDocumentIds join predicate narrows a query to chunks
// whose parent passed a document-level filter, nil means unfiltered.
type ContentIndex interface {
	UpsertChunks(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, allowedDocumentIds []string, k int) ([]ChunkHit, error)
	DeleteByDocumentId(ctx context.Context, documentId string) error
	CountChunks(ctx context.Context) (uint64, error)
}

// MetadataIndex holds one row per document: summary vector plus the full
// metadata record. Filters are a conjunction, a constraint on a field the
// record does not carry excludes the record.
type MetadataIndex interface {
	UpsertDocument(ctx context.Context, record docmodel.DocumentMetadata, summaryVector []float32) error
	Query(ctx context.Context, vector []float32, filters searchmodel.Filters, k int) ([]DocumentHit, error)
	Filter(ctx context.Context, filters searchmodel.Filters, limit int) ([]docmodel.DocumentMetadata, error)
	Get(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error)
	GetSummaryVector(ctx context.Context, documentId string) ([]float32, error)
	List(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error)
	Delete(ctx context.Context, documentId string) error
	Count(ctx context.Context) (uint64, error)
}
