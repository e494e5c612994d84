package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/intellifile/internal/adapter/utils"
	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/metrics"
	"github.com/akolanti/intellifile/internal/rag/chunker"
	"github.com/akolanti/intellifile/internal/rag/embedding"
	"github.com/akolanti/intellifile/internal/rag/extract"
	"github.com/akolanti/intellifile/internal/rag/metadata"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

// ingestion stages, logged per step so a stuck ingest is diagnosable
const (
	stageReceived          = "received"
	stageTextExtracted     = "text_extracted"
	stageChunkedEmbedded   = "chunked_embedded"
	stageMetadataExtracted = "metadata_extracted"
	stageIndexed           = "indexed"
)

const embedBatchSize = 100

// AIGenerator produces the generated metadata fields. Degradation is the
// generator's concern, the pipeline never fails an ingest over it.
type AIGenerator interface {
	GenerateAll(ctx context.Context, text string, filename string) metadata.AIFields
}

// Pipeline drives one document through extraction, chunking, embedding and
// both index writes. Operations on the same document id are serialized,
// distinct documents run concurrently.
type Pipeline struct {
	embedder  embedding.Embedder
	content   vectorDB.ContentIndex
	meta      vectorDB.MetadataIndex
	generator AIGenerator
	store     *FileStore
	logger    *logger_i.Logger

	mu    sync.Mutex
	locks map[string]*docLock
}

func New(embedder embedding.Embedder, content vectorDB.ContentIndex, meta vectorDB.MetadataIndex, generator AIGenerator, store *FileStore) *Pipeline {
	return &Pipeline{
		embedder:  embedder,
		content:   content,
		meta:      meta,
		generator: generator,
		store:     store,
		logger:    logger_i.NewLogger("Pipeline"),
		locks:     make(map[string]*docLock),
	}
}

// docLock is a per-document mutex with a waiter count so entries can be
// dropped from the map once nobody holds or waits on them.
type docLock struct {
	mu   sync.Mutex
	refs int
}

func (p *Pipeline) lockDocument(documentId string) func() {
	p.mu.Lock()
	l, ok := p.locks[documentId]
	if !ok {
		l = &docLock{}
		p.locks[documentId] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, documentId)
		}
		p.mu.Unlock()
	}
}

// Ingest runs the full synchronous ingestion of one uploaded file. On any
// failure after the first index write it deletes what was already written, a
// document is either fully present in both indexes or absent from both.
func (p *Pipeline) Ingest(ctx context.Context, uploadPath string, originalName string) (docmodel.DocumentMetadata, error) {
	documentId := utils.GetNewUUID()
	unlock := p.lockDocument(documentId)
	defer unlock()

	loggr := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", documentId)
	loggr.Debug("ingestion started", "stage", stageReceived, "filename", originalName)

	result, err := extract.ExtractDocument(uploadPath)
	if err != nil {
		loggr.Error("extraction failed", "filename", originalName, "error", err)
		return docmodel.DocumentMetadata{}, err
	}
	loggr.Debug("ingestion progressed", "stage", stageTextExtracted, "characters", len(result.Text))

	spans, err := chunker.Chunk(result.Text, config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}
	chunks := chunker.PrepareChunks(documentId, spans)

	if err := p.embedAndUpsert(ctx, chunks); err != nil {
		loggr.Error("content indexing failed, rolling back", "error", err)
		p.rollback(ctx, documentId)
		return docmodel.DocumentMetadata{}, err
	}
	loggr.Debug("ingestion progressed", "stage", stageChunkedEmbedded, "chunks", len(chunks))

	record := metadata.BuildRecord(documentId, uploadPath, originalName, result.Properties)

	aiCtx, cancel := context.WithTimeout(ctx, config.AIMetadataTimeout)
	fields := p.generator.GenerateAll(aiCtx, result.Text, originalName)
	cancel()
	record.AISummary = fields.Summary
	record.AIKeywords = fields.Keywords
	record.AIDocumentType = fields.DocumentType
	loggr.Debug("ingestion progressed", "stage", stageMetadataExtracted, "documentType", record.AIDocumentType)

	summaryVector, err := p.embedder.GetEmbedding(ctx, metadataText(record))
	if err != nil {
		loggr.Error("summary embedding failed, rolling back", "error", err)
		p.rollback(ctx, documentId)
		return docmodel.DocumentMetadata{}, err
	}

	if err := p.meta.UpsertDocument(ctx, record, summaryVector); err != nil {
		loggr.Error("metadata indexing failed, rolling back", "error", err)
		p.rollback(ctx, documentId)
		return docmodel.DocumentMetadata{}, fmt.Errorf("%w: %v", docmodel.ErrIndexWrite, err)
	}

	if p.store != nil {
		if err := p.store.Put(documentId, uploadPath); err != nil {
			loggr.Error("storing original file failed, rolling back", "error", err)
			p.rollback(ctx, documentId)
			return docmodel.DocumentMetadata{}, err
		}
	}

	loggr.Info("ingestion complete", "stage", stageIndexed, "filename", originalName, "chunks", len(chunks))
	return record, nil
}

// Delete removes a document from both indexes and the file store. Deleting a
// document that does not exist is not an error.
func (p *Pipeline) Delete(ctx context.Context, documentId string) error {
	unlock := p.lockDocument(documentId)
	defer unlock()

	loggr := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", documentId)

	if err := p.content.DeleteByDocumentId(ctx, documentId); err != nil {
		loggr.Error("content delete failed", "error", err)
		return err
	}
	if err := p.meta.Delete(ctx, documentId); err != nil {
		loggr.Error("metadata delete failed", "error", err)
		return err
	}
	if p.store != nil {
		if err := p.store.Remove(documentId); err != nil {
			loggr.Error("stored file delete failed", "error", err)
		}
	}
	loggr.Info("document deleted")
	return nil
}

// Regenerate re-runs AI metadata generation for an already ingested document
// from its stored original file and rewrites the metadata record.
func (p *Pipeline) Regenerate(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	unlock := p.lockDocument(documentId)
	defer unlock()

	record, err := p.meta.Get(ctx, documentId)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}

	if p.store == nil {
		return docmodel.DocumentMetadata{}, errors.New("no file store configured")
	}
	path, err := p.store.Path(documentId)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}

	result, err := extract.ExtractDocument(path)
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}

	aiCtx, cancel := context.WithTimeout(ctx, config.AIMetadataTimeout)
	fields := p.generator.GenerateAll(aiCtx, result.Text, record.Filename)
	cancel()
	record.AISummary = fields.Summary
	record.AIKeywords = fields.Keywords
	record.AIDocumentType = fields.DocumentType

	summaryVector, err := p.embedder.GetEmbedding(ctx, metadataText(record))
	if err != nil {
		return docmodel.DocumentMetadata{}, err
	}
	if err := p.meta.UpsertDocument(ctx, record, summaryVector); err != nil {
		return docmodel.DocumentMetadata{}, fmt.Errorf("%w: %v", docmodel.ErrIndexWrite, err)
	}
	return record, nil
}

func (p *Pipeline) embedAndUpsert(ctx context.Context, chunks []docmodel.DocChunk) error {
	for i := 0; i < len(chunks); i += embedBatchSize {
		end := i + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}

		vectors, err := p.embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}
		if err := p.content.UpsertChunks(ctx, batch, vectors); err != nil {
			return fmt.Errorf("%w: %v", docmodel.ErrIndexWrite, err)
		}
		metrics.CaptureChunksIndexed(len(batch))
	}
	return nil
}

// rollback is best effort compensation, failures are logged and swallowed so
// the original error surfaces to the caller.
func (p *Pipeline) rollback(ctx context.Context, documentId string) {
	// the inbound ctx may already be cancelled, give compensation its own
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := p.content.DeleteByDocumentId(cleanupCtx, documentId); err != nil {
		p.logger.Error("rollback: content delete failed", "documentId", documentId, "error", err)
	}
	if err := p.meta.Delete(cleanupCtx, documentId); err != nil {
		p.logger.Error("rollback: metadata delete failed", "documentId", documentId, "error", err)
	}
	if p.store != nil {
		if err := p.store.Remove(documentId); err != nil {
			p.logger.Error("rollback: stored file delete failed", "documentId", documentId, "error", err)
		}
	}
}

// metadataText is the text embedded into the metadata index, a composed
// description of the document rather than its content.
func metadataText(record docmodel.DocumentMetadata) string {
	parts := []string{record.Filename}
	if record.Title != "" {
		parts = append(parts, record.Title)
	}
	if record.Author != "" {
		parts = append(parts, "by "+record.Author)
	}
	if record.AIDocumentType != "" {
		parts = append(parts, record.AIDocumentType)
	}
	if len(record.AIKeywords) > 0 {
		parts = append(parts, strings.Join(record.AIKeywords, " "))
	}
	if record.AISummary != "" {
		parts = append(parts, record.AISummary)
	}
	return strings.Join(parts, ". ")
}

// storedExtension keeps the original extension so re-extraction can dispatch
// on it later.
func storedExtension(uploadPath string) string {
	return strings.ToLower(filepath.Ext(uploadPath))
}
