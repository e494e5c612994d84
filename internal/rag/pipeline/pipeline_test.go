package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag/metadata"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
)

type fakeEmbedder struct {
	getFn   func(ctx context.Context, query string) ([]float32, error)
	batchFn func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if f.getFn != nil {
		return f.getFn(ctx, query)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if f.batchFn != nil {
		return f.batchFn(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeContentIndex struct {
	upsertFn  func(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error
	chunks    map[string][]docmodel.DocChunk
	deleted   []string
	upsertErr error
}

func newFakeContentIndex() *fakeContentIndex {
	return &fakeContentIndex{chunks: make(map[string][]docmodel.DocChunk)}
}

func (f *fakeContentIndex) UpsertChunks(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error {
	if f.upsertFn != nil {
		if err := f.upsertFn(ctx, chunks, vectors); err != nil {
			return err
		}
	}
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, c := range chunks {
		f.chunks[c.DocumentId] = append(f.chunks[c.DocumentId], c)
	}
	return nil
}

func (f *fakeContentIndex) Query(ctx context.Context, vector []float32, allowedDocumentIds []string, k int) ([]vectorDB.ChunkHit, error) {
	return nil, nil
}

func (f *fakeContentIndex) DeleteByDocumentId(ctx context.Context, documentId string) error {
	f.deleted = append(f.deleted, documentId)
	delete(f.chunks, documentId)
	return nil
}

func (f *fakeContentIndex) CountChunks(ctx context.Context) (uint64, error) {
	var n uint64
	for _, c := range f.chunks {
		n += uint64(len(c))
	}
	return n, nil
}

type fakeMetadataIndex struct {
	records   map[string]docmodel.DocumentMetadata
	deleted   []string
	upsertErr error
}

func newFakeMetadataIndex() *fakeMetadataIndex {
	return &fakeMetadataIndex{records: make(map[string]docmodel.DocumentMetadata)}
}

func (f *fakeMetadataIndex) UpsertDocument(ctx context.Context, record docmodel.DocumentMetadata, summaryVector []float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.records[record.DocumentId] = record
	return nil
}

func (f *fakeMetadataIndex) Query(ctx context.Context, vector []float32, filters searchmodel.Filters, k int) ([]vectorDB.DocumentHit, error) {
	return nil, nil
}

func (f *fakeMetadataIndex) Filter(ctx context.Context, filters searchmodel.Filters, limit int) ([]docmodel.DocumentMetadata, error) {
	return nil, nil
}

func (f *fakeMetadataIndex) Get(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	r, ok := f.records[documentId]
	if !ok {
		return docmodel.DocumentMetadata{}, docmodel.ErrDocumentNotFound
	}
	return r, nil
}

func (f *fakeMetadataIndex) GetSummaryVector(ctx context.Context, documentId string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeMetadataIndex) List(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error) {
	return nil, nil
}

func (f *fakeMetadataIndex) Delete(ctx context.Context, documentId string) error {
	f.deleted = append(f.deleted, documentId)
	delete(f.records, documentId)
	return nil
}

func (f *fakeMetadataIndex) Count(ctx context.Context) (uint64, error) {
	return uint64(len(f.records)), nil
}

type stubGenerator struct {
	fields metadata.AIFields
}

func (s *stubGenerator) GenerateAll(ctx context.Context, text string, filename string) metadata.AIFields {
	return s.fields
}

func writeUpload(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngest_WritesBothIndexes(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	gen := &stubGenerator{fields: metadata.AIFields{
		Summary:      "a short report about gophers",
		Keywords:     []string{"gophers", "burrows"},
		DocumentType: "report",
	}}

	p := New(&fakeEmbedder{}, content, meta, gen, nil)

	path := writeUpload(t, "gophers.txt", strings.Repeat("gophers dig burrows. ", 100))
	record, err := p.Ingest(context.Background(), path, "gophers.txt")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if record.DocumentId == "" {
		t.Fatal("expected a document id")
	}
	if record.AISummary != "a short report about gophers" {
		t.Errorf("summary not applied: %q", record.AISummary)
	}
	if record.AIDocumentType != "report" {
		t.Errorf("document type not applied: %q", record.AIDocumentType)
	}

	stored, ok := meta.records[record.DocumentId]
	if !ok {
		t.Fatal("metadata record not indexed")
	}
	if stored.Filename != "gophers.txt" {
		t.Errorf("filename = %q", stored.Filename)
	}
	if len(content.chunks[record.DocumentId]) == 0 {
		t.Fatal("no chunks indexed")
	}
	for i, c := range content.chunks[record.DocumentId] {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.DocumentId != record.DocumentId {
			t.Errorf("chunk %d belongs to %q", i, c.DocumentId)
		}
	}
}

func TestIngest_RollbackOnContentFailure(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()

	// fail on the second batch so the first batch is already written
	calls := 0
	content.upsertFn = func(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error {
		calls++
		if calls == 2 {
			return errors.New("qdrant unavailable")
		}
		return nil
	}

	p := New(&fakeEmbedder{}, content, meta, &stubGenerator{}, nil)

	// enough text for more than one embedding batch of 100 chunks
	path := writeUpload(t, "big.txt", strings.Repeat("x", 40_000))
	_, err := p.Ingest(context.Background(), path, "big.txt")
	if err == nil {
		t.Fatal("expected ingest to fail")
	}
	if calls < 2 {
		t.Fatalf("expected at least 2 upsert batches, got %d", calls)
	}
	if len(content.deleted) == 0 {
		t.Fatal("expected compensating content delete")
	}
	if len(meta.deleted) == 0 {
		t.Fatal("expected compensating metadata delete")
	}
	if n, _ := content.CountChunks(context.Background()); n != 0 {
		t.Fatalf("chunks left behind after rollback: %d", n)
	}
}

func TestIngest_MetadataFailureRollsBackContent(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	meta.upsertErr = errors.New("metadata collection down")

	p := New(&fakeEmbedder{}, content, meta, &stubGenerator{}, nil)

	path := writeUpload(t, "doc.txt", strings.Repeat("words ", 200))
	_, err := p.Ingest(context.Background(), path, "doc.txt")
	if err == nil {
		t.Fatal("expected ingest to fail")
	}
	if !errors.Is(err, docmodel.ErrIndexWrite) {
		t.Fatalf("expected ErrIndexWrite, got %v", err)
	}
	if len(content.deleted) == 0 {
		t.Fatal("expected compensating content delete")
	}
	if n, _ := content.CountChunks(context.Background()); n != 0 {
		t.Fatalf("chunks left behind after rollback: %d", n)
	}
}

func TestIngest_SucceedsWithDegradedAIFields(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	gen := &stubGenerator{fields: metadata.AIFields{DocumentType: "other"}}

	p := New(&fakeEmbedder{}, content, meta, gen, nil)

	path := writeUpload(t, "doc.txt", strings.Repeat("words ", 200))
	record, err := p.Ingest(context.Background(), path, "doc.txt")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if record.AISummary != "" {
		t.Errorf("expected empty summary, got %q", record.AISummary)
	}
	if record.AIDocumentType != "other" {
		t.Errorf("expected fallback document type, got %q", record.AIDocumentType)
	}
	if _, ok := meta.records[record.DocumentId]; !ok {
		t.Fatal("degraded ingest must still index the document")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	p := New(&fakeEmbedder{}, content, meta, &stubGenerator{}, nil)

	if err := p.Delete(context.Background(), "never-ingested"); err != nil {
		t.Fatalf("deleting an unknown document must succeed, got %v", err)
	}
	if err := p.Delete(context.Background(), "never-ingested"); err != nil {
		t.Fatalf("repeat delete must succeed, got %v", err)
	}
}

func TestIngestThenDelete_RemovesStoredFile(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := New(&fakeEmbedder{}, content, meta, &stubGenerator{}, store)

	path := writeUpload(t, "keep.txt", strings.Repeat("words ", 200))
	record, err := p.Ingest(context.Background(), path, "keep.txt")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if _, err := store.Path(record.DocumentId); err != nil {
		t.Fatalf("stored file missing after ingest: %v", err)
	}

	if err := p.Delete(context.Background(), record.DocumentId); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Path(record.DocumentId); !errors.Is(err, docmodel.ErrDocumentNotFound) {
		t.Fatalf("expected stored file gone, got %v", err)
	}
	if n, _ := content.CountChunks(context.Background()); n != 0 {
		t.Fatalf("chunks left behind: %d", n)
	}
	if n, _ := meta.Count(context.Background()); n != 0 {
		t.Fatalf("metadata left behind: %d", n)
	}
}

func TestRegenerate_RewritesAIFields(t *testing.T) {
	content := newFakeContentIndex()
	meta := newFakeMetadataIndex()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gen := &stubGenerator{fields: metadata.AIFields{Summary: "first pass", DocumentType: "other"}}
	p := New(&fakeEmbedder{}, content, meta, gen, store)

	path := writeUpload(t, "doc.txt", strings.Repeat("words ", 200))
	record, err := p.Ingest(context.Background(), path, "doc.txt")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	gen.fields = metadata.AIFields{Summary: "second pass", Keywords: []string{"updated"}, DocumentType: "report"}
	updated, err := p.Regenerate(context.Background(), record.DocumentId)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if updated.AISummary != "second pass" || updated.AIDocumentType != "report" {
		t.Errorf("fields not regenerated: %+v", updated)
	}
	if meta.records[record.DocumentId].AISummary != "second pass" {
		t.Error("regenerated record not persisted")
	}
}

func TestRegenerate_UnknownDocument(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := New(&fakeEmbedder{}, newFakeContentIndex(), newFakeMetadataIndex(), &stubGenerator{}, store)

	_, err = p.Regenerate(context.Background(), "missing")
	if !errors.Is(err, docmodel.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentLocksReleased(t *testing.T) {
	p := New(&fakeEmbedder{}, &fakeContentIndex{}, &fakeMetadataIndex{}, &stubGenerator{}, nil)

	unlockFirst := p.lockDocument("doc-a")
	secondDone := make(chan struct{})
	go func() {
		unlockSecond := p.lockDocument("doc-a")
		unlockSecond()
		close(secondDone)
	}()

	// the entry must survive while a second caller is waiting on it
	unlockFirst()
	<-secondDone

	p.mu.Lock()
	remaining := len(p.locks)
	p.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock map still holds %d entries after all holders released", remaining)
	}
}
