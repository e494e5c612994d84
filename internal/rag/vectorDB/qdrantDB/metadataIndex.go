package qdrantDB

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
	"github.com/qdrant/go-client/qdrant"
)

type metadataIndex struct {
	holder         *ClientHolder
	collectionName string
}

func NewMetadataIndex(holder *ClientHolder) vectorDB.MetadataIndex {
	return &metadataIndex{
		holder:         holder,
		collectionName: config.MetadataCollectionName,
	}
}

func (m *metadataIndex) UpsertDocument(ctx context.Context, record docmodel.DocumentMetadata, summaryVector []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(record.DocumentId),
		Vectors: qdrant.NewVectors(summaryVector...),
		Payload: qdrant.NewValueMap(recordToPayload(record)),
	}

	_, err := m.holder.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: m.collectionName,
		Points:         []*qdrant.PointStruct{point},
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant metadata upsert failed: %w", err)
	}
	return nil
}

func (m *metadataIndex) Query(ctx context.Context, vector []float32, filters searchmodel.Filters, k int) ([]vectorDB.DocumentHit, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	// filename substring matching cannot go into the qdrant filter, so
	// over-fetch when it is set and re-check the full conjunction after
	limit := k
	if filters.FilenameContains != "" {
		limit = k * config.CandidateMultiplier
	}

	result, err := m.holder.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: m.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         buildFilter(filters),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying metadata collection: ", "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.DocumentHit, 0, len(result))
	for _, hit := range result {
		record := recordFromPayload(hit.Payload)
		if !filters.Matches(record) {
			continue
		}
		hits = append(hits, vectorDB.DocumentHit{Record: record, Score: hit.Score})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func (m *metadataIndex) Filter(ctx context.Context, filters searchmodel.Filters, limit int) ([]docmodel.DocumentMetadata, error) {
	fetch := limit
	if filters.FilenameContains != "" {
		fetch = limit * config.CandidateMultiplier
	}

	points, err := m.holder.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: m.collectionName,
		Filter:         buildFilter(filters),
		Limit:          qdrant.PtrOf(uint32(fetch)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant metadata scroll failed: %w", err)
	}

	records := make([]docmodel.DocumentMetadata, 0, len(points))
	for _, pt := range points {
		record := recordFromPayload(pt.Payload)
		if !filters.Matches(record) {
			continue
		}
		records = append(records, record)
		if len(records) == limit {
			break
		}
	}
	return records, nil
}

func (m *metadataIndex) Get(ctx context.Context, documentId string) (docmodel.DocumentMetadata, error) {
	points, err := m.holder.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: m.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(documentId)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return docmodel.DocumentMetadata{}, fmt.Errorf("qdrant metadata get failed: %w", err)
	}
	if len(points) == 0 {
		return docmodel.DocumentMetadata{}, fmt.Errorf("document %s: %w", documentId, docmodel.ErrDocumentNotFound)
	}
	return recordFromPayload(points[0].Payload), nil
}

func (m *metadataIndex) GetSummaryVector(ctx context.Context, documentId string) ([]float32, error) {
	points, err := m.holder.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: m.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(documentId)},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant metadata get failed: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("document %s: %w", documentId, docmodel.ErrDocumentNotFound)
	}
	vec := points[0].Vectors.GetVector()
	if vec == nil {
		return nil, fmt.Errorf("document %s has no summary vector", documentId)
	}
	return vec.Data, nil
}

// List pages by fetching limit+offset and slicing, qdrant scroll offsets are
// cursor based and this collection stays small enough for that to be fine.
func (m *metadataIndex) List(ctx context.Context, limit int, offset int) ([]docmodel.DocumentMetadata, error) {
	points, err := m.holder.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: m.collectionName,
		Limit:          qdrant.PtrOf(uint32(limit + offset)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant metadata scroll failed: %w", err)
	}
	if offset >= len(points) {
		return []docmodel.DocumentMetadata{}, nil
	}
	points = points[offset:]

	records := make([]docmodel.DocumentMetadata, 0, len(points))
	for _, pt := range points {
		records = append(records, recordFromPayload(pt.Payload))
	}
	return records, nil
}

func (m *metadataIndex) Delete(ctx context.Context, documentId string) error {
	_, err := m.holder.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: m.collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(documentId)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant metadata delete failed: %w", err)
	}
	return nil
}

func (m *metadataIndex) Count(ctx context.Context) (uint64, error) {
	return m.holder.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: m.collectionName,
		Exact:          qdrant.PtrOf(true),
	})
}

func recordToPayload(record docmodel.DocumentMetadata) map[string]any {
	keywords := make([]any, len(record.AIKeywords))
	for i, kw := range record.AIKeywords {
		keywords[i] = kw
	}
	return map[string]any{
		"document_id":      record.DocumentId,
		"filename":         record.Filename,
		"file_type":        string(record.FileType),
		"file_size_bytes":  record.FileSizeBytes,
		"created_at":       unixOrZero(record.CreatedAt),
		"modified_at":      unixOrZero(record.ModifiedAt),
		"uploaded_at":      unixOrZero(record.UploadedAt),
		"title":            record.Title,
		"author":           record.Author,
		"subject":          record.Subject,
		"creator":          record.Creator,
		"page_count":       record.PageCount,
		"ai_summary":       record.AISummary,
		"ai_keywords":      keywords,
		"ai_document_type": record.AIDocumentType,
	}
}

func recordFromPayload(payload map[string]*qdrant.Value) docmodel.DocumentMetadata {
	record := docmodel.DocumentMetadata{
		DocumentId:     payload["document_id"].GetStringValue(),
		Filename:       payload["filename"].GetStringValue(),
		FileType:       docmodel.DocType(payload["file_type"].GetStringValue()),
		FileSizeBytes:  payload["file_size_bytes"].GetIntegerValue(),
		CreatedAt:      timeOrZero(payload["created_at"].GetIntegerValue()),
		ModifiedAt:     timeOrZero(payload["modified_at"].GetIntegerValue()),
		UploadedAt:     timeOrZero(payload["uploaded_at"].GetIntegerValue()),
		Title:          payload["title"].GetStringValue(),
		Author:         payload["author"].GetStringValue(),
		Subject:        payload["subject"].GetStringValue(),
		Creator:        payload["creator"].GetStringValue(),
		PageCount:      int(payload["page_count"].GetIntegerValue()),
		AISummary:      payload["ai_summary"].GetStringValue(),
		AIDocumentType: payload["ai_document_type"].GetStringValue(),
	}
	if list := payload["ai_keywords"].GetListValue(); list != nil {
		for _, v := range list.Values {
			record.AIKeywords = append(record.AIKeywords, v.GetStringValue())
		}
	}
	return record
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
