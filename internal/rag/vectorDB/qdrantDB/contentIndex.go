package qdrantDB

import (
	"context"
	"fmt"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
	"github.com/qdrant/go-client/qdrant"
)

type contentIndex struct {
	holder         *ClientHolder
	collectionName string
}

func NewContentIndex(holder *ClientHolder) vectorDB.ContentIndex {
	return &contentIndex{
		holder:         holder,
		collectionName: config.ContentCollectionName,
	}
}

func (c *contentIndex) UpsertChunks(ctx context.Context, chunks []docmodel.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":        chunk.Text,
				"document_id": chunk.DocumentId,
				"chunk_id":    chunk.ChunkId,
				"chunk_index": chunk.ChunkIndex,
			}),
		}
	}

	_, err := c.holder.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (c *contentIndex) Query(ctx context.Context, vector []float32, allowedDocumentIds []string, k int) ([]vectorDB.ChunkHit, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	req := &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(allowedDocumentIds) > 0 {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeywords("document_id", allowedDocumentIds...),
			},
		}
	}

	result, err := c.holder.QObj.Query(ctx, req)
	if err != nil {
		loggr.Error("Error querying content collection: ", "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.ChunkHit, 0, len(result))
	for _, hit := range result {
		hits = append(hits, vectorDB.ChunkHit{
			Chunk: docmodel.DocChunk{
				DocumentId: hit.Payload["document_id"].GetStringValue(),
				ChunkId:    hit.Payload["chunk_id"].GetStringValue(),
				ChunkIndex: int(hit.Payload["chunk_index"].GetIntegerValue()),
				Text:       hit.Payload["text"].GetStringValue(),
			},
			Score: hit.Score,
		})
	}
	return hits, nil
}

func (c *contentIndex) DeleteByDocumentId(ctx context.Context, documentId string) error {
	_, err := c.holder.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("document_id", documentId),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete by document failed: %w", err)
	}
	return nil
}

func (c *contentIndex) CountChunks(ctx context.Context) (uint64, error) {
	return c.holder.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: c.collectionName,
		Exact:          qdrant.PtrOf(true),
	})
}
