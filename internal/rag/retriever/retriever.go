package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag/embedding"
	"github.com/akolanti/intellifile/internal/rag/vectorDB"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

// Retriever executes classified queries against one or both indexes and
// merges the results into a single ranked list.
type Retriever struct {
	embedder embedding.Embedder
	content  vectorDB.ContentIndex
	meta     vectorDB.MetadataIndex
	logger   *logger_i.Logger
}

func New(embedder embedding.Embedder, content vectorDB.ContentIndex, meta vectorDB.MetadataIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		content:  content,
		meta:     meta,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

// Retrieve dispatches on the classified query type. Hybrid queries pay for
// two index reads, the classifier keeps that path to queries that need it.
func (r *Retriever) Retrieve(ctx context.Context, classification searchmodel.Classification, topK int) ([]searchmodel.SearchResult, error) {
	topK = clampTopK(topK)
	switch classification.Type {
	case searchmodel.QueryMetadata:
		return r.SearchSemanticMetadata(ctx, classification.Query, classification.Filters, topK)
	case searchmodel.QueryHybrid:
		return r.Hybrid(ctx, classification.Query, classification.Filters, topK)
	default:
		return r.SearchContent(ctx, classification.Query, classification.Filters, topK)
	}
}

// SearchMetadata is the pure filter path, no embedding call and no scores.
func (r *Retriever) SearchMetadata(ctx context.Context, filters searchmodel.Filters, limit int) ([]searchmodel.SearchResult, error) {
	limit = clampTopK(limit)
	records, err := r.meta.Filter(ctx, filters, limit)
	if err != nil {
		return nil, err
	}

	results := make([]searchmodel.SearchResult, 0, len(records))
	for _, record := range records {
		results = append(results, searchmodel.SearchResult{
			DocumentId: record.DocumentId,
			Document:   record,
			Source:     searchmodel.SourceMetadata,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DocumentId < results[j].DocumentId })
	return results, nil
}

// SearchSemanticMetadata embeds the query and ranks documents by summary
// similarity under the filter conjunction.
func (r *Retriever) SearchSemanticMetadata(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	topK = clampTopK(topK)
	vector, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := r.meta.Query(ctx, vector, filters, topK)
	if err != nil {
		return nil, err
	}

	results := make([]searchmodel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, searchmodel.SearchResult{
			DocumentId:       hit.Record.DocumentId,
			Document:         hit.Record,
			DocumentScore:    hit.Score,
			HasDocumentScore: true,
			AggregatedScore:  hit.Score,
			Source:           searchmodel.SourceMetadata,
		})
	}
	rank(results)
	return truncate(results, topK), nil
}

// SearchContent embeds the query, searches chunks, groups them by parent
// document and ranks by each document's best chunk.
func (r *Retriever) SearchContent(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	topK = clampTopK(topK)
	vector, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	grouped, err := r.contentCandidates(ctx, vector, filters, topK)
	if err != nil {
		return nil, err
	}

	results := make([]searchmodel.SearchResult, 0, len(grouped))
	for documentId, agg := range grouped {
		result := searchmodel.SearchResult{
			DocumentId:      documentId,
			ChunkScore:      agg.best,
			HasChunkScore:   true,
			AggregatedScore: agg.best,
			Source:          searchmodel.SourceContent,
			RelevantChunks:  agg.topChunks(),
		}
		if record, err := r.meta.Get(ctx, documentId); err == nil {
			result.Document = record
		} else {
			r.logger.Warn("content hit without metadata record", "documentId", documentId, "error", err)
		}
		results = append(results, result)
	}
	rank(results)
	return truncate(results, topK), nil
}

// Hybrid runs both paths over the full candidate pool, normalizes each
// path's scores per query and combines them with the configured weights.
func (r *Retriever) Hybrid(ctx context.Context, query string, filters searchmodel.Filters, topK int) ([]searchmodel.SearchResult, error) {
	topK = clampTopK(topK)
	vector, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	metaHits, err := r.meta.Query(ctx, vector, filters, topK*config.CandidateMultiplier)
	if err != nil {
		return nil, err
	}
	grouped, err := r.contentCandidates(ctx, vector, filters, topK)
	if err != nil {
		return nil, err
	}

	metaNorm := normalizeDocumentHits(metaHits)
	contentNorm := normalizeChunkGroups(grouped)

	merged := make(map[string]*searchmodel.SearchResult)
	for _, hit := range metaHits {
		merged[hit.Record.DocumentId] = &searchmodel.SearchResult{
			DocumentId:       hit.Record.DocumentId,
			Document:         hit.Record,
			DocumentScore:    hit.Score,
			HasDocumentScore: true,
			Source:           searchmodel.SourceMetadata,
		}
	}
	for documentId, agg := range grouped {
		result, ok := merged[documentId]
		if !ok {
			result = &searchmodel.SearchResult{
				DocumentId: documentId,
				Source:     searchmodel.SourceContent,
			}
			if record, err := r.meta.Get(ctx, documentId); err == nil {
				result.Document = record
			}
			merged[documentId] = result
		} else {
			result.Source = searchmodel.SourceBoth
		}
		result.ChunkScore = agg.best
		result.HasChunkScore = true
		result.RelevantChunks = agg.topChunks()
	}

	// a path that never saw the document contributes zero, so a document
	// strong in both paths outranks one strong in a single path
	results := make([]searchmodel.SearchResult, 0, len(merged))
	for documentId, result := range merged {
		var metaScore, chunkScore float32
		if result.HasDocumentScore {
			metaScore = metaNorm[documentId]
		}
		if result.HasChunkScore {
			chunkScore = contentNorm[documentId]
		}
		result.AggregatedScore = config.MetadataScoreWeight*metaScore +
			config.ContentScoreWeight*chunkScore
		results = append(results, *result)
	}
	rank(results)
	return truncate(results, topK), nil
}

// SimilarDocuments ranks other documents by summary-vector similarity to the
// given one.
func (r *Retriever) SimilarDocuments(ctx context.Context, documentId string, topK int) ([]searchmodel.SearchResult, error) {
	topK = clampTopK(topK)
	vector, err := r.meta.GetSummaryVector(ctx, documentId)
	if err != nil {
		return nil, err
	}

	// fetch one extra, the document is its own nearest neighbour
	hits, err := r.meta.Query(ctx, vector, searchmodel.Filters{}, topK+1)
	if err != nil {
		return nil, err
	}

	results := make([]searchmodel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Record.DocumentId == documentId {
			continue
		}
		results = append(results, searchmodel.SearchResult{
			DocumentId:       hit.Record.DocumentId,
			Document:         hit.Record,
			DocumentScore:    hit.Score,
			HasDocumentScore: true,
			AggregatedScore:  hit.Score,
			Source:           searchmodel.SourceMetadata,
		})
	}
	rank(results)
	return truncate(results, topK), nil
}

type chunkGroup struct {
	best   float32
	chunks []searchmodel.ChunkMatch
}

func (g *chunkGroup) topChunks() []searchmodel.ChunkMatch {
	sort.Slice(g.chunks, func(i, j int) bool {
		if g.chunks[i].Score != g.chunks[j].Score {
			return g.chunks[i].Score > g.chunks[j].Score
		}
		return g.chunks[i].ChunkIndex < g.chunks[j].ChunkIndex
	})
	if len(g.chunks) > config.RelevantChunksPerDoc {
		return g.chunks[:config.RelevantChunksPerDoc]
	}
	return g.chunks
}

// contentCandidates fetches the chunk candidate pool and groups it by parent
// document. Document-level filters become a join predicate: the allowed ids
// are resolved against the metadata index first.
func (r *Retriever) contentCandidates(ctx context.Context, vector []float32, filters searchmodel.Filters, topK int) (map[string]*chunkGroup, error) {
	var allowed []string
	if !filters.Empty() {
		records, err := r.meta.Filter(ctx, filters, config.MaxTopK*config.CandidateMultiplier)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return map[string]*chunkGroup{}, nil
		}
		allowed = make([]string, 0, len(records))
		for _, record := range records {
			allowed = append(allowed, record.DocumentId)
		}
	}

	hits, err := r.content.Query(ctx, vector, allowed, topK*config.CandidateMultiplier)
	if err != nil {
		return nil, fmt.Errorf("content query failed: %w", err)
	}

	grouped := make(map[string]*chunkGroup)
	for _, hit := range hits {
		group, ok := grouped[hit.Chunk.DocumentId]
		if !ok {
			group = &chunkGroup{}
			grouped[hit.Chunk.DocumentId] = group
		}
		if hit.Score > group.best {
			group.best = hit.Score
		}
		group.chunks = append(group.chunks, searchmodel.ChunkMatch{
			ChunkId:    hit.Chunk.ChunkId,
			ChunkIndex: hit.Chunk.ChunkIndex,
			Text:       hit.Chunk.Text,
			Score:      hit.Score,
		})
	}
	return grouped, nil
}

// normalizeDocumentHits min-max normalizes per query. Pools under three
// candidates keep raw cosine scores, min-max over one or two points erases
// real score gaps.
func normalizeDocumentHits(hits []vectorDB.DocumentHit) map[string]float32 {
	scores := make(map[string]float32, len(hits))
	for _, hit := range hits {
		scores[hit.Record.DocumentId] = hit.Score
	}
	return minMax(scores)
}

func normalizeChunkGroups(grouped map[string]*chunkGroup) map[string]float32 {
	scores := make(map[string]float32, len(grouped))
	for documentId, group := range grouped {
		scores[documentId] = group.best
	}
	return minMax(scores)
}

func minMax(scores map[string]float32) map[string]float32 {
	if len(scores) < 3 {
		return scores
	}

	first := true
	var lo, hi float32
	for _, s := range scores {
		if first {
			lo, hi = s, s
			first = false
			continue
		}
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	out := make(map[string]float32, len(scores))
	for id, s := range scores {
		if hi == lo {
			out[id] = 1.0
			continue
		}
		out[id] = (s - lo) / (hi - lo)
	}
	return out
}

// rank orders by aggregated score descending with document id as the
// deterministic tie-break.
func rank(results []searchmodel.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].AggregatedScore != results[j].AggregatedScore {
			return results[i].AggregatedScore > results[j].AggregatedScore
		}
		return results[i].DocumentId < results[j].DocumentId
	})
}

func truncate(results []searchmodel.SearchResult, topK int) []searchmodel.SearchResult {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}

func clampTopK(topK int) int {
	if topK <= 0 {
		return config.DefaultTopK
	}
	if topK > config.MaxTopK {
		return config.MaxTopK
	}
	return topK
}

