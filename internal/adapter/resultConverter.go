package adapter

import (
	"github.com/akolanti/intellifile/internal/api"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag"
)

func ToDocumentResponse(record docmodel.DocumentMetadata) api.DocumentResponse {
	return api.DocumentResponse{
		DocumentId:    record.DocumentId,
		Filename:      record.Filename,
		FileType:      string(record.FileType),
		FileSizeBytes: record.FileSizeBytes,
		CreatedAt:     record.CreatedAt,
		ModifiedAt:    record.ModifiedAt,
		UploadedAt:    record.UploadedAt,
		Title:         record.Title,
		Author:        record.Author,
		Subject:       record.Subject,
		Creator:       record.Creator,
		PageCount:     record.PageCount,
		Summary:       record.AISummary,
		Keywords:      record.AIKeywords,
		DocumentType:  record.AIDocumentType,
	}
}

func ToIngestResponse(record docmodel.DocumentMetadata) api.IngestResponse {
	return api.IngestResponse{
		DocumentId: record.DocumentId,
		Document:   ToDocumentResponse(record),
	}
}

func ToListDocumentsResponse(records []docmodel.DocumentMetadata, limit int, offset int) api.ListDocumentsResponse {
	documents := make([]api.DocumentResponse, 0, len(records))
	for _, record := range records {
		documents = append(documents, ToDocumentResponse(record))
	}
	return api.ListDocumentsResponse{Documents: documents, Limit: limit, Offset: offset}
}

func ToSearchResponse(results []searchmodel.SearchResult) api.SearchResponse {
	converted := make([]api.SearchResultResponse, 0, len(results))
	for _, result := range results {
		converted = append(converted, toSearchResultResponse(result))
	}
	return api.SearchResponse{Results: converted, Count: len(converted)}
}

func ToQueryResponse(output rag.QueryOutput) api.QueryResponse {
	converted := make([]api.SearchResultResponse, 0, len(output.Results))
	for _, result := range output.Results {
		converted = append(converted, toSearchResultResponse(result))
	}
	return api.QueryResponse{
		Query:           output.Classification.Query,
		QueryType:       string(output.Classification.Type),
		MetadataSignals: output.Classification.MetadataSignals,
		ContentSignals:  output.Classification.ContentSignals,
		Results:         converted,
		Answer:          output.Answer,
		AnswerDegraded:  output.AnswerDegraded,
	}
}

func ToStatsResponse(stats docmodel.Stats) api.StatsResponse {
	return api.StatsResponse{
		DocumentCount:  stats.DocumentCount,
		ChunkCount:     stats.ChunkCount,
		TotalSizeBytes: stats.TotalSizeBytes,
		ByFileType:     stats.ByFileType,
		ByDocumentType: stats.ByDocumentType,
	}
}

func toSearchResultResponse(result searchmodel.SearchResult) api.SearchResultResponse {
	response := api.SearchResultResponse{
		DocumentId:      result.DocumentId,
		Document:        ToDocumentResponse(result.Document),
		AggregatedScore: result.AggregatedScore,
		Source:          string(result.Source),
	}
	if result.HasDocumentScore {
		score := result.DocumentScore
		response.DocumentScore = &score
	}
	if result.HasChunkScore {
		score := result.ChunkScore
		response.ChunkScore = &score
	}
	for _, chunk := range result.RelevantChunks {
		response.RelevantChunks = append(response.RelevantChunks, api.ChunkMatchResponse{
			ChunkId:    chunk.ChunkId,
			ChunkIndex: chunk.ChunkIndex,
			Text:       chunk.Text,
			Score:      chunk.Score,
		})
	}
	return response
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
		Id:      id,
	}
}
