package api

import (
	"time"

	"github.com/akolanti/intellifile/internal/domain/searchmodel"
)

type ErrorResponse struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"document not found"`
	Id      string `json:"id,omitempty"`
}

type IngestResponse struct {
	DocumentId string           `json:"document_id"`
	Document   DocumentResponse `json:"document"`
}

type DocumentResponse struct {
	DocumentId    string    `json:"document_id"`
	Filename      string    `json:"filename"`
	FileType      string    `json:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	ModifiedAt    time.Time `json:"modified_at,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	Title         string    `json:"title,omitempty"`
	Author        string    `json:"author,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Creator       string    `json:"creator,omitempty"`
	PageCount     int       `json:"page_count,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	DocumentType  string    `json:"document_type"`
}

type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type SearchResultResponse struct {
	DocumentId      string               `json:"document_id"`
	Document        DocumentResponse     `json:"document"`
	DocumentScore   *float32             `json:"document_score,omitempty"`
	ChunkScore      *float32             `json:"chunk_score,omitempty"`
	AggregatedScore float32              `json:"aggregated_score"`
	Source          string               `json:"score_source"`
	RelevantChunks  []ChunkMatchResponse `json:"relevant_chunks,omitempty"`
}

type ChunkMatchResponse struct {
	ChunkId    string  `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

type SearchResponse struct {
	Results []SearchResultResponse `json:"results"`
	Count   int                    `json:"count"`
}

type QueryResponse struct {
	Query           string                 `json:"query"`
	QueryType       string                 `json:"query_type"`
	MetadataSignals []string               `json:"metadata_signals,omitempty"`
	ContentSignals  []string               `json:"content_signals,omitempty"`
	Results         []SearchResultResponse `json:"results"`
	Answer          string                 `json:"answer,omitempty"`
	AnswerDegraded  bool                   `json:"answer_degraded,omitempty"`
}

type StatsResponse struct {
	DocumentCount  uint64         `json:"document_count"`
	ChunkCount     uint64         `json:"chunk_count"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	ByFileType     map[string]int `json:"by_file_type"`
	ByDocumentType map[string]int `json:"by_document_type"`
}

// requests---------------------

type SearchRequest struct {
	Query   string              `json:"query,omitempty"`
	Filters searchmodel.Filters `json:"filters,omitempty"`
	TopK    int                 `json:"top_k,omitempty"`
}

type QueryRequest struct {
	Query      string `json:"query" validate:"required"`
	TopK       int    `json:"top_k,omitempty"`
	WithAnswer bool   `json:"with_answer,omitempty"`
}
