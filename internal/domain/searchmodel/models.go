package searchmodel

import (
	"time"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

type QueryType string

const (
	QueryMetadata QueryType = "metadata"
	QueryContent  QueryType = "content"
	QueryHybrid   QueryType = "hybrid"
)

// Classification is the ephemeral result of routing a query, the matched
// signals are kept for explainability and tests.
type Classification struct {
	Query           string    `json:"query"`
	Type            QueryType `json:"query_type"`
	MetadataSignals []string  `json:"metadata_signals,omitempty"`
	ContentSignals  []string  `json:"content_signals,omitempty"`
	Filters         Filters   `json:"extracted_filters,omitempty"`
}

// Filters is a conjunction of equality and range constraints over the
// metadata payload. Zero values mean "not set".
type Filters struct {
	FileType         docmodel.DocType `json:"file_type,omitempty"`
	DocumentType     string           `json:"document_type,omitempty"`
	Author           string           `json:"author,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
	FilenameContains string           `json:"filename_contains,omitempty"`
	MinPages         int              `json:"min_pages,omitempty"`
	MaxPages         int              `json:"max_pages,omitempty"`
	MinSizeBytes     int64            `json:"min_size_bytes,omitempty"`
	MaxSizeBytes     int64            `json:"max_size_bytes,omitempty"`
	CreatedAfter     time.Time        `json:"created_after,omitempty"`
	CreatedBefore    time.Time        `json:"created_before,omitempty"`
}

func (f Filters) Empty() bool {
	return f.FileType == "" && f.DocumentType == "" && f.Author == "" &&
		len(f.Keywords) == 0 && f.FilenameContains == "" &&
		f.MinPages == 0 && f.MaxPages == 0 &&
		f.MinSizeBytes == 0 && f.MaxSizeBytes == 0 &&
		f.CreatedAfter.IsZero() && f.CreatedBefore.IsZero()
}

type ScoreSource string

const (
	SourceMetadata ScoreSource = "metadata"
	SourceContent  ScoreSource = "content"
	SourceBoth     ScoreSource = "both"
)

type ChunkMatch struct {
	ChunkId    string  `json:"chunk_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// SearchResult is one ranked document. HasDocumentScore/HasChunkScore
// distinguish a real zero similarity from "this path never saw the document".
type SearchResult struct {
	DocumentId       string                    `json:"document_id"`
	Document         docmodel.DocumentMetadata `json:"document"`
	DocumentScore    float32                   `json:"document_score,omitempty"`
	HasDocumentScore bool                      `json:"-"`
	ChunkScore       float32                   `json:"chunk_score,omitempty"`
	HasChunkScore    bool                      `json:"-"`
	AggregatedScore  float32                   `json:"aggregated_score"`
	Source           ScoreSource               `json:"score_source"`
	RelevantChunks   []ChunkMatch              `json:"relevant_chunks,omitempty"`
}
