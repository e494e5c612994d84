package docmodel

import "time"

type DocType string

var (
	PDF  DocType = "pdf"
	DOC  DocType = "doc"
	DOCX DocType = "docx"
	ERR  DocType = "error"
)

// DocumentMetadata is the canonical metadata record held in the metadata index,
// merged from file-system facts, format properties and AI generation.
type DocumentMetadata struct {
	DocumentId    string    `json:"document_id"`
	Filename      string    `json:"filename"`
	FileType      DocType   `json:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	UploadedAt    time.Time `json:"uploaded_at"`

	//structural properties, empty when the format does not carry them
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Creator   string `json:"creator,omitempty"`
	PageCount int    `json:"page_count,omitempty"`

	//AI generated, cached after ingestion, regenerable on demand
	AISummary      string   `json:"ai_summary,omitempty"`
	AIKeywords     []string `json:"ai_keywords,omitempty"`
	AIDocumentType string   `json:"ai_document_type"`
}

// Stats is the corpus snapshot returned by the stats endpoint. Breakdowns
// are computed over a bounded page of records, not the whole collection.
type Stats struct {
	DocumentCount  uint64         `json:"document_count"`
	ChunkCount     uint64         `json:"chunk_count"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	ByFileType     map[string]int `json:"by_file_type"`
	ByDocumentType map[string]int `json:"by_document_type"`
}

type DocChunk struct {
	DocumentId string `json:"document_id"`
	ChunkId    string `json:"chunk_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}
