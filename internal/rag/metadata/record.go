package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/extract"
)

// BuildRecord merges file-system facts with format-specific properties into
// one canonical record. A non-empty structural property always wins over a
// value derived from the file system, AI fields are filled in separately and
// never touch structural ones.
func BuildRecord(documentId string, path string, originalName string, props extract.Properties) docmodel.DocumentMetadata {
	record := docmodel.DocumentMetadata{
		DocumentId:     documentId,
		Filename:       originalName,
		FileType:       extract.GetDocType(originalName),
		UploadedAt:     time.Now().UTC(),
		Title:          displayTitle(originalName),
		AIDocumentType: DefaultDocumentType,
	}

	if stat, err := os.Stat(path); err == nil {
		record.FileSizeBytes = stat.Size()
		record.ModifiedAt = stat.ModTime().UTC()
		//plain stat has no birth time, modification time is the closest fact
		record.CreatedAt = stat.ModTime().UTC()
	}

	if props.Title != "" {
		record.Title = props.Title
	}
	if props.Author != "" {
		record.Author = props.Author
	}
	if props.Subject != "" {
		record.Subject = props.Subject
	}
	if props.Creator != "" {
		record.Creator = props.Creator
	}
	if props.PageCount > 0 {
		record.PageCount = props.PageCount
	}

	return record
}

// displayTitle derives a readable title from the filename when the format
// carries none.
func displayTitle(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
