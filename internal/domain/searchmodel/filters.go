package searchmodel

import (
	"strings"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// Matches evaluates the full conjunction against a metadata record. A
// constraint on a field the record does not carry fails the match, missing
// fields are never wildcards.
func (f Filters) Matches(record docmodel.DocumentMetadata) bool {
	if f.FileType != "" && record.FileType != f.FileType {
		return false
	}
	if f.DocumentType != "" && !strings.EqualFold(record.AIDocumentType, f.DocumentType) {
		return false
	}
	if f.Author != "" && !strings.EqualFold(record.Author, f.Author) {
		return false
	}
	if f.FilenameContains != "" && !strings.Contains(strings.ToLower(record.Filename), strings.ToLower(f.FilenameContains)) {
		return false
	}
	for _, want := range f.Keywords {
		if !containsFold(record.AIKeywords, want) {
			return false
		}
	}
	if f.MinPages > 0 && record.PageCount < f.MinPages {
		return false
	}
	if f.MaxPages > 0 && (record.PageCount == 0 || record.PageCount > f.MaxPages) {
		return false
	}
	if f.MinSizeBytes > 0 && record.FileSizeBytes < f.MinSizeBytes {
		return false
	}
	if f.MaxSizeBytes > 0 && (record.FileSizeBytes == 0 || record.FileSizeBytes > f.MaxSizeBytes) {
		return false
	}
	if !f.CreatedAfter.IsZero() && (record.CreatedAt.IsZero() || record.CreatedAt.Before(f.CreatedAfter)) {
		return false
	}
	if !f.CreatedBefore.IsZero() && (record.CreatedAt.IsZero() || record.CreatedAt.After(f.CreatedBefore)) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
