package qdrantDB

import (
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/qdrant/go-client/qdrant"
)

// buildFilter maps the portable filter conjunction onto qdrant Must
// conditions. FilenameContains is not expressible as a qdrant keyword match
// and stays client-side, re-checked with Filters.Matches after the over-fetch.
func buildFilter(f searchmodel.Filters) *qdrant.Filter {
	var must []*qdrant.Condition

	if f.FileType != "" {
		must = append(must, qdrant.NewMatch("file_type", string(f.FileType)))
	}
	if f.DocumentType != "" {
		must = append(must, qdrant.NewMatch("ai_document_type", f.DocumentType))
	}
	if f.Author != "" {
		must = append(must, qdrant.NewMatch("author", f.Author))
	}
	for _, kw := range f.Keywords {
		must = append(must, qdrant.NewMatch("ai_keywords", kw))
	}
	if f.MinPages > 0 || f.MaxPages > 0 {
		r := &qdrant.Range{}
		if f.MinPages > 0 {
			r.Gte = qdrant.PtrOf(float64(f.MinPages))
		}
		if f.MaxPages > 0 {
			r.Lte = qdrant.PtrOf(float64(f.MaxPages))
		}
		must = append(must, qdrant.NewRange("page_count", r))
	}
	if f.MinSizeBytes > 0 || f.MaxSizeBytes > 0 {
		r := &qdrant.Range{}
		if f.MinSizeBytes > 0 {
			r.Gte = qdrant.PtrOf(float64(f.MinSizeBytes))
		}
		if f.MaxSizeBytes > 0 {
			r.Lte = qdrant.PtrOf(float64(f.MaxSizeBytes))
		}
		must = append(must, qdrant.NewRange("file_size_bytes", r))
	}
	if !f.CreatedAfter.IsZero() || !f.CreatedBefore.IsZero() {
		r := &qdrant.Range{}
		if !f.CreatedAfter.IsZero() {
			r.Gte = qdrant.PtrOf(float64(f.CreatedAfter.Unix()))
		}
		if !f.CreatedBefore.IsZero() {
			r.Lte = qdrant.PtrOf(float64(f.CreatedBefore.Unix()))
		}
		must = append(must, qdrant.NewRange("created_at", r))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}
