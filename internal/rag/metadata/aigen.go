package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/rag/llm"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

// AIFields are the generated additions to a metadata record.
type AIFields struct {
	Summary      string
	Keywords     []string
	DocumentType string
}

// Generator produces summary, keywords and a document-type classification
// through the language provider. Generation failures degrade, they never
// propagate: ingestion must not depend on the language service being up.
type Generator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger_i.NewLogger("AI Metadata"),
	}
}

// GenerateAll returns the AI fields for a document. Any individual failure
// leaves that field at its degraded default and is logged as a warning.
// The caller bounds the whole call with a timeout context.
func (g *Generator) GenerateAll(ctx context.Context, text string, filename string) AIFields {
	fields := AIFields{DocumentType: DefaultDocumentType}
	if g.provider == nil {
		g.logger.Warn("No language provider wired, storing degraded metadata", "filename", filename)
		return fields
	}

	sample := sampleText(text, config.AISampleCharacters)

	summary, err := g.generateSummary(ctx, sample)
	if err != nil {
		g.logger.Warn("Summary generation degraded", "filename", filename, "error", err)
	} else {
		fields.Summary = summary
	}

	keywords, err := g.generateKeywords(ctx, sample)
	if err != nil {
		g.logger.Warn("Keyword generation degraded", "filename", filename, "error", err)
	} else {
		fields.Keywords = keywords
	}

	docType, err := g.classifyDocumentType(ctx, sample, filename)
	if err != nil {
		g.logger.Warn("Document type classification degraded", "filename", filename, "error", err)
	} else {
		fields.DocumentType = docType
	}

	return fields
}

func (g *Generator) generateSummary(ctx context.Context, sample string) (string, error) {
	prompt := fmt.Sprintf(`Analyze this document excerpt and provide a concise summary in %d words or less.
Focus on the main topic, purpose, and key points.

Document excerpt:
%s

Provide only the summary, no preamble.`, config.MaxSummaryWords, sample)

	summary, err := g.provider.Generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func (g *Generator) generateKeywords(ctx context.Context, sample string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract up to %d key topics, themes, or keywords from this document.
Return them as a comma-separated list of single words or short phrases.

Document excerpt:
%s

Keywords (comma-separated only, no numbering or explanation)`, config.MaxKeywords, sample)

	response, err := g.provider.Generate(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, kw := range strings.Split(response, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == config.MaxKeywords {
			break
		}
	}
	return keywords, nil
}

func (g *Generator) classifyDocumentType(ctx context.Context, sample string, filename string) (string, error) {
	prompt := fmt.Sprintf(`Classify this document into ONE of these categories: %s

Filename: %s

Document excerpt:
%s

Return ONLY the category name, nothing else.`, strings.Join(DocumentTypes, ", "), filename, sample)

	response, err := g.provider.Generate(ctx, prompt, nil)
	if err != nil {
		return "", err
	}
	return NormalizeDocumentType(response), nil
}

func sampleText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
