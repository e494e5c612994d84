package rag

import (
	"fmt"

	"github.com/akolanti/intellifile/internal/domain/searchmodel"
)

const maxContextBlocks = 12

// contextBlocks turns ranked results into the passages handed to the LLM.
// Documents with chunk matches contribute their relevant chunks, metadata-only
// hits contribute the AI summary so the model at least knows they exist.
func contextBlocks(results []searchmodel.SearchResult) []string {
	var blocks []string
	for _, result := range results {
		name := result.Document.Filename
		if name == "" {
			name = result.DocumentId
		}

		if len(result.RelevantChunks) > 0 {
			for _, chunk := range result.RelevantChunks {
				blocks = append(blocks, fmt.Sprintf("[%s] %s", name, chunk.Text))
				if len(blocks) == maxContextBlocks {
					return blocks
				}
			}
			continue
		}

		if result.Document.AISummary != "" {
			blocks = append(blocks, fmt.Sprintf("[%s, summary] %s", name, result.Document.AISummary))
			if len(blocks) == maxContextBlocks {
				return blocks
			}
		}
	}
	return blocks
}
