package chunker

import (
	"fmt"

	"github.com/akolanti/intellifile/internal/adapter/utils"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// Chunk splits text into fixed-size spans with a fixed overlap, a pure
// function: identical input always yields identical boundaries.
// Span i covers [i*(size-overlap), i*(size-overlap)+size) clipped to the text.
func Chunk(text string, size int, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("invalid chunk parameters: size=%d overlap=%d", size, overlap)
	}
	if len(text) == 0 {
		return nil, nil
	}

	// size and overlap count characters, not bytes, so multi-byte text
	// never gets cut mid-rune
	runes := []rune(text)
	stride := size - overlap
	var spans []string
	for start := 0; start <= len(runes)-1; start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		spans = append(spans, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return spans, nil
}

// PrepareChunks maps the raw spans of a document into DocChunk records with
// fresh chunk ids. The ordinal is the tie-break ordering for retrieval.
func PrepareChunks(documentId string, spans []string) []docmodel.DocChunk {
	chunks := make([]docmodel.DocChunk, 0, len(spans))
	for i, text := range spans {
		chunks = append(chunks, docmodel.DocChunk{
			DocumentId: documentId,
			ChunkId:    utils.GetNewUUID(),
			ChunkIndex: i,
			Text:       text,
		})
	}
	return chunks
}
