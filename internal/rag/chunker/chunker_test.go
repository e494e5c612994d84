package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_BoundariesAndCount(t *testing.T) {
	// N=1000, size=400, overlap=50 -> ceil((1000-50)/350) = 3 chunks
	text := strings.Repeat("a", 1000)

	spans, err := Chunk(text, 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(spans) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(spans))
	}

	wantLens := []int{400, 400, 300} //offsets 0-400, 350-750, 700-1000
	for i, span := range spans {
		if len(span) != wantLens[i] {
			t.Errorf("Chunk %d length got %d, want %d", i, len(span), wantLens[i])
		}
	}
}

func TestChunk_Offsets(t *testing.T) {
	text := "abcdefghij" //len 10

	spans, err := Chunk(text, 4, 1)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	want := []string{"abcd", "defg", "ghij"}
	if len(spans) != len(want) {
		t.Fatalf("Expected %d chunks, got %d: %v", len(want), len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("Chunk %d got %q, want %q", i, spans[i], want[i])
		}
	}
}

func TestChunk_MultiByteRunes(t *testing.T) {
	// 200 euro signs are 600 bytes; windows must land on character
	// boundaries, never inside a UTF-8 sequence
	text := strings.Repeat("€", 200)

	spans, err := Chunk(text, 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(spans) != 1 {
		t.Fatalf("Expected 1 chunk for 200 characters, got %d", len(spans))
	}
	if spans[0] != text {
		t.Errorf("Chunk altered the text: %d bytes, want %d", len(spans[0]), len(text))
	}

	spans, err = Chunk(text, 150, 20)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(spans))
	}
	for i, span := range spans {
		if !utf8.ValidString(span) {
			t.Errorf("Chunk %d is not valid UTF-8", i)
		}
	}
	if got := utf8.RuneCountInString(spans[0]); got != 150 {
		t.Errorf("Chunk 0 got %d characters, want 150", got)
	}
	if got := utf8.RuneCountInString(spans[1]); got != 70 { //offset 130-200
		t.Errorf("Chunk 1 got %d characters, want 70", got)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	first, err := Chunk(text, 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	second, err := Chunk(text, 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs across runs", i)
		}
	}
}

func TestChunk_EmptyText(t *testing.T) {
	spans, err := Chunk("", 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("Expected zero chunks for empty text, got %d", len(spans))
	}
}

func TestChunk_ShortText(t *testing.T) {
	spans, err := Chunk("tiny", 400, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(spans) != 1 || spans[0] != "tiny" {
		t.Errorf("Expected single chunk 'tiny', got %v", spans)
	}
}

func TestChunk_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"overlap equals size", 100, 100},
		{"overlap above size", 100, 150},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Chunk("some text", tt.size, tt.overlap); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestPrepareChunks(t *testing.T) {
	chunks := PrepareChunks("doc-1", []string{"first", "second"})

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.DocumentId != "doc-1" {
			t.Errorf("Chunk %d document id got %s", i, c.DocumentId)
		}
		if c.ChunkIndex != i {
			t.Errorf("Chunk %d ordinal got %d", i, c.ChunkIndex)
		}
		if c.ChunkId == "" {
			t.Errorf("Chunk %d has empty chunk id", i)
		}
	}
	if chunks[0].ChunkId == chunks[1].ChunkId {
		t.Error("Chunk ids must be unique")
	}
}
