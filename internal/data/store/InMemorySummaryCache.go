package store

import (
	"context"
	"sync"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// InMemorySummaryCache is the fallback when redis is unreachable at startup,
// the service keeps working with a process-local cache.
type InMemorySummaryCache struct {
	mu      *sync.RWMutex
	records map[string]docmodel.DocumentMetadata
}

func InitInMemorySummaryCache() *InMemorySummaryCache {
	return &InMemorySummaryCache{
		mu:      new(sync.RWMutex),
		records: make(map[string]docmodel.DocumentMetadata),
	}
}

func (c *InMemorySummaryCache) SaveDocument(ctx context.Context, record docmodel.DocumentMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.DocumentId] = record
	return nil
}

func (c *InMemorySummaryCache) GetDocument(ctx context.Context, documentId string) (docmodel.DocumentMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, found := c.records[documentId]
	return record, found
}

func (c *InMemorySummaryCache) DeleteDocument(ctx context.Context, documentId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, documentId)
}
