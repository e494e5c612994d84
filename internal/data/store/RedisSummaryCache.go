package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/data/redisStore"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

// DocumentCache fronts the metadata index for single-document reads, the
// cached record is the full metadata record including the AI fields.
type DocumentCache interface {
	SaveDocument(ctx context.Context, record docmodel.DocumentMetadata) error
	GetDocument(ctx context.Context, documentId string) (docmodel.DocumentMetadata, bool)
	DeleteDocument(ctx context.Context, documentId string)
}

type RedisSummaryCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSummaryCache(ctx context.Context) *RedisSummaryCache {
	internal := redisStore.GetRedisStore(ctx, config.RedisSummaryCache)
	if internal == nil {
		return nil
	}
	return &RedisSummaryCache{
		store:  internal,
		logger: logger_i.NewLogger("SummaryCache"),
	}
}

func cacheKey(documentId string) string {
	return "summary:" + documentId
}

func (c *RedisSummaryCache) SaveDocument(ctx context.Context, record docmodel.DocumentMetadata) error {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", record.DocumentId)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = c.store.Set(ctx, cacheKey(record.DocumentId), data, config.SummaryCacheTTL)
	if err == nil {
		log.Debug("cached document record")
	}
	return err
}

func (c *RedisSummaryCache) GetDocument(ctx context.Context, documentId string) (docmodel.DocumentMetadata, bool) {
	var record docmodel.DocumentMetadata
	val, err := c.store.Get(ctx, cacheKey(documentId))
	if c.store.IsNil(err) {
		return record, false
	} else if err != nil {
		return record, false
	}

	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, false
	}
	return record, true
}

func (c *RedisSummaryCache) DeleteDocument(ctx context.Context, documentId string) {
	err := c.store.Del(ctx, cacheKey(documentId))
	if err != nil {
		c.logger.Error("Error deleting cached record", "documentId", documentId, "error", err)
		return
	}
	c.logger.Debug("cached record deleted", "documentId", documentId)
}

func TestSummaryCache(store *redisStore.Store) *RedisSummaryCache {
	return &RedisSummaryCache{
		store:  store,
		logger: logger_i.NewLogger("test summary cache"),
	}
}
