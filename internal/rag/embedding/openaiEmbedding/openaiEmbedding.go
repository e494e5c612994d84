package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/customHttpClient"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/embedding"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

type client struct {
	openai openai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds an OpenAI embedding provider, the alternate to the
// Google one, selected through config.EmbeddingProvider.
func NewClient(modelName string, apikey string) embedding.Embedder {
	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI Embedding client created", "model", modelName)

	return &client{
		openai: openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.Client())),
		model:  modelName,
		logger: logger,
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := c.openai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		c.logger.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("%w: %v", docmodel.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", docmodel.ErrEmbeddingUnavailable, len(resp.Data), len(inputs))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
