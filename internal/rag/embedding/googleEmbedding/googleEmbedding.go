package googleEmbedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/embedding"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds a Gemini embedding provider, injected into the pipeline
// and retriever rather than held as a package singleton.
func NewClient(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return nil, err
	}

	logger.Info("Google Embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(query))
	if err != nil {
		c.logger.Error("Error getting Embedding from Google", "error", err)
		return nil, fmt.Errorf("%w: %v", docmodel.ErrEmbeddingUnavailable, err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", docmodel.ErrEmbeddingUnavailable)
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil {
		if doRetry(err, c.logger) {
			time.Sleep(5 * time.Second)
			c.logger.Debug("Retrying after rate limit")
			res, err = c.doCall(ctx, getContent(chunks))
		}
		if err != nil {
			c.logger.Error("Error getting Embeddings from Google", "error", err)
			return nil, fmt.Errorf("%w: %v", docmodel.ErrEmbeddingUnavailable, err)
		}
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	if len(embeddingResults) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", docmodel.ErrEmbeddingUnavailable, len(embeddingResults), len(chunks))
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	return false
}
