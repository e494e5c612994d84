package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/rag/llm"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewClient builds a Gemini-backed provider. The caller owns the lifetime
// through ctx, no package singleton.
func NewClient(ctx context.Context, apikey string, modelName string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return nil, err
	}

	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string, contextBlocks []string) (string, error) {
	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: config.ModelContext},
		},
	}

	userPrompt := prompt
	if len(contextBlocks) > 0 {
		userPrompt = fmt.Sprintf("Context:\n%s\n\nUser Question: %s", strings.Join(contextBlocks, "\n"), prompt)
	}

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", docmodel.ErrLanguageTimeout, err)
		}
		c.logger.Error("Gemini generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", docmodel.ErrLanguageUnavailable, err)
	}
	return result.Text(), nil
}
