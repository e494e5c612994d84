// MCP stdio server exposing the document retrieval tools.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/data/store"
	"github.com/akolanti/intellifile/internal/mcpserver"
	"github.com/akolanti/intellifile/internal/rag"
	"github.com/akolanti/intellifile/internal/rag/classifier"
	"github.com/akolanti/intellifile/internal/rag/embedding"
	"github.com/akolanti/intellifile/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/intellifile/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/intellifile/internal/rag/llm/gemini"
	"github.com/akolanti/intellifile/internal/rag/metadata"
	"github.com/akolanti/intellifile/internal/rag/pipeline"
	"github.com/akolanti/intellifile/internal/rag/retriever"
	"github.com/akolanti/intellifile/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

func main() {

	// stdout carries the MCP framing, logs go to stderr
	logger_i.InitStderr()
	var logger = logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	holder, err := qdrantDB.NewClientHolder(serviceContext)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		return
	}
	contentIndex := qdrantDB.NewContentIndex(holder)
	metadataIndex := qdrantDB.NewMetadataIndex(holder)

	var embedder embedding.Embedder
	if config.EmbeddingProvider == "openai" {
		embedder = openaiEmbedding.NewClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	} else {
		embedder, err = googleEmbedding.NewClient(serviceContext, config.GoogleEmbeddingModel, config.GeminiAPIKey())
		if err != nil {
			logger.Error("Embedding service failed to initialize. Shutting down.", "error", err)
			return
		}
	}

	llmProvider, err := gemini.NewClient(serviceContext, config.GeminiAPIKey(), config.GeminiModelName)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "error", err)
		return
	}

	fileStore, err := pipeline.NewFileStore(config.DocumentStoreDir)
	if err != nil {
		logger.Error("Document store failed to initialize. Shutting down.", "error", err)
		return
	}

	var cache store.DocumentCache
	if redisCache := store.GetRedisSummaryCache(serviceContext); redisCache != nil {
		cache = redisCache
	} else {
		logger.Warn("Redis is offline, falling back to in-memory cache")
		cache = store.InitInMemorySummaryCache()
	}

	generator := metadata.NewGenerator(llmProvider)
	ingestPipeline := pipeline.New(embedder, contentIndex, metadataIndex, generator, fileStore)
	searchRetriever := retriever.New(embedder, contentIndex, metadataIndex)

	ragService := rag.NewService(ingestPipeline, searchRetriever, classifier.New(), llmProvider, cache, contentIndex, metadataIndex)

	runContext, stop := signal.NotifyContext(serviceContext, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcpserver.NewServer(ragService)
	logger.Info("MCP server listening on stdio")
	if err := server.Run(runContext, &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
