// @title           IntelliFile API
// @version         1.0
// @description     Document ingestion and retrieval with metadata, content and hybrid search
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/intellifile/internal/config"
	"github.com/akolanti/intellifile/internal/data/store"
	"github.com/akolanti/intellifile/internal/handlers"
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
	"github.com/akolanti/intellifile/internal/server"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

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
		logger.Error("Redis is offline, falling back to in-memory cache")
		cache = store.InitInMemorySummaryCache()
	}

	generator := metadata.NewGenerator(llmProvider)
	ingestPipeline := pipeline.New(embedder, contentIndex, metadataIndex, generator, fileStore)
	searchRetriever := retriever.New(embedder, contentIndex, metadataIndex)

	ragService := rag.NewService(ingestPipeline, searchRetriever, classifier.New(), llmProvider, cache, contentIndex, metadataIndex)
	handlers.InitRequestHandlers(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
