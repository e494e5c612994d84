package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	NoAuthBypass = true //set false once a real token is provisioned
	AuthToken    = ""

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536

	//vector collections - one for chunk content, one for document metadata
	ContentCollectionName  = "document-content"
	MetadataCollectionName = "document-metadata"

	//chunking
	ChunkSize    = 400 //characters
	ChunkOverlap = 50

	//retrieval
	DefaultTopK          = 5
	MaxTopK              = 50
	RelevantChunksPerDoc = 3
	CandidateMultiplier  = 10 //chunk candidates fetched per requested document

	//hybrid score aggregation - equal weighting until tuned against real data
	MetadataScoreWeight float32 = 0.5
	ContentScoreWeight  float32 = 0.5

	//stats breakdowns aggregate over at most this many records
	MaxStatsDocuments = 1000

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//upload
	MaxUploadSizeBytes = 50 << 20
	DocumentStoreDir   = "./data/documents"

	//vectorDB
	QdrantHost             = ""
	QdrantPort             = 6333 //http
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//which embedder provider to wire at startup: "google" or "openai"
	EmbeddingProvider = "google"

	ModelTemperature float32 = 0.7
	ModelContext             = "You are a document assistant. Answer strictly from the provided document context. If the context does not contain the answer, say you dont know"

	//AI metadata generation is the slowest ingestion step and must never block it forever
	AIMetadataTimeout  = 60 * time.Second
	AnswerTimeout      = 45 * time.Second
	MaxSummaryWords    = 200
	MaxKeywords        = 10
	AISampleCharacters = 3000

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisSummaryCache = 0

	SummaryCacheTTL = 24 * time.Hour
)

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
