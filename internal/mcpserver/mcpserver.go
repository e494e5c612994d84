package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/intellifile/internal/adapter"
	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
	"github.com/akolanti/intellifile/internal/rag"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

var logger = logger_i.NewLogger("McpServer")

// ragService is set once by NewServer before any tool can be called.
var ragService rag.Service

type QueryParams struct {
	Query      string `json:"query" jsonschema:"natural language query over the document collection"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of documents to return"`
	WithAnswer bool   `json:"with_answer,omitempty" jsonschema:"synthesize an answer from the retrieved chunks"`
}

type SearchContentParams struct {
	Query        string   `json:"query" jsonschema:"text to match against document chunks"`
	TopK         int      `json:"top_k,omitempty" jsonschema:"maximum number of documents to return"`
	FileType     string   `json:"file_type,omitempty" jsonschema:"restrict to one file type: pdf, doc or docx"`
	DocumentType string   `json:"document_type,omitempty" jsonschema:"restrict to one document type, e.g. report or invoice"`
	Author       string   `json:"author,omitempty" jsonschema:"restrict to documents by this author"`
	Keywords     []string `json:"keywords,omitempty" jsonschema:"restrict to documents tagged with all of these keywords"`
}

type SearchMetadataParams struct {
	Query            string   `json:"query,omitempty" jsonschema:"semantic description of the documents to find; leave empty for a pure filter scan"`
	TopK             int      `json:"top_k,omitempty" jsonschema:"maximum number of documents to return"`
	FileType         string   `json:"file_type,omitempty" jsonschema:"restrict to one file type: pdf, doc or docx"`
	DocumentType     string   `json:"document_type,omitempty" jsonschema:"restrict to one document type, e.g. report or invoice"`
	Author           string   `json:"author,omitempty" jsonschema:"restrict to documents by this author"`
	Keywords         []string `json:"keywords,omitempty" jsonschema:"restrict to documents tagged with all of these keywords"`
	FilenameContains string   `json:"filename_contains,omitempty" jsonschema:"restrict to filenames containing this substring"`
	MinPages         int      `json:"min_pages,omitempty" jsonschema:"minimum page count"`
	MaxPages         int      `json:"max_pages,omitempty" jsonschema:"maximum page count"`
}

type GetDocumentParams struct {
	DocumentId string `json:"document_id" jsonschema:"id of the document to fetch"`
}

type ListDocumentsParams struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of documents to return"`
	Offset int `json:"offset,omitempty" jsonschema:"number of documents to skip"`
}

type StatsParams struct{}

func queryTool(ctx context.Context, _ *mcp.CallToolRequest, args QueryParams) (*mcp.CallToolResult, any, error) {
	if args.Query == "" {
		return toolError("query is required"), nil, nil
	}
	output, err := ragService.Query(ctx, args.Query, args.TopK, args.WithAnswer)
	if err != nil {
		logger.With("traceId", "mcp").Error("Query failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToQueryResponse(output))
}

func searchContentTool(ctx context.Context, _ *mcp.CallToolRequest, args SearchContentParams) (*mcp.CallToolResult, any, error) {
	if args.Query == "" {
		return toolError("query is required"), nil, nil
	}
	filters := searchmodel.Filters{
		FileType:     docmodel.DocType(args.FileType),
		DocumentType: args.DocumentType,
		Author:       args.Author,
		Keywords:     args.Keywords,
	}
	results, err := ragService.SearchContent(ctx, args.Query, filters, args.TopK)
	if err != nil {
		logger.With("traceId", "mcp").Error("Content search failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToSearchResponse(results))
}

func searchMetadataTool(ctx context.Context, _ *mcp.CallToolRequest, args SearchMetadataParams) (*mcp.CallToolResult, any, error) {
	filters := searchmodel.Filters{
		FileType:         docmodel.DocType(args.FileType),
		DocumentType:     args.DocumentType,
		Author:           args.Author,
		Keywords:         args.Keywords,
		FilenameContains: args.FilenameContains,
		MinPages:         args.MinPages,
		MaxPages:         args.MaxPages,
	}
	if args.Query == "" && filters.Empty() {
		return toolError("provide a query or at least one filter"), nil, nil
	}

	var results []searchmodel.SearchResult
	var err error
	if args.Query == "" {
		results, err = ragService.SearchMetadata(ctx, filters, args.TopK)
	} else {
		results, err = ragService.SearchSemanticMetadata(ctx, args.Query, filters, args.TopK)
	}
	if err != nil {
		logger.With("traceId", "mcp").Error("Metadata search failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToSearchResponse(results))
}

func getDocumentTool(ctx context.Context, _ *mcp.CallToolRequest, args GetDocumentParams) (*mcp.CallToolResult, any, error) {
	if args.DocumentId == "" {
		return toolError("document_id is required"), nil, nil
	}
	record, err := ragService.GetDocument(ctx, args.DocumentId)
	if err != nil {
		if errors.Is(err, docmodel.ErrDocumentNotFound) {
			return toolError(fmt.Sprintf("document %s not found", args.DocumentId)), nil, nil
		}
		logger.With("traceId", "mcp").Error("Get document failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToDocumentResponse(record))
}

func listDocumentsTool(ctx context.Context, _ *mcp.CallToolRequest, args ListDocumentsParams) (*mcp.CallToolResult, any, error) {
	records, err := ragService.ListDocuments(ctx, args.Limit, args.Offset)
	if err != nil {
		logger.With("traceId", "mcp").Error("List documents failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToListDocumentsResponse(records, args.Limit, args.Offset))
}

func statsTool(ctx context.Context, _ *mcp.CallToolRequest, _ StatsParams) (*mcp.CallToolResult, any, error) {
	stats, err := ragService.GetStats(ctx)
	if err != nil {
		logger.With("traceId", "mcp").Error("Stats failed", "error", err)
		return toolError(err.Error()), nil, nil
	}
	return jsonResult(adapter.ToStatsResponse(stats))
}

func jsonResult(payload any) (*mcp.CallToolResult, any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return toolError(err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(encoded)},
		},
	}, nil, nil
}

func toolError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// NewServer registers the retrieval tools on an MCP server backed by service.
func NewServer(service rag.Service) *mcp.Server {
	ragService = service

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "intellifile",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Run a natural language query over the document collection, optionally synthesizing an answer",
	}, queryTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_content",
		Description: "Semantic search over document chunks, grouped by document",
	}, searchContentTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_metadata",
		Description: "Search document metadata by filters, semantically when a query is given",
	}, searchMetadataTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch the metadata record of a single document",
	}, getDocumentTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List indexed documents with pagination",
	}, listDocumentsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Collection statistics: document and chunk counts with breakdowns",
	}, statsTool)

	return server
}
