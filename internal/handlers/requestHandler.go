package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/intellifile/internal/adapter"
	"github.com/akolanti/intellifile/internal/api"
	"github.com/akolanti/intellifile/internal/rag"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

var logRH *logger_i.Logger

var ragService rag.Service

func InitRequestHandlers(service rag.Service) {
	logRH = logger_i.NewLogger("Handlers")
	ragService = service
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the request reader :", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		logRH.Warn("Bad request body: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}

// SearchMetadataHandler godoc
// @Summary      Filter documents by metadata
// @Description  Returns documents matching the filter conjunction, no similarity ranking involved.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Metadata filters"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /search/metadata [post]
func SearchMetadataHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.SearchRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	results, err := ragService.SearchMetadata(r.Context(), requestData.Filters, topKOrDefault(requestData.TopK))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(results))
}

// SearchSemanticMetadataHandler godoc
// @Summary      Semantic search over document metadata
// @Description  Embeds the query and ranks documents by summary similarity under the given filters.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Query text with optional filters"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /search/semantic-metadata [post]
func SearchSemanticMetadataHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.SearchRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if strings.TrimSpace(requestData.Query) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}

	results, err := ragService.SearchSemanticMetadata(r.Context(), requestData.Query, requestData.Filters, topKOrDefault(requestData.TopK))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(results))
}

// SearchContentHandler godoc
// @Summary      Semantic search over document content
// @Description  Embeds the query, searches chunks and groups matches by parent document.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest  true  "Query text with optional filters"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /search/content [post]
func SearchContentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.SearchRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if strings.TrimSpace(requestData.Query) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}

	results, err := ragService.SearchContent(r.Context(), requestData.Query, requestData.Filters, topKOrDefault(requestData.TopK))
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(results))
}

// QueryHandler godoc
// @Summary      Classified query with optional answer synthesis
// @Description  Classifies the query as metadata, content or hybrid, retrieves accordingly and optionally answers from the retrieved passages.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest  true  "Natural language query"
// @Success      200      {object}  api.QueryResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if strings.TrimSpace(requestData.Query) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}

	output, err := ragService.Query(r.Context(), requestData.Query, topKOrDefault(requestData.TopK), requestData.WithAnswer)
	if err != nil {
		logRH.Error("query failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Query failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(output))
}

// StatsHandler godoc
// @Summary      Corpus statistics
// @Description  Returns document and chunk counts with file-type and document-type breakdowns.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  api.StatsResponse
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}

	stats, err := ragService.GetStats(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Stats unavailable")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(stats))
}
