package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/intellifile/internal/handlers"
	"github.com/akolanti/intellifile/internal/metrics"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var GetDocumentHandler = Wrap(handlers.GetDocumentHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var RegenerateMetadataHandler = Wrap(handlers.RegenerateMetadataHandler)
var SimilarDocumentsHandler = Wrap(handlers.SimilarDocumentsHandler)

var SearchMetadataHandler = Wrap(handlers.SearchMetadataHandler)
var SearchSemanticMetadataHandler = Wrap(handlers.SearchSemanticMetadataHandler)
var SearchContentHandler = Wrap(handlers.SearchContentHandler)
var QueryHandler = Wrap(handlers.QueryHandler)
var StatsHandler = Wrap(handlers.StatsHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
