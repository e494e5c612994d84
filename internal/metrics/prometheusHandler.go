package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Ingestion outcomes labelled by status",
}, []string{"status"})

var documentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_deleted_total",
	Help: "Number of document deletions",
})

var queriesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "queries_classified_total",
	Help: "Classifier routing decisions labelled by query type",
}, []string{"query_type"})

var chunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_indexed_total",
	Help: "Number of chunks written to the content index",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureIngestOutcome(status string) {
	documentsIngested.WithLabelValues(status).Inc()
}

func CaptureDelete() {
	documentsDeleted.Inc()
}

func CaptureClassification(queryType string) {
	queriesClassified.WithLabelValues(queryType).Inc()
}

func CaptureChunksIndexed(count int) {
	chunksIndexed.Add(float64(count))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "query_request_duration_seconds",
	Help:    "Total time spent answering a query end to end.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"query_type"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureQueryMetrics(queryType string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(queryType).Observe(timeElapsed.Seconds())
}
