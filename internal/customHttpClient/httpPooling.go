package customHttpClient

import (
	"net/http"

	"github.com/akolanti/intellifile/internal/config"
)

//TODO: make the gemini client reuse this transport too

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{
	Transport: customTransport,
}

// Client returns the shared pooled http client so outbound API calls
// reuse connections instead of re-dialing per request.
func Client() *http.Client {
	return pooledClient
}
