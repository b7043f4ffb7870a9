package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sipico/ddns-endpoint/internal/logging"
)

// HTTPLogging creates a middleware that logs each request and its outcome.
//
// At info level it logs one line per request with method, path, status, and
// duration. At debug level it additionally logs the request headers with
// sensitive values masked. The update endpoint carries credentials in the
// Authorization header and the requested IP in the query string, so headers
// are always passed through the masking rules before logging.
func HTTPLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger.Enabled(r.Context(), slog.LevelDebug) {
				logger.Debug("http request",
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"url", r.URL.Path,
					"query_params", r.URL.RawQuery,
					"headers", maskHeaders(r.Header),
				)
			}

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			logger.Info("http response",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"url", r.URL.Path,
				"status_code", rec.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// maskHeaders masks sensitive header values
func maskHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for k, v := range headers {
		if len(v) > 0 {
			result[k] = logging.MaskHeader(k, v[0])
		}
	}
	return result
}

// responseRecorder captures the status code for logging.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader captures the status code and writes it to the response.
func (r *responseRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

// Write ensures a captured status before writing the body.
func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}
