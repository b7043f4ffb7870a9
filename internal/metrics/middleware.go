package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader captures the status code and writes it to the underlying ResponseWriter
func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called before writing body
func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware returns an HTTP middleware that records Prometheus metrics for
// each request: count and duration by method, path, and status code.
// The endpoint's path space is fixed (/update, /healthz, /readyz), so paths
// are used as labels directly.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // default if not explicitly set
		}

		startTime := time.Now()

		defer func() {
			duration := time.Since(startTime).Seconds()

			statusCode := recorder.statusCode
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}
			status := strconv.Itoa(statusCode)

			path := normalizePath(r.URL.Path)
			RecordRequest(r.Method, path, status)
			RecordRequestDuration(r.Method, path, status, duration)
		}()

		next.ServeHTTP(recorder, r)
	})
}

// normalizePath folds unknown paths into a single label value to avoid
// cardinality explosion from arbitrary request paths.
func normalizePath(path string) string {
	switch path {
	case "/update", "/healthz", "/readyz":
		return path
	default:
		return "other"
	}
}
