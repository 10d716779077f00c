package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gtfs-tools/transitaccess/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// responseWriter wraps http.ResponseWriter to capture the status code and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// NewRequestLoggingMiddleware creates middleware that logs HTTP requests. Every
// request gets an id, taken from the X-Request-ID header when the client sent
// one, which is echoed back and attached to the request-scoped logger.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			requestLogger := logger.With(slog.String("request_id", requestID))
			r = r.WithContext(logging.WithLogger(r.Context(), requestLogger))

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			logging.LogHTTPRequest(requestLogger,
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				float64(time.Since(start).Nanoseconds())/1e6,
				slog.Int("bytes", wrapped.bytes),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
