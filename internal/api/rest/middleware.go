package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yish0/techblog/internal/app"
)

// Logger wraps an http.Handler with access logging. Client errors are logged
// as warnings and server errors as errors.
func Logger(next http.Handler) http.Handler {
	return accessLog(app.Logger(), next)
}

// middleware is the chain every route runs behind. Recover sits inside the
// access log so a recovered panic is logged with its 500 status.
func middleware(logger *slog.Logger, next http.Handler) http.Handler {
	return accessLog(logger, Recover(next))
}

func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		level := slog.LevelInfo

		switch {
		case lrw.statusCode >= http.StatusInternalServerError:
			level = slog.LevelError
		case lrw.statusCode >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.Log(r.Context(), level, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", lrw.statusCode,
			"cache", lrw.Header().Get("X-CACHE-STATUS"),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", lrw.bytesWritten,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}

// Recover turns a panicking handler into a 500 response. When the handler
// has already started the response only the panic is logged.
func Recover(next http.Handler) http.Handler {
	logger := app.Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &headerWriter{ResponseWriter: w}

		defer func() {
			rec := recover()

			if rec == nil {
				return
			}

			// Let net/http abort the connection
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Error("Handler panic", "panic", rec, "path", r.URL.Path, "response_started", hw.wroteHeader)

			if hw.wroteHeader {
				return
			}

			handleError(w, logger, errors.New("internal server error"), http.StatusInternalServerError)
		}()

		next.ServeHTTP(hw, r)
	})
}

// headerWriter records whether the response headers went out
type headerWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (hw *headerWriter) WriteHeader(code int) {
	// 1xx responses other than 101 leave the final header to come
	if code >= http.StatusOK || code == http.StatusSwitchingProtocols {
		hw.wroteHeader = true
	}

	hw.ResponseWriter.WriteHeader(code)
}

func (hw *headerWriter) Write(b []byte) (int, error) {
	hw.wroteHeader = true
	return hw.ResponseWriter.Write(b)
}

// Unwrap returns the original ResponseWriter
func (hw *headerWriter) Unwrap() http.ResponseWriter {
	return hw.ResponseWriter
}

// loggingResponseWriter captures the status code and response size
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

// Unwrap returns the original ResponseWriter
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
