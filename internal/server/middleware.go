package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// responseWriterWrapper remembers the status code for the request log.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriterWrapper(w http.ResponseWriter) *responseWriterWrapper {
	return &responseWriterWrapper{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrw.statusCode),
			zap.Duration("elapsed", time.Since(started)),
		}
		if username, _, ok := r.BasicAuth(); ok {
			fields = append(fields, zap.String("user", username))
		}

		if wrw.statusCode >= http.StatusInternalServerError {
			zap.L().Error("request failed", fields...)
			return
		}
		zap.L().Info("request handled", fields...)
	})
}
