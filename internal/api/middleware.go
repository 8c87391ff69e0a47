package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/logger"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctx := logger.WithRequestID(r.Context(), requestID)

		w.Header().Set("X-Request-ID", requestID)

		next(w, r.WithContext(ctx))
	}
}

func Logger(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestID := logger.GetRequestID(r.Context())

		slog.Info("Request started", "method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)

		next(rw, r)

		duration := time.Since(start)

		logAttrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		}

		if rw.statusCode >= 500 {
			slog.Error("Request failed with server error", logAttrs...)
		} else if rw.statusCode >= 400 {
			slog.Warn("Request failed with client error", logAttrs...)
		} else {
			slog.Info("Request completed successfully", logAttrs...)
		}
	}
}

func MethodChecker(allowedMethods ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(allowedMethods, r.Method) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}
				RespondWithJSON(w, http.StatusMethodNotAllowed, errorBody(r, "method not allowed"))
				return
			}

			next(w, r)
		}
	}
}

func Recover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("PANIC RECOVERED",
					"error", err,
					"request_id", logger.GetRequestID(r.Context()),
					"path", r.URL.Path)

				RespondWithJSON(w, http.StatusInternalServerError, errorBody(r, "unexpected server error"))
			}
		}()

		next(w, r)
	}
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "err", err)
	}
}

// RespondWithError maps a domain error kind to an HTTP status.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithJSON(w, statusCode(err), map[string]string{
		"error":      err.Error(),
		"request_id": logger.GetRequestID(r.Context()),
	})
}

func errorBody(r *http.Request, msg string) map[string]string {
	return map[string]string{
		"error":      msg,
		"request_id": logger.GetRequestID(r.Context()),
	}
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errors.KindNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.KindInput), errors.Is(err, errors.KindUnknownStyle):
		return http.StatusBadRequest
	case errors.Is(err, errors.KindCorrupt):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.KindConfig):
		return http.StatusPreconditionFailed
	case errors.Is(err, errors.KindProvider), errors.Is(err, errors.KindRender):
		return http.StatusBadGateway
	case errors.Is(err, errors.KindGenerationFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
