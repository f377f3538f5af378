package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/fdr/core"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/dataset"
	"go.uber.org/zap"
)

// resultFunc computes a response body from the request and a dataset snapshot.
type resultFunc func(r *http.Request, ds *dataset.Dataset) (any, error)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// logRequests logs one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Error("Request failed", fields...)
			return
		}
		s.logger.Info("Request served", fields...)
	})
}

// serve runs fn against the current snapshot and writes the result as JSON.
func (s *Server) serve(fn resultFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, _ := s.snapshot()
		v, err := fn(r, ds)
		if err != nil {
			s.writeError(w, err)
			return
		}
		body, err := json.Marshal(v)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeBody(w, http.StatusOK, body)
	}
}

// cached is serve with results memoized per request URI until the next refresh.
func (s *Server) cached(fn resultFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.RequestURI()
		s.resultsMu.RLock()
		body, ok := s.results[key]
		s.resultsMu.RUnlock()
		if ok {
			w.Header().Set("X-Cache", "HIT")
			writeBody(w, http.StatusOK, body)
			return
		}

		ds, generation := s.snapshot()
		v, err := fn(r, ds)
		if err != nil {
			s.writeError(w, err)
			return
		}
		body, err = json.Marshal(v)
		if err != nil {
			s.writeError(w, err)
			return
		}

		if s.computed != nil {
			s.computed()
		}
		if !s.storeResult(key, generation, body) {
			s.logger.Debug("Dropped result computed before refresh", zap.String("uri", key))
		}
		w.Header().Set("X-Cache", "MISS")
		writeBody(w, http.StatusOK, body)
	}
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// errorStatus maps a handler error to an HTTP status code.
func errorStatus(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, contract.ErrInvalidHorizon),
		errors.Is(err, contract.ErrInvalidGameweek):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, errRefreshDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Handler error", zap.Error(err))
	}
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	writeBody(w, status, body)
}
