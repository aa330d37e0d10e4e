package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/repolens/repolens/pkg/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repo")
	if repo == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidReference, "missing repo parameter"))
		return
	}
	refresh := queryBool(r, "refresh")

	res, err := s.svc.Analyze(r.Context(), repo, refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.CacheStats())
}

func (s *Server) handleCacheSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)
	writeJSON(w, http.StatusOK, s.svc.CacheSearch(q, page, pageSize))
}

func (s *Server) handleCacheRecent(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)
	writeJSON(w, http.StatusOK, s.svc.CacheRecent(page, pageSize))
}

func (s *Server) handleCacheTop(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", 10)
	writeJSON(w, http.StatusOK, s.svc.CacheTop(n))
}

func (s *Server) handleCacheEntry(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repo")
	if repo == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidReference, "missing repo parameter"))
		return
	}

	entry, ok, err := s.svc.CacheEntry(repo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no cached analysis for %q", repo))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCacheSweep(w http.ResponseWriter, r *http.Request) {
	removed := s.svc.CacheSweep(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	removed := s.svc.CacheClear(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidReference:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err,
			"request_id", requestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return ok
}
