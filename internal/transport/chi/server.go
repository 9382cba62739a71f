package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/search/request"
	"github.com/kailas-cloud/intell/internal/logger"
	"github.com/kailas-cloud/intell/internal/version"
)

// maxIndexBodyBytes caps POST /index-page bodies; content alone may be 50,000 characters.
const maxIndexBodyBytes = 4 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	indexer       Indexer
	health        HealthChecker
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, indexer Indexer, health HealthChecker) *Server {
	return &Server{
		search:  search,
		indexer: indexer,
		health:  health,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeBadRequest),
			sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
			sentinelHandler(domain.ErrMisconfigured, http.StatusInternalServerError, CodeMisconfigured),
			sentinelHandler(domain.ErrEngineUnavailable, http.StatusInternalServerError, CodeSearchError),
			sentinelHandler(domain.ErrIndexing, http.StatusInternalServerError, CodeIndexError),
		},
	}
}

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message: "Intell Search API",
		Version: version.Version,
		Endpoints: map[string]string{
			"search":   "/search?q=<query>",
			"suggest":  "/suggest?q=<prefix>",
			"trending": "/trending",
			"index":    "POST /index-page",
			"health":   "/health",
		},
	})
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

// Suggest handles GET /suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query parameter 'q' is required")
		return
	}

	titles, err := s.search.Suggest(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Query: q, Suggestions: titles})
}

// Trending handles GET /trending. It always answers 200.
func (s *Server) Trending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TrendingResponse{Trending: s.search.Trending(r.Context())})
}

// IndexPage handles POST /index-page. Authentication is done by APIKeyMiddleware.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	var req IndexPageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIndexBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "missing required field: url")
		return
	}

	id, err := s.indexer.Index(r.Context(), req.toDocument())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IndexPageResponse{Result: "indexed", ID: id})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func searchRequestFromQuery(r *http.Request) (request.Request, error) {
	q := r.URL.Query()

	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return request.Request{}, fmt.Errorf("offset must be an integer")
		}
		offset = n
	}

	var safe *bool
	if v := q.Get("safe_search"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return request.Request{}, err
		}
		safe = &b
	}

	var fileType *page.FileType
	if v := q.Get("file_type"); v != "" {
		ft, err := page.ParseFileType(strings.ToLower(v))
		if err != nil {
			return request.Request{}, err
		}
		fileType = &ft
	}

	req, err := request.New(q.Get("q"), offset, safe, fileType)
	if err != nil {
		return request.Request{}, err
	}
	return req, nil
}

// parseBool accepts the usual query-string spellings of a boolean.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("safe_search must be a boolean, got %q", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and answers with the sentinel's message only.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
