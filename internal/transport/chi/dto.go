package chi

import (
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/search/result"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest     = "bad_request"
	CodeUnauthorized   = "unauthorized"
	CodeMisconfigured  = "server_misconfiguration"
	CodeSearchError    = "search_error"
	CodeIndexError     = "index_error"
	CodeNotFound       = "not_found"
	CodeInternalError  = "internal_error"
	CodeMethodNotAllow = "method_not_allowed"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query         string         `json:"query"`
	Total         int            `json:"total"`
	Offset        int            `json:"offset"`
	Results       []HitResponse  `json:"results"`
	RelatedTopics []string       `json:"related_topics"`
	InstantAnswer *InstantAnswer `json:"instant_answer,omitempty"`
}

// HitResponse is one search hit.
type HitResponse struct {
	Title      string       `json:"title"`
	URL        string       `json:"url"`
	DisplayURL string       `json:"display_url"`
	Snippet    string       `json:"snippet"`
	FaviconURL string       `json:"favicon_url"`
	Images     []page.Image `json:"images"`
	IsSafe     bool         `json:"is_safe"`
	FileType   string       `json:"file_type"`
}

// InstantAnswer is a directly computed answer.
type InstantAnswer struct {
	Type       string `json:"type"`
	Answer     string `json:"answer"`
	Label      string `json:"label"`
	Expression string `json:"expression,omitempty"`
}

// SuggestResponse is the body of GET /suggest.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// TrendingResponse is the body of GET /trending.
type TrendingResponse struct {
	Trending []string `json:"trending"`
}

// IndexPageRequest is the body of POST /index-page. is_safe and timestamp
// are accepted for compatibility and ignored.
type IndexPageRequest struct {
	URL             string       `json:"url"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	FaviconURL      string       `json:"favicon_url"`
	PreviewImageURL string       `json:"preview_image_url"`
	Images          []page.Image `json:"images"`
	FileType        string       `json:"file_type"`
}

// IndexPageResponse is the body of a successful POST /index-page.
type IndexPageResponse struct {
	Result string `json:"result"`
	ID     string `json:"id"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// InfoResponse is the body of GET /.
type InfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func searchResultToResponse(r *result.Result) SearchResponse {
	hits := make([]HitResponse, 0, len(r.Hits()))
	for _, h := range r.Hits() {
		images := h.Images
		if images == nil {
			images = []page.Image{}
		}
		hits = append(hits, HitResponse{
			Title:      h.Title,
			URL:        h.URL,
			DisplayURL: h.DisplayURL,
			Snippet:    h.Snippet,
			FaviconURL: h.FaviconURL,
			Images:     images,
			IsSafe:     h.IsSafe,
			FileType:   string(h.FileType),
		})
	}

	resp := SearchResponse{
		Query:         r.Query(),
		Total:         r.Total(),
		Offset:        r.Offset(),
		Results:       hits,
		RelatedTopics: r.RelatedTopics(),
	}
	if ia := r.InstantAnswer(); ia != nil {
		resp.InstantAnswer = &InstantAnswer{
			Type:       ia.Type,
			Answer:     ia.Answer,
			Label:      ia.Label,
			Expression: ia.Expression,
		}
	}
	return resp
}

func (req IndexPageRequest) toDocument() page.Document {
	return page.Document{
		URL:             req.URL,
		Title:           req.Title,
		Content:         req.Content,
		FaviconURL:      req.FaviconURL,
		PreviewImageURL: req.PreviewImageURL,
		Images:          req.Images,
		FileType:        page.FileType(req.FileType),
	}
}
