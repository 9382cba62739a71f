package intell

// Image is an image reference on an indexed page.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Document is a page submitted for indexing. IsSafe and Timestamp are
// recomputed by the server.
type Document struct {
	URL             string  `json:"url"`
	Title           string  `json:"title,omitempty"`
	Content         string  `json:"content"`
	FaviconURL      string  `json:"favicon_url"`
	PreviewImageURL string  `json:"preview_image_url"`
	Images          []Image `json:"images"`
	FileType        string  `json:"file_type,omitempty"`
	IsSafe          bool    `json:"is_safe"`
	Timestamp       float64 `json:"timestamp,omitempty"`
}

// IndexResult is the server acknowledgement of an indexed page.
type IndexResult struct {
	Result string `json:"result"`
	ID     string `json:"id"`
}

// SearchParams are the query parameters of a search.
type SearchParams struct {
	Query  string
	Offset int
	// SafeSearch is sent only when non-nil. false restricts results to
	// pages flagged unsafe.
	SafeSearch *bool
	// FileType is "html" or "pdf"; empty means any.
	FileType string
}

// Hit is a single search result.
type Hit struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	DisplayURL string  `json:"display_url"`
	Snippet    string  `json:"snippet"`
	FaviconURL string  `json:"favicon_url"`
	Images     []Image `json:"images"`
	IsSafe     bool    `json:"is_safe"`
	FileType   string  `json:"file_type"`
}

// InstantAnswer is a directly computed answer (time or arithmetic).
type InstantAnswer struct {
	Type       string `json:"type"`
	Answer     string `json:"answer"`
	Label      string `json:"label"`
	Expression string `json:"expression,omitempty"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Query         string         `json:"query"`
	Total         int            `json:"total"`
	Offset        int            `json:"offset"`
	Results       []Hit          `json:"results"`
	RelatedTopics []string       `json:"related_topics"`
	InstantAnswer *InstantAnswer `json:"instant_answer,omitempty"`
}

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok" or "degraded"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}
