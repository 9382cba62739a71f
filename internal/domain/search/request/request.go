package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	// PageSize is the fixed number of hits per page.
	PageSize = 10
)

// Request is a validated search query.
type Request struct {
	query      string
	offset     int
	safeSearch *bool
	fileType   *page.FileType
}

// New validates search parameters. safeSearch is tri-state: nil means the
// caller did not set it. fileType may be nil for no file-type filter.
func New(query string, offset int, safeSearch *bool, fileType *page.FileType) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must be >= 0, got %d", offset)
	}
	if fileType != nil {
		if _, err := page.ParseFileType(string(*fileType)); err != nil {
			return Request{}, err
		}
	}
	return Request{query: query, offset: offset, safeSearch: safeSearch, fileType: fileType}, nil
}

// Query returns the raw query string.
func (r *Request) Query() string { return r.query }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }

// Size returns the page size.
func (r *Request) Size() int { return PageSize }

// SafeSearch returns the safe-search flag and whether it was set explicitly.
func (r *Request) SafeSearch() (value, set bool) {
	if r.safeSearch == nil {
		return true, false
	}
	return *r.safeSearch, true
}

// FileType returns the file-type filter, if any.
func (r *Request) FileType() (page.FileType, bool) {
	if r.fileType == nil {
		return "", false
	}
	return *r.fileType, true
}

// Filters builds the non-scoring filter clauses for this request.
//
// Explicitly disabling safe search restricts results to unsafe documents
// (is_safe == false); it does not merely lift the restriction. Leaving it
// unset or true applies no safety filter at all.
func (r *Request) Filters() filter.Expression {
	var conds []filter.Condition
	if safe, set := r.SafeSearch(); set && !safe {
		c, _ := filter.NewTerm("is_safe", false)
		conds = append(conds, c)
	}
	if ft, ok := r.FileType(); ok {
		c, _ := filter.NewTerm("file_type", string(ft))
		conds = append(conds, c)
	}
	expr, _ := filter.NewExpression(conds...)
	return expr
}
