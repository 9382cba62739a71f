package search

import (
	"encoding/json"

	"github.com/kailas-cloud/intell/internal/domain/page"
)

// Request bodies. Struct field order fixes the JSON key order on the wire.

type searchBody struct {
	Query     any           `json:"query"`
	Highlight highlightSpec `json:"highlight"`
	From      int           `json:"from"`
	Size      int           `json:"size"`
	Aggs      relatedAggs   `json:"aggs"`
}

type multiMatchQuery struct {
	MultiMatch multiMatch `json:"multi_match"`
}

type multiMatch struct {
	Query        string   `json:"query"`
	Fields       []string `json:"fields"`
	Type         string   `json:"type"`
	Operator     string   `json:"operator"`
	Fuzziness    string   `json:"fuzziness"`
	PrefixLength int      `json:"prefix_length"`
}

type boolQuery struct {
	Bool boolClauses `json:"bool"`
}

type boolClauses struct {
	Must   any   `json:"must"`
	Filter []any `json:"filter"`
}

type highlightSpec struct {
	Fields   highlightFields `json:"fields"`
	PreTags  []string        `json:"pre_tags"`
	PostTags []string        `json:"post_tags"`
}

type highlightFields struct {
	Content highlightField `json:"content"`
	Title   highlightField `json:"title"`
}

type highlightField struct {
	FragmentSize      int `json:"fragment_size"`
	NumberOfFragments int `json:"number_of_fragments"`
}

type relatedAggs struct {
	RelatedTopics significantTextAgg `json:"related_topics"`
}

type significantTextAgg struct {
	SignificantText significantText `json:"significant_text"`
}

type significantText struct {
	Field string `json:"field"`
	Size  int    `json:"size"`
}

type suggestBody struct {
	Query  phrasePrefixQuery `json:"query"`
	Source []string          `json:"_source"`
	Size   int               `json:"size"`
}

type phrasePrefixQuery struct {
	MatchPhrasePrefix map[string]phrasePrefix `json:"match_phrase_prefix"`
}

type phrasePrefix struct {
	Query string `json:"query"`
}

// Response bodies.

type searchResponse struct {
	Hits struct {
		Hits []hitDTO `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		RelatedTopics struct {
			Buckets []bucketDTO `json:"buckets"`
		} `json:"related_topics"`
	} `json:"aggregations"`
}

type hitDTO struct {
	ID        string              `json:"_id"`
	Source    sourceDTO           `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

// sourceDTO tolerates documents written before every field existed.
type sourceDTO struct {
	URL             string       `json:"url"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	FaviconURL      string       `json:"favicon_url"`
	PreviewImageURL string       `json:"preview_image_url"`
	Images          []page.Image `json:"images"`
	FileType        string       `json:"file_type"`
	IsSafe          *bool        `json:"is_safe"`
	Timestamp       float64      `json:"timestamp"`
}

type bucketDTO struct {
	Key json.RawMessage `json:"key"`
}

// toDocument applies the defaults of the original index writer:
// missing is_safe reads as safe, missing file_type as html.
func (s sourceDTO) toDocument() page.Document {
	isSafe := true
	if s.IsSafe != nil {
		isSafe = *s.IsSafe
	}
	ft := page.FileType(s.FileType)
	if ft == "" {
		ft = page.HTML
	}
	images := s.Images
	if images == nil {
		images = []page.Image{}
	}
	return page.Document{
		URL:             s.URL,
		Title:           s.Title,
		Content:         s.Content,
		FaviconURL:      s.FaviconURL,
		PreviewImageURL: s.PreviewImageURL,
		Images:          images,
		FileType:        ft,
		IsSafe:          isSafe,
		Timestamp:       s.Timestamp,
	}
}

// bucketKey returns a bucket key as text; numeric keys are kept verbatim.
func bucketKey(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
