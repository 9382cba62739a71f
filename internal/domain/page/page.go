package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/intell/internal/domain/text"
)

// MaxContentLength caps stored content in characters to bound index size and payloads.
const MaxContentLength = 50000

// NoTitle is used when a page has no <title> element.
const NoTitle = "No title"

// NoAltText replaces an empty <img alt> attribute.
const NoAltText = "No alt text"

// FileType is the kind of content a document was extracted from.
type FileType string

const (
	// HTML is a markup page.
	HTML FileType = "html"
	// PDF is a PDF document.
	PDF FileType = "pdf"
)

// ParseFileType validates a file type name.
func ParseFileType(s string) (FileType, error) {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case HTML, PDF:
		return ft, nil
	default:
		return "", fmt.Errorf("unknown file type %q (want html or pdf)", s)
	}
}

// Image is an <img> reference found on a page.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Document is the indexed unit, keyed by URL.
type Document struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	FaviconURL      string   `json:"favicon_url"`
	PreviewImageURL string   `json:"preview_image_url"`
	Images          []Image  `json:"images"`
	FileType        FileType `json:"file_type"`
	IsSafe          bool     `json:"is_safe"`
	// Timestamp is fractional Unix seconds, the format existing indexes and the
	// trending range query already use.
	Timestamp float64 `json:"timestamp"`
}

// New validates a document and normalizes it: content is truncated to
// MaxContentLength, an empty title falls back to the URL, an empty file type
// to HTML and nil images to an empty list.
func New(doc Document) (Document, error) {
	doc.URL = strings.TrimSpace(doc.URL)
	if doc.URL == "" {
		return Document{}, fmt.Errorf("url is required")
	}
	if doc.FileType == "" {
		doc.FileType = HTML
	}
	if _, err := ParseFileType(string(doc.FileType)); err != nil {
		return Document{}, err
	}
	if doc.Title == "" {
		doc.Title = doc.URL
	}
	if doc.Images == nil {
		doc.Images = []Image{}
	}
	doc.Content = text.Truncate(doc.Content, MaxContentLength)
	return doc, nil
}

// UnixSeconds converts t to the fractional seconds stored in Timestamp.
func UnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// Time returns the document timestamp as a time.Time.
func (d *Document) Time() time.Time {
	sec := int64(d.Timestamp)
	nsec := int64((d.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
