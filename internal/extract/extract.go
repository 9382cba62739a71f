// Package extract turns fetched HTML and PDF bodies into indexable pages.
package extract

import (
	"bytes"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/text"
)

// Page is the extracted content of one fetched URL.
type Page struct {
	Title           string
	Content         string
	FaviconURL      string
	PreviewImageURL string
	Images          []page.Image
	// Links are absolute, fragment-free, same-site URLs in document order.
	Links    []string
	FileType page.FileType
}

// Extractor parses HTML and, when enabled, PDF bodies. Safe for concurrent use.
type Extractor struct {
	pdfEnabled bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDF toggles PDF support. Enabled by default.
func WithPDF(enabled bool) Option {
	return func(e *Extractor) { e.pdfEnabled = enabled }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{pdfEnabled: true}
	for _, o := range opts {
		o(e)
	}
	return e
}

// IsPDF reports whether a response is a PDF, by content type or URL suffix.
func IsPDF(pageURL, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "application/pdf" {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(pageURL), ".pdf")
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// Extract parses body fetched from pageURL. Errors wrap domain.ErrExtraction.
func (e *Extractor) Extract(pageURL string, body []byte, contentType string) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url %q: %w", domain.ErrExtraction, pageURL, err)
	}
	if IsPDF(pageURL, contentType) {
		if !e.pdfEnabled {
			return nil, fmt.Errorf("%w: pdf support disabled", domain.ErrExtraction)
		}
		return extractPDF(base, body)
	}
	return extractHTML(base, body, contentType)
}

func extractHTML(base *url.URL, body []byte, contentType string) (*Page, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: decode charset: %w", domain.ErrExtraction, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", domain.ErrExtraction, err)
	}

	p := &Page{
		Title:    page.NoTitle,
		FileType: page.HTML,
		Images:   []page.Image{},
		Links:    []string{},
	}
	if t := doc.Find("title").First(); t.Length() > 0 {
		p.Title = text.CollapseSpace(t.Text())
	}

	doc.Find("script, style").Remove()
	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	p.Content = text.Truncate(text.CollapseSpace(root.Text()), page.MaxContentLength)

	doc.Find("link[rel][href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isIconRel(s.AttrOr("rel", "")) {
			return true
		}
		p.FaviconURL = resolve(base, s.AttrOr("href", ""))
		return p.FaviconURL == ""
	})

	if og := doc.Find(`meta[property="og:image"][content]`).First(); og.Length() > 0 {
		p.PreviewImageURL = resolve(base, og.AttrOr("content", ""))
	}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := resolve(base, s.AttrOr("src", ""))
		if src == "" {
			return
		}
		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		if alt == "" {
			alt = page.NoAltText
		}
		p.Images = append(p.Images, page.Image{URL: src, Alt: alt})
	})

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		abs := resolve(base, s.AttrOr("href", ""))
		if abs == "" {
			return
		}
		link, err := url.Parse(abs)
		if err != nil || !SameSite(base, link) {
			return
		}
		canon, err := Canonicalize(abs)
		if err != nil {
			return
		}
		if _, dup := seen[canon]; dup {
			return
		}
		seen[canon] = struct{}{}
		p.Links = append(p.Links, canon)
	})

	return p, nil
}

// pdfTitle is the last path segment of the URL.
func pdfTitle(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// isIconRel reports whether a link rel value names a favicon: "shortcut icon"
// or any rel list containing the "icon" token ("alternate icon", "icon mask").
func isIconRel(rel string) bool {
	tokens := strings.Fields(strings.ToLower(rel))
	if strings.Join(tokens, " ") == "shortcut icon" {
		return true
	}
	for _, t := range tokens {
		if t == "icon" {
			return true
		}
	}
	return false
}
