package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/text"
)

func extractPDF(base *url.URL, body []byte) (p *Page, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: malformed pdf: %v", domain.ErrExtraction, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", domain.ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		pg := r.Page(i)
		if pg.V.IsNull() {
			continue
		}
		t, err := pg.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: read pdf page %d: %w", domain.ErrExtraction, i, err)
		}
		sb.WriteString(t)
		sb.WriteByte('\n')
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return nil, fmt.Errorf("%w: pdf has no text", domain.ErrExtraction)
	}
	return &Page{
		Title:    pdfTitle(base),
		Content:  text.Truncate(content, page.MaxContentLength),
		Images:   []page.Image{},
		Links:    []string{},
		FileType: page.PDF,
	}, nil
}
