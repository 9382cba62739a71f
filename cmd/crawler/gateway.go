package main

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	intell "github.com/kailas-cloud/intell/pkg/sdk"
)

// indexer is the subset of the SDK client used by the crawler.
type indexer interface {
	IndexPage(ctx context.Context, doc intell.Document) (intell.IndexResult, error)
}

// apiGateway sends crawled documents to POST /index-page.
type apiGateway struct {
	client indexer
}

// Index implements crawl.Gateway.
func (g *apiGateway) Index(ctx context.Context, doc page.Document) error {
	images := make([]intell.Image, 0, len(doc.Images))
	for _, img := range doc.Images {
		images = append(images, intell.Image{URL: img.URL, Alt: img.Alt})
	}
	_, err := g.client.IndexPage(ctx, intell.Document{
		URL:             doc.URL,
		Title:           doc.Title,
		Content:         doc.Content,
		FaviconURL:      doc.FaviconURL,
		PreviewImageURL: doc.PreviewImageURL,
		Images:          images,
		FileType:        string(doc.FileType),
		IsSafe:          doc.IsSafe,
		Timestamp:       doc.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexing, err)
	}
	return nil
}
