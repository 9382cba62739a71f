package page

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/intell/internal/db"
	dompage "github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/domain/text"
)

// RepairBatchSize bounds how many incomplete documents one scan returns.
const RepairBatchSize = 1000

// repairFields are the fields a complete document must carry.
var repairFields = []string{"images", "file_type", "is_safe"}

// store is the consumer interface for page documents (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
	Count(ctx context.Context, index string) (int64, error)
	Index(ctx context.Context, index, id string, body []byte) (string, error)
	Update(ctx context.Context, index, id string, partial []byte) error
	CreateIndex(ctx context.Context, name string, mapping []byte) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo stores crawled pages.
type Repo struct {
	store store
	index string
}

// New creates a page repository over the given index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Index returns the index name.
func (r *Repo) Index() string { return r.index }

// DocumentID derives the document id from its URL so re-crawls replace
// rather than duplicate a page.
func DocumentID(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// EnsureIndex creates the page index with its mapping when it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	if exists {
		return nil
	}
	mapping, err := Mapping()
	if err != nil {
		return fmt.Errorf("build mapping: %w", err)
	}
	if err := r.store.CreateIndex(ctx, r.index, mapping); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	return nil
}

// Mapping returns the page index creation body.
func Mapping() ([]byte, error) {
	return db.NewMapping().
		Keyword("url").
		Text("title").
		Text("content").
		Stored("favicon_url").
		Stored("preview_image_url").
		Object("images", db.NewMapping().Stored("url").Text("alt")).
		Keyword("file_type").
		Boolean("is_safe").
		Double("timestamp").
		Build()
}

// Save indexes a document and returns its id.
func (r *Repo) Save(ctx context.Context, doc dompage.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	id, err := r.store.Index(ctx, r.index, DocumentID(doc.URL), data)
	if err != nil {
		return "", fmt.Errorf("index %s: %w", doc.URL, err)
	}
	return id, nil
}

// Count returns the number of stored pages.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, r.index)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.index, err)
	}
	return n, nil
}

// FindIncomplete returns up to RepairBatchSize documents missing any of the
// images, file_type or is_safe fields.
func (r *Repo) FindIncomplete(ctx context.Context) ([]dompage.Ref, error) {
	data, err := json.Marshal(BuildIncompleteBody())
	if err != nil {
		return nil, fmt.Errorf("marshal scan body: %w", err)
	}
	raw, err := r.store.Search(ctx, r.index, data)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.index, err)
	}

	var resp scanResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode scan response: %w", err)
	}
	out := make([]dompage.Ref, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		out = append(out, dompage.Ref{ID: h.ID, URL: h.Source.URL, Content: h.Source.Content})
	}
	return out, nil
}

// Update applies a repair patch to a stored document.
func (r *Repo) Update(ctx context.Context, id string, p dompage.Patch) error {
	if p.Images == nil {
		p.Images = []dompage.Image{}
	}
	p.Content = text.Truncate(p.Content, dompage.MaxContentLength)
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	if err := r.store.Update(ctx, r.index, id, data); err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	return nil
}

// BuildIncompleteBody builds the scan query for documents missing repair fields.
func BuildIncompleteBody() any {
	should := make([]any, 0, len(repairFields))
	for _, f := range repairFields {
		should = append(should, map[string]any{
			"bool": map[string]any{
				"must_not": map[string]any{"exists": map[string]string{"field": f}},
			},
		})
	}
	return scanBody{
		Query:  map[string]any{"bool": map[string]any{"should": should}},
		Size:   RepairBatchSize,
		Source: []string{"url", "content"},
	}
}

type scanBody struct {
	Query  any      `json:"query"`
	Size   int      `json:"size"`
	Source []string `json:"_source"`
}

type scanResponse struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				URL     string `json:"url"`
				Content string `json:"content"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
