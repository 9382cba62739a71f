package repair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/intell/internal/crawl"
	"github.com/kailas-cloud/intell/internal/domain"
	"github.com/kailas-cloud/intell/internal/domain/page"
	"github.com/kailas-cloud/intell/internal/extract"
)

// --- Mocks ---

type mockRepo struct {
	refs      []page.Ref
	findErr   error
	updateErr map[string]error
	patches   map[string]page.Patch
}

func (m *mockRepo) FindIncomplete(_ context.Context) ([]page.Ref, error) {
	return m.refs, m.findErr
}

func (m *mockRepo) Update(_ context.Context, id string, p page.Patch) error {
	if err := m.updateErr[id]; err != nil {
		return err
	}
	if m.patches == nil {
		m.patches = map[string]page.Patch{}
	}
	m.patches[id] = p
	return nil
}

// fakeWeb serves bodies by URL; unknown URLs fail to fetch.
type fakeWeb map[string]string

func (w fakeWeb) Fetch(_ context.Context, url string) (*crawl.Response, error) {
	body, ok := w[url]
	if !ok {
		return nil, domain.ErrFetch
	}
	ct := "text/html"
	if strings.HasSuffix(url, ".pdf") {
		ct = "application/pdf"
	}
	return &crawl.Response{URL: url, StatusCode: 200, ContentType: ct, Body: []byte(body)}, nil
}

// stubExtractor treats the body as plain text; "broken" bodies fail.
type stubExtractor struct{}

func (stubExtractor) Extract(pageURL string, body []byte, contentType string) (*extract.Page, error) {
	if string(body) == "broken" {
		return nil, domain.ErrExtraction
	}
	p := &extract.Page{Content: string(body), FileType: page.HTML}
	if contentType == "application/pdf" {
		p.FileType = page.PDF
		return p, nil
	}
	p.Images = []page.Image{{URL: pageURL + "img.png", Alt: "img"}}
	return p, nil
}

type keywordSafety struct{}

func (keywordSafety) IsSafe(text string) bool { return !strings.Contains(text, "explicit") }

func newTestService(repo *mockRepo, web fakeWeb) *Service {
	return New(repo, web, stubExtractor{}, keywordSafety{}, 1000, nil)
}

// --- Tests ---

func TestRun_RefreshesFetchablePages(t *testing.T) {
	repo := &mockRepo{refs: []page.Ref{
		{ID: "1", URL: "https://a.test/", Content: "old"},
		{ID: "2", URL: "https://a.test/doc.pdf", Content: "old pdf"},
	}}
	web := fakeWeb{
		"https://a.test/":        "new explicit text",
		"https://a.test/doc.pdf": "pdf text",
	}

	sum, err := newTestService(repo, web).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Found: 2, Refreshed: 2}) {
		t.Errorf("summary = %+v", sum)
	}

	html := repo.patches["1"]
	if html.Content != "new explicit text" || html.IsSafe || html.FileType != page.HTML || len(html.Images) != 1 {
		t.Errorf("html patch = %+v", html)
	}
	pdf := repo.patches["2"]
	if pdf.FileType != page.PDF || pdf.Content != "pdf text" || !pdf.IsSafe {
		t.Errorf("pdf patch = %+v", pdf)
	}
	if pdf.Images == nil {
		t.Error("images must be an empty list, not null")
	}
}

func TestRun_KeepsStoredContentOnFailure(t *testing.T) {
	repo := &mockRepo{refs: []page.Ref{
		{ID: "gone", URL: "https://a.test/gone", Content: "stored explicit"},
		{ID: "broken", URL: "https://a.test/broken", Content: "stored"},
		{ID: "nourl", Content: "orphan"},
	}}
	web := fakeWeb{"https://a.test/broken": "broken"}

	sum, err := newTestService(repo, web).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != (Summary{Found: 3, Degraded: 3}) {
		t.Errorf("summary = %+v", sum)
	}

	gone := repo.patches["gone"]
	if gone.Content != "stored explicit" || gone.FileType != page.HTML || len(gone.Images) != 0 {
		t.Errorf("gone patch = %+v", gone)
	}
	if gone.IsSafe {
		t.Error("safety must be computed from the kept content")
	}
	if repo.patches["nourl"].Content != "orphan" {
		t.Errorf("nourl patch = %+v", repo.patches["nourl"])
	}
}

func TestRun_UpdateFailureCounted(t *testing.T) {
	repo := &mockRepo{
		refs:      []page.Ref{{ID: "1", URL: "https://a.test/"}, {ID: "2", URL: "https://a.test/"}},
		updateErr: map[string]error{"1": errors.New("version conflict")},
	}
	web := fakeWeb{"https://a.test/": "ok"}

	sum, err := newTestService(repo, web).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Failed != 1 || sum.Refreshed != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRun_FindError(t *testing.T) {
	repo := &mockRepo{findErr: errors.New("index missing")}

	if _, err := newTestService(repo, fakeWeb{}).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	repo := &mockRepo{refs: []page.Ref{{ID: "1", URL: "https://a.test/"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := newTestService(repo, fakeWeb{}).Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(repo.patches) != 0 || sum.Found != 1 {
		t.Errorf("summary = %+v, patches = %v", sum, repo.patches)
	}
}
