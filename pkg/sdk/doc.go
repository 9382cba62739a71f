// Package intell provides a Go client for the intell search service.
//
// The client covers the public read API (search, suggest, trending, health)
// and the authenticated page-indexing endpoint used by crawlers.
//
//	client, _ := intell.New("http://localhost:8080", intell.WithAPIKey(key))
//	res, _ := client.Search(ctx, intell.SearchParams{Query: "python"})
//	for _, h := range res.Results {
//	    fmt.Println(h.Title, h.URL)
//	}
//
//	_, err := client.IndexPage(ctx, intell.Document{URL: "https://go.dev", Content: "..."})
package intell
