package db

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/intell/internal/domain/search/filter"
)

func TestFilterClauses_Empty(t *testing.T) {
	if got := FilterClauses(filter.Expression{}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestFilterClauses_TermAndRange(t *testing.T) {
	term, err := filter.NewTerm("is_safe", false)
	if err != nil {
		t.Fatal(err)
	}
	gte := 1700000000.5
	r, err := filter.NewRangeFilter(nil, &gte, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	rng, err := filter.NewRange("timestamp", r)
	if err != nil {
		t.Fatal(err)
	}
	expr, err := filter.NewExpression(term, rng)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(FilterClauses(expr))
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"term":{"is_safe":false}},{"range":{"timestamp":{"gte":1700000000.5}}}]`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}

func TestMappingBuilder(t *testing.T) {
	data, err := NewMapping().
		Keyword("url").
		Text("title").
		TextWithKeyword("query").
		Boolean("is_safe").
		Double("timestamp").
		Object("images", NewMapping().Stored("url").Text("alt")).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"mappings":{"properties":{` +
		`"images":{"properties":{"alt":{"type":"text"},"url":{"index":false,"type":"keyword"}},"type":"object"},` +
		`"is_safe":{"type":"boolean"},` +
		`"query":{"fields":{"keyword":{"ignore_above":256,"type":"keyword"}},"type":"text"},` +
		`"timestamp":{"type":"double"},` +
		`"title":{"type":"text"},` +
		`"url":{"type":"keyword"}}}}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
}
