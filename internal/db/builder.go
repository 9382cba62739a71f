package db

import (
	"encoding/json"

	"github.com/kailas-cloud/intell/internal/domain/search/filter"
)

// Field types understood by MappingBuilder.
const (
	FieldKeyword = "keyword"
	FieldText    = "text"
	FieldBoolean = "boolean"
	FieldDouble  = "double"
	FieldObject  = "object"
)

// MappingBuilder is a fluent builder for index mappings.
type MappingBuilder struct {
	properties map[string]any
}

// NewMapping starts building an index mapping.
func NewMapping() *MappingBuilder {
	return &MappingBuilder{properties: map[string]any{}}
}

// Keyword adds an exact-value field.
func (b *MappingBuilder) Keyword(name string) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldKeyword}
	return b
}

// Text adds an analyzed full-text field.
func (b *MappingBuilder) Text(name string) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldText}
	return b
}

// TextWithKeyword adds a full-text field with a "keyword" sub-field for aggregations.
func (b *MappingBuilder) TextWithKeyword(name string) *MappingBuilder {
	b.properties[name] = map[string]any{
		"type":   FieldText,
		"fields": map[string]any{"keyword": map[string]any{"type": FieldKeyword, "ignore_above": 256}},
	}
	return b
}

// Boolean adds a boolean field.
func (b *MappingBuilder) Boolean(name string) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldBoolean}
	return b
}

// Double adds a floating-point numeric field.
func (b *MappingBuilder) Double(name string) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldDouble}
	return b
}

// Object adds an object field whose properties come from nested.
func (b *MappingBuilder) Object(name string, nested *MappingBuilder) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldObject, "properties": nested.properties}
	return b
}

// Stored adds a field that is kept in _source but not indexed.
func (b *MappingBuilder) Stored(name string) *MappingBuilder {
	b.properties[name] = map[string]any{"type": FieldKeyword, "index": false}
	return b
}

// Build returns the index creation body.
func (b *MappingBuilder) Build() ([]byte, error) {
	return json.Marshal(map[string]any{
		"mappings": map[string]any{"properties": b.properties},
	})
}

// FilterClauses converts a filter expression into non-scoring query DSL clauses,
// preserving condition order.
func FilterClauses(expr filter.Expression) []any {
	conds := expr.Conditions()
	if len(conds) == 0 {
		return nil
	}
	clauses := make([]any, 0, len(conds))
	for _, c := range conds {
		switch {
		case c.IsTerm():
			clauses = append(clauses, map[string]any{
				"term": map[string]any{c.Field(): c.Term()},
			})
		case c.IsRange():
			clauses = append(clauses, map[string]any{
				"range": map[string]rangeBody{c.Field(): newRangeBody(c.Range())},
			})
		}
	}
	return clauses
}

type rangeBody struct {
	GT  *float64 `json:"gt,omitempty"`
	GTE *float64 `json:"gte,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

func newRangeBody(r *filter.Range) rangeBody {
	return rangeBody{GT: r.GT(), GTE: r.GTE(), LT: r.LT(), LTE: r.LTE()}
}
