// Package instant computes direct answers for time and arithmetic queries.
package instant

import (
	"strings"
	"time"

	"github.com/kailas-cloud/intell/internal/domain/search/result"
)

// TimeLayout is the format of time answers.
const TimeLayout = "2006-01-02 15:04:05"

// Answer labels.
const (
	LabelTime = "Current Time"
	LabelMath = "Calculation"
)

var timeKeywords = []string{"time", "what time", "current time", "now"}

var mathOperators = []string{"+", "-", "*", "/", "%", "**"}

// Resolver detects instant-answer intents. Safe for concurrent use.
type Resolver struct {
	now func() time.Time
}

// New creates a resolver. A nil clock defaults to time.Now.
func New(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Resolve returns an instant answer for the query, or nil. Time intent is
// checked before arithmetic; evaluation failures yield nil.
func (r *Resolver) Resolve(rawQuery string) *result.InstantAnswer {
	q := strings.ToLower(strings.TrimSpace(rawQuery))
	if q == "" {
		return nil
	}

	if containsAny(q, timeKeywords) {
		return &result.InstantAnswer{
			Type:   result.AnswerTime,
			Answer: r.now().Format(TimeLayout),
			Label:  LabelTime,
		}
	}

	if containsAny(q, mathOperators) {
		answer, err := Evaluate(q)
		if err != nil {
			return nil
		}
		return &result.InstantAnswer{
			Type:       result.AnswerMath,
			Answer:     answer,
			Label:      LabelMath,
			Expression: rawQuery,
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
