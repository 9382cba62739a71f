// Package safety flags content containing terms from a profanity lexicon.
package safety

import "strings"

// DefaultLexicon is the built-in profanity list.
var DefaultLexicon = []string{"badword1", "badword2", "offensive", "profane", "adult", "explicit"}

// Classifier is a case-insensitive substring matcher. Safe for concurrent use.
type Classifier struct {
	terms []string
}

// New creates a classifier. An empty lexicon falls back to DefaultLexicon.
func New(lexicon []string) *Classifier {
	if len(lexicon) == 0 {
		lexicon = DefaultLexicon
	}
	terms := make([]string, 0, len(lexicon))
	for _, w := range lexicon {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			terms = append(terms, w)
		}
	}
	return &Classifier{terms: terms}
}

// IsSafe reports whether text contains none of the lexicon terms.
func (c *Classifier) IsSafe(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range c.terms {
		if strings.Contains(lower, t) {
			return false
		}
	}
	return true
}
