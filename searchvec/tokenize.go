package searchvec

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/tokenizer/unicode"
	"github.com/microcosm-cc/bluemonday"
)

var (
	wordTokenizer      = unicode.NewUnicodeTokenizer()
	lowercaseFilter    = lowercase.NewLowerCaseFilter()
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)

	policyPool = sync.Pool{
		New: func() interface{} {
			return bluemonday.StrictPolicy()
		},
	}
)

// CleanText strips any HTML markup from text, unescapes entities and
// collapses repeated whitespace into single spaces. Source summary and
// description fields may carry rich text; documents must never index
// markup.
func CleanText(text string) string {
	policy := policyPool.Get().(*bluemonday.Policy)

	clean := repeatedSpaceRegex.ReplaceAllString(policy.Sanitize(text), " ")

	policyPool.Put(policy)

	return strings.TrimSpace(html.UnescapeString(clean))
}

// Tokenize splits text into lowercase word tokens tagged with the given
// tier. Markup is stripped before tokenizing. Empty or all-markup text
// yields no postings.
func Tokenize(text string, tier Tier) []Posting {
	text = CleanText(text)
	if text == "" {
		return nil
	}

	stream := lowercaseFilter.Filter(wordTokenizer.Tokenize([]byte(text)))

	postings := make([]Posting, 0, len(stream))
	for _, token := range stream {
		postings = append(postings, Posting{
			Token: string(token.Term),
			Tier:  tier,
		})
	}

	return postings
}
