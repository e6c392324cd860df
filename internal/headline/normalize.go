// Package headline groups near-duplicate news stories coming from several
// RSS sources and ranks them by how many outlets covered them.
package headline

import (
	"strings"
	"unicode"
)

// minKeywordLen is exclusive: a token must be longer than this to count.
const minKeywordLen = 3

// stopWords holds English filler words that survive the length filter.
var stopWords = map[string]struct{}{
	"that": {}, "with": {}, "about": {}, "which": {}, "here": {},
	"this": {}, "from": {}, "have": {}, "been": {}, "were": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "their": {},
	"there": {}, "they": {}, "them": {}, "what": {}, "when": {},
	"where": {}, "while": {}, "into": {}, "over": {}, "after": {},
	"before": {}, "than": {}, "then": {}, "also": {}, "just": {},
	"more": {}, "most": {}, "some": {}, "such": {}, "only": {},
	"very": {}, "said": {}, "says": {}, "your": {}, "does": {},
	"being": {}, "because": {}, "these": {}, "those": {}, "other": {},
}

// Normalize returns the significant keywords of a title in their original
// order. Duplicates are kept; callers that need a set use keywordSet.
func Normalize(title string) []string {
	s := strings.Map(keepKeywordRune, strings.ToLower(title))

	var keywords []string
	for _, tok := range strings.Fields(s) {
		if len(tok) <= minKeywordLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// keepKeywordRune drops everything but ASCII letters, digits and whitespace.
// Any Unicode space is kept so that it still separates words.
func keepKeywordRune(r rune) rune {
	switch {
	case 'a' <= r && r <= 'z', '0' <= r && r <= '9', unicode.IsSpace(r):
		return r
	}
	return -1
}

func keywordSet(title string) map[string]struct{} {
	words := Normalize(title)
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
