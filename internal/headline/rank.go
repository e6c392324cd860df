package headline

import (
	"sort"
	"unicode/utf16"
)

// RankedHeadline is the representative article of a story cluster together
// with how widely the story was covered.
type RankedHeadline struct {
	Article
	CoverageCount  int
	RelatedSources []string
}

// Rank orders clusters by size, then by the timestamp of their first
// article (newest first), and picks one representative per cluster.
// Exact ties keep cluster creation order. Clusters without articles are
// skipped.
func Rank(clusters []Cluster) []RankedHeadline {
	ordered := make([]Cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Articles) > 0 {
			ordered = append(ordered, c)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		ni, nj := len(ordered[i].Articles), len(ordered[j].Articles)
		if ni != nj {
			return ni > nj
		}
		return ordered[i].Articles[0].Timestamp.After(ordered[j].Articles[0].Timestamp)
	})

	out := make([]RankedHeadline, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, RankedHeadline{
			Article:        representative(c.Articles),
			CoverageCount:  len(c.Articles),
			RelatedSources: distinctSources(c.Articles),
		})
	}
	return out
}

// representative returns the article with the longest description; the
// first one wins on ties.
func representative(articles []Article) Article {
	best := articles[0]
	bestLen := descriptionLen(best.Description)
	for _, a := range articles[1:] {
		if n := descriptionLen(a.Description); n > bestLen {
			best, bestLen = a, n
		}
	}
	return best
}

// descriptionLen measures s in UTF-16 code units, so a character outside
// the BMP such as an emoji counts twice.
func descriptionLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func distinctSources(articles []Article) []string {
	seen := make(map[string]struct{}, len(articles))
	sources := make([]string, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		sources = append(sources, a.Source)
	}
	return sources
}

// RankHeadlines deduplicates and ranks a merged article list. It does no
// I/O and returns an empty, non-nil slice for empty input.
func RankHeadlines(articles []Article) []RankedHeadline {
	return Rank(Group(articles))
}
