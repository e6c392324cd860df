package headline

import "time"

// Article is a single feed entry as delivered by the feed collaborator.
// An empty Description means the feed carried none.
type Article struct {
	ID          string
	Title       string
	Source      string
	URL         string
	Timestamp   time.Time
	Description string
}

// Cluster is a group of articles judged to report the same story.
type Cluster struct {
	Articles []Article
	Keywords map[string]struct{}
}

// minOverlap is the number of shared keywords needed to join a cluster.
const minOverlap = 2

// Group assigns every article to the first existing cluster sharing at
// least two keywords with it, or opens a new one. Assignment is first-fit in
// input order: a later cluster with a larger overlap never wins. Articles
// whose titles carry no keywords are dropped.
func Group(articles []Article) []Cluster {
	var clusters []Cluster

	for _, a := range articles {
		kw := keywordSet(a.Title)
		if len(kw) == 0 {
			continue
		}

		joined := false
		for i := range clusters {
			if overlap(kw, clusters[i].Keywords) < minOverlap {
				continue
			}
			clusters[i].Articles = append(clusters[i].Articles, a)
			for w := range kw {
				clusters[i].Keywords[w] = struct{}{}
			}
			joined = true
			break
		}

		if !joined {
			clusters = append(clusters, Cluster{
				Articles: []Article{a},
				Keywords: kw,
			})
		}
	}

	return clusters
}

func overlap(kw, clusterKw map[string]struct{}) int {
	n := 0
	for w := range kw {
		if _, ok := clusterKw[w]; ok {
			n++
		}
	}
	return n
}
