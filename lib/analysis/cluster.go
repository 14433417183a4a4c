package analysis

import (
	"fmt"
	"sort"
	"strings"

	"weibolens-backend/lib/weibo"
)

// number of representative keywords attached to each cluster
const clusterLabelKeywords = 5

type Cluster struct {
	// label numbers only distinguish clusters within one run, they
	// are not stable across runs or inputs
	Label int `json:"label"`
	// the most frequent extracted keywords across member posts,
	// frequency descending
	Keywords []string     `json:"keywords"`
	Posts    []weibo.Post `json:"posts"`
}

type ClusterResult struct {
	Clusters []Cluster
	// posts whose content was empty after normalization; they take
	// no part in clustering but are accounted for rather than lost
	ExcludedEmpty []weibo.Post
}

// ClusterTopics partitions posts into k topic groups by tf-idf
// vectorization and centroid clustering. Fewer than k posts with
// non-empty content yields an empty result, not an error: clustering
// is meaningless below that size. Every input post lands in exactly one
// cluster or in ExcludedEmpty.
func (a *Analyzer) ClusterTopics(posts []weibo.Post, k int) (ClusterResult, error) {
	if k < 1 {
		return ClusterResult{}, fmt.Errorf("%w: cluster count must be at least 1, got %d", ErrInvalidArgument, k)
	}

	var result ClusterResult
	var valid []weibo.Post
	for _, post := range posts {
		if strings.TrimSpace(post.Content) == "" {
			result.ExcludedEmpty = append(result.ExcludedEmpty, post)
			continue
		}
		valid = append(valid, post)
	}
	if len(valid) < k {
		return result, nil
	}

	docs := make([]string, len(valid))
	for i, post := range valid {
		docs[i] = post.Content
	}
	assignments := kmeansPartition(a.vectorize(docs), k, a.seed)

	members := make([][]weibo.Post, k)
	for i, cluster := range assignments {
		members[cluster] = append(members[cluster], valid[i])
	}
	for _, posts := range members {
		if len(posts) == 0 {
			continue
		}
		result.Clusters = append(result.Clusters, Cluster{
			Label:    len(result.Clusters),
			Keywords: a.clusterKeywords(posts),
			Posts:    posts,
		})
	}
	return result, nil
}

// clusterKeywords labels a cluster with the keywords that occur across
// the most member posts.
func (a *Analyzer) clusterKeywords(posts []weibo.Post) []string {
	counts := make(map[string]int)
	var order []string
	for _, post := range posts {
		keywords, err := a.ExtractKeywords(post.Content, clusterLabelKeywords)
		if err != nil {
			continue
		}
		for _, kw := range keywords {
			if counts[kw.Term] == 0 {
				order = append(order, kw.Term)
			}
			counts[kw.Term]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > clusterLabelKeywords {
		order = order[:clusterLabelKeywords]
	}
	return order
}
