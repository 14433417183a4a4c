package analysis

import (
	"sort"

	"weibolens-backend/lib/weibo"
)

type FilterOptions struct {
	MinLikes    int64 `json:"min_likes"`
	MinComments int64 `json:"min_comments"`
	MinForwards int64 `json:"min_forwards"`
	// applied only when positive; the counter thresholds are the
	// primary gate
	MinScore float64 `json:"min_score,omitempty"`
}

// Filter drops posts below the engagement thresholds (all three counter
// conditions must hold), attaches content scores to the survivors and
// sorts them descending by (likes, score). Raising any threshold can
// only shrink the output. Never errors: empty in, empty out.
func (a *Analyzer) Filter(posts []weibo.Post, opts FilterOptions) []weibo.Post {
	var kept []weibo.Post
	for _, post := range posts {
		if post.AttitudesCount < opts.MinLikes ||
			post.CommentsCount < opts.MinComments ||
			post.RepostsCount < opts.MinForwards {
			continue
		}
		post.ContentScore = a.Score(post)
		if opts.MinScore > 0 && post.ContentScore < opts.MinScore {
			continue
		}
		kept = append(kept, post)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].AttitudesCount != kept[j].AttitudesCount {
			return kept[i].AttitudesCount > kept[j].AttitudesCount
		}
		return kept[i].ContentScore > kept[j].ContentScore
	})
	return kept
}
