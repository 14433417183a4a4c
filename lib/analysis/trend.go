package analysis

import (
	"fmt"
	"sort"
	"strings"

	"weibolens-backend/lib/weibo"

	"github.com/antzucaro/matchr"
)

// trend score blends averaged engagement (dominant) with the averaged
// content score
const (
	trendEngagementShare = 0.7
	trendScoreShare      = 0.3
)

// candidate keywords this similar are treated as the same topic
const trendKeywordSimilarity = 0.95

type TrendingTopic struct {
	Keyword string `json:"keyword"`
	// composite trend score, higher = hotter
	Score     float64 `json:"trend_score"`
	PostCount int     `json:"post_count"`
	// averages over the posts containing the keyword
	AvgForwards     float64 `json:"avg_forwards"`
	AvgComments     float64 `json:"avg_comments"`
	AvgLikes        float64 `json:"avg_likes"`
	AvgContentScore float64 `json:"avg_content_score"`
}

// TrendingTopics ranks the hottest keywords across a post set. It
// extracts 2*topN candidates from the concatenated post texts, drops
// near-duplicate candidates and candidates matching no individual post,
// aggregates engagement over the matching posts and returns at most
// topN topics, trend score descending.
func (a *Analyzer) TrendingTopics(posts []weibo.Post, topN int) ([]TrendingTopic, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: topN must be at least 1, got %d", ErrInvalidArgument, topN)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	contents := make([]string, len(posts))
	for i, post := range posts {
		contents[i] = post.Content
	}
	candidates, err := a.ExtractKeywords(strings.Join(contents, " "), topN*2)
	if err != nil {
		return nil, err
	}

	var topics []TrendingTopic
	var accepted []string
	for _, candidate := range candidates {
		if similarToAny(candidate.Term, accepted) {
			continue
		}

		var matches []weibo.Post
		for _, post := range posts {
			if strings.Contains(post.Content, candidate.Term) {
				matches = append(matches, post)
			}
		}
		// extraction over concatenated text can surface terms that
		// span post boundaries; those match nothing and are dropped
		if len(matches) == 0 {
			continue
		}
		accepted = append(accepted, candidate.Term)

		topic := TrendingTopic{Keyword: candidate.Term, PostCount: len(matches)}
		for _, post := range matches {
			topic.AvgForwards += float64(post.RepostsCount)
			topic.AvgComments += float64(post.CommentsCount)
			topic.AvgLikes += float64(post.AttitudesCount)
			score := post.ContentScore
			if score == 0 {
				score = a.Score(post)
			}
			topic.AvgContentScore += score
		}
		n := float64(len(matches))
		topic.AvgForwards /= n
		topic.AvgComments /= n
		topic.AvgLikes /= n
		topic.AvgContentScore /= n

		w := a.weights
		engagement := topic.AvgForwards*w.ForwardWeight +
			topic.AvgLikes*w.LikeWeight +
			topic.AvgComments*w.CommentWeight
		topic.Score = engagement*trendEngagementShare + topic.AvgContentScore*trendScoreShare

		topics = append(topics, topic)
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Score > topics[j].Score
	})
	if len(topics) > topN {
		topics = topics[:topN]
	}
	return topics, nil
}

func similarToAny(term string, accepted []string) bool {
	for _, other := range accepted {
		if matchr.JaroWinkler(term, other, false) > trendKeywordSimilarity {
			return true
		}
	}
	return false
}
