package analysis

import (
	"unicode/utf8"

	"weibolens-backend/lib/weibo"
)

// ScoreWeights parameterizes content scoring. The component shape
// (engagement + media + length + keyword focus, hard-capped) is fixed,
// the constants are tuning knobs.
type ScoreWeights struct {
	// engagement: (forwards*ForwardWeight + likes*LikeWeight +
	// comments*CommentWeight) / EngagementDivisor, capped at
	// EngagementCap
	EngagementCap     float64
	EngagementDivisor float64
	ForwardWeight     float64
	LikeWeight        float64
	CommentWeight     float64

	// media: VideoBonus when the post has video, else ImageBonus when
	// it has images, else nothing
	VideoBonus float64
	ImageBonus float64

	// length: runes/LengthDivisor capped at LengthCap
	LengthCap     float64
	LengthDivisor float64

	// keyword focus: sum of the top KeywordTopK extraction weights
	// scaled by KeywordCap, capped at KeywordCap
	KeywordCap  float64
	KeywordTopK int

	// hard cap on the total
	Max float64
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		EngagementCap:     60,
		EngagementDivisor: 100,
		ForwardWeight:     0.4,
		LikeWeight:        0.4,
		CommentWeight:     0.2,
		VideoBonus:        15,
		ImageBonus:        10,
		LengthCap:         10,
		LengthDivisor:     20,
		KeywordCap:        15,
		KeywordTopK:       8,
		Max:               100,
	}
}

// Score rates a post's engagement-worthiness in [0, Max]. Pure function
// of the post's fields, never fails: a post whose keywords cannot be
// extracted simply earns nothing for the focus component.
func (a *Analyzer) Score(post weibo.Post) float64 {
	w := a.weights

	engagement := (float64(post.RepostsCount)*w.ForwardWeight +
		float64(post.AttitudesCount)*w.LikeWeight +
		float64(post.CommentsCount)*w.CommentWeight) / w.EngagementDivisor
	engagement = min(w.EngagementCap, engagement)

	var media float64
	switch {
	case post.HasVideos:
		media = w.VideoBonus
	case post.HasImages:
		media = w.ImageBonus
	}

	length := min(w.LengthCap, float64(utf8.RuneCountInString(post.Content))/w.LengthDivisor)

	var focus float64
	if keywords, err := a.ExtractKeywords(post.Content, w.KeywordTopK); err == nil {
		var sum float64
		for _, kw := range keywords {
			sum += kw.Weight
		}
		focus = min(w.KeywordCap, sum*w.KeywordCap)
	}

	return min(w.Max, engagement+media+length+focus)
}

// SimpleScore is the degraded fallback: engagement counters only, same
// weighting as the engagement component but allowed to fill the whole
// scale.
func (a *Analyzer) SimpleScore(post weibo.Post) float64 {
	w := a.weights
	score := (float64(post.RepostsCount)*w.ForwardWeight +
		float64(post.AttitudesCount)*w.LikeWeight +
		float64(post.CommentsCount)*w.CommentWeight) / w.EngagementDivisor
	return min(w.Max, score)
}
