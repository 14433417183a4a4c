// Package analysis implements the post-scrape pipeline: text keyword
// extraction, content scoring, noise filtering, topic clustering and
// trending-topic ranking. Components degrade rather than fail (a post
// always receives a score, an undersized corpus clusters to nothing);
// the only errors surfaced to callers are invalid arguments.
package analysis

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"weibolens-backend/lib/textutil"
	"weibolens-backend/lib/weibo"

	"github.com/go-ego/gse"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("analysis")

// ErrInvalidArgument marks programming-contract violations (negative
// topK, cluster counts, ...). Everything else in this package resolves
// to empty results or fallback values instead of errors.
var ErrInvalidArgument = errors.New("invalid argument")

//go:embed data/stopwords.txt
var stopwordsData string

//go:embed data/domain_terms.txt
var domainTermsData string

// domain terms get their extraction weight multiplied so that known
// hot-topic vocabulary outranks generic terms of equal frequency
const domainTermBoost = 1.5

type Analyzer struct {
	seg       gse.Segmenter
	stopwords map[string]struct{}
	boosts    map[string]float64
	weights   ScoreWeights
	seed      int64
}

type Options struct {
	// nil means DefaultScoreWeights
	Weights *ScoreWeights
	// additional segmentation vocabulary on top of the embedded
	// domain term list
	ExtraTerms []string
	// clustering seed, defaults to 42
	ClusterSeed int64
}

// New loads the segmentation dictionary and the embedded stopword and
// domain-term lists. Constructing an Analyzer is expensive (the
// dictionary is large), callers should reuse one across keywords.
func New(opts Options) (*Analyzer, error) {
	a := &Analyzer{
		stopwords: make(map[string]struct{}),
		boosts:    make(map[string]float64),
		weights:   DefaultScoreWeights(),
		seed:      42,
	}
	if opts.Weights != nil {
		a.weights = *opts.Weights
	}
	if opts.ClusterSeed != 0 {
		a.seed = opts.ClusterSeed
	}

	if err := a.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("failed to load segmentation dictionary: %w", err)
	}

	for _, line := range readLines(stopwordsData) {
		a.stopwords[line] = struct{}{}
	}
	for _, term := range append(readLines(domainTermsData), opts.ExtraTerms...) {
		a.boosts[term] = domainTermBoost
		if err := a.seg.AddToken(term, 100); err != nil {
			return nil, fmt.Errorf("failed to register term %q: %w", term, err)
		}
	}

	return a, nil
}

func readLines(data string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

type AnalyzeOptions struct {
	Filter FilterOptions
	// defaults to 5
	ClusterCount int
	// defaults to 5
	TopTopics int
}

type Result struct {
	// post counts before and after noise filtering
	OriginalCount int `json:"original_count"`
	FilteredCount int `json:"filtered_count"`
	// filtered posts with normalized content and attached scores,
	// sorted by (likes, score) descending
	Posts []weibo.Post `json:"posts"`
	// topic clusters over the filtered posts; empty when fewer
	// filtered posts than ClusterCount
	Clusters []Cluster `json:"clusters,omitempty"`
	// filtered posts whose content normalized to empty and were
	// therefore left out of clustering
	ExcludedEmpty int             `json:"excluded_empty,omitempty"`
	Trending      []TrendingTopic `json:"trending,omitempty"`
	Criteria      FilterOptions   `json:"criteria"`
}

// Analyze runs the full pipeline over one batch of posts: normalize,
// score, filter, cluster, rank trends. The input slice is not mutated.
func (a *Analyzer) Analyze(ctx context.Context, posts []weibo.Post, opts AnalyzeOptions) (*Result, error) {
	ctx, span := tracer.Start(ctx, "analyzer:Analyze")
	defer span.End()
	span.SetAttributes(attribute.Int("post_count", len(posts)))

	if opts.ClusterCount < 0 || opts.TopTopics < 0 {
		return nil, fmt.Errorf("%w: cluster count and topic count must not be negative", ErrInvalidArgument)
	}
	if opts.ClusterCount == 0 {
		opts.ClusterCount = 5
	}
	if opts.TopTopics == 0 {
		opts.TopTopics = 5
	}

	normalized := make([]weibo.Post, len(posts))
	for i, post := range posts {
		post.Content = textutil.Normalize(post.Content)
		if post.PostLink == "" && post.ID != "" {
			post.PostLink = weibo.PostLink(post.ID)
		}
		normalized[i] = post
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := a.Filter(normalized, opts.Filter)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusters, err := a.ClusterTopics(filtered, opts.ClusterCount)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trending, err := a.TrendingTopics(filtered, opts.TopTopics)
	if err != nil {
		return nil, err
	}

	return &Result{
		OriginalCount: len(posts),
		FilteredCount: len(filtered),
		Posts:         filtered,
		Clusters:      clusters.Clusters,
		ExcludedEmpty: len(clusters.ExcludedEmpty),
		Trending:      trending,
		Criteria:      opts.Filter,
	}, nil
}
