package spider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"weibolens-backend/lib/analysis"
	"weibolens-backend/lib/dedup"
	"weibolens-backend/lib/mediastore"
	"weibolens-backend/lib/textutil"
	"weibolens-backend/lib/timezone"
	"weibolens-backend/lib/weibo"

	random "github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/spider")

// Fetcher is the scraping surface the service depends on; lib/weibo's
// Client satisfies it, tests substitute a fake.
type Fetcher interface {
	SearchPage(ctx context.Context, keyword string, page int) ([]weibo.Post, error)
	UserTimeline(ctx context.Context, uid string, page int) ([]weibo.Post, error)
}

type ServiceOptions struct {
	Config   Config
	Fetcher  Fetcher
	Analyzer *analysis.Analyzer
	// shared across all workers; nil means a fresh empty set
	Seen *dedup.Set
	// optional, enables image downloads for filtered posts
	Media *mediastore.Store
}

type Service struct {
	config   Config
	fetcher  Fetcher
	analyzer *analysis.Analyzer
	seen     *dedup.Set
	media    *mediastore.Store
}

func NewService(opts ServiceOptions) Service {
	seen := opts.Seen
	if seen == nil {
		seen = dedup.NewSet()
	}
	return Service{
		config:   opts.Config.withDefaults(),
		fetcher:  opts.Fetcher,
		analyzer: opts.Analyzer,
		seen:     seen,
		media:    opts.Media,
	}
}

type KeywordResult struct {
	Keyword  string
	Category string
	Analysis *analysis.Result
}

// Run crawls and analyzes every configured keyword. Keywords are
// processed by a bounded worker pool; each keyword's pipeline is
// sequential and scoped to its own scrape results, only the seen-set is
// shared. A keyword that fails is logged and skipped, the run carries
// on. Results are merged after all workers join, in config order.
func (s Service) Run(ctx context.Context) ([]KeywordResult, error) {
	ctx, span := tracer.Start(ctx, "spider:Run")
	defer span.End()
	span.SetAttributes(attribute.Int("keywords", len(s.config.Keywords)))

	results := make([]*KeywordResult, len(s.config.Keywords))
	semaphore := make(chan struct{}, s.config.PoolSize)
	var wg sync.WaitGroup

	for i, kw := range s.config.Keywords {
		wg.Add(1)
		go func(i int, keyword string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := s.crawlKeyword(ctx, keyword)
			if err != nil {
				slog.ErrorContext(
					ctx, "keyword crawl failed",
					"keyword", keyword,
					"err", err,
				)
				return
			}
			results[i] = &KeywordResult{
				Keyword:  keyword,
				Category: s.config.categoryOf(keyword),
				Analysis: result,
			}
		}(i, kw.Keyword)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []KeywordResult
	for _, r := range results {
		if r != nil {
			merged = append(merged, *r)
		}
	}
	return merged, nil
}

func (s Service) crawlKeyword(ctx context.Context, keyword string) (*analysis.Result, error) {
	ctx, span := tracer.Start(ctx, "spider:crawlKeyword")
	defer span.End()
	span.SetAttributes(attribute.String("keyword", keyword))

	var posts []weibo.Post
	for page := 1; page <= s.config.Pages; page++ {
		fetched, err := s.fetcher.SearchPage(ctx, keyword, page)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(fetched) == 0 {
			break
		}
		posts = append(posts, fetched...)

		if page < s.config.Pages {
			if err := s.sleepJitter(ctx); err != nil {
				return nil, err
			}
		}
	}

	posts = s.dedupe(posts)
	posts = s.filterRecent(ctx, posts, timezone.Now())
	category := s.config.categoryOf(keyword)
	for i := range posts {
		posts[i].Type = category
	}
	slog.InfoContext(
		ctx, "crawled keyword",
		"keyword", keyword,
		"posts", len(posts),
	)

	result, err := s.analyzer.Analyze(ctx, posts, analysis.AnalyzeOptions{
		Filter: analysis.FilterOptions{
			MinLikes:    s.config.MinLikes,
			MinComments: s.config.MinComments,
			MinForwards: s.config.MinForwards,
			MinScore:    s.config.MinScore,
		},
		ClusterCount: s.config.ClusterCount,
		TopTopics:    s.config.TopTopics,
	})
	if err != nil {
		return nil, err
	}

	if err := s.writeReports(ctx, keyword, result); err != nil {
		return nil, err
	}
	s.downloadMedia(ctx, result.Posts)

	return result, nil
}

// UserResult is one user's timeline posts that matched any configured
// keyword.
type UserResult struct {
	User  string
	Posts []weibo.Post
}

// RunUsers crawls the configured user timelines and keeps posts whose
// content mentions a configured keyword. Timelines are fetched
// sequentially, user crawling is gentler on rate limits than search.
func (s Service) RunUsers(ctx context.Context) ([]UserResult, error) {
	ctx, span := tracer.Start(ctx, "spider:RunUsers")
	defer span.End()

	var results []UserResult
	for _, user := range s.config.Users {
		posts, err := s.crawlUser(ctx, user)
		if err != nil {
			slog.ErrorContext(
				ctx, "user crawl failed",
				"user", user,
				"err", err,
			)
			continue
		}
		if len(posts) == 0 {
			continue
		}
		result := UserResult{User: user, Posts: posts}
		if err := s.writeUserReport(ctx, result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, ctx.Err()
}

func (s Service) crawlUser(ctx context.Context, user string) ([]weibo.Post, error) {
	ctx, span := tracer.Start(ctx, "spider:crawlUser")
	defer span.End()
	span.SetAttributes(attribute.String("user", user))

	var matched []weibo.Post
	for page := 1; page <= s.config.Pages; page++ {
		fetched, err := s.fetcher.UserTimeline(ctx, user, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(fetched) == 0 {
			break
		}

		for _, post := range fetched {
			keyword, ok := s.matchKeyword(post.Content)
			if !ok {
				continue
			}
			post.Keyword = keyword
			matched = append(matched, post)
		}

		if page < s.config.Pages {
			if err := s.sleepJitter(ctx); err != nil {
				return nil, err
			}
		}
	}

	matched = s.dedupe(matched)
	return s.filterRecent(ctx, matched, timezone.Now()), nil
}

func (s Service) matchKeyword(content string) (string, bool) {
	for _, kw := range s.config.Keywords {
		if textutil.ContainsFold(content, kw.Keyword) {
			return kw.Keyword, true
		}
	}
	return "", false
}

func (s Service) dedupe(posts []weibo.Post) []weibo.Post {
	var unique []weibo.Post
	for _, post := range posts {
		if post.ID == "" || s.seen.CheckAndMark(post.ID) {
			continue
		}
		unique = append(unique, post)
	}
	return unique
}

// filterRecent drops posts outside the configured calendar-day window.
// Posts with unparseable timestamps are excluded, not assumed current.
func (s Service) filterRecent(ctx context.Context, posts []weibo.Post, now time.Time) []weibo.Post {
	if s.config.RecentDays <= 0 {
		return posts
	}
	var recent []weibo.Post
	for _, post := range posts {
		t, ok := weibo.ParsePublishTime(post.PublishTime, now)
		if !ok {
			slog.WarnContext(
				ctx, "excluding post with unparseable publish time",
				"post", post.ID,
				"publish_time", post.PublishTime,
			)
			continue
		}
		if weibo.WithinRecentDays(t, now, s.config.RecentDays) {
			recent = append(recent, post)
		}
	}
	return recent
}

func (s Service) downloadMedia(ctx context.Context, posts []weibo.Post) {
	if s.media == nil {
		return
	}
	for _, post := range posts {
		if !post.HasImages {
			continue
		}
		_, err := s.media.DownloadImages(ctx, post)
		if err != nil {
			slog.WarnContext(
				ctx, "media download failed",
				"post", post.ID,
				"err", err,
			)
		}
	}
}

func (s Service) sleepJitter(ctx context.Context) error {
	min, max := s.config.delayRange()
	ms, err := random.IntRange(int(min.Milliseconds()), int(max.Milliseconds()))
	if err != nil {
		ms = int(min.Milliseconds())
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
