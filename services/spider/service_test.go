package spider

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weibolens-backend/lib/analysis"
	"weibolens-backend/lib/weibo"

	"github.com/stretchr/testify/require"
)

var testAnalyzer *analysis.Analyzer

func TestMain(m *testing.M) {
	var err error
	testAnalyzer, err = analysis.New(analysis.Options{})
	if err != nil {
		panic(err)
	}
	m.Run()
}

type fakeFetcher struct {
	searchPages map[string][][]weibo.Post
	timelines   map[string][][]weibo.Post
	searchCalls int
}

func (f *fakeFetcher) SearchPage(ctx context.Context, keyword string, page int) ([]weibo.Post, error) {
	f.searchCalls++
	pages := f.searchPages[keyword]
	if page > len(pages) {
		return nil, nil
	}
	return pages[page-1], nil
}

func (f *fakeFetcher) UserTimeline(ctx context.Context, uid string, page int) ([]weibo.Post, error) {
	pages := f.timelines[uid]
	if page > len(pages) {
		return nil, nil
	}
	return pages[page-1], nil
}

func testConfig(t *testing.T) Config {
	return Config{
		Keywords: []KeywordConfig{
			{Keyword: "科技", Category: "tech"},
			{Keyword: "电影", Category: "entertainment"},
		},
		Pages:      3,
		MinLikes:   100,
		RecentDays: 2,
		PoolSize:   2,
		DelayMinMs: 1,
		DelayMaxMs: 2,
		OutputDir:  t.TempDir(),
	}
}

func hotPost(id, keyword, content string) weibo.Post {
	return weibo.Post{
		ID:             id,
		Keyword:        keyword,
		Content:        content,
		PublishTime:    "1小时前",
		AttitudesCount: 1000,
		CommentsCount:  50,
		RepostsCount:   200,
	}
}

func TestRun(t *testing.T) {
	config := testConfig(t)
	fetcher := &fakeFetcher{
		searchPages: map[string][][]weibo.Post{
			"科技": {
				{
					hotPost("1", "科技", "人工智能 新品 发布"),
					hotPost("2", "科技", "大数据 平台 上线"),
				},
			},
			"电影": {
				{hotPost("3", "电影", "电影 票房 纪录")},
			},
		},
	}

	service := NewService(ServiceOptions{
		Config:   config,
		Fetcher:  fetcher,
		Analyzer: testAnalyzer,
	})
	results, err := service.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// merged in config order regardless of worker completion order
	require.Equal(t, "科技", results[0].Keyword)
	require.Equal(t, "tech", results[0].Category)
	require.Equal(t, 2, results[0].Analysis.FilteredCount)
	require.Equal(t, "电影", results[1].Keyword)

	entries, err := os.ReadDir(config.OutputDir)
	require.NoError(t, err)
	var csvs, jsons, reports int
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), "_analysis.json"):
			jsons++
		case strings.HasSuffix(entry.Name(), "_report.txt"):
			reports++
		case strings.HasSuffix(entry.Name(), ".csv"):
			csvs++
		}
	}
	require.Equal(t, 2, csvs)
	require.Equal(t, 2, jsons)
	require.Equal(t, 2, reports)
}

func TestRunSharedDedup(t *testing.T) {
	config := testConfig(t)
	// the same post surfaces under both keywords
	duplicate := hotPost("42", "科技", "人工智能 电影 跨界")
	fetcher := &fakeFetcher{
		searchPages: map[string][][]weibo.Post{
			"科技": {{duplicate}},
			"电影": {{duplicate}},
		},
	}

	service := NewService(ServiceOptions{
		Config:   config,
		Fetcher:  fetcher,
		Analyzer: testAnalyzer,
	})
	results, err := service.Run(context.Background())
	require.NoError(t, err)

	var total int
	for _, r := range results {
		total += r.Analysis.FilteredCount
	}
	require.Equal(t, 1, total)
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	config := testConfig(t)
	config.Keywords = config.Keywords[:1]
	config.Pages = 10
	fetcher := &fakeFetcher{
		searchPages: map[string][][]weibo.Post{
			"科技": {
				{hotPost("1", "科技", "人工智能 内容")},
				// page 2 empty, pages 3..10 must not be fetched
			},
		},
	}

	service := NewService(ServiceOptions{
		Config:   config,
		Fetcher:  fetcher,
		Analyzer: testAnalyzer,
	})
	_, err := service.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.searchCalls)
}

func TestRunExcludesStaleAndUnparseable(t *testing.T) {
	config := testConfig(t)
	config.Keywords = config.Keywords[:1]

	stale := hotPost("old", "科技", "很久以前的内容")
	stale.PublishTime = "2020-01-01 10:00:00"
	garbled := hotPost("garbled", "科技", "时间无法解析的内容")
	garbled.PublishTime = "转发微博"

	fetcher := &fakeFetcher{
		searchPages: map[string][][]weibo.Post{
			"科技": {{hotPost("fresh", "科技", "新鲜 内容"), stale, garbled}},
		},
	}

	service := NewService(ServiceOptions{
		Config:   config,
		Fetcher:  fetcher,
		Analyzer: testAnalyzer,
	})
	results, err := service.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].Analysis.OriginalCount)
	require.Equal(t, "fresh", results[0].Analysis.Posts[0].ID)
}

func TestRunUsers(t *testing.T) {
	config := testConfig(t)
	config.Users = []string{"777"}
	fetcher := &fakeFetcher{
		timelines: map[string][][]weibo.Post{
			"777": {
				{
					hotPost("10", "", "今天聊聊科技行业的新进展"),
					hotPost("11", "", "晚饭吃了什么"),
					hotPost("12", "", "这部电影真不错"),
				},
			},
		},
	}

	service := NewService(ServiceOptions{
		Config:   config,
		Fetcher:  fetcher,
		Analyzer: testAnalyzer,
	})
	results, err := service.RunUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Posts, 2)
	require.Equal(t, "科技", results[0].Posts[0].Keyword)
	require.Equal(t, "电影", results[0].Posts[1].Keyword)
}

func TestPostsCSVRoundTrip(t *testing.T) {
	posts := []weibo.Post{
		{
			Keyword:        "科技",
			Type:           "tech",
			ID:             "1",
			Content:        "内容，包含逗号和\"引号\"",
			PublishTime:    "今天 09:15",
			RepostsCount:   10,
			CommentsCount:  5,
			AttitudesCount: 100,
			PostLink:       "https://weibo.com/detail/1",
			HasImages:      true,
			ImageURLs:      []string{"https://a.jpg", "https://b.jpg"},
			UserID:         "u1",
			UserName:       "用户",
			ContentScore:   66.5,
		},
		{ID: "2", Content: "最小字段"},
	}

	file := filepath.Join(t.TempDir(), "posts.csv")
	require.NoError(t, WritePostsCSV(file, posts))

	got, err := ReadPostsCSV(file)
	require.NoError(t, err)
	require.Equal(t, posts, got)
}

func TestTrendReport(t *testing.T) {
	result := &analysis.Result{
		OriginalCount: 10,
		FilteredCount: 3,
		Criteria:      analysis.FilterOptions{MinLikes: 500},
		Trending: []analysis.TrendingTopic{
			{Keyword: "人工智能", Score: 321.5, PostCount: 2, AvgLikes: 1500},
		},
	}
	report := TrendReport("科技", result)
	require.Contains(t, report, "科技")
	require.Contains(t, report, "人工智能")
	require.Contains(t, report, "点赞 >= 500")
	require.Contains(t, report, "1,500")
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	require.Equal(t, 3, c.Pages)
	require.Equal(t, int64(500), c.MinLikes)
	require.Equal(t, 5, c.ClusterCount)
	require.Equal(t, 3, c.PoolSize)
	require.Greater(t, c.DelayMaxMs, c.DelayMinMs)
	require.Equal(t, "results", c.OutputDir)

	min, max := c.delayRange()
	require.Less(t, min, max)
	require.Equal(t, "", c.categoryOf("missing"))
}
