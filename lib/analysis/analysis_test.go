package analysis

import (
	"context"
	"fmt"
	"testing"

	"weibolens-backend/lib/weibo"

	"github.com/stretchr/testify/require"
)

// analyzer construction loads the segmentation dictionary, share one
// across the package's tests
var testAnalyzer *Analyzer

func TestMain(m *testing.M) {
	var err error
	testAnalyzer, err = New(Options{})
	if err != nil {
		panic(err)
	}
	m.Run()
}

func makePost(id string, likes, comments, forwards int64, video bool, content string) weibo.Post {
	return weibo.Post{
		ID:             id,
		Content:        content,
		AttitudesCount: likes,
		CommentsCount:  comments,
		RepostsCount:   forwards,
		HasVideos:      video,
	}
}

func TestAnalyze(t *testing.T) {
	posts := []weibo.Post{
		makePost("a", 1000, 200, 500, true, "励志 正能量 加油"),
		makePost("b", 10, 1, 2, false, "普通内容"),
		makePost("c", 1000, 200, 500, false, "励志 正能量"),
	}

	result, err := testAnalyzer.Analyze(context.Background(), posts, AnalyzeOptions{
		Filter: FilterOptions{MinLikes: 500},
	})
	require.NoError(t, err)

	require.Equal(t, 3, result.OriginalCount)
	require.Equal(t, 2, result.FilteredCount)
	require.Len(t, result.Posts, 2)
	// equal likes, the video bonus puts a's score above c's
	require.Equal(t, "a", result.Posts[0].ID)
	require.Equal(t, "c", result.Posts[1].ID)
	for _, post := range result.Posts {
		require.Greater(t, post.ContentScore, 0.0)
	}

	// 2 filtered posts < default cluster count of 5
	require.Empty(t, result.Clusters)
	require.NotEmpty(t, result.Trending)
}

func TestAnalyzeInvalidArguments(t *testing.T) {
	_, err := testAnalyzer.Analyze(context.Background(), nil, AnalyzeOptions{ClusterCount: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = testAnalyzer.Analyze(context.Background(), nil, AnalyzeOptions{TopTopics: -3})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testAnalyzer.Analyze(ctx, []weibo.Post{
		makePost("a", 1000, 200, 500, true, "励志 正能量"),
	}, AnalyzeOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeEmpty(t *testing.T) {
	result, err := testAnalyzer.Analyze(context.Background(), nil, AnalyzeOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, result.OriginalCount)
	require.Empty(t, result.Posts)
	require.Empty(t, result.Clusters)
	require.Empty(t, result.Trending)
}

func TestAnalyzeNormalizesContent(t *testing.T) {
	posts := []weibo.Post{
		makePost("a", 1000, 0, 0, false, "<p>励志内容 http://t.cn/xyz</p>"),
	}
	result, err := testAnalyzer.Analyze(context.Background(), posts, AnalyzeOptions{})
	require.NoError(t, err)
	require.Equal(t, "励志内容", result.Posts[0].Content)
	// the input slice must not be mutated
	require.Equal(t, "<p>励志内容 http://t.cn/xyz</p>", posts[0].Content)
}

func TestScoreBounded(t *testing.T) {
	testCases := []weibo.Post{
		{},
		makePost("a", 0, 0, 0, false, ""),
		makePost("b", 1000000000, 1000000000, 1000000000, true, "超长内容超长内容超长内容超长内容超长内容超长内容超长内容超长内容"),
		makePost("c", 500, 20, 10, false, "人工智能 大数据 云计算"),
	}
	for i, post := range testCases {
		score := testAnalyzer.Score(post)
		require.GreaterOrEqual(t, score, 0.0, "case %d", i)
		require.LessOrEqual(t, score, 100.0, "case %d", i)

		simple := testAnalyzer.SimpleScore(post)
		require.GreaterOrEqual(t, simple, 0.0, "case %d", i)
		require.LessOrEqual(t, simple, 100.0, "case %d", i)
	}
}

func TestScoreMediaOrdering(t *testing.T) {
	base := makePost("a", 100, 10, 10, false, "同样的内容")
	video := base
	video.HasVideos = true
	image := base
	image.HasImages = true

	require.Greater(t, testAnalyzer.Score(video), testAnalyzer.Score(image))
	require.Greater(t, testAnalyzer.Score(image), testAnalyzer.Score(base))
}

func TestFilterMonotonicity(t *testing.T) {
	var posts []weibo.Post
	for i := 0; i < 50; i++ {
		posts = append(posts, makePost(
			fmt.Sprint(i), int64(i*37%1000), int64(i%7), int64(i%13),
			i%3 == 0, "一些测试内容",
		))
	}

	previous := len(posts) + 1
	for _, minLikes := range []int64{0, 100, 300, 500, 900, 2000} {
		got := len(testAnalyzer.Filter(posts, FilterOptions{MinLikes: minLikes}))
		require.LessOrEqual(t, got, previous, "minLikes=%d", minLikes)
		previous = got
	}
}

func TestFilterEmpty(t *testing.T) {
	require.Empty(t, testAnalyzer.Filter(nil, FilterOptions{MinLikes: 100}))
}

func TestFilterHardAnd(t *testing.T) {
	posts := []weibo.Post{
		makePost("likes-only", 1000, 0, 0, false, "内容"),
		makePost("all-three", 1000, 50, 20, false, "内容"),
	}
	kept := testAnalyzer.Filter(posts, FilterOptions{MinLikes: 500, MinComments: 10, MinForwards: 5})
	require.Len(t, kept, 1)
	require.Equal(t, "all-three", kept[0].ID)
}
