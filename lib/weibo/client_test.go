package weibo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const timelineFixture = `{
	"data": {
		"list": [
			{
				"idstr": "5061234567890123",
				"created_at": "Thu Aug 07 16:59:47 +0800 2025",
				"text_raw": "今天发布了新品，欢迎围观！",
				"text": "今天发布了新品，欢迎围观！<br/>",
				"reposts_count": 120,
				"comments_count": 45,
				"attitudes_count": 800,
				"pic_num": 2,
				"pic_ids": ["pic_b", "pic_a"],
				"pic_infos": {
					"pic_a": {"large": {"url": "https://wx1.sinaimg.cn/large/a.jpg"}},
					"pic_b": {"large": {"url": "https://wx1.sinaimg.cn/large/b.jpg"}}
				},
				"user": {"screen_name": "测试账号"}
			},
			{
				"id": 5061234567890999,
				"created_at": "Wed Aug 06 10:00:00 +0800 2025",
				"text": "视频内容",
				"reposts_count": -1,
				"comments_count": 0,
				"attitudes_count": 3,
				"pic_num": 0,
				"user": {"screen_name": "另一个账号"},
				"page_info": {
					"type": "video",
					"media_info": {"stream_url": "https://f.video.weibocdn.com/x.mp4"}
				}
			}
		]
	}
}`

func TestPostsFromTimelineJSON(t *testing.T) {
	posts := postsFromTimelineJSON([]byte(timelineFixture))
	require.Len(t, posts, 2)

	diff := cmp.Diff(Post{
		ID:             "5061234567890123",
		Content:        "今天发布了新品，欢迎围观！",
		PublishTime:    "Thu Aug 07 16:59:47 +0800 2025",
		RepostsCount:   120,
		CommentsCount:  45,
		AttitudesCount: 800,
		UserName:       "测试账号",
		HasImages:      true,
		ImageURLs: []string{
			"https://wx1.sinaimg.cn/large/a.jpg",
			"https://wx1.sinaimg.cn/large/b.jpg",
		},
		PostLink: "https://weibo.com/detail/5061234567890123",
	}, posts[0])
	if diff != "" {
		t.Fatal(diff)
	}

	second := posts[1]
	// numeric id fallback when idstr is absent
	require.Equal(t, "5061234567890999", second.ID)
	// text fallback when text_raw is absent
	require.Equal(t, "视频内容", second.Content)
	// negative counters coerce to zero
	require.Equal(t, int64(0), second.RepostsCount)
	require.False(t, second.HasImages)
	require.True(t, second.HasVideos)
	require.Equal(t, []string{"https://f.video.weibocdn.com/x.mp4"}, second.VideoURLs)
}

func TestPostsFromTimelineJSONEmpty(t *testing.T) {
	require.Empty(t, postsFromTimelineJSON([]byte(`{"data": {"list": []}}`)))
	require.Empty(t, postsFromTimelineJSON([]byte(`{"ok": 0}`)))
	require.Empty(t, postsFromTimelineJSON([]byte(`not json`)))
}
