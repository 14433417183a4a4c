package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    "<p>Hello http://t.co/xyz world</p>",
			expected: "Hello world",
		},
		{
			input:    "转发了 @某某明星 的微博：#新剧开播#太好看了\U0001F60D\U0001F44D",
			expected: "转发了 的微博：新剧开播太好看了",
		},
		{
			input:    "line one\n\nline\ttwo\r\n  spaced",
			expected: "line one line two spaced",
		},
		{
			input:    "<a href=\"https://weibo.com/detail/1\">正文</a>内容 https://video.weibo.com/show?fid=1034:1 结束",
			expected: "正文 内容 结束",
		},
		{
			input:    "zero\u200bwidth\u200e and\u202a direction",
			expected: "zerowidth and direction",
		},
		{
			input:    "##嵌套##",
			expected: "嵌套",
		},
		{
			input:    "",
			expected: "",
		},
		{
			input:    "   \n\t  ",
			expected: "",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Normalize(test.input), "input: %q", test.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"<p>Hello http://t.co/xyz world</p>",
		"#a##b# @user mixed 内容",
		"##a##",
		"plain text stays plain",
		"\U0001F300\U0001FAFF edges",
		"",
	}
	for _, s := range samples {
		once := Normalize(s)
		require.Equal(t, once, Normalize(once), "input: %q", s)
	}
}

func TestNormalizeKeepTags(t *testing.T) {
	got := NormalizeKeepTags("<b>看#热搜#了吗 @朋友</b> http://t.cn/abc")
	require.Equal(t, "看#热搜#了吗 @朋友", got)
}

func TestContainsFold(t *testing.T) {
	require.True(t, ContainsFold("The Quick Fox", "quick"))
	require.True(t, ContainsFold("电影票房破纪录", "票房"))
	require.False(t, ContainsFold("电影票房破纪录", "演唱会"))
}
