package weibo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePublishTime(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	now := time.Date(2025, 8, 7, 18, 30, 0, 0, loc)

	testCases := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "api format",
			input:    "Thu Aug 07 16:59:47 +0800 2025",
			expected: time.Date(2025, 8, 7, 16, 59, 47, 0, loc),
			ok:       true,
		},
		{
			name:     "just now",
			input:    "刚刚",
			expected: now,
			ok:       true,
		},
		{
			name:     "minutes ago",
			input:    "5分钟前",
			expected: now.Add(-5 * time.Minute),
			ok:       true,
		},
		{
			name:     "hours ago",
			input:    "3小时前",
			expected: now.Add(-3 * time.Hour),
			ok:       true,
		},
		{
			name:     "today",
			input:    "今天 09:15",
			expected: time.Date(2025, 8, 7, 9, 15, 0, 0, loc),
			ok:       true,
		},
		{
			name:     "yesterday",
			input:    "昨天 23:05",
			expected: time.Date(2025, 8, 6, 23, 5, 0, 0, loc),
			ok:       true,
		},
		{
			name:     "full datetime",
			input:    "2025-08-01 12:00:00",
			expected: time.Date(2025, 8, 1, 12, 0, 0, 0, loc),
			ok:       true,
		},
		{
			name:     "yearless date uses current year",
			input:    "05-23 12:34",
			expected: time.Date(2025, 5, 23, 12, 34, 0, 0, loc),
			ok:       true,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
		{
			name:  "garbage",
			input: "转发微博",
			ok:    false,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			parsed, ok := ParsePublishTime(testCase.input, now)
			require.Equal(t, testCase.ok, ok)
			if testCase.ok {
				require.True(
					t, testCase.expected.Equal(parsed),
					"expected %v, got %v", testCase.expected, parsed,
				)
			}
		})
	}
}

func TestWithinRecentDays(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	now := time.Date(2025, 8, 7, 18, 30, 0, 0, loc)

	require.True(t, WithinRecentDays(now, now, 1))
	require.True(t, WithinRecentDays(time.Date(2025, 8, 7, 0, 0, 0, 0, loc), now, 1))
	require.False(t, WithinRecentDays(time.Date(2025, 8, 6, 23, 59, 0, 0, loc), now, 1))
	require.True(t, WithinRecentDays(time.Date(2025, 8, 6, 23, 59, 0, 0, loc), now, 2))
	require.False(t, WithinRecentDays(time.Date(2025, 8, 5, 12, 0, 0, 0, loc), now, 2))

	// days <= 0 disables the window
	require.True(t, WithinRecentDays(time.Date(2001, 1, 1, 0, 0, 0, 0, loc), now, 0))
}
