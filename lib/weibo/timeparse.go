package weibo

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// weibo's desktop API uses the English ruby-style format,
// e.g. "Thu Aug 07 16:59:47 +0800 2025"
const apiTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

var digitsRegex = regexp.MustCompile(`\d+`)

// ParsePublishTime parses the loosely-formatted publish timestamps weibo
// serves: the API's English format, relative forms (刚刚, N分钟前, N小时前),
// day-relative forms (今天 15:04, 昨天 15:04), absolute dates with and
// without a year, and as a last resort anything dateparse recognizes.
// ok is false when nothing matched; callers decide whether such posts are
// kept, they are never silently treated as current.
func ParsePublishTime(s string, now time.Time) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(apiTimeLayout, s); err == nil {
		return t.In(now.Location()), true
	}

	if strings.Contains(s, "刚刚") {
		return now, true
	}
	if strings.Contains(s, "秒前") {
		return now.Add(-time.Duration(leadingInt(s)) * time.Second), true
	}
	if strings.Contains(s, "分钟前") {
		return now.Add(-time.Duration(leadingInt(s)) * time.Minute), true
	}
	if strings.Contains(s, "小时前") {
		return now.Add(-time.Duration(leadingInt(s)) * time.Hour), true
	}

	if rest, found := strings.CutPrefix(s, "今天"); found {
		return atClockTime(now, strings.TrimSpace(rest)), true
	}
	if rest, found := strings.CutPrefix(s, "昨天"); found {
		return atClockTime(now.AddDate(0, 0, -1), strings.TrimSpace(rest)), true
	}

	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006年01月02日 15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	// year-less forms like "05-23 12:34" refer to the current year
	for _, layout := range []string{"01-02 15:04", "01月02日 15:04"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t.AddDate(now.Year(), 0, 0), true
		}
	}

	if t, err := dateparse.ParseIn(s, now.Location()); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func leadingInt(s string) int {
	digits := digitsRegex.FindString(s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func atClockTime(day time.Time, clock string) time.Time {
	hm, err := time.Parse("15:04", clock)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, day.Location())
}

// WithinRecentDays reports whether t falls inside the last `days` calendar
// days ending at now, e.g. days=2 keeps today and yesterday.
func WithinRecentDays(t time.Time, now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-1), now.Location())
	return !t.Before(start) && !t.After(end)
}
