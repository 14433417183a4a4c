package spider

import "time"

type KeywordConfig struct {
	Keyword string `json:"keyword"`
	// free-form classification carried through to reports
	// (e.g. "celebrity", "tech")
	Category string `json:"category"`
}

type Config struct {
	// raw Cookie header copied from a logged-in browser session
	Cookie    string `json:"cookie"`
	UserAgent string `json:"user_agent"`

	Keywords []KeywordConfig `json:"keywords"`
	// user ids whose timelines are crawled and matched against the
	// keyword list
	Users []string `json:"users"`
	// search/timeline pages fetched per keyword or user
	Pages int `json:"pages"`

	MinLikes     int64   `json:"min_likes"`
	MinComments  int64   `json:"min_comments"`
	MinForwards  int64   `json:"min_forwards"`
	MinScore     float64 `json:"min_score"`
	ClusterCount int     `json:"cluster_count"`
	TopTopics    int     `json:"top_topics"`

	// keep posts from the last N calendar days; 0 disables the window
	RecentDays int `json:"recent_days"`

	// concurrent keyword workers
	PoolSize int `json:"pool_size"`
	// random delay between consecutive requests, milliseconds
	DelayMinMs int `json:"delay_min_ms"`
	DelayMaxMs int `json:"delay_max_ms"`

	OutputDir string `json:"output_dir"`
	// when set, images of filtered posts are downloaded here
	MediaDir string `json:"media_dir"`
	// when set, request/response transcripts are dumped here at
	// debug log level
	DebugDir string `json:"debug_dir"`
}

func (c Config) withDefaults() Config {
	if c.Pages == 0 {
		c.Pages = 3
	}
	if c.MinLikes == 0 {
		c.MinLikes = 500
	}
	if c.ClusterCount == 0 {
		c.ClusterCount = 5
	}
	if c.TopTopics == 0 {
		c.TopTopics = 5
	}
	if c.RecentDays == 0 {
		c.RecentDays = 2
	}
	if c.PoolSize == 0 {
		c.PoolSize = 3
	}
	if c.DelayMinMs == 0 {
		c.DelayMinMs = 500
	}
	if c.DelayMaxMs <= c.DelayMinMs {
		c.DelayMaxMs = c.DelayMinMs + 1500
	}
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	return c
}

func (c Config) categoryOf(keyword string) string {
	for _, kw := range c.Keywords {
		if kw.Keyword == keyword {
			return kw.Category
		}
	}
	return ""
}

func (c Config) delayRange() (time.Duration, time.Duration) {
	return time.Duration(c.DelayMinMs) * time.Millisecond,
		time.Duration(c.DelayMaxMs) * time.Millisecond
}
