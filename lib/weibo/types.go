// Package weibo fetches posts from weibo's web endpoints and maps them into
// the Post shape consumed by the analysis pipeline.
package weibo

import "fmt"

// Post is one scraped status. Engagement counters default to 0 when the
// source field is missing or unparseable; they are never negative.
type Post struct {
	ID             string   `json:"weibo_id"`
	Content        string   `json:"content"`
	PublishTime    string   `json:"publish_time"`
	RepostsCount   int64    `json:"reposts_count"`
	CommentsCount  int64    `json:"comments_count"`
	AttitudesCount int64    `json:"attitudes_count"`
	HasImages      bool     `json:"has_images"`
	HasVideos      bool     `json:"has_videos"`
	ImageURLs      []string `json:"image_urls,omitempty"`
	VideoURLs      []string `json:"video_urls,omitempty"`
	Keyword        string   `json:"keyword,omitempty"`
	Type           string   `json:"type,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
	UserName       string   `json:"user_name,omitempty"`
	PostLink       string   `json:"post_link"`
	ContentScore   float64  `json:"content_score,omitempty"`
}

func PostLink(id string) string {
	return fmt.Sprintf("https://weibo.com/detail/%s", id)
}
