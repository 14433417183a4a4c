package weibo

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// SearchPage scrapes one page of s.weibo.com keyword search results. The
// search frontend serves HTML cards rather than JSON, so extraction is
// best-effort: cards missing a field map to zero values instead of failing
// the page.
func (c *Client) SearchPage(ctx context.Context, keyword string, page int) ([]Post, error) {
	ctx, span := tracer.Start(ctx, "client:SearchPage")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetQueryParams(map[string]string{
			"q":    keyword,
			"page": fmt.Sprint(page),
		}).
		Get("https://s.weibo.com/weibo")
	if err != nil {
		return nil, err
	}
	if err := statusError(res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	posts, err := postsFromSearchHTML(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse search html")
		return nil, err
	}
	for i := range posts {
		posts[i].Keyword = keyword
	}
	return posts, nil
}

func postsFromSearchHTML(body []byte) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var posts []Post
	doc.Find("div.card-wrap").Each(func(_ int, card *goquery.Selection) {
		// ad and "related search" cards have no content block
		if card.Find("div.content").Length() == 0 {
			return
		}

		post := Post{}
		from := card.Find("div.from a").First()
		post.ID = searchCardID(from.AttrOr("href", ""))
		if post.ID == "" {
			return
		}
		post.PublishTime = strings.TrimSpace(from.Text())
		post.PostLink = PostLink(post.ID)

		content := card.Find(`p[node-type="feed_list_content_full"]`).First()
		if content.Length() == 0 {
			content = card.Find("p.txt").First()
		}
		post.Content = strings.TrimSpace(content.Text())

		name := card.Find("a.name").First()
		post.UserName = strings.TrimSpace(name.Text())

		card.Find("div.card-act li").Each(func(_ int, li *goquery.Selection) {
			text := li.Text()
			count := int64(leadingInt(text))
			switch {
			case strings.Contains(text, "转发"):
				post.RepostsCount = count
			case strings.Contains(text, "评论"):
				post.CommentsCount = count
			case strings.Contains(text, "赞"):
				post.AttitudesCount = count
			}
		})

		card.Find(`div[node-type="feed_list_media_prev"] img`).Each(func(_ int, img *goquery.Selection) {
			if src := img.AttrOr("src", ""); src != "" {
				post.ImageURLs = append(post.ImageURLs, normalizeMediaURL(src))
			}
		})
		post.HasImages = len(post.ImageURLs) > 0

		card.Find("div.media-video").Each(func(_ int, video *goquery.Selection) {
			post.HasVideos = true
			for _, attr := range []string{"data-url", "action-data"} {
				if url := video.AttrOr(attr, ""); strings.HasPrefix(url, "http") {
					post.VideoURLs = append(post.VideoURLs, url)
					break
				}
			}
		})

		posts = append(posts, post)
	})

	return posts, nil
}

// the "from" link looks like //weibo.com/1234567/NvAbCdEfG?refer_flag=...,
// the last path segment is the status id
func searchCardID(href string) string {
	href, _, _ = strings.Cut(href, "?")
	idx := strings.LastIndexByte(href, '/')
	if idx < 0 || idx == len(href)-1 {
		return ""
	}
	return href[idx+1:]
}

func normalizeMediaURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
