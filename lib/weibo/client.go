package weibo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"weibolens-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/weibo")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Client struct {
	Http *resty.Client
}

type ClientOptions struct {
	// raw Cookie header string copied from a logged-in browser session
	Cookie    string
	UserAgent string
	// defaults to 15s
	Timeout time.Duration
	// when set, full request/response transcripts are dumped here
	// (debug log level only)
	DebugDir string
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client.SetHeaders(map[string]string{
		"User-Agent":       ua,
		"Accept":           "application/json, text/plain, */*",
		"Accept-Language":  "zh-CN,zh;q=0.9,en;q=0.8",
		"Referer":          "https://weibo.com/",
		"X-Requested-With": "XMLHttpRequest",
	})
	if opts.Cookie != "" {
		client.SetCookies(ParseCookies(opts.Cookie))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}
	client.SetTimeout(timeout)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy("weibo.com", "s.weibo.com", "passport.weibo.com"))

	var output restyutil.InstrumentOutput
	if opts.DebugDir != "" {
		output = restyutil.NewFilesystemOutput(opts.DebugDir)
	}
	restyutil.InstrumentClient(client, tracer, output)

	return &Client{Http: client}
}

// UserTimeline fetches one page of a user's statuses from the desktop ajax
// endpoint. An empty slice with a nil error means the end of the timeline.
func (c *Client) UserTimeline(ctx context.Context, uid string, page int) ([]Post, error) {
	ctx, span := tracer.Start(ctx, "client:UserTimeline")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"uid":     uid,
			"page":    fmt.Sprint(page),
			"feature": "0",
		}).
		Get("https://weibo.com/ajax/statuses/mymblog")
	if err != nil {
		return nil, err
	}
	if err := statusError(res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	posts := postsFromTimelineJSON(res.Body())
	for i := range posts {
		posts[i].UserID = uid
	}
	return posts, nil
}

func statusError(res *resty.Response) error {
	switch res.StatusCode() {
	case 200:
		return nil
	case 403:
		return fmt.Errorf("request rejected (403), cookie likely expired or account blocked")
	case 429:
		return fmt.Errorf("rate limited (429), slow down")
	default:
		return fmt.Errorf("unexpected status %d", res.StatusCode())
	}
}

func postsFromTimelineJSON(body []byte) []Post {
	var posts []Post
	gjson.GetBytes(body, "data.list").ForEach(func(_, mblog gjson.Result) bool {
		posts = append(posts, postFromMblog(mblog))
		return true
	})
	return posts
}

func postFromMblog(mblog gjson.Result) Post {
	id := mblog.Get("idstr").String()
	if id == "" {
		id = mblog.Get("id").String()
	}
	content := mblog.Get("text_raw").String()
	if content == "" {
		content = mblog.Get("text").String()
	}

	post := Post{
		ID:          id,
		Content:     content,
		PublishTime: mblog.Get("created_at").String(),
		// counters coerce to 0 when missing or non-numeric
		RepostsCount:   nonNegative(mblog.Get("reposts_count").Int()),
		CommentsCount:  nonNegative(mblog.Get("comments_count").Int()),
		AttitudesCount: nonNegative(mblog.Get("attitudes_count").Int()),
		UserName:       mblog.Get("user.screen_name").String(),
		PostLink:       PostLink(id),
	}

	picInfos := mblog.Get("pic_infos")
	mblog.Get("pic_ids").ForEach(func(_, picID gjson.Result) bool {
		url := picInfos.Get(picID.String() + ".large.url").String()
		if url != "" {
			post.ImageURLs = append(post.ImageURLs, url)
		}
		return true
	})
	sort.Strings(post.ImageURLs)
	post.HasImages = mblog.Get("pic_num").Int() > 0 || len(post.ImageURLs) > 0

	if mblog.Get("page_info.type").String() == "video" {
		post.HasVideos = true
		if url := mblog.Get("page_info.media_info.stream_url").String(); url != "" {
			post.VideoURLs = append(post.VideoURLs, url)
		}
	}

	return post
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
