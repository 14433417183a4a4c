package spider

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"weibolens-backend/lib/analysis"
	"weibolens-backend/lib/weibo"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

const reportTimestampLayout = "20060102_150405"

var csvHeader = []string{
	"keyword", "type", "weibo_id", "content", "publish_time",
	"reposts_count", "comments_count", "attitudes_count",
	"post_link", "has_images", "has_videos",
	"image_urls", "video_urls", "user_id", "user_name",
	"content_score",
}

func (s Service) writeReports(ctx context.Context, keyword string, result *analysis.Result) error {
	if err := os.MkdirAll(s.config.OutputDir, 0755); err != nil {
		return err
	}
	now := time.Now().Format(reportTimestampLayout)

	csvFile := filepath.Join(s.config.OutputDir, fmt.Sprintf("%s_%s.csv", keyword, now))
	if err := WritePostsCSV(csvFile, result.Posts); err != nil {
		return err
	}

	jsonFile := filepath.Join(s.config.OutputDir, fmt.Sprintf("%s_%s_analysis.json", keyword, now))
	if err := WriteAnalysisJSON(jsonFile, result); err != nil {
		return err
	}

	reportFile := filepath.Join(s.config.OutputDir, fmt.Sprintf("%s_%s_report.txt", keyword, now))
	if err := os.WriteFile(reportFile, []byte(TrendReport(keyword, result)), 0644); err != nil {
		return err
	}

	slog.InfoContext(
		ctx, "wrote keyword reports",
		"keyword", keyword,
		"csv", csvFile,
		"filtered", result.FilteredCount,
	)
	return nil
}

func (s Service) writeUserReport(ctx context.Context, result UserResult) error {
	if err := os.MkdirAll(s.config.OutputDir, 0755); err != nil {
		return err
	}
	file := filepath.Join(s.config.OutputDir, fmt.Sprintf(
		"user_%s_%s.csv",
		result.User, time.Now().Format(reportTimestampLayout),
	))
	if err := WritePostsCSV(file, result.Posts); err != nil {
		return err
	}
	slog.InfoContext(
		ctx, "wrote user report",
		"user", result.User,
		"posts", len(result.Posts),
		"csv", file,
	)
	return nil
}

func WritePostsCSV(file string, posts []weibo.Post) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, post := range posts {
		record := []string{
			post.Keyword,
			post.Type,
			post.ID,
			post.Content,
			post.PublishTime,
			strconv.FormatInt(post.RepostsCount, 10),
			strconv.FormatInt(post.CommentsCount, 10),
			strconv.FormatInt(post.AttitudesCount, 10),
			post.PostLink,
			strconv.FormatBool(post.HasImages),
			strconv.FormatBool(post.HasVideos),
			strings.Join(post.ImageURLs, "|"),
			strings.Join(post.VideoURLs, "|"),
			post.UserID,
			post.UserName,
			strconv.FormatFloat(post.ContentScore, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadPostsCSV reads a previously exported CSV back into posts, e.g.
// for re-analysis under different thresholds. Malformed numeric fields
// coerce to zero.
func ReadPostsCSV(file string) ([]weibo.Post, error) {
	in, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = len(csvHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", file)
	}

	var posts []weibo.Post
	for _, record := range records[1:] {
		posts = append(posts, weibo.Post{
			Keyword:        record[0],
			Type:           record[1],
			ID:             record[2],
			Content:        record[3],
			PublishTime:    record[4],
			RepostsCount:   parseCount(record[5]),
			CommentsCount:  parseCount(record[6]),
			AttitudesCount: parseCount(record[7]),
			PostLink:       record[8],
			HasImages:      record[9] == "true",
			HasVideos:      record[10] == "true",
			ImageURLs:      splitList(record[11]),
			VideoURLs:      splitList(record[12]),
			UserID:         record[13],
			UserName:       record[14],
			ContentScore:   parseScore(record[15]),
		})
	}
	return posts, nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseScore(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

func WriteAnalysisJSON(file string, result *analysis.Result) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

func ReadAnalysisJSON(file string) (*analysis.Result, error) {
	in, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var result analysis.Result
	if err := json.NewDecoder(in).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrendReport renders a human-readable summary of one keyword's
// analysis.
func TrendReport(keyword string, result *analysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "关键词: %s\n", keyword)
	fmt.Fprintf(&b, "抓取 %s 条，筛选后保留 %s 条\n",
		humanize.Comma(int64(result.OriginalCount)),
		humanize.Comma(int64(result.FilteredCount)),
	)
	fmt.Fprintf(&b, "筛选条件: 点赞 >= %d, 评论 >= %d, 转发 >= %d\n",
		result.Criteria.MinLikes,
		result.Criteria.MinComments,
		result.Criteria.MinForwards,
	)

	if len(result.Clusters) > 0 {
		b.WriteString("\n话题聚类:\n")
		for _, cluster := range result.Clusters {
			fmt.Fprintf(&b, "  #%d (%d 条): %s\n",
				cluster.Label,
				len(cluster.Posts),
				strings.Join(cluster.Keywords, " / "),
			)
		}
		if result.ExcludedEmpty > 0 {
			fmt.Fprintf(&b, "  （%d 条内容为空，未参与聚类）\n", result.ExcludedEmpty)
		}
	}

	if len(result.Trending) > 0 {
		b.WriteString("\n热门话题:\n")
		b.WriteString(TrendingTable(result.Trending))
		b.WriteString("\n")
	}
	return b.String()
}

// TrendingTable renders trending topics as an aligned text table.
func TrendingTable(topics []analysis.TrendingTopic) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"关键词", "热度", "条数", "平均点赞", "平均评论", "平均转发"})
	for _, topic := range topics {
		t.AppendRow(table.Row{
			topic.Keyword,
			fmt.Sprintf("%.1f", topic.Score),
			topic.PostCount,
			humanize.CommafWithDigits(topic.AvgLikes, 0),
			humanize.CommafWithDigits(topic.AvgComments, 0),
			humanize.CommafWithDigits(topic.AvgForwards, 0),
		})
	}
	return t.Render()
}
