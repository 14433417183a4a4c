// Package mediastore downloads post images into a content-addressed
// directory, deduplicating by payload hash so the same picture reposted
// under many urls is stored once.
package mediastore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"weibolens-backend/lib/dedup"
	"weibolens-backend/lib/weibo"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("mediastore")

type Store struct {
	db   *sql.DB
	http *resty.Client
	dir  string
}

// NewStore stores downloads under dir, indexed in database. The http
// client is shared with the scraper so media requests carry the same
// cookies and rate limiting.
func NewStore(database *sql.DB, http *resty.Client, dir string) Store {
	return Store{db: database, http: http, dir: dir}
}

type Media struct {
	Hash         string
	PostID       string
	Keyword      string
	SourceURL    string
	Path         string
	DownloadedAt time.Time
}

// DownloadImages fetches every image of a post, skipping payloads whose
// content hash is already stored. Individual download failures are
// logged and skipped, the post's remaining images still get stored.
// Returns the media records stored for this call.
func (s Store) DownloadImages(ctx context.Context, post weibo.Post) ([]Media, error) {
	ctx, span := tracer.Start(ctx, "mediastore:DownloadImages")
	defer span.End()

	var stored []Media
	for _, url := range post.ImageURLs {
		media, err := s.downloadOne(ctx, post, url)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to download image",
				"post", post.ID,
				"url", url,
				"err", err,
			)
			continue
		}
		if media != nil {
			stored = append(stored, *media)
		}
	}
	return stored, nil
}

// downloadOne returns (nil, nil) for duplicate content.
func (s Store) downloadOne(ctx context.Context, post weibo.Post, url string) (*Media, error) {
	res, err := s.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode())
	}

	payload := res.Body()
	hash := dedup.ContentHash(payload)

	seen, err := s.seen(ctx, hash)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, nil
	}

	keyword := post.Keyword
	if keyword == "" {
		keyword = "uncategorized"
	}
	dir := filepath.Join(s.dir, keyword)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	file := filepath.Join(dir, hash+extensionOf(url))
	if err := os.WriteFile(file, payload, 0644); err != nil {
		return nil, err
	}

	media := Media{
		Hash:         hash,
		PostID:       post.ID,
		Keyword:      keyword,
		SourceURL:    url,
		Path:         file,
		DownloadedAt: time.Now(),
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO media (hash, post_id, keyword, source_url, path, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		media.Hash, media.PostID, media.Keyword, media.SourceURL, media.Path,
		media.DownloadedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to index downloaded media: %w", err)
	}
	return &media, nil
}

func (s Store) seen(ctx context.Context, hash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM media WHERE hash = ?", hash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByKeyword returns stored media grouped under one keyword, newest
// first.
func (s Store) ListByKeyword(ctx context.Context, keyword string) ([]Media, error) {
	return s.list(
		ctx,
		`SELECT hash, post_id, keyword, source_url, path, downloaded_at
		 FROM media WHERE keyword = ? ORDER BY downloaded_at DESC, hash`,
		keyword,
	)
}

func (s Store) ListAll(ctx context.Context) ([]Media, error) {
	return s.list(
		ctx,
		`SELECT hash, post_id, keyword, source_url, path, downloaded_at
		 FROM media ORDER BY keyword, downloaded_at DESC, hash`,
	)
}

func (s Store) list(ctx context.Context, query string, args ...any) ([]Media, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Media
	for rows.Next() {
		var m Media
		var downloadedAt int64
		err := rows.Scan(&m.Hash, &m.PostID, &m.Keyword, &m.SourceURL, &m.Path, &downloadedAt)
		if err != nil {
			return nil, err
		}
		m.DownloadedAt = time.Unix(downloadedAt, 0)
		result = append(result, m)
	}
	return result, rows.Err()
}

type KeywordStats struct {
	Keyword string
	Count   int
}

func (s Store) Stats(ctx context.Context) ([]KeywordStats, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT keyword, COUNT(*) FROM media GROUP BY keyword ORDER BY COUNT(*) DESC, keyword",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []KeywordStats
	for rows.Next() {
		var s KeywordStats
		if err := rows.Scan(&s.Keyword, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func extensionOf(url string) string {
	url, _, _ = strings.Cut(url, "?")
	ext := path.Ext(url)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return strings.ToLower(ext)
	default:
		return ".jpg"
	}
}
