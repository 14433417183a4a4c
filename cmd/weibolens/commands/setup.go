package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"weibolens-backend/lib/analysis"
	"weibolens-backend/lib/configutil"
	"weibolens-backend/lib/dedup"
	dedupdb "weibolens-backend/lib/dedup/db"
	"weibolens-backend/lib/mediastore"
	mediadb "weibolens-backend/lib/mediastore/db"
	"weibolens-backend/lib/weibo"
	"weibolens-backend/services/spider"

	_ "modernc.org/sqlite"
)

type crawlEnv struct {
	config  spider.Config
	service spider.Service
	seen    *dedup.Set
	store   dedup.Store
	media   *mediastore.Store
	close   func()
}

// setupCrawl wires the full crawling stack: config, scrape client,
// analyzer, persistent seen-set and the optional media store.
func setupCrawl(ctx context.Context) (*crawlEnv, error) {
	config, err := configutil.ReadConfig[spider.Config](*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if config.Cookie == "" {
		slog.WarnContext(ctx, "no cookie configured, expect rate limiting and missing results")
	}

	client := weibo.NewClient(weibo.ClientOptions{
		Cookie:    config.Cookie,
		UserAgent: config.UserAgent,
		DebugDir:  config.DebugDir,
	})

	analyzer, err := analysis.New(analysis.Options{})
	if err != nil {
		return nil, err
	}

	env := &crawlEnv{config: config}

	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "results"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	seenDb, err := openDatabase(filepath.Join(outputDir, "seen.db"), dedupdb.Schema)
	if err != nil {
		return nil, err
	}
	env.store = dedup.NewStore(seenDb)
	env.seen, err = env.store.Load(ctx)
	if err != nil {
		seenDb.Close()
		return nil, err
	}

	var mediaDb *sql.DB
	if config.MediaDir != "" {
		if err := os.MkdirAll(config.MediaDir, 0755); err != nil {
			seenDb.Close()
			return nil, err
		}
		mediaDb, err = openDatabase(filepath.Join(config.MediaDir, "media.db"), mediadb.Schema)
		if err != nil {
			seenDb.Close()
			return nil, err
		}
		store := mediastore.NewStore(mediaDb, client.Http, config.MediaDir)
		env.media = &store
	}

	env.service = spider.NewService(spider.ServiceOptions{
		Config:   config,
		Fetcher:  client,
		Analyzer: analyzer,
		Seen:     env.seen,
		Media:    env.media,
	})
	env.close = func() {
		seenDb.Close()
		if mediaDb != nil {
			mediaDb.Close()
		}
	}
	return env, nil
}

// persistSeen writes every id discovered this run back to the seen
// database so later runs skip them.
func (e *crawlEnv) persistSeen(ctx context.Context) {
	for _, id := range e.seen.Members() {
		if err := e.store.MarkPost(ctx, id); err != nil {
			slog.WarnContext(ctx, "failed to persist seen id", "id", id, "err", err)
			return
		}
	}
}

func openDatabase(path, schema string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
