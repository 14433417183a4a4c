package mediastore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weibolens-backend/lib/mediastore/db"
	"weibolens-backend/lib/testutil"
	"weibolens-backend/lib/weibo"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (Store, *httptest.Server) {
	service, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "mediastore",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	t.Cleanup(func() { service.DB.Close() })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/same"):
			// two urls, one payload
			w.Write([]byte("identical image bytes"))
		case r.URL.Path == "/missing.jpg":
			w.WriteHeader(404)
		default:
			w.Write([]byte("payload for " + r.URL.Path))
		}
	}))
	t.Cleanup(server.Close)

	return NewStore(service.DB, resty.New(), t.TempDir()), server
}

func TestDownloadImages(t *testing.T) {
	store, server := setupStore(t)
	ctx := context.Background()

	post := weibo.Post{
		ID:      "100",
		Keyword: "科技",
		ImageURLs: []string{
			server.URL + "/a.jpg",
			server.URL + "/b.png",
		},
	}

	stored, err := store.DownloadImages(ctx, post)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	for _, media := range stored {
		require.Equal(t, "100", media.PostID)
		require.Equal(t, "科技", media.Keyword)
		require.FileExists(t, media.Path)
	}
	require.Equal(t, ".jpg", filepath.Ext(stored[0].Path))
	require.Equal(t, ".png", filepath.Ext(stored[1].Path))
}

func TestDownloadImagesDeduplicates(t *testing.T) {
	store, server := setupStore(t)
	ctx := context.Background()

	first, err := store.DownloadImages(ctx, weibo.Post{
		ID:        "1",
		Keyword:   "科技",
		ImageURLs: []string{server.URL + "/same/one.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// same payload under a different url and post
	second, err := store.DownloadImages(ctx, weibo.Post{
		ID:        "2",
		Keyword:   "娱乐",
		ImageURLs: []string{server.URL + "/same/two.jpg"},
	})
	require.NoError(t, err)
	require.Empty(t, second)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDownloadImagesSkipsFailures(t *testing.T) {
	store, server := setupStore(t)
	ctx := context.Background()

	stored, err := store.DownloadImages(ctx, weibo.Post{
		ID:      "1",
		Keyword: "科技",
		ImageURLs: []string{
			server.URL + "/missing.jpg",
			server.URL + "/ok.jpg",
		},
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, server.URL+"/ok.jpg", stored[0].SourceURL)
}

func TestStats(t *testing.T) {
	store, server := setupStore(t)
	ctx := context.Background()

	_, err := store.DownloadImages(ctx, weibo.Post{
		ID:      "1",
		Keyword: "科技",
		ImageURLs: []string{
			server.URL + "/a.jpg",
			server.URL + "/b.jpg",
		},
	})
	require.NoError(t, err)
	_, err = store.DownloadImages(ctx, weibo.Post{
		ID:        "2",
		Keyword:   "娱乐",
		ImageURLs: []string{server.URL + "/c.jpg"},
	})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, []KeywordStats{
		{Keyword: "科技", Count: 2},
		{Keyword: "娱乐", Count: 1},
	}, stats)

	tech, err := store.ListByKeyword(ctx, "科技")
	require.NoError(t, err)
	require.Len(t, tech, 2)
	for _, media := range tech {
		require.Equal(t, "科技", media.Keyword)
	}
}

func TestWriteGallery(t *testing.T) {
	store, server := setupStore(t)
	ctx := context.Background()

	_, err := store.DownloadImages(ctx, weibo.Post{
		ID:        "1",
		Keyword:   "科技",
		ImageURLs: []string{server.URL + "/a.jpg"},
	})
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "gallery.html")
	require.NoError(t, store.WriteGallery(ctx, file))

	contents, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(contents), "科技")
	require.Contains(t, string(contents), `<img src=`)
}
