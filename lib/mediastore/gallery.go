package mediastore

import (
	"context"
	"html/template"
	"os"
	"path/filepath"
	"sort"
)

var galleryTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>媒体图库</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #fafafa; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3rem; }
.grid { display: flex; flex-wrap: wrap; gap: 12px; }
.grid figure { margin: 0; width: 220px; }
.grid img { width: 100%; border-radius: 4px; display: block; }
figcaption { font-size: 0.75rem; color: #666; word-break: break-all; }
</style>
</head>
<body>
<h1>媒体图库</h1>
{{range .Sections}}
<h2>{{.Keyword}} ({{len .Items}})</h2>
<div class="grid">
{{range .Items}}
<figure>
<img src="{{.Path}}" loading="lazy" alt="{{.PostID}}">
<figcaption>{{.PostID}}</figcaption>
</figure>
{{end}}
</div>
{{end}}
</body>
</html>
`))

type gallerySection struct {
	Keyword string
	Items   []galleryItem
}

type galleryItem struct {
	// relative to the gallery file so the page works when the media
	// directory moves
	Path   string
	PostID string
}

// WriteGallery renders every stored image into a single static HTML
// page at file, grouped by keyword.
func (s Store) WriteGallery(ctx context.Context, file string) error {
	media, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(file)
	byKeyword := make(map[string][]galleryItem)
	for _, m := range media {
		rel, err := filepath.Rel(baseDir, m.Path)
		if err != nil {
			rel = m.Path
		}
		byKeyword[m.Keyword] = append(byKeyword[m.Keyword], galleryItem{
			Path:   filepath.ToSlash(rel),
			PostID: m.PostID,
		})
	}

	keywords := make([]string, 0, len(byKeyword))
	for keyword := range byKeyword {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	var sections []gallerySection
	for _, keyword := range keywords {
		sections = append(sections, gallerySection{
			Keyword: keyword,
			Items:   byKeyword[keyword],
		})
	}

	out, err := os.Create(file)
	if err != nil {
		return err
	}
	defer out.Close()

	return galleryTemplate.Execute(out, struct {
		Sections []gallerySection
	}{Sections: sections})
}
