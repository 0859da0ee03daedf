package feed

import (
	"context"
	"strings"
	"time"

	"github.com/dmorgan81/dreamwriter/internal/catalog"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
)

type Generator struct {
	dir     string
	baseURL string
}

func NewGenerator(i *do.Injector) (*Generator, error) {
	dir := do.MustInvokeNamed[string](i, "outdir")
	baseURL := do.MustInvokeNamed[string](i, "feed_base_url")
	return &Generator{dir, baseURL}, nil
}

func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("feed")
	log.Info("generating rss feed", "dir", g.dir)

	entries, err := catalog.Load(ctx, g.dir)
	if err != nil {
		return nil, err
	}

	feed := feeds.Feed{
		Title:       "dreamwriter",
		Description: "Generated images and the prompts that made them",
		Link:        &feeds.Link{Href: g.baseURL},
		Updated:     time.Now(),
	}
	for _, e := range entries {
		href := strings.TrimSuffix(g.baseURL, "/") + "/" + e.File
		feed.Add(&feeds.Item{
			Id:          href,
			Title:       e.File,
			Description: e.Prompt,
			Link:        &feeds.Link{Href: href},
			Updated:     e.Modified,
		})
	}

	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.After(b.Updated)
	})
	rss, err := feed.ToRss()
	return []byte(rss), err
}
