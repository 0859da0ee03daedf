package page

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"sync"

	"github.com/dmorgan81/dreamwriter/internal/catalog"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/samber/do"
)

//go:embed assets/gallery.html
var galleryTmpl string

type Params struct {
	Title   string
	Entries []catalog.Entry
}

type Templator struct {
	tmpl *template.Template
	once sync.Once
}

func NewTemplator(*do.Injector) (*Templator, error) {
	return &Templator{}, nil
}

func (g *Templator) Template(ctx context.Context, params Params) ([]byte, error) {
	g.once.Do(func() {
		g.tmpl = template.Must(template.New("gallery").Parse(galleryTmpl))
	})

	log := log.FromContextOrDiscard(ctx).WithGroup("templator")
	log.Info("generating page", "entries", len(params.Entries))

	var data bytes.Buffer
	if err := g.tmpl.Execute(&data, params); err != nil {
		return nil, err
	}
	return data.Bytes(), nil
}
