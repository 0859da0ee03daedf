package page

import (
	"context"
	"testing"

	"github.com/dmorgan81/dreamwriter/internal/catalog"
	"github.com/dmorgan81/dreamwriter/internal/namer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplator_Template(t *testing.T) {
	ctx := context.Background()
	g := &Templator{}

	t.Run("lists entries with escaped prompts", func(t *testing.T) {
		html, err := g.Template(ctx, Params{
			Title: "outputs",
			Entries: []catalog.Entry{
				{Name: namer.Name{Base: 1, Seed: 42}, File: "000001.42.png", Prompt: `"owl <3" -S42`},
			},
		})

		require.NoError(t, err)
		out := string(html)
		assert.Contains(t, out, `<img src="000001.42.png"`)
		assert.Contains(t, out, "seed 42")
		assert.Contains(t, out, "owl &lt;3")
		assert.NotContains(t, out, "owl <3")
	})

	t.Run("empty catalog", func(t *testing.T) {
		html, err := g.Template(ctx, Params{Title: "outputs"})

		require.NoError(t, err)
		assert.Contains(t, string(html), "No images yet.")
	})
}
