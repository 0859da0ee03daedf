package image

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmorgan81/dreamwriter/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDezgoGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("sends params and returns image with seed", func(t *testing.T) {
		var got dezgoRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "secret", r.Header.Get("X-Dezgo-Key"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("x-input-seed", "3735928559")
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer srv.Close()

		seed := int64(99)
		g := &DezgoGenerator{Client: srv.Client(), URL: srv.URL, Key: "secret", Model: "epic"}
		res, err := g.Generate(ctx, prompt.Params{
			Prompt:      "owl",
			Steps:       30,
			Width:       512,
			Height:      768,
			CfgScale:    7.5,
			SamplerName: "k_lms",
			Seed:        &seed,
		})

		require.NoError(t, err)
		assert.Equal(t, Result{Data: []byte("png-bytes"), Seed: 3735928559}, res)
		assert.Equal(t, dezgoRequest{
			Prompt:   "owl",
			Model:    "epic",
			Steps:    30,
			Width:    512,
			Height:   768,
			Guidance: 7.5,
			Sampler:  "k_lms",
			Seed:     "99",
		}, got)
	})

	t.Run("non 2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		g := &DezgoGenerator{Client: srv.Client(), URL: srv.URL}
		_, err := g.Generate(ctx, prompt.Params{Prompt: "owl"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("missing seed header is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("png-bytes"))
		}))
		defer srv.Close()

		g := &DezgoGenerator{Client: srv.Client(), URL: srv.URL}
		_, err := g.Generate(ctx, prompt.Params{Prompt: "owl"})

		assert.ErrorContains(t, err, "seed")
	})
}
