package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/dmorgan81/dreamwriter/internal/prompt"
	"github.com/samber/do"
)

type dezgoRequest struct {
	Prompt   string  `json:"prompt"`
	Model    string  `json:"model,omitempty"`
	Steps    int     `json:"steps,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Guidance float64 `json:"guidance,omitempty"`
	Sampler  string  `json:"sampler,omitempty"`
	Seed     string  `json:"seed,omitempty"`
}

type DezgoGenerator struct {
	Client *http.Client
	URL    string
	Key    string
	Model  string
}

func NewDezgoGenerator(i *do.Injector) (Generator, error) {
	return &DezgoGenerator{
		Client: do.MustInvoke[*http.Client](i),
		URL:    do.MustInvokeNamed[string](i, "dezgo_url"),
		Key:    do.MustInvokeNamed[string](i, "dezgo_key"),
		Model:  do.MustInvokeNamed[string](i, "dezgo_model"),
	}, nil
}

func (g *DezgoGenerator) Generate(ctx context.Context, params prompt.Params) (Result, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("dezgo").With("prompt", params.Prompt)
	log.Info("generating image via dezgo")

	req := dezgoRequest{
		Prompt:   params.Prompt,
		Model:    g.Model,
		Steps:    params.Steps,
		Width:    params.Width,
		Height:   params.Height,
		Guidance: params.CfgScale,
		Sampler:  params.SamplerName,
	}
	if params.Seed != nil {
		req.Seed = strconv.FormatInt(*params.Seed, 10)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Add("Content-Type", "application/json")
	httpReq.Header.Add("X-Dezgo-Key", g.Key)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("dezgo: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	seed, err := strconv.ParseInt(resp.Header.Get("x-input-seed"), 10, 64)
	if err != nil {
		return Result{}, fmt.Errorf("dezgo: bad seed header: %w", err)
	}
	log.Info("received image via dezgo", "seed", seed)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: data, Seed: seed}, nil
}
