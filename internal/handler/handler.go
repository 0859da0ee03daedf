package handler

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmorgan81/dreamwriter/internal/grid"
	"github.com/dmorgan81/dreamwriter/internal/image"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/dmorgan81/dreamwriter/internal/namer"
	"github.com/dmorgan81/dreamwriter/internal/prompt"
	"github.com/dmorgan81/dreamwriter/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

type Input struct {
	Params     prompt.Params `json:"params"`
	Iterations int           `json:"iterations,omitempty"`
	Grid       bool          `json:"grid,omitempty"`
}

type Output struct {
	Prompt string             `json:"prompt"`
	Files  []namer.FileRecord `json:"files"`
}

type Handler struct {
	outdir      string
	defaults    prompt.Defaults
	generator   image.Generator
	saver       namer.ImageSaver
	invalidator store.Invalidator
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		outdir:      do.MustInvokeNamed[string](i, "outdir"),
		defaults:    do.MustInvoke[prompt.Defaults](i),
		generator:   do.MustInvoke[image.Generator](i),
		saver:       do.MustInvoke[namer.ImageSaver](i),
		invalidator: do.MustInvoke[store.Invalidator](i),
	}, nil
}

func (h *Handler) Handle(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("handler").With("input", input)
	log.Info("handling generation request")

	iterations := max(input.Iterations, 1)
	params := prompt.Resolve(input.Params, h.defaults)
	normalized := prompt.Normalize(input.Params, h.defaults)

	writer, err := namer.NewWriter(ctx, h.outdir, normalized, lo.Ternary(input.Grid, 1, iterations), h.saver)
	if err != nil {
		return Output{}, err
	}

	images := make([]stdimage.Image, 0, iterations)
	seeds := make([]int64, 0, iterations)
	for n := 0; n < iterations; n++ {
		res, err := h.generator.Generate(ctx, params)
		if err != nil {
			return Output{}, fmt.Errorf("generate image %d of %d: %w", n+1, iterations, err)
		}
		img, _, err := stdimage.Decode(bytes.NewReader(res.Data))
		if err != nil {
			return Output{}, fmt.Errorf("decode image %d of %d: %w", n+1, iterations, err)
		}
		images = append(images, img)
		seeds = append(seeds, res.Seed)

		if params.Seed != nil {
			params.Seed = lo.ToPtr(*params.Seed + 1)
		}
	}

	if input.Grid {
		composite, err := grid.MakeGrid(images, 0, 0)
		if err != nil {
			return Output{}, err
		}
		writer.WriteImage(ctx, composite, seeds[0], false)
	} else {
		for n, img := range images {
			writer.WriteImage(ctx, img, seeds[n], false)
		}
	}

	files := writer.Files()
	log.Info("wrote images", "written", len(files), "generated", len(images))

	paths := lo.Map(files, func(f namer.FileRecord, _ int) string { return f.Path })
	if err := h.invalidator.Invalidate(ctx, paths); err != nil {
		return Output{}, err
	}

	return Output{Prompt: normalized, Files: files}, nil
}
