package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dmorgan81/dreamwriter/internal/catalog"
	"github.com/dmorgan81/dreamwriter/internal/config"
	"github.com/dmorgan81/dreamwriter/internal/feed"
	"github.com/dmorgan81/dreamwriter/internal/handler"
	"github.com/dmorgan81/dreamwriter/internal/inject"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/dmorgan81/dreamwriter/internal/page"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/samber/lo"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, cfg)
	defer func() { _ = injector.Shutdown() }()

	if err := run(ctx, injector, cfg, os.Args[1:]); err != nil {
		logger.Error("dreamwriter failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, injector *do.Injector, cfg config.Config, args []string) error {
	switch subcommand(args) {
	case "feed":
		rss, err := do.MustInvoke[*feed.Generator](injector).Generate(ctx)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(rss)
		return err
	case "page":
		entries, err := catalog.Load(ctx, cfg.OutDir)
		if err != nil {
			return err
		}
		html, err := do.MustInvoke[*page.Templator](injector).Template(ctx, page.Params{
			Title:   filepath.Base(cfg.OutDir),
			Entries: entries,
		})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(html)
		return err
	}

	input, err := parseInput(args)
	if err != nil {
		return err
	}
	out, err := do.MustInvoke[*handler.Handler](injector).Handle(ctx, input)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var subcommands = []string{"feed", "page"}

// subcommand reports a reserved first word. A prompt that is exactly one of
// them is passed after "--".
func subcommand(args []string) string {
	if len(args) == 1 && lo.Contains(subcommands, args[0]) {
		return args[0]
	}
	return ""
}

func parseInput(args []string) (handler.Input, error) {
	var (
		input   handler.Input
		seed    int64
		upscale string
	)
	fs := flag.NewFlagSet("dreamwriter", flag.ContinueOnError)
	fs.IntVar(&input.Iterations, "n", 1, "number of images to generate")
	fs.BoolVar(&input.Grid, "g", false, "write all images as one grid")
	fs.IntVar(&input.Params.Steps, "s", 0, "sampler steps")
	fs.IntVar(&input.Params.Width, "W", 0, "image width")
	fs.IntVar(&input.Params.Height, "H", 0, "image height")
	fs.Float64Var(&input.Params.CfgScale, "C", 0, "classifier free guidance scale")
	fs.StringVar(&input.Params.SamplerName, "A", "", "sampler name")
	fs.StringVar(&input.Params.InitImg, "I", "", "init image path")
	fs.Float64Var(&input.Params.Strength, "f", 0, "init image strength")
	fs.Float64Var(&input.Params.GfpganStrength, "G", 0, "face restoration strength")
	fs.StringVar(&upscale, "U", "", "comma separated upscale factors")
	fs.Int64Var(&seed, "S", -1, "seed, negative for random")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: dreamwriter [flags] prompt...\n       dreamwriter %s\n\n", strings.Join(subcommands, "|"))
		fmt.Fprintf(fs.Output(), "%s are reserved as a lone first argument; use \"dreamwriter -- feed\" to generate that prompt.\n\n", strings.Join(subcommands, " and "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return handler.Input{}, err
	}

	input.Params.Prompt = strings.Join(fs.Args(), " ")
	if input.Params.Prompt == "" {
		return handler.Input{}, fmt.Errorf("a prompt is required")
	}
	if seed >= 0 {
		input.Params.Seed = lo.ToPtr(seed)
	}
	for _, u := range lo.Without(strings.Split(upscale, ","), "") {
		f, err := strconv.ParseFloat(strings.TrimSpace(u), 64)
		if err != nil {
			return handler.Input{}, fmt.Errorf("upscale factor %q: %w", u, err)
		}
		input.Params.Upscale = append(input.Params.Upscale, f)
	}
	return input, nil
}
