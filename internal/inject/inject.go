package inject

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/dreamwriter/internal/config"
	"github.com/dmorgan81/dreamwriter/internal/feed"
	"github.com/dmorgan81/dreamwriter/internal/handler"
	"github.com/dmorgan81/dreamwriter/internal/image"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/dmorgan81/dreamwriter/internal/namer"
	"github.com/dmorgan81/dreamwriter/internal/page"
	"github.com/dmorgan81/dreamwriter/internal/param"
	"github.com/dmorgan81/dreamwriter/internal/prompt"
	"github.com/dmorgan81/dreamwriter/internal/store"
	"github.com/samber/do"
)

func Setup(ctx context.Context, cfg config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: 3 * time.Minute})

	do.ProvideValue[prompt.Defaults](injector, cfg.Defaults)
	do.ProvideNamedValue[string](injector, "outdir", cfg.OutDir)
	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.ProvideNamed[string](injector, "dezgo_key", func(i *do.Injector) (string, error) {
		if cfg.DezgoKeyParam == "" {
			return cfg.DezgoKey, nil
		}
		return do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.DezgoKeyParam)
	})
	do.ProvideNamedValue[string](injector, "dezgo_url", cfg.DezgoURL)
	do.ProvideNamedValue[string](injector, "dezgo_model", cfg.DezgoModel)
	do.ProvideNamedValue[string](injector, "feed_base_url", cfg.FeedBaseURL)

	do.Provide[store.Uploader](injector, func(i *do.Injector) (store.Uploader, error) {
		if cfg.Bucket == "" {
			return &store.FileUploader{}, nil
		}
		return store.MultiUploader{
			&store.FileUploader{},
			&store.S3Uploader{Client: do.MustInvoke[*s3.Client](i), Bucket: cfg.Bucket, Prefix: cfg.BucketPrefix},
		}, nil
	})
	do.Provide[store.Invalidator](injector, func(i *do.Injector) (store.Invalidator, error) {
		if cfg.Distribution == "" {
			return store.NopInvalidator{}, nil
		}
		return &store.CloudFrontInvalidator{
			Client:       do.MustInvoke[*cloudfront.Client](i),
			Distribution: cfg.Distribution,
			Prefix:       cfg.BucketPrefix,
		}, nil
	})
	do.Provide[namer.ImageSaver](injector, func(i *do.Injector) (namer.ImageSaver, error) {
		return &namer.PNGSaver{Uploader: do.MustInvoke[store.Uploader](i)}, nil
	})

	do.Provide[image.Generator](injector, image.NewDezgoGenerator)
	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[*feed.Generator](injector, feed.NewGenerator)
	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}
