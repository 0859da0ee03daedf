package store

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/samber/lo"
)

// ObjectPutter is the part of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader mirrors files into a bucket under Prefix, keyed by base name.
type S3Uploader struct {
	Client ObjectPutter
	Bucket string
	Prefix string
}

func (u *S3Uploader) Key(name string) string {
	return path.Join(u.Prefix, filepath.Base(name))
}

func (u *S3Uploader) Upload(ctx context.Context, params UploadParams) error {
	key := u.Key(params.Name)
	log := log.FromContextOrDiscard(ctx).WithGroup("s3").With(
		"key", key,
		"content-type", params.ContentType,
		"bucket", u.Bucket,
	)
	log.Info("uploading to s3")

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.Bucket),
		Key:          aws.String(key),
		ContentType:  aws.String(params.ContentType),
		Body:         bytes.NewReader(params.Data),
		Metadata:     params.Metadata,
		StorageClass: s3types.StorageClassIntelligentTiering,
	})
	return err
}

// InvalidationCreator is the part of *cloudfront.Client the invalidator needs.
type InvalidationCreator interface {
	CreateInvalidation(context.Context, *cloudfront.CreateInvalidationInput, ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// CloudFrontInvalidator invalidates the mirrored objects of local files,
// keyed the same way as S3Uploader.
type CloudFrontInvalidator struct {
	Client       InvalidationCreator
	Distribution string
	Prefix       string
}

func (i *CloudFrontInvalidator) Invalidate(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	paths := lo.Map(files, func(f string, _ int) string {
		return "/" + path.Join(i.Prefix, filepath.Base(f))
	})
	log := log.FromContextOrDiscard(ctx).WithGroup("cloudfront").With("paths", paths, "distribution", i.Distribution)
	log.Info("invalidating paths in cloudfront")

	_, err := i.Client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(i.Distribution),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(time.Now().UTC().Format("20060102150405.000000000")),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	return err
}
